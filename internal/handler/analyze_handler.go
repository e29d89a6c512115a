package handler

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmednasr/code-analyzer/server/internal/models"
	"github.com/ahmednasr/code-analyzer/server/internal/service"
)

// AnalyzeHandler wires HTTP → CodeService.Analyze.
type AnalyzeHandler struct {
	svc service.CodeService
}

// NewAnalyzeHandler creates an AnalyzeHandler.
func NewAnalyzeHandler(svc service.CodeService) *AnalyzeHandler {
	return &AnalyzeHandler{svc: svc}
}

// Register mounts POST /analyze on the supplied router.
func (h *AnalyzeHandler) Register(r fiber.Router) {
	r.Post("/analyze", h.analyze)
}

// analyze handles POST /analyze with a multipart "file" or a "code_text" form field.
func (h *AnalyzeHandler) analyze(c *fiber.Ctx) error {
	in, err := readAnalysisInput(c)
	if err != nil {
		return err
	}

	result, err := h.svc.Analyze(c.UserContext(), in)
	if err != nil {
		var inputErr *service.InputError
		if errors.As(err, &inputErr) {
			return fiber.NewError(fiber.StatusBadRequest, inputErr.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(result)
}

// readAnalysisInput collects the form fields. A missing file is not an error
// here; CodeService decides what a usable input is.
func readAnalysisInput(c *fiber.Ctx) (models.AnalysisInput, error) {
	in := models.AnalysisInput{
		CodeText: c.FormValue("code_text"),
		Filename: c.FormValue("filename"),
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return in, nil
	}

	f, err := fh.Open()
	if err != nil {
		return in, fiber.NewError(fiber.StatusBadRequest, "could not read uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return in, fiber.NewError(fiber.StatusBadRequest, "could not read uploaded file")
	}

	in.File = data
	in.HasFile = true
	in.Filename = fh.Filename
	return in, nil
}
