package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ahmednasr/code-analyzer/server/internal/config"
	"github.com/ahmednasr/code-analyzer/server/internal/database"
	"github.com/ahmednasr/code-analyzer/server/internal/handler"
	"github.com/ahmednasr/code-analyzer/server/internal/logging"
	"github.com/ahmednasr/code-analyzer/server/internal/middleware"
	"github.com/ahmednasr/code-analyzer/server/internal/repository"
	"github.com/ahmednasr/code-analyzer/server/internal/service"
)

// main is the single entry‑point for the REST API.
func main() {
	// Load configuration; a missing credential stops the process here.
	cfg := config.Load()
	logging.Init(cfg.LogLevel, cfg.LogFormat)
	logrus.Infof("Configuration loaded: provider=%s model=%s", cfg.LLMProvider, modelName(cfg))

	ctx := context.Background()

	llm, err := newLLM(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize %s LLM: %v", cfg.LLMProvider, err)
	}
	if closer, ok := llm.(io.Closer); ok {
		defer closer.Close()
	}

	// Optional event log
	var (
		mongoClient *mongo.Client
		events      service.EventRepository
	)
	if cfg.MongoURI != "" {
		mongoClient, err = database.NewMongo(ctx, cfg.MongoURI)
		if err != nil {
			logrus.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer database.Disconnect(mongoClient)
		events = repository.NewEventRepository(mongoClient.Database(cfg.DBName))
		logrus.Infof("Event log enabled (database %s)", cfg.DBName)
	}

	// Initialize services
	analysisSvc := service.NewAnalysisService(llm)
	codeSvc := service.NewCodeService(analysisSvc, events)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BodyLimit:    cfg.BodyLimit(),
		ErrorHandler: handler.ErrorHandler,
	})

	// Add middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logging())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))

	// Register routes
	handler.RegisterRoutes(app, codeSvc, handler.NewHealthHandler(mongoClient, cfg.LLMProvider))

	// Start server
	serverErrors := make(chan error, 1)
	go func() {
		logrus.Infof("Server starting on port %s", cfg.Port)
		serverErrors <- app.Listen(":" + cfg.Port)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logrus.Errorf("Server failed: %v", err)
	case sig := <-shutdown:
		logrus.Infof("Starting shutdown (%s)", sig)
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			logrus.Errorf("Shutdown error: %v", err)
		}
	}
}

// newLLM builds the model backend selected by LLM_PROVIDER.
func newLLM(ctx context.Context, cfg config.Config) (service.LLM, error) {
	switch cfg.LLMProvider {
	case config.ProviderVertex:
		return service.NewVertexLLM(ctx, service.VertexOptions{
			ProjectID:       cfg.ProjectID,
			Location:        cfg.Location,
			Model:           cfg.GeminiModel,
			CredentialsFile: cfg.CredentialsFile,
			Temperature:     cfg.LLMTemperature,
		})
	case config.ProviderOllama:
		return service.NewOllamaLLM(cfg.OllamaHost, cfg.OllamaModel)
	case config.ProviderDummy:
		return service.NewDummyLLM(), nil
	default:
		return service.NewGeminiLLM(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel, cfg.LLMTemperature), nil
	}
}

func modelName(cfg config.Config) string {
	switch cfg.LLMProvider {
	case config.ProviderOllama:
		return cfg.OllamaModel
	case config.ProviderDummy:
		return "none"
	}
	return cfg.GeminiModel
}
