package models

import (
	"encoding/json"
	"strconv"
)

// DefaultFilename is used when the code arrives as raw text.
const DefaultFilename = "snippet"

// Placeholder values for results the model did not produce in the expected format.
const (
	RawFormatSummary   = "Analysis completed but format was raw."
	FailedSummary      = "Analysis could not be completed."
	UnknownComplexity  = "Unknown"
	UnknownReadability = "N/A"
)

// AnalysisInput is what the caller submitted to POST /analyze before validation.
// File wins over CodeText when both are present.
type AnalysisInput struct {
	File     []byte
	HasFile  bool
	Filename string
	CodeText string
}

// AnalysisRequest is a validated piece of code ready to be sent to the model.
type AnalysisRequest struct {
	Content  string `json:"content"`
	Filename string `json:"filename"`
}

// AnalysisResult is the fixed response shape of POST /analyze.
type AnalysisResult struct {
	Summary         string          `json:"summary"`
	Explanation     string          `json:"explanation"`
	QualityAnalysis QualityAnalysis `json:"quality_analysis"`
	KeyComponents   []KeyComponent  `json:"key_components"`
	Error           string          `json:"error,omitempty"` // set only when the model call failed
}

// QualityAnalysis holds the model's code quality verdict.
type QualityAnalysis struct {
	Complexity       string   `json:"complexity"` // Low | Medium | High
	ReadabilityScore Score    `json:"readability_score"`
	Suggestions      []string `json:"suggestions"`
}

// KeyComponent is a function, type or class the model called out.
type KeyComponent struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Normalize fills nil sequences so the JSON encoding always carries arrays.
func (r *AnalysisResult) Normalize() {
	if r.KeyComponents == nil {
		r.KeyComponents = []KeyComponent{}
	}
	if r.QualityAnalysis.Suggestions == nil {
		r.QualityAnalysis.Suggestions = []string{}
	}
}

// Score is a readability score kept as text. Models emit it both as "7" and 7.
type Score string

// UnmarshalJSON accepts a JSON string, number or null.
func (s *Score) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = Score(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	if f, err := num.Float64(); err == nil && f == float64(int64(f)) {
		*s = Score(strconv.FormatInt(int64(f), 10))
		return nil
	}
	*s = Score(num.String())
	return nil
}
