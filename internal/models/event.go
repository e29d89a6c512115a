package models

import "time"

// Event kinds.
const (
	EventAnalyze = "analyze"
	EventChat    = "chat"
)

// AnalysisEvent is one line of the request event log. It records what kind of
// call happened and how it went, never the code, the model output or the history.
type AnalysisEvent struct {
	ID           string    `bson:"_id"           json:"id"`
	Kind         string    `bson:"kind"          json:"kind"`
	Filename     string    `bson:"filename"      json:"filename,omitempty"`
	ContentBytes int       `bson:"content_bytes" json:"content_bytes"`
	HistoryTurns int       `bson:"history_turns" json:"history_turns,omitempty"`
	Outcome      string    `bson:"outcome"       json:"outcome"`
	DurationMS   int64     `bson:"duration_ms"   json:"duration_ms"`
	CreatedAt    time.Time `bson:"created_at"    json:"created_at"`
}
