package models

import (
	"encoding/json"
	"fmt"
)

// Chat roles accepted in history.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatTurn is one caller-owned entry of the conversation history.
type ChatTurn struct {
	Role  string   `json:"role"`
	Parts []string `json:"parts"`
}

// UnmarshalJSON accepts parts both as plain strings and as {"text": "..."} objects,
// the two shapes Gemini-style clients send.
func (t *ChatTurn) UnmarshalJSON(data []byte) error {
	var raw struct {
		Role  string            `json:"role"`
		Parts []json.RawMessage `json:"parts"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parts := make([]string, 0, len(raw.Parts))
	for i, p := range raw.Parts {
		var text string
		if err := json.Unmarshal(p, &text); err == nil {
			parts = append(parts, text)
			continue
		}
		var obj struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(p, &obj); err != nil {
			return fmt.Errorf("parts[%d]: expected string or {\"text\": ...}", i)
		}
		parts = append(parts, obj.Text)
	}

	t.Role = raw.Role
	t.Parts = parts
	return nil
}

// ChatRequest is the payload for POST /chat. The server keeps no session:
// history travels with every turn.
type ChatRequest struct {
	History     []ChatTurn `json:"history"`
	Question    string     `json:"question"`
	CodeContext string     `json:"code_context"`
}

// ChatResponse is the reply of POST /chat.
type ChatResponse struct {
	Response string `json:"response"`
}
