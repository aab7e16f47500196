package server

import (
	"encoding/json"
	"time"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // zerolog level name
}

// ConsoleWriter is a zerolog output that forwards every log line of a
// render to a console channel. Lines are dropped when the channel is full.
type ConsoleWriter struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
}

// NewConsoleWriter creates a console writer for a specific render
func NewConsoleWriter(renderID string, consoleChan chan<- ConsoleMessage) *ConsoleWriter {
	return &ConsoleWriter{
		renderID:    renderID,
		consoleChan: consoleChan,
	}
}

// Write decodes one zerolog JSON line
func (cw *ConsoleWriter) Write(p []byte) (int, error) {
	var entry map[string]interface{}
	if err := json.Unmarshal(p, &entry); err != nil {
		return 0, err
	}

	msg := ConsoleMessage{RenderID: cw.renderID, Timestamp: time.Now(), Level: "info"}
	if level, ok := entry["level"].(string); ok {
		msg.Level = level
	}
	if text, ok := entry["message"].(string); ok {
		msg.Message = text
	}
	if errText, ok := entry["error"].(string); ok {
		msg.Message += ": " + errText
	}

	select {
	case cw.consoleChan <- msg:
	default:
		// Channel full, skip
	}
	return len(p), nil
}
