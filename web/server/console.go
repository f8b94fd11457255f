package server

import (
	"fmt"
	"log"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Source    string    `json:"source"` // render or capture that produced the message
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger implements core.Logger by sending messages to a console channel
type WebLogger struct {
	source      string
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a new web logger for one render or capture
func NewWebLogger(source string, consoleChan chan<- ConsoleMessage) core.Logger {
	return &WebLogger{
		source:      source,
		consoleChan: consoleChan,
	}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	// Server log gets every message, tagged with its source
	log.Printf("[%s] %s", wl.source, message)

	if wl.consoleChan != nil {
		select {
		case wl.consoleChan <- ConsoleMessage{
			Source:    wl.source,
			Message:   message,
			Timestamp: time.Now(),
			Level:     "info",
		}:
		default:
			// Channel full, skip (don't block)
		}
	}
}
