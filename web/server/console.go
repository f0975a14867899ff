package server

import (
	"fmt"
	"time"

	"github.com/df07/go-pathtrace/pkg/core"
)

// ConsoleMessage is a render log line forwarded to the web client
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
}

// WebLogger implements core.Logger by forwarding messages to the server log
// and to a per-render console channel feeding the SSE stream
type WebLogger struct {
	base        core.Logger
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a logger for a single render request. Both the base
// logger and the channel may be nil.
func NewWebLogger(base core.Logger, consoleChan chan<- ConsoleMessage) *WebLogger {
	return &WebLogger{base: base, consoleChan: consoleChan}
}

// Printf implements core.Logger
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	if wl.base != nil {
		wl.base.Printf("%s", message)
	}

	if wl.consoleChan == nil {
		return
	}
	// Never block the render on a slow console consumer
	select {
	case wl.consoleChan <- ConsoleMessage{Message: message, Timestamp: time.Now(), Level: "info"}:
	default:
	}
}
