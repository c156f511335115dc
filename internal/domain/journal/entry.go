package journal

import (
	"context"
	"fmt"
	"time"
)

// Level enum, dipakai buat styling di log panel
type Level string

const (
	LevelSystem  Level = "system"
	LevelSuccess Level = "success"
	LevelWarn    Level = "warn"
	LevelError   Level = "error"
)

// Entry is one human-readable lifecycle line.
type Entry struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Time      time.Time `json:"time"`
}

// String renders the entry the way the log panel shows it.
func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s", e.Time.Format("15:04:05"), e.Message)
}

// Sink receives every entry written to a journal.
type Sink interface {
	Append(ctx context.Context, e Entry) error
}
