// Package notify delivers non-fatal, user-visible notices such as
// "Message sent" or a failed storage write.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier receives notifications. Implementations must not block.
type Notifier interface {
	Notify(ctx context.Context, level Level, message string)
}

// Nop discards everything
type Nop struct{}

func (Nop) Notify(context.Context, Level, string) {}

// Logger writes notifications to a zerolog logger
type Logger struct {
	log zerolog.Logger
}

func NewLogger(l zerolog.Logger) *Logger {
	return &Logger{log: l.With().Str("component", "notify").Logger()}
}

func (l *Logger) Notify(_ context.Context, level Level, message string) {
	var ev *zerolog.Event
	switch level {
	case LevelError:
		ev = l.log.Warn()
	default:
		ev = l.log.Info()
	}
	ev.Str("level_name", string(level)).Msg(message)
}

// Feed keeps the most recent notifications in memory
type Feed struct {
	mu    sync.Mutex
	items []Notification
	limit int
	now   func() time.Time
}

// NewFeed creates a feed holding at most limit entries
func NewFeed(limit int, now func() time.Time) *Feed {
	if limit <= 0 {
		limit = 50
	}
	if now == nil {
		now = time.Now
	}
	return &Feed{limit: limit, now: now}
}

func (f *Feed) Notify(_ context.Context, level Level, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, Notification{Level: level, Message: message, At: f.now().UTC()})
	if over := len(f.items) - f.limit; over > 0 {
		f.items = append([]Notification(nil), f.items[over:]...)
	}
}

// Recent returns a copy of the feed, oldest first
func (f *Feed) Recent() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Notification, len(f.items))
	copy(out, f.items)
	return out
}

// Drain returns the feed, oldest first, and empties it
func (f *Feed) Drain() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := f.items
	f.items = nil
	return out
}

// Clear empties the feed
func (f *Feed) Clear() {
	f.mu.Lock()
	f.items = nil
	f.mu.Unlock()
}

// Multi fans a notification out to several notifiers
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, level Level, message string) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, level, message)
		}
	}
}
