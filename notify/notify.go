package notify

import (
	"context"
	"errors"
	"sync"
	"time"
)

// EventType names what happened.
type EventType string

// Event types.
const (
	EventIssueCreated EventType = "issue_created"
	EventCreateFailed EventType = "issue_create_failed"
	EventBackendError EventType = "backend_error"
)

// Severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Event describes an issue event.
type Event struct {
	Type      EventType      `json:"type"`
	Backend   string         `json:"backend"`
	Project   string         `json:"project"`
	Issue     string         `json:"issue,omitempty"`
	Title     string         `json:"title,omitempty"`
	Message   string         `json:"message"`
	Severity  string         `json:"severity"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Notifier delivers events.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, event Event) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Nop discards every event.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(context.Context, Event) error { return nil }

// Fanout delivers each event to every notifier concurrently. One sink
// failing does not stop the others; all failures are joined.
type Fanout []Notifier

// Notify implements Notifier.
func (f Fanout) Notify(ctx context.Context, event Event) error {
	errs := make([]error, len(f))

	var wg sync.WaitGroup
	for i, n := range f {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = n.Notify(ctx, event)
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}
