// Package transport delivers captured events to their destination. A
// Transport receives normalized Reports; Hooks fans a report out to several
// transports and Emitter applies channel defaults on top.
package transport

import (
	"context"
	"errors"
	"strings"
	"time"

	shim "github.com/goliatone/go-shim"
)

// Report wraps an event on its way out of a client.
type Report struct {
	Event      shim.Event
	Kind       string
	Channel    string
	OccurredAt time.Time
}

// Transport receives normalized reports.
type Transport interface {
	Send(ctx context.Context, report Report) error
}

// Func allows plain functions to satisfy Transport.
type Func func(ctx context.Context, report Report) error

// Send dispatches to the underlying function.
func (fn Func) Send(ctx context.Context, report Report) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, report)
}

// Hooks fans out reports to zero or more transports.
type Hooks []Transport

// Enabled reports whether there are any transports to notify.
func (h Hooks) Enabled() bool {
	return len(h) > 0
}

// Send forwards the report to all transports, returning a joined error if any
// fail. Reports without an event id are ignored.
func (h Hooks) Send(ctx context.Context, report Report) error {
	if len(h) == 0 {
		return nil
	}

	normalized := NormalizeReport(report)
	if normalized.Event.EventID == "" {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var errs []error
	for _, transport := range h {
		if transport == nil {
			continue
		}
		if err := transport.Send(ctx, normalized); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

// NormalizeReport trims identifiers, detaches the event's maps and slices
// from the caller and ensures a timestamp is present.
func NormalizeReport(report Report) Report {
	normalized := report
	normalized.Kind = strings.TrimSpace(report.Kind)
	normalized.Channel = strings.TrimSpace(report.Channel)

	event := report.Event
	event.EventID = strings.TrimSpace(event.EventID)
	event.User = cloneMap(event.User)
	event.Tags = cloneMap(event.Tags)
	event.Extra = cloneMap(event.Extra)
	if len(event.Fingerprint) > 0 {
		event.Fingerprint = append([]string{}, event.Fingerprint...)
	}
	if len(event.Breadcrumbs) > 0 {
		event.Breadcrumbs = append([]shim.Breadcrumb{}, event.Breadcrumbs...)
	}
	if len(event.Exception) > 0 {
		event.Exception = append([]shim.Exception{}, event.Exception...)
	}
	normalized.Event = event

	if normalized.OccurredAt.IsZero() {
		normalized.OccurredAt = event.Timestamp
	}
	if normalized.OccurredAt.IsZero() {
		normalized.OccurredAt = time.Now()
	}
	return normalized
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
