package transport

import (
	"strings"

	shim "github.com/goliatone/go-shim"
)

// Report kinds, one per capture path.
const (
	KindException = "exception"
	KindMessage   = "message"
	KindEvent     = "event"
)

// BuildExceptionReport wraps an event produced by CaptureException.
func BuildExceptionReport(event shim.Event, channel string) Report {
	return buildReport(KindException, event, channel)
}

// BuildMessageReport wraps an event produced by CaptureMessage.
func BuildMessageReport(event shim.Event, channel string) Report {
	return buildReport(KindMessage, event, channel)
}

// BuildEventReport wraps an event produced by CaptureEvent.
func BuildEventReport(event shim.Event, channel string) Report {
	return buildReport(KindEvent, event, channel)
}

func buildReport(kind string, event shim.Event, channel string) Report {
	return Report{
		Event:      event,
		Kind:       kind,
		Channel:    strings.TrimSpace(channel),
		OccurredAt: event.Timestamp,
	}
}

// Summary returns the flat fields most sinks index on: level, message,
// logger, fingerprint, tags and, for exceptions, the outermost error type.
func (r Report) Summary() map[string]any {
	out := map[string]any{
		"kind":  r.Kind,
		"level": r.Event.Level.String(),
	}
	if r.Event.Message != "" {
		out["message"] = r.Event.Message
	}
	if r.Event.Logger != "" {
		out["logger"] = r.Event.Logger
	}
	if len(r.Event.Fingerprint) > 0 {
		out["fingerprint"] = append([]string{}, r.Event.Fingerprint...)
	}
	if len(r.Event.Tags) > 0 {
		out["tags"] = cloneMap(r.Event.Tags)
	}
	if len(r.Event.Exception) > 0 {
		outer := r.Event.Exception[len(r.Event.Exception)-1]
		out["exception_type"] = outer.Type
		if r.Event.Message == "" {
			out["message"] = outer.Value
		}
	}
	return out
}
