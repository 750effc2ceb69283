package shim

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-shim/internal/payload"
)

// Breadcrumb is a timestamped diagnostic record describing a step leading up
// to a captured event. The shim never validates its contents.
type Breadcrumb struct {
	Timestamp time.Time      `json:"timestamp,omitempty"`
	Type      string         `json:"type,omitempty"`
	Category  string         `json:"category,omitempty"`
	Message   string         `json:"message,omitempty"`
	Level     Level          `json:"level,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// Event is the payload handed to a client's CaptureEvent. Clients decide
// which fields they fill; the shim only forwards it.
type Event struct {
	EventID     string         `json:"event_id,omitempty"`
	Timestamp   time.Time      `json:"timestamp,omitempty"`
	Level       Level          `json:"level,omitempty"`
	Message     string         `json:"message,omitempty"`
	Logger      string         `json:"logger,omitempty"`
	Platform    string         `json:"platform,omitempty"`
	Release     string         `json:"release,omitempty"`
	Environment string         `json:"environment,omitempty"`
	ServerName  string         `json:"server_name,omitempty"`
	Exception   []Exception    `json:"exception,omitempty"`
	Fingerprint []string       `json:"fingerprint,omitempty"`
	User        map[string]any `json:"user,omitempty"`
	Tags        map[string]any `json:"tags,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
	Breadcrumbs []Breadcrumb   `json:"breadcrumbs,omitempty"`
	SDK         *SdkInfo       `json:"sdk,omitempty"`
}

// Exception describes one error in a captured chain.
type Exception struct {
	Type       string      `json:"type,omitempty"`
	Value      string      `json:"value,omitempty"`
	Module     string      `json:"module,omitempty"`
	Stacktrace *Stacktrace `json:"stacktrace,omitempty"`
}

// Stacktrace lists frames from the outermost call inward.
type Stacktrace struct {
	Frames []StackFrame `json:"frames,omitempty"`
}

// StackFrame is a single call site.
type StackFrame struct {
	Function string `json:"function,omitempty"`
	Module   string `json:"module,omitempty"`
	Filename string `json:"filename,omitempty"`
	AbsPath  string `json:"abs_path,omitempty"`
	Lineno   int    `json:"lineno,omitempty"`
	InApp    bool   `json:"in_app,omitempty"`
}

// SdkInfo identifies the reporting library.
type SdkInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Payload returns the event as a JSON-shaped map, suitable for rule
// evaluation or loosely typed transports.
func (e *Event) Payload() (map[string]any, error) {
	if e == nil {
		return map[string]any{}, nil
	}
	return payload.Encode(e)
}

// Payload returns the breadcrumb as a JSON-shaped map.
func (b Breadcrumb) Payload() (map[string]any, error) {
	return payload.Encode(b)
}

var eventDecoder = payload.NewDecoder(payload.WithPreHook[Event](normalizeEventLevels))

// DecodeEvent builds an Event from a JSON-shaped map, the inverse of
// Event.Payload. Level names on the event and on its breadcrumbs are
// normalized with ParseLevel; an unknown or non-string level is an error in
// both places.
func DecodeEvent(data map[string]any) (*Event, error) {
	event, err := eventDecoder.Decode(data)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func normalizeEventLevels(data map[string]any) (map[string]any, error) {
	if err := normalizeLevelField(data, "event"); err != nil {
		return nil, err
	}
	crumbs, _ := data["breadcrumbs"].([]any)
	for i, raw := range crumbs {
		crumb, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if err := normalizeLevelField(crumb, fmt.Sprintf("breadcrumb %d", i)); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func normalizeLevelField(data map[string]any, owner string) error {
	raw, ok := data["level"]
	if !ok || raw == nil {
		return nil
	}
	name, ok := raw.(string)
	if !ok {
		return fmt.Errorf("shim: %s level must be a string, got %T", owner, raw)
	}
	level := ParseLevel(name)
	if level.IsZero() && strings.TrimSpace(name) != "" {
		return fmt.Errorf("shim: unknown %s level %q", owner, name)
	}
	data["level"] = string(level)
	return nil
}
