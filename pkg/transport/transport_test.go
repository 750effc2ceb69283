package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	shim "github.com/goliatone/go-shim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() shim.Event {
	return shim.Event{
		EventID:     " abc123 ",
		Level:       shim.LevelError,
		Message:     "db timeout",
		Tags:        map[string]any{"env": "prod"},
		User:        map[string]any{"id": "42"},
		Fingerprint: []string{"db", "timeout"},
		Breadcrumbs: []shim.Breadcrumb{{Message: "query"}},
	}
}

func TestNormalizeReportTrimsClonesAndDefaults(t *testing.T) {
	event := sampleEvent()
	report := Report{Event: event, Kind: " message ", Channel: " errors "}

	got := NormalizeReport(report)

	assert.Equal(t, "abc123", got.Event.EventID)
	assert.Equal(t, "message", got.Kind)
	assert.Equal(t, "errors", got.Channel)
	assert.False(t, got.OccurredAt.IsZero())

	got.Event.Tags["env"] = "changed"
	got.Event.Fingerprint[0] = "changed"
	got.Event.Breadcrumbs[0].Message = "changed"
	assert.Equal(t, "prod", event.Tags["env"])
	assert.Equal(t, "db", event.Fingerprint[0])
	assert.Equal(t, "query", event.Breadcrumbs[0].Message)
}

func TestNormalizeReportPrefersEventTimestamp(t *testing.T) {
	stamp := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	event := sampleEvent()
	event.Timestamp = stamp

	got := NormalizeReport(Report{Event: event})
	assert.Equal(t, stamp, got.OccurredAt)
}

func TestHooksSendSkipsReportsWithoutEventID(t *testing.T) {
	capture := &CaptureTransport{}
	hooks := Hooks{capture}

	require.NoError(t, hooks.Send(context.Background(), Report{}))
	assert.Zero(t, capture.Len())
}

func TestHooksSendFanOutAndJoinErrors(t *testing.T) {
	capture := &CaptureTransport{}
	boom1 := errors.New("boom1")
	boom2 := errors.New("boom2")
	var ctxSeen bool
	hooks := Hooks{
		Func(func(ctx context.Context, _ Report) error {
			ctxSeen = ctx != nil
			return nil
		}),
		capture,
		Func(func(context.Context, Report) error { return boom1 }),
		nil,
		Func(func(context.Context, Report) error { return boom2 }),
	}

	err := hooks.Send(nil, Report{Event: sampleEvent()})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom1)
	assert.ErrorIs(t, err, boom2)
	assert.True(t, ctxSeen)
	assert.Equal(t, 1, capture.Len())
}

func TestEmitterDisabledAndEnabled(t *testing.T) {
	capture := &CaptureTransport{}

	disabled := NewEmitter(Hooks{capture}, Config{Enabled: false})
	assert.False(t, disabled.Enabled())
	require.NoError(t, disabled.Send(context.Background(), Report{Event: sampleEvent()}))
	assert.Zero(t, capture.Len())

	enabled := NewEmitter(Hooks{capture}, Config{Enabled: true})
	assert.True(t, enabled.Enabled())
	require.NoError(t, enabled.Send(context.Background(), Report{Event: sampleEvent()}))

	last, ok := capture.Last()
	require.True(t, ok)
	assert.Equal(t, DefaultChannel, last.Channel)
}

func TestEmitterPreservesExplicitChannel(t *testing.T) {
	capture := &CaptureTransport{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: "default"})
	assert.Equal(t, "default", emitter.Channel())

	require.NoError(t, emitter.Send(context.Background(), Report{Event: sampleEvent(), Channel: "custom"}))
	last, _ := capture.Last()
	assert.Equal(t, "custom", last.Channel)
}

func TestEmitterWithoutHooksIsDisabled(t *testing.T) {
	emitter := NewEmitter(Hooks{nil}, Config{Enabled: true})
	assert.False(t, emitter.Enabled())

	var nilEmitter *Emitter
	assert.False(t, nilEmitter.Enabled())
	assert.Equal(t, DefaultChannel, nilEmitter.Channel())
	assert.NoError(t, nilEmitter.Send(context.Background(), Report{Event: sampleEvent()}))
}

func TestCaptureTransportReturnsConfiguredError(t *testing.T) {
	boom := errors.New("boom")
	capture := &CaptureTransport{Err: boom}
	assert.ErrorIs(t, capture.Send(context.Background(), Report{Event: sampleEvent()}), boom)
	assert.Len(t, capture.Reports(), 1)

	capture.Reset()
	_, ok := capture.Last()
	assert.False(t, ok)
}

func TestBuildReportsAndSummary(t *testing.T) {
	event := sampleEvent()
	event.Message = ""
	event.Exception = []shim.Exception{
		{Type: "*net.OpError", Value: "dial tcp: refused"},
		{Type: "*fmt.wrapError", Value: "db timeout: dial tcp: refused"},
	}

	report := BuildExceptionReport(event, " errors ")
	assert.Equal(t, KindException, report.Kind)
	assert.Equal(t, "errors", report.Channel)

	summary := report.Summary()
	assert.Equal(t, "exception", summary["kind"])
	assert.Equal(t, "error", summary["level"])
	assert.Equal(t, "*fmt.wrapError", summary["exception_type"])
	assert.Equal(t, "db timeout: dial tcp: refused", summary["message"])
	assert.Equal(t, []string{"db", "timeout"}, summary["fingerprint"])

	assert.Equal(t, KindMessage, BuildMessageReport(event, "").Kind)
	assert.Equal(t, KindEvent, BuildEventReport(event, "").Kind)
}
