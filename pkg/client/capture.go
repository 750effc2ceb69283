package client

import (
	"context"
	"strings"

	shim "github.com/goliatone/go-shim"
	"github.com/goliatone/go-shim/pkg/metrics"
	"github.com/goliatone/go-shim/pkg/transport"
	"github.com/google/uuid"
)

// CaptureException reports err and its unwrap chain with the caller's stack.
func (c *Client) CaptureException(err error, scope *shim.Scope) *shim.Result {
	if err == nil {
		return shim.ResolvedResult("", ErrNilError)
	}
	event := &shim.Event{
		Level:     shim.LevelError,
		Exception: exceptionChain(err, captureStacktrace(1)),
	}
	return c.capture(transport.KindException, event, scope)
}

// CaptureMessage reports message at level. A zero level uses
// Options.DefaultLevel.
func (c *Client) CaptureMessage(message string, level shim.Level, scope *shim.Scope) *shim.Result {
	event := &shim.Event{
		Message: message,
		Level:   level,
	}
	return c.capture(transport.KindMessage, event, scope)
}

// CaptureEvent reports a caller-built event. The event is copied.
func (c *Client) CaptureEvent(event *shim.Event, scope *shim.Scope) *shim.Result {
	return c.capture(transport.KindEvent, event, scope)
}

func (c *Client) capture(kind string, event *shim.Event, scope *shim.Scope) *shim.Result {
	c.recorder.EventCaptured(kind)

	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		c.drop(kind, metrics.ReasonClosed, nil)
		return shim.ResolvedResult("", ErrClientClosed)
	}
	opts := c.opts
	c.inflight.add()
	c.mu.RUnlock()

	prepared := c.prepare(opts, event, scope)

	if !c.allow(kind, prepared) {
		c.inflight.done()
		c.drop(kind, metrics.ReasonFilter, nil)
		return shim.ResolvedResult(prepared.EventID, ErrEventDropped)
	}
	if opts.SampleRate < 1 && c.random() >= opts.SampleRate {
		c.inflight.done()
		c.drop(kind, metrics.ReasonSampled, nil)
		return shim.ResolvedResult(prepared.EventID, ErrEventDropped)
	}

	result := shim.NewResult()
	go c.deliver(opts, buildReport(kind, *prepared, opts.Channel), result)
	return result
}

func buildReport(kind string, event shim.Event, channel string) transport.Report {
	switch kind {
	case transport.KindException:
		return transport.BuildExceptionReport(event, channel)
	case transport.KindMessage:
		return transport.BuildMessageReport(event, channel)
	default:
		return transport.BuildEventReport(event, channel)
	}
}

func (c *Client) prepare(opts Options, event *shim.Event, scope *shim.Scope) *shim.Event {
	prepared := scope.ApplyToEvent(event)
	if strings.TrimSpace(prepared.EventID) == "" {
		prepared.EventID = newEventID()
	}
	if prepared.Timestamp.IsZero() {
		prepared.Timestamp = c.now()
	}
	if prepared.Level.IsZero() {
		prepared.Level = opts.DefaultLevel
	}
	if prepared.Platform == "" {
		prepared.Platform = Platform
	}
	if prepared.Release == "" {
		prepared.Release = opts.Release
	}
	if prepared.Environment == "" {
		prepared.Environment = opts.Environment
	}
	if prepared.ServerName == "" {
		prepared.ServerName = opts.ServerName
	}
	if prepared.SDK == nil {
		prepared.SDK = &shim.SdkInfo{Name: SDKName, Version: Version}
	}
	return prepared
}

// allow runs BeforeSend. Evaluation failures keep the event.
func (c *Client) allow(kind string, event *shim.Event) bool {
	if c.beforeSend == nil {
		return true
	}
	payload, err := event.Payload()
	if err == nil {
		payload["kind"] = kind
		var allowed bool
		allowed, err = c.beforeSend.Allow(payload)
		if err == nil {
			return allowed
		}
	}
	c.log(shim.LogEvent{Op: "before_send", Reason: "filter failed", Err: err})
	return true
}

func (c *Client) deliver(opts Options, report transport.Report, result *shim.Result) {
	defer c.inflight.done()

	ctx, cancel := context.WithTimeout(context.Background(), opts.SendTimeout)
	defer cancel()

	eventID := report.Event.EventID
	if err := c.transport.Send(ctx, report); err != nil {
		c.recorder.EventFailed()
		deliveryErr := &DeliveryError{EventID: eventID, Err: err}
		c.log(shim.LogEvent{Op: "deliver", Reason: report.Kind, Err: deliveryErr})
		result.Resolve(eventID, deliveryErr)
		return
	}
	c.recorder.EventSent()
	c.log(shim.LogEvent{Op: "deliver", Reason: report.Kind})
	result.Resolve(eventID, nil)
}

func (c *Client) drop(kind, reason string, err error) {
	c.recorder.EventDropped(reason)
	c.log(shim.LogEvent{Op: "capture_" + kind, Skipped: true, Reason: reason, Err: err})
}

func newEventID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
