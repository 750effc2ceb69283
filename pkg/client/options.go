package client

import (
	"fmt"
	"strings"
	"time"

	shim "github.com/goliatone/go-shim"
	"github.com/goliatone/go-shim/pkg/metrics"
	"github.com/goliatone/go-shim/pkg/transport"
	"github.com/goliatone/go-shim/rules"
)

const (
	// DefaultMaxBreadcrumbs is used when Options.MaxBreadcrumbs is zero. It is
	// also the upper bound; larger values are clamped.
	DefaultMaxBreadcrumbs = 100
	// DefaultSendTimeout bounds a single transport delivery.
	DefaultSendTimeout = 30 * time.Second
)

// Options configures a Client.
type Options struct {
	Release     string
	Environment string
	ServerName  string
	// Channel is set on every report handed to the transport.
	Channel string
	// MaxBreadcrumbs caps the breadcrumbs kept per scope.
	MaxBreadcrumbs int
	// SampleRate is the share of events delivered. Zero means 1.0.
	SampleRate float64
	// DefaultLevel applies to captures that carry no level. Defaults to info.
	DefaultLevel shim.Level
	SendTimeout  time.Duration

	InitialUser  map[string]any
	InitialTags  map[string]any
	InitialExtra map[string]any

	// BeforeSend is a rule evaluated against each event payload. Events are
	// dropped when it yields false.
	BeforeSend string
	// BeforeBreadcrumb is a rule evaluated against each breadcrumb payload.
	BeforeBreadcrumb string
}

func (o Options) normalized() (Options, error) {
	out := o
	out.Release = strings.TrimSpace(o.Release)
	out.Environment = strings.TrimSpace(o.Environment)
	out.ServerName = strings.TrimSpace(o.ServerName)
	out.Channel = strings.TrimSpace(o.Channel)
	out.BeforeSend = strings.TrimSpace(o.BeforeSend)
	out.BeforeBreadcrumb = strings.TrimSpace(o.BeforeBreadcrumb)

	switch {
	case o.MaxBreadcrumbs < 0:
		return Options{}, fmt.Errorf("%w: max breadcrumbs must not be negative, got %d", ErrInvalidOptions, o.MaxBreadcrumbs)
	case o.MaxBreadcrumbs == 0:
		out.MaxBreadcrumbs = DefaultMaxBreadcrumbs
	case o.MaxBreadcrumbs > DefaultMaxBreadcrumbs:
		out.MaxBreadcrumbs = DefaultMaxBreadcrumbs
	}

	if o.SampleRate < 0 || o.SampleRate > 1 {
		return Options{}, fmt.Errorf("%w: sample rate must be within [0,1], got %v", ErrInvalidOptions, o.SampleRate)
	}
	if o.SampleRate == 0 {
		out.SampleRate = 1
	}

	if o.DefaultLevel.IsZero() {
		out.DefaultLevel = shim.LevelInfo
	}
	if o.SendTimeout <= 0 {
		out.SendTimeout = DefaultSendTimeout
	}
	return out, nil
}

// Option customises Client collaborators.
type Option func(*Client)

// WithTransport sets where events are delivered. Without one, events are
// accepted and discarded.
func WithTransport(t transport.Transport) Option {
	return func(c *Client) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithLogger routes client operations to logger.
func WithLogger(logger shim.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRecorder reports outcomes to recorder.
func WithRecorder(recorder metrics.Recorder) Option {
	return func(c *Client) {
		if recorder != nil {
			c.recorder = recorder
		}
	}
}

// WithEvaluator selects the engine BeforeSend and BeforeBreadcrumb compile
// with. Defaults to expr with the default function set.
func WithEvaluator(evaluator rules.Evaluator) Option {
	return func(c *Client) {
		if evaluator != nil {
			c.evaluator = evaluator
		}
	}
}

// WithRuleLogger routes rule evaluations to logger.
func WithRuleLogger(logger rules.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.ruleLogger = logger
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithSampler overrides the random source used for sampling. It must return
// values in [0,1).
func WithSampler(random func() float64) Option {
	return func(c *Client) {
		if random != nil {
			c.random = random
		}
	}
}

// WithMethod exposes fn to Hub.CallMethod under name.
func WithMethod(name string, fn func(args []any, scope *shim.Scope)) Option {
	return func(c *Client) {
		name = strings.TrimSpace(name)
		if name == "" || fn == nil {
			return
		}
		if c.methods == nil {
			c.methods = map[string]func([]any, *shim.Scope){}
		}
		c.methods[name] = fn
	}
}
