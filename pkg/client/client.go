// Package client is a reference shim client. It implements every capability
// the hub dispatches to: it seeds frames with an initial scope, caps
// breadcrumbs, turns captures into events, filters and samples them, then
// delivers them asynchronously through a transport.
package client

import (
	"context"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	shim "github.com/goliatone/go-shim"
	"github.com/goliatone/go-shim/pkg/metrics"
	"github.com/goliatone/go-shim/pkg/transport"
	"github.com/goliatone/go-shim/rules"
)

const (
	// SDKName identifies events produced by this client.
	SDKName = "go-shim"
	// Version is reported alongside SDKName.
	Version = "0.1.0"
	// Platform is stamped on every event.
	Platform = "go"
)

// Client delivers captures to a transport.
type Client struct {
	opts Options

	transport  transport.Transport
	logger     shim.Logger
	recorder   metrics.Recorder
	evaluator  rules.Evaluator
	ruleLogger rules.Logger
	now        func() time.Time
	random     func() float64
	methods    map[string]func([]any, *shim.Scope)

	beforeSend       *rules.Filter
	beforeBreadcrumb *rules.Filter

	mu       sync.RWMutex
	closed   bool
	inflight inflight
}

// New validates opts and builds a Client.
func New(opts Options, optFns ...Option) (*Client, error) {
	normalized, err := opts.normalized()
	if err != nil {
		return nil, err
	}
	c := &Client{
		opts:      normalized,
		transport: transport.Hooks(nil),
		logger:    shim.NoopLogger(),
		recorder:  metrics.Noop{},
		now:       time.Now,
		random:    rand.Float64,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(c)
		}
	}
	if c.evaluator == nil {
		c.evaluator = rules.NewExprEvaluator(
			rules.ExprWithFunctionRegistry(rules.DefaultFunctions()),
			rules.ExprWithProgramCache(rules.NewMemoryCache()),
		)
	}

	filterOpts := []rules.FilterOption{}
	if c.ruleLogger != nil {
		filterOpts = append(filterOpts, rules.WithFilterLogger(c.ruleLogger))
	}
	if normalized.BeforeSend != "" {
		c.beforeSend, err = rules.NewFilter(c.evaluator, normalized.BeforeSend,
			append(filterOpts, rules.WithFilterName("before_send"))...)
		if err != nil {
			return nil, err
		}
	}
	if normalized.BeforeBreadcrumb != "" {
		c.beforeBreadcrumb, err = rules.NewFilter(c.evaluator, normalized.BeforeBreadcrumb,
			append(filterOpts, rules.WithFilterName("before_breadcrumb"))...)
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Options returns the normalized options.
func (c *Client) Options() Options {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.opts
}

// InitialScope seeds frames that push this client over a different one.
func (c *Client) InitialScope() *shim.Scope {
	return shim.NewScope(
		shim.WithScopeUser(c.opts.InitialUser),
		shim.WithScopeTags(c.opts.InitialTags),
		shim.WithScopeExtra(c.opts.InitialExtra),
	)
}

// AddBreadcrumb stamps, filters and stores breadcrumb on scope, keeping at
// most MaxBreadcrumbs.
func (c *Client) AddBreadcrumb(breadcrumb shim.Breadcrumb, scope *shim.Scope) {
	if scope == nil {
		return
	}
	if breadcrumb.Timestamp.IsZero() {
		breadcrumb.Timestamp = c.now()
	}
	if c.beforeBreadcrumb != nil {
		payload, err := breadcrumb.Payload()
		if err == nil {
			var allowed bool
			allowed, err = c.beforeBreadcrumb.Allow(payload)
			if err == nil && !allowed {
				c.log(shim.LogEvent{Op: "add_breadcrumb", Skipped: true, Reason: "filtered"})
				return
			}
		}
		if err != nil {
			c.log(shim.LogEvent{Op: "add_breadcrumb", Reason: "filter failed", Err: err})
		}
	}
	scope.AddBreadcrumb(breadcrumb, c.opts.MaxBreadcrumbs)
	c.recorder.BreadcrumbRecorded()
}

// SetContext is notified whenever a scope bucket changes.
func (c *Client) SetContext(update shim.ContextUpdate, _ *shim.Scope) {
	var buckets []string
	if update.User != nil {
		buckets = append(buckets, "user")
	}
	if update.Tags != nil {
		buckets = append(buckets, "tags")
	}
	if update.Extra != nil {
		buckets = append(buckets, "extra")
	}
	c.log(shim.LogEvent{Op: "set_context", Reason: strings.Join(buckets, ",")})
}

// CallMethod runs a method registered with WithMethod, or one of the
// built-ins setRelease and setEnvironment.
func (c *Client) CallMethod(name string, args []any, scope *shim.Scope) bool {
	if fn, ok := c.methods[name]; ok {
		fn(args, scope)
		return true
	}
	switch name {
	case "setRelease":
		c.setOption(args, func(o *Options, value string) { o.Release = value })
		return true
	case "setEnvironment":
		c.setOption(args, func(o *Options, value string) { o.Environment = value })
		return true
	}
	return false
}

// Methods lists the names CallMethod accepts.
func (c *Client) Methods() []string {
	names := []string{"setEnvironment", "setRelease"}
	for name := range c.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Client) setOption(args []any, apply func(*Options, string)) {
	if len(args) == 0 {
		return
	}
	value, ok := args[0].(string)
	if !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	apply(&c.opts, strings.TrimSpace(value))
}

// Flush waits for in-flight deliveries or for ctx to end.
func (c *Client) Flush(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-c.inflight.wait():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close rejects further captures and flushes pending ones.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return c.Flush(ctx)
}

func (c *Client) log(event shim.LogEvent) {
	if event.Client == "" {
		event.Client = SDKName
	}
	c.logger.LogOperation(event)
}

var (
	_ shim.ExceptionCapturer    = (*Client)(nil)
	_ shim.MessageCapturer      = (*Client)(nil)
	_ shim.EventCapturer        = (*Client)(nil)
	_ shim.BreadcrumbRecorder   = (*Client)(nil)
	_ shim.ContextSetter        = (*Client)(nil)
	_ shim.InitialScopeProvider = (*Client)(nil)
	_ shim.MethodCaller         = (*Client)(nil)
)
