package shim

import "sync"

type frame struct {
	client Client
	scope  *Scope
}

// HubOption configures a Hub.
type HubOption func(*hubConfig)

type hubConfig struct {
	logger Logger
}

// WithLogger attaches a logger for stack and dispatch operations.
func WithLogger(logger Logger) HubOption {
	return func(cfg *hubConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

func applyHubOptions(opts []HubOption) hubConfig {
	cfg := hubConfig{logger: noopLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Hub manages an ordered stack of (client, scope) frames. Index 0 is the root
// frame, created empty and unbound; it is never popped. The mutex only keeps
// the frame slice consistent: push/pop still have to be balanced by the
// caller. The zero value is ready to use.
type Hub struct {
	mu     sync.Mutex
	stack  []*frame
	logger Logger
}

// NewHub returns a Hub holding only the root frame.
func NewHub(opts ...HubOption) *Hub {
	cfg := applyHubOptions(opts)
	return &Hub{
		stack:  []*frame{{scope: NewScope()}},
		logger: cfg.logger,
	}
}

// PushScope pushes a frame bound to the current client with an empty scope.
func (h *Hub) PushScope() {
	h.push(nil)
}

// PushClientScope pushes a frame bound to client. When client differs from
// the current one, the new scope starts from client's initial scope if it
// provides one. A nil client behaves like PushScope.
func (h *Hub) PushClientScope(client Client) {
	h.push(client)
}

func (h *Hub) push(client Client) {
	current := h.CurrentClient()
	if client == nil {
		client = current
	}
	scope := initialScope(client, !sameClient(client, current)).bind(client)

	h.mu.Lock()
	h.rootLocked()
	h.stack = append(h.stack, &frame{client: client, scope: scope})
	depth := len(h.stack)
	h.mu.Unlock()

	h.log(LogEvent{Op: "push", Depth: depth, Client: clientName(client)})
}

// PopScope removes the top frame. Popping the root frame is a no-op.
func (h *Hub) PopScope() {
	h.mu.Lock()
	h.rootLocked()
	if len(h.stack) <= 1 {
		h.mu.Unlock()
		h.log(LogEvent{Op: "pop", Depth: 1, Skipped: true, Reason: "root frame"})
		return
	}
	top := h.stack[len(h.stack)-1]
	h.stack[len(h.stack)-1] = nil
	h.stack = h.stack[:len(h.stack)-1]
	depth := len(h.stack)
	h.mu.Unlock()

	h.log(LogEvent{Op: "pop", Depth: depth, Client: clientName(top.client)})
}

// popTo truncates the stack back to depth frames, never below the root.
func (h *Hub) popTo(depth int) {
	for {
		if current := h.Depth(); current <= depth || current <= 1 {
			return
		}
		h.PopScope()
	}
}

// WithScope pushes a frame inheriting the current client, runs fn and pops
// the frame on every exit path. fn's error, or panic, reaches the caller
// after the pop.
func (h *Hub) WithScope(fn func() error) error {
	depth := h.Depth()
	h.PushScope()
	defer h.popTo(depth)
	if fn == nil {
		return nil
	}
	return fn()
}

// WithClientScope is WithScope with an explicit client for the new frame.
func (h *Hub) WithClientScope(client Client, fn func() error) error {
	depth := h.Depth()
	h.PushClientScope(client)
	defer h.popTo(depth)
	if fn == nil {
		return nil
	}
	return fn()
}

// CurrentClient returns the client of the top frame, or nil when none was
// ever bound.
func (h *Hub) CurrentClient() Client {
	return h.top().client
}

// CurrentScope returns the scope of the top frame.
func (h *Hub) CurrentScope() *Scope {
	return h.top().scope
}

// Depth returns the number of frames, root included.
func (h *Hub) Depth() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rootLocked()
	return len(h.stack)
}

// ConfigureScope runs fn with the current scope. It works without a bound
// client; mutations are then only visible to later captures.
func (h *Hub) ConfigureScope(fn func(scope *Scope)) {
	if fn == nil {
		return
	}
	fn(h.CurrentScope())
}

// ClearScope replaces the current scope with a fresh initial scope of the
// frame's client, or an empty one. The frame stays on the stack.
func (h *Hub) ClearScope() {
	h.mu.Lock()
	h.rootLocked()
	top := h.stack[len(h.stack)-1]
	client := top.client
	h.mu.Unlock()

	scope := initialScope(client, true).bind(client)

	h.mu.Lock()
	top.scope = scope
	depth := len(h.stack)
	h.mu.Unlock()

	h.log(LogEvent{Op: "clear", Depth: depth, Client: clientName(client)})
}

// CallOnClient resolves the current frame and runs fn with its client and
// scope. Without a bound client it does nothing.
func (h *Hub) CallOnClient(fn func(client Client, scope *Scope)) {
	top := h.top()
	if top.client == nil {
		h.log(LogEvent{Op: "call", Depth: h.Depth(), Skipped: true, Reason: "no client"})
		return
	}
	if fn == nil {
		return
	}
	fn(top.client, top.scope)
}

// CallMethod invokes a named method on the current client through
// MethodCaller, passing the current scope. Unknown methods and clients
// without that capability are silent no-ops.
func (h *Hub) CallMethod(name string, args ...any) {
	h.CallOnClient(func(client Client, scope *Scope) {
		caller, ok := client.(MethodCaller)
		if !ok || !caller.CallMethod(name, args, scope) {
			h.skipped("call:"+name, client, "unknown method")
		}
	})
}

// Clone returns an independent Hub whose root frame holds the current client
// and a deep copy of the current scope.
func (h *Hub) Clone() *Hub {
	top := h.top()
	return &Hub{
		stack:  []*frame{{client: top.client, scope: top.scope.Clone().bind(top.client)}},
		logger: h.logger,
	}
}

func (h *Hub) top() frame {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rootLocked()
	return *h.stack[len(h.stack)-1]
}

func (h *Hub) rootLocked() {
	if len(h.stack) == 0 {
		h.stack = []*frame{{scope: NewScope()}}
	}
}

func (h *Hub) log(event LogEvent) {
	if h.logger == nil {
		return
	}
	h.logger.LogOperation(event)
}

func (h *Hub) skipped(op string, client Client, reason string) {
	h.log(LogEvent{
		Op:      op,
		Depth:   h.Depth(),
		Client:  clientName(client),
		Skipped: true,
		Reason:  reason,
	})
}

// initialScope returns the scope a frame bound to client starts with. The
// client's template is cloned so frames never share it.
func initialScope(client Client, fromClient bool) *Scope {
	if !fromClient {
		return NewScope()
	}
	provider, ok := client.(InitialScopeProvider)
	if !ok {
		return NewScope()
	}
	if scope := provider.InitialScope(); scope != nil {
		return scope.Clone()
	}
	return NewScope()
}
