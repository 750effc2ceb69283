package shim

import "reflect"

// Client is the opaque handle bound to a frame. The shim never calls a client
// directly; it checks for the capability interfaces below and silently skips
// calls the client does not support.
type Client interface{}

// ExceptionCapturer receives errors reported through CaptureException.
type ExceptionCapturer interface {
	CaptureException(err error, scope *Scope) *Result
}

// MessageCapturer receives messages reported through CaptureMessage.
type MessageCapturer interface {
	CaptureMessage(message string, level Level, scope *Scope) *Result
}

// EventCapturer receives events reported through CaptureEvent.
type EventCapturer interface {
	CaptureEvent(event *Event, scope *Scope) *Result
}

// BreadcrumbRecorder decides whether and how a breadcrumb is stored on the
// scope. Capping is the recorder's responsibility.
type BreadcrumbRecorder interface {
	AddBreadcrumb(breadcrumb Breadcrumb, scope *Scope)
}

// ContextSetter is notified after a scope bucket changes.
type ContextSetter interface {
	SetContext(update ContextUpdate, scope *Scope)
}

// InitialScopeProvider supplies the scope a frame starts with when the client
// is pushed over a different client, and the scope ClearScope restores.
type InitialScopeProvider interface {
	InitialScope() *Scope
}

// MethodCaller exposes named operations to Hub.CallMethod. It reports false
// when the method is unknown.
type MethodCaller interface {
	CallMethod(name string, args []any, scope *Scope) bool
}

// ContextUpdate carries the bucket that changed, fully merged. Buckets that
// did not change are nil.
type ContextUpdate struct {
	User  map[string]any `json:"user,omitempty"`
	Tags  map[string]any `json:"tags,omitempty"`
	Extra map[string]any `json:"extra,omitempty"`
}

// ClientFuncs adapts plain functions to every capability. A nil field behaves
// like a missing capability.
type ClientFuncs struct {
	CaptureExceptionFunc func(err error, scope *Scope) *Result
	CaptureMessageFunc   func(message string, level Level, scope *Scope) *Result
	CaptureEventFunc     func(event *Event, scope *Scope) *Result
	AddBreadcrumbFunc    func(breadcrumb Breadcrumb, scope *Scope)
	SetContextFunc       func(update ContextUpdate, scope *Scope)
	InitialScopeFunc     func() *Scope
	Methods              map[string]func(args []any, scope *Scope)
}

func (c *ClientFuncs) CaptureException(err error, scope *Scope) *Result {
	if c == nil || c.CaptureExceptionFunc == nil {
		return nil
	}
	return c.CaptureExceptionFunc(err, scope)
}

func (c *ClientFuncs) CaptureMessage(message string, level Level, scope *Scope) *Result {
	if c == nil || c.CaptureMessageFunc == nil {
		return nil
	}
	return c.CaptureMessageFunc(message, level, scope)
}

func (c *ClientFuncs) CaptureEvent(event *Event, scope *Scope) *Result {
	if c == nil || c.CaptureEventFunc == nil {
		return nil
	}
	return c.CaptureEventFunc(event, scope)
}

func (c *ClientFuncs) AddBreadcrumb(breadcrumb Breadcrumb, scope *Scope) {
	if c == nil || c.AddBreadcrumbFunc == nil {
		return
	}
	c.AddBreadcrumbFunc(breadcrumb, scope)
}

func (c *ClientFuncs) SetContext(update ContextUpdate, scope *Scope) {
	if c == nil || c.SetContextFunc == nil {
		return
	}
	c.SetContextFunc(update, scope)
}

func (c *ClientFuncs) InitialScope() *Scope {
	if c == nil || c.InitialScopeFunc == nil {
		return nil
	}
	return c.InitialScopeFunc()
}

func (c *ClientFuncs) CallMethod(name string, args []any, scope *Scope) bool {
	if c == nil {
		return false
	}
	fn, ok := c.Methods[name]
	if !ok || fn == nil {
		return false
	}
	fn(args, scope)
	return true
}

// sameClient compares clients by identity: pointer-like values by address,
// other comparable values with ==. Non-comparable values never match.
func sameClient(a, b Client) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}
	return va.Comparable() && va.Equal(vb)
}

func clientName(c Client) string {
	if c == nil {
		return ""
	}
	return reflect.TypeOf(c).String()
}
