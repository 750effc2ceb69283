// Package shim lets independent parts of an application report errors,
// messages and breadcrumbs without holding a reference to the client that
// eventually transmits them.
//
// A Hub owns an ordered stack of frames. Each frame pairs a Client with a
// mutable Scope (user, tags, extra, fingerprint, breadcrumbs). The top frame
// is the active one: capture and breadcrumb calls resolve it and forward to
// its client, passing the scope along.
//
//	shim.PushClientScope(client)
//	shim.ConfigureScope(func(scope *shim.Scope) {
//		scope.SetUserContext(map[string]any{"id": "1234"})
//	})
//	shim.CaptureException(err)
//	shim.PopScope()
//
// WithScope and WithClientScope push a frame, run a callback and always pop
// the frame again, even when the callback returns an error or panics.
//
// Clients are duck-typed through narrow capability interfaces
// (ExceptionCapturer, MessageCapturer, EventCapturer, BreadcrumbRecorder,
// ContextSetter, InitialScopeProvider, MethodCaller). A call whose client is
// missing, or lacks the capability, is a silent no-op.
//
// Package-level functions operate on a lazily created process-wide Hub. The
// stack is not isolated between goroutines: interleaved push/pop from
// concurrent tasks can pop each other's frames. Use Hub.Clone together with
// NewContext to give a task its own stack.
package shim
