package shim

import "sync"

var (
	globalMu  sync.Mutex
	globalHub *Hub
)

// DefaultHub returns the process-wide Hub, creating it on first use.
func DefaultHub() *Hub {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalHub == nil {
		globalHub = NewHub()
	}
	return globalHub
}

// ResetGlobal discards the process-wide Hub and replaces it with a fresh one
// holding only the root frame. Intended for test isolation.
func ResetGlobal(opts ...HubOption) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalHub = NewHub(opts...)
}

// PushScope pushes a frame on the default hub. See Hub.PushScope.
func PushScope() {
	DefaultHub().PushScope()
}

// PushClientScope pushes a frame bound to client on the default hub.
func PushClientScope(client Client) {
	DefaultHub().PushClientScope(client)
}

// PopScope pops the top frame of the default hub.
func PopScope() {
	DefaultHub().PopScope()
}

// WithScope runs fn inside a new frame of the default hub.
func WithScope(fn func() error) error {
	return DefaultHub().WithScope(fn)
}

// WithClientScope runs fn inside a new frame of the default hub bound to
// client.
func WithClientScope(client Client, fn func() error) error {
	return DefaultHub().WithClientScope(client, fn)
}

// CurrentClient returns the client bound to the default hub's top frame.
func CurrentClient() Client {
	return DefaultHub().CurrentClient()
}

// ConfigureScope runs fn with the default hub's current scope.
func ConfigureScope(fn func(scope *Scope)) {
	DefaultHub().ConfigureScope(fn)
}

// ClearScope resets the default hub's current scope.
func ClearScope() {
	DefaultHub().ClearScope()
}

// CallOnClient runs fn against the default hub's current client.
func CallOnClient(fn func(client Client, scope *Scope)) {
	DefaultHub().CallOnClient(fn)
}

// CallMethod invokes a named method on the default hub's current client.
func CallMethod(name string, args ...any) {
	DefaultHub().CallMethod(name, args...)
}

// CaptureException reports err through the default hub.
func CaptureException(err error) *Result {
	return DefaultHub().CaptureException(err)
}

// CaptureMessage reports message through the default hub.
func CaptureMessage(message string, level Level) *Result {
	return DefaultHub().CaptureMessage(message, level)
}

// CaptureEvent reports event through the default hub.
func CaptureEvent(event *Event) *Result {
	return DefaultHub().CaptureEvent(event)
}

// AddBreadcrumb records breadcrumb through the default hub.
func AddBreadcrumb(breadcrumb Breadcrumb) {
	DefaultHub().AddBreadcrumb(breadcrumb)
}

// SetUserContext merges data into the default hub's current user bucket.
func SetUserContext(data map[string]any) {
	DefaultHub().SetUserContext(data)
}

// SetTagsContext merges data into the default hub's current tags bucket.
func SetTagsContext(data map[string]any) {
	DefaultHub().SetTagsContext(data)
}

// SetExtraContext merges data into the default hub's current extra bucket.
func SetExtraContext(data map[string]any) {
	DefaultHub().SetExtraContext(data)
}

// SetFingerprint sets the grouping override on the default hub's current scope.
func SetFingerprint(fingerprint ...string) {
	DefaultHub().SetFingerprint(fingerprint...)
}
