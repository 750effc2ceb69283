package shim

// CaptureException forwards err unchanged to the current client. It returns
// the client's Result, or nil when nothing was dispatched.
func (h *Hub) CaptureException(err error) *Result {
	var result *Result
	h.CallOnClient(func(client Client, scope *Scope) {
		capturer, ok := client.(ExceptionCapturer)
		if !ok {
			h.skipped("capture_exception", client, "capability missing")
			return
		}
		result = capturer.CaptureException(err, scope)
	})
	return result
}

// CaptureMessage forwards message to the current client. A zero level lets
// the client pick its default.
func (h *Hub) CaptureMessage(message string, level Level) *Result {
	var result *Result
	h.CallOnClient(func(client Client, scope *Scope) {
		capturer, ok := client.(MessageCapturer)
		if !ok {
			h.skipped("capture_message", client, "capability missing")
			return
		}
		result = capturer.CaptureMessage(message, level, scope)
	})
	return result
}

// CaptureEvent forwards event to the current client.
func (h *Hub) CaptureEvent(event *Event) *Result {
	var result *Result
	h.CallOnClient(func(client Client, scope *Scope) {
		capturer, ok := client.(EventCapturer)
		if !ok {
			h.skipped("capture_event", client, "capability missing")
			return
		}
		result = capturer.CaptureEvent(event, scope)
	})
	return result
}

// AddBreadcrumb hands breadcrumb to the current client, which decides how it
// is stored on the scope.
func (h *Hub) AddBreadcrumb(breadcrumb Breadcrumb) {
	h.CallOnClient(func(client Client, scope *Scope) {
		recorder, ok := client.(BreadcrumbRecorder)
		if !ok {
			h.skipped("add_breadcrumb", client, "capability missing")
			return
		}
		recorder.AddBreadcrumb(breadcrumb, scope)
	})
}

// SetUserContext shallow-merges data into the current scope's user bucket.
// A nil or empty map clears the bucket.
func (h *Hub) SetUserContext(data map[string]any) {
	h.CurrentScope().SetUserContext(data)
}

// SetTagsContext shallow-merges data into the current scope's tags bucket.
func (h *Hub) SetTagsContext(data map[string]any) {
	h.CurrentScope().SetTagsContext(data)
}

// SetExtraContext shallow-merges data into the current scope's extra bucket.
func (h *Hub) SetExtraContext(data map[string]any) {
	h.CurrentScope().SetExtraContext(data)
}

// SetFingerprint replaces the current scope's grouping override.
func (h *Hub) SetFingerprint(fingerprint ...string) {
	h.CurrentScope().SetFingerprint(fingerprint...)
}
