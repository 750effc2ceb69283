package shim

import "errors"

var (
	// ErrNotDispatched reports that a capture reached no client, either because
	// none was bound or because it lacks the capability.
	ErrNotDispatched = errors.New("shim: report was not dispatched to a client")
)
