package shim

import (
	"context"
	"sync"
)

// Result is the completion handle a client returns for a capture. The shim
// never waits on it; callers that need delivery guarantees can. A nil Result
// means nothing was dispatched.
type Result struct {
	once    sync.Once
	done    chan struct{}
	eventID string
	err     error
}

// NewResult returns a pending Result.
func NewResult() *Result {
	return &Result{done: make(chan struct{})}
}

// ResolvedResult returns a Result that is already complete.
func ResolvedResult(eventID string, err error) *Result {
	r := NewResult()
	r.Resolve(eventID, err)
	return r
}

// Resolve completes the Result. Only the first call has an effect.
func (r *Result) Resolve(eventID string, err error) {
	if r == nil {
		return
	}
	r.once.Do(func() {
		r.eventID = eventID
		r.err = err
		close(r.done)
	})
}

// Done is closed once the Result resolves. A nil Result is always done.
func (r *Result) Done() <-chan struct{} {
	if r == nil {
		return closedChan
	}
	return r.done
}

// Wait blocks until the Result resolves or ctx is done.
func (r *Result) Wait(ctx context.Context) (string, error) {
	if r == nil {
		return "", ErrNotDispatched
	}
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-r.done:
		return r.eventID, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// EventID returns the resolved event id, or "" while pending.
func (r *Result) EventID() string {
	if r == nil || !r.resolved() {
		return ""
	}
	return r.eventID
}

// Err returns the resolved error, or nil while pending.
func (r *Result) Err() error {
	if r == nil {
		return ErrNotDispatched
	}
	if !r.resolved() {
		return nil
	}
	return r.err
}

func (r *Result) resolved() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()
