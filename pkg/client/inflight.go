package client

import "sync"

// inflight counts pending deliveries and hands out a channel that closes when
// the count drops to zero.
type inflight struct {
	mu   sync.Mutex
	n    int
	idle chan struct{}
}

func (f *inflight) add() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.n == 0 {
		f.idle = make(chan struct{})
	}
	f.n++
}

func (f *inflight) done() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.n == 0 {
		return
	}
	f.n--
	if f.n == 0 {
		close(f.idle)
	}
}

func (f *inflight) wait() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.n == 0 {
		return alreadyIdle
	}
	return f.idle
}

var alreadyIdle = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()
