package transport

import (
	"context"
	"sync"
)

// CaptureTransport records reports for assertions in tests. It is safe for
// use from the client's delivery goroutines.
type CaptureTransport struct {
	Err     error
	mu      sync.Mutex
	reports []Report
}

// Send records the report and returns any configured error.
func (c *CaptureTransport) Send(_ context.Context, report Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports = append(c.reports, NormalizeReport(report))
	return c.Err
}

// Reports returns a copy of the recorded reports.
func (c *CaptureTransport) Reports() []Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Report(nil), c.reports...)
}

// Len returns the number of recorded reports.
func (c *CaptureTransport) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.reports)
}

// Last returns the most recent report.
func (c *CaptureTransport) Last() (Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.reports) == 0 {
		return Report{}, false
	}
	return c.reports[len(c.reports)-1], true
}

// Reset drops recorded reports.
func (c *CaptureTransport) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports = nil
}
