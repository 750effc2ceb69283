package shim

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestResultResolvesOnce(t *testing.T) {
	result := NewResult()
	if result.EventID() != "" || result.Err() != nil {
		t.Fatalf("pending result should be empty")
	}

	boom := errors.New("boom")
	result.Resolve("first", boom)
	result.Resolve("second", nil)

	id, err := result.Wait(context.Background())
	if id != "first" || !errors.Is(err, boom) {
		t.Fatalf("expected first resolution, got %q %v", id, err)
	}
	if result.EventID() != "first" || !errors.Is(result.Err(), boom) {
		t.Fatalf("accessors disagree with Wait")
	}
}

func TestResultWaitHonoursContext(t *testing.T) {
	result := NewResult()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := result.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestResultResolvedFromGoroutine(t *testing.T) {
	result := NewResult()
	go result.Resolve("async", nil)

	select {
	case <-result.Done():
	case <-time.After(time.Second):
		t.Fatalf("result never resolved")
	}
	if result.EventID() != "async" {
		t.Fatalf("expected async id, got %q", result.EventID())
	}
}
