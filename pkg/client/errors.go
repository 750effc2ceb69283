package client

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOptions is returned by New when Options fail validation.
	ErrInvalidOptions = errors.New("client: invalid options")
	// ErrEventDropped resolves captures discarded by a rule or by sampling.
	ErrEventDropped = errors.New("client: event dropped")
	// ErrClientClosed resolves captures made after Close.
	ErrClientClosed = errors.New("client: client closed")
	// ErrNilError resolves CaptureException(nil).
	ErrNilError = errors.New("client: nil error captured")
)

// DeliveryError reports a transport failure for one event.
type DeliveryError struct {
	EventID string
	Err     error
}

func (e *DeliveryError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("client: deliver event %s: %v", e.EventID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
