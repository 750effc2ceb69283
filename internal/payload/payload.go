// Package payload converts between typed values and JSON-shaped maps, the
// loose form rules evaluate and transports forward.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Encode returns v as a JSON-shaped map. A nil v yields an empty map.
func Encode(v any) (map[string]any, error) {
	out := map[string]any{}
	if v == nil {
		return out, nil
	}
	buffer, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("payload: encode %T: %w", v, err)
	}
	if err := json.Unmarshal(buffer, &out); err != nil {
		return nil, fmt.Errorf("payload: encode %T: %w", v, err)
	}
	return out, nil
}

// PreHook rewrites the map before decoding. Returning nil keeps the input.
type PreHook func(map[string]any) (map[string]any, error)

// PostHook adjusts or validates the decoded value.
type PostHook[T any] func(*T) error

// DecoderOption configures a Decoder.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts maps into T.
type Decoder[T any] struct {
	preHooks      []PreHook
	postHooks     []PostHook[T]
	strictUnknown bool
}

// WithPreHook applies hook prior to decoding.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook applies hook after decoding completes.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithDisallowUnknownFields rejects keys T does not declare.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.strictUnknown = true
	}
}

// NewDecoder builds a Decoder.
func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts payload into T. The input map is never mutated; hooks see
// a detached copy.
func (d *Decoder[T]) Decode(payload map[string]any) (T, error) {
	var zero T
	if payload == nil {
		return zero, fmt.Errorf("payload: nil map")
	}

	current, err := Encode(payload)
	if err != nil {
		return zero, err
	}
	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(current)
		if err != nil {
			return zero, fmt.Errorf("payload: pre-hook: %w", err)
		}
		if next != nil {
			current = next
		}
	}

	buffer, err := json.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("payload: marshal: %w", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(buffer))
	if d.strictUnknown {
		decoder.DisallowUnknownFields()
	}
	var result T
	if err := decoder.Decode(&result); err != nil {
		return zero, fmt.Errorf("payload: decode %T: %w", result, err)
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(&result); err != nil {
			return zero, fmt.Errorf("payload: post-hook: %w", err)
		}
	}
	return result, nil
}
