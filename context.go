package shim

import "context"

type hubContextKey struct{}

// NewContext returns a copy of ctx carrying hub.
func NewContext(ctx context.Context, hub *Hub) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, hubContextKey{}, hub)
}

// HubFromContext returns the hub stored in ctx, if any.
func HubFromContext(ctx context.Context) (*Hub, bool) {
	if ctx == nil {
		return nil, false
	}
	hub, ok := ctx.Value(hubContextKey{}).(*Hub)
	return hub, ok && hub != nil
}

// CurrentHub returns the hub carried by ctx, falling back to DefaultHub.
func CurrentHub(ctx context.Context) *Hub {
	if hub, ok := HubFromContext(ctx); ok {
		return hub
	}
	return DefaultHub()
}
