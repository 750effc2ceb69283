package shim

import (
	"github.com/goliatone/go-shim/layering"
)

// Context groups the contextual buckets a scope carries.
type Context struct {
	User  map[string]any `json:"user,omitempty"`
	Tags  map[string]any `json:"tags,omitempty"`
	Extra map[string]any `json:"extra,omitempty"`
}

// Scope is the mutable bag of contextual data attached to one frame. Scopes
// are not safe for concurrent mutation.
type Scope struct {
	context     Context
	breadcrumbs []Breadcrumb
	fingerprint []string
	level       Level

	client Client
}

// ScopeOption seeds a Scope on creation.
type ScopeOption func(*Scope)

// WithScopeUser seeds the user bucket. The map is copied.
func WithScopeUser(user map[string]any) ScopeOption {
	return func(s *Scope) {
		s.context.User = copyBucket(user)
	}
}

// WithScopeTags seeds the tags bucket. The map is copied.
func WithScopeTags(tags map[string]any) ScopeOption {
	return func(s *Scope) {
		s.context.Tags = copyBucket(tags)
	}
}

// WithScopeExtra seeds the extra bucket. The map is copied.
func WithScopeExtra(extra map[string]any) ScopeOption {
	return func(s *Scope) {
		s.context.Extra = copyBucket(extra)
	}
}

// WithScopeFingerprint seeds the fingerprint.
func WithScopeFingerprint(fingerprint ...string) ScopeOption {
	return func(s *Scope) {
		s.fingerprint = normalizeFingerprint(fingerprint)
	}
}

// WithScopeLevel seeds the level override.
func WithScopeLevel(level Level) ScopeOption {
	return func(s *Scope) {
		s.level = level
	}
}

// NewScope builds an unbound scope. Seeding through options never notifies a
// client.
func NewScope(opts ...ScopeOption) *Scope {
	s := &Scope{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// SetUserContext shallow-merges data into the user bucket. A nil or empty
// map clears the bucket instead.
func (s *Scope) SetUserContext(data map[string]any) {
	if s == nil {
		return
	}
	s.context.User = mergeBucket(s.context.User, data)
	s.notify(ContextUpdate{User: copyBucket(s.context.User)})
}

// SetTagsContext shallow-merges data into the tags bucket. A nil or empty map
// clears the bucket instead.
func (s *Scope) SetTagsContext(data map[string]any) {
	if s == nil {
		return
	}
	s.context.Tags = mergeBucket(s.context.Tags, data)
	s.notify(ContextUpdate{Tags: copyBucket(s.context.Tags)})
}

// SetExtraContext shallow-merges data into the extra bucket. A nil or empty
// map clears the bucket instead.
func (s *Scope) SetExtraContext(data map[string]any) {
	if s == nil {
		return
	}
	s.context.Extra = mergeBucket(s.context.Extra, data)
	s.notify(ContextUpdate{Extra: copyBucket(s.context.Extra)})
}

// SetFingerprint replaces the grouping override. A single value becomes a
// one-element fingerprint; no values restores default grouping.
func (s *Scope) SetFingerprint(fingerprint ...string) {
	if s == nil {
		return
	}
	s.fingerprint = normalizeFingerprint(fingerprint)
}

// SetLevel overrides the level of events built from this scope.
func (s *Scope) SetLevel(level Level) {
	if s == nil {
		return
	}
	s.level = level
}

// AddBreadcrumb appends breadcrumb. When limit is positive only the newest
// limit breadcrumbs are kept. Clients call this from their BreadcrumbRecorder.
func (s *Scope) AddBreadcrumb(breadcrumb Breadcrumb, limit int) {
	if s == nil {
		return
	}
	s.breadcrumbs = append(s.breadcrumbs, breadcrumb)
	if limit > 0 && len(s.breadcrumbs) > limit {
		kept := make([]Breadcrumb, limit)
		copy(kept, s.breadcrumbs[len(s.breadcrumbs)-limit:])
		s.breadcrumbs = kept
	}
}

// Context returns a copy of the contextual buckets.
func (s *Scope) Context() Context {
	if s == nil {
		return Context{}
	}
	return Context{
		User:  copyBucket(s.context.User),
		Tags:  copyBucket(s.context.Tags),
		Extra: copyBucket(s.context.Extra),
	}
}

// User returns a copy of the user bucket.
func (s *Scope) User() map[string]any {
	if s == nil {
		return nil
	}
	return copyBucket(s.context.User)
}

// Tags returns a copy of the tags bucket.
func (s *Scope) Tags() map[string]any {
	if s == nil {
		return nil
	}
	return copyBucket(s.context.Tags)
}

// Extra returns a copy of the extra bucket.
func (s *Scope) Extra() map[string]any {
	if s == nil {
		return nil
	}
	return copyBucket(s.context.Extra)
}

// Breadcrumbs returns the breadcrumbs in insertion order.
func (s *Scope) Breadcrumbs() []Breadcrumb {
	if s == nil || len(s.breadcrumbs) == 0 {
		return nil
	}
	out := make([]Breadcrumb, len(s.breadcrumbs))
	copy(out, s.breadcrumbs)
	return out
}

// Fingerprint returns the grouping override, or nil.
func (s *Scope) Fingerprint() []string {
	if s == nil {
		return nil
	}
	return normalizeFingerprint(s.fingerprint)
}

// Level returns the level override, or the zero Level.
func (s *Scope) Level() Level {
	if s == nil {
		return ""
	}
	return s.level
}

// Client returns the client of the frame this scope belongs to.
func (s *Scope) Client() Client {
	if s == nil {
		return nil
	}
	return s.client
}

// IsEmpty reports whether the scope carries no data.
func (s *Scope) IsEmpty() bool {
	if s == nil {
		return true
	}
	return len(s.context.User) == 0 &&
		len(s.context.Tags) == 0 &&
		len(s.context.Extra) == 0 &&
		len(s.breadcrumbs) == 0 &&
		len(s.fingerprint) == 0 &&
		s.level == ""
}

// Clear drops all data while keeping the frame binding.
func (s *Scope) Clear() {
	if s == nil {
		return
	}
	s.context = Context{}
	s.breadcrumbs = nil
	s.fingerprint = nil
	s.level = ""
}

// Clone deep copies the scope data. The copy is not bound to any client.
func (s *Scope) Clone() *Scope {
	if s == nil {
		return NewScope()
	}
	return &Scope{
		context:     layering.Clone(s.context),
		breadcrumbs: layering.Clone(s.breadcrumbs),
		fingerprint: normalizeFingerprint(s.fingerprint),
		level:       s.level,
	}
}

// ApplyToEvent returns a copy of event enriched with the scope data. Keys
// already present on the event win over scope values, including keys
// explicitly set to nil. Scope breadcrumbs are
// appended after the event's own and the scope level, when set, overrides the
// event level.
func (s *Scope) ApplyToEvent(event *Event) *Event {
	var out Event
	if event != nil {
		out = layering.Clone(*event)
	}
	if s == nil {
		return &out
	}
	out.User = mergeEventBucket(out.User, s.context.User)
	out.Tags = mergeEventBucket(out.Tags, s.context.Tags)
	out.Extra = mergeEventBucket(out.Extra, s.context.Extra)
	if len(out.Fingerprint) == 0 && len(s.fingerprint) > 0 {
		out.Fingerprint = normalizeFingerprint(s.fingerprint)
	}
	if len(s.breadcrumbs) > 0 {
		out.Breadcrumbs = append(out.Breadcrumbs, layering.Clone(s.breadcrumbs)...)
	}
	if s.level != "" {
		out.Level = s.level
	}
	return &out
}

func (s *Scope) notify(update ContextUpdate) {
	if setter, ok := s.client.(ContextSetter); ok {
		setter.SetContext(update, s)
	}
}

// bind attaches the scope to a frame client.
func (s *Scope) bind(client Client) *Scope {
	s.client = client
	return s
}

func mergeEventBucket(event, scope map[string]any) map[string]any {
	if len(scope) == 0 {
		return event
	}
	return layering.MergeLayers(event, scope)
}

func mergeBucket(bucket, data map[string]any) map[string]any {
	if len(data) == 0 {
		return map[string]any{}
	}
	return layering.MergeMaps(bucket, data)
}

func copyBucket(bucket map[string]any) map[string]any {
	if bucket == nil {
		return nil
	}
	out := make(map[string]any, len(bucket))
	for key, value := range bucket {
		out[key] = value
	}
	return out
}

func normalizeFingerprint(fingerprint []string) []string {
	if len(fingerprint) == 0 {
		return nil
	}
	return append([]string(nil), fingerprint...)
}
