package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Function is a callable exposed to rule expressions.
type Function func(args ...any) (any, error)

// FunctionRegistry stores custom functions keyed by case-insensitive name.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]registeredFunction
}

type registeredFunction struct {
	name string
	fn   Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]registeredFunction),
	}
}

// DefaultFunctions returns a registry preloaded with string helpers useful in
// report filters: hasPrefix, hasSuffix, containsText and matches.
func DefaultFunctions() *FunctionRegistry {
	r := NewFunctionRegistry()
	_ = r.Register("hasPrefix", stringPredicate("hasPrefix", strings.HasPrefix))
	_ = r.Register("hasSuffix", stringPredicate("hasSuffix", strings.HasSuffix))
	_ = r.Register("containsText", stringPredicate("containsText", strings.Contains))
	_ = r.Register("matches", func(args ...any) (any, error) {
		value, pattern, err := stringPair("matches", args)
		if err != nil {
			return nil, err
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("rules: matches: %w", err)
		}
		return re.MatchString(value), nil
	})
	return r
}

// Register stores fn under name, rejecting duplicates.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	if fn == nil {
		return fmt.Errorf("rules: function %q is nil", name)
	}
	key := normalizeName(name)
	if key == "" {
		return fmt.Errorf("rules: function name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]registeredFunction)
	}
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("rules: function %q already registered", name)
	}
	r.functions[key] = registeredFunction{name: strings.TrimSpace(name), fn: fn}
	return nil
}

// Has reports whether name is registered.
func (r *FunctionRegistry) Has(name string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.functions[normalizeName(name)]
	return ok
}

// Clone returns a shallow copy of the registry.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &FunctionRegistry{
		functions: make(map[string]registeredFunction, len(r.functions)),
	}
	for key, entry := range r.functions {
		clone.functions[key] = entry
	}
	return clone
}

// Call executes the function registered for name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("rules: function registry is nil")
	}
	r.mu.RLock()
	entry := r.functions[normalizeName(name)]
	r.mu.RUnlock()
	if entry.fn == nil {
		return nil, fmt.Errorf("rules: function %q not registered", name)
	}
	return entry.fn(args...)
}

// Names returns registered function names, as registered, sorted
// alphabetically.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for _, entry := range r.functions {
		names = append(names, entry.name)
	}
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func stringPredicate(name string, fn func(s, arg string) bool) Function {
	return func(args ...any) (any, error) {
		value, arg, err := stringPair(name, args)
		if err != nil {
			return nil, err
		}
		return fn(value, arg), nil
	}
}

func stringPair(name string, args []any) (string, string, error) {
	if len(args) != 2 {
		return "", "", fmt.Errorf("rules: %s expects 2 args, got %d", name, len(args))
	}
	value, _ := args[0].(string)
	arg, ok := args[1].(string)
	if !ok {
		return "", "", fmt.Errorf("rules: %s expects a string argument", name)
	}
	return value, arg, nil
}
