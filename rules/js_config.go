package rules

import "time"

// DefaultJSTimeout bounds a single JS rule run.
const DefaultJSTimeout = 50 * time.Millisecond

// JSEvaluatorOption tunes the goja-backed evaluator.
type JSEvaluatorOption func(*jsSettings)

type jsSettings struct {
	cache    ProgramCache
	registry *FunctionRegistry
	timeout  time.Duration
}

// JSWithProgramCache keeps compiled scripts keyed by rule source.
func JSWithProgramCache(cache ProgramCache) JSEvaluatorOption {
	return func(s *jsSettings) {
		s.cache = cache
	}
}

// JSWithFunctionRegistry exposes registry functions as script globals. The
// registry is cloned.
func JSWithFunctionRegistry(registry *FunctionRegistry) JSEvaluatorOption {
	return func(s *jsSettings) {
		if registry != nil {
			s.registry = registry.Clone()
		}
	}
}

// JSWithTimeout interrupts scripts running longer than timeout. Zero or a
// negative value disables the limit.
func JSWithTimeout(timeout time.Duration) JSEvaluatorOption {
	return func(s *jsSettings) {
		if timeout < 0 {
			timeout = 0
		}
		s.timeout = timeout
	}
}

func jsSettingsFrom(opts []JSEvaluatorOption) jsSettings {
	settings := jsSettings{timeout: DefaultJSTimeout}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&settings)
	}
	return settings
}
