package rules

import (
	"fmt"
	"strings"
	"time"
)

// FilterOption customises a Filter.
type FilterOption func(*Filter)

// WithFilterLogger routes evaluation events to logger.
func WithFilterLogger(logger Logger) FilterOption {
	return func(f *Filter) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithFilterName labels the filter in errors and log events.
func WithFilterName(name string) FilterOption {
	return func(f *Filter) {
		f.name = strings.TrimSpace(name)
	}
}

// Filter is a compiled boolean rule. A payload is allowed when the rule
// yields true.
type Filter struct {
	engine string
	expr   string
	name   string
	rule   CompiledRule
	logger Logger
}

// NewFilter compiles expr with evaluator.
func NewFilter(evaluator Evaluator, expr string, opts ...FilterOption) (*Filter, error) {
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	expr = strings.TrimSpace(expr)
	engine := EngineName(evaluator)
	if expr == "" {
		return nil, wrapEvaluatorError(engine, ErrEmptyExpression)
	}
	rule, err := evaluator.Compile(expr)
	if err != nil {
		return nil, err
	}
	f := &Filter{
		engine: engine,
		expr:   expr,
		rule:   rule,
		logger: noopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

// Expression returns the rule source.
func (f *Filter) Expression() string {
	if f == nil {
		return ""
	}
	return f.expr
}

// Allow evaluates the rule against payload.
func (f *Filter) Allow(payload map[string]any) (bool, error) {
	return f.AllowWith(Context{Payload: payload})
}

// AllowWith evaluates the rule against a full rule context.
func (f *Filter) AllowWith(ctx Context) (bool, error) {
	if f == nil {
		return true, nil
	}
	if ctx.Name == "" {
		ctx.Name = f.name
	}
	start := time.Now()
	result, err := f.rule.Evaluate(ctx)
	if err == nil {
		if _, ok := result.(bool); !ok {
			err = wrapEvaluationError(f.engine, f.expr, ctx.label(), fmt.Errorf("%w: got %T", ErrNotBoolean, result))
		}
	}
	f.logger.LogEvaluation(LogEvent{
		Engine:   f.engine,
		Expr:     f.expr,
		Rule:     ctx.label(),
		Duration: time.Since(start),
		Result:   result,
		Err:      err,
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}
