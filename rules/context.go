package rules

import "time"

// Context carries the inputs of one evaluation.
type Context struct {
	Payload  map[string]any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
	Name     string
}

func (ctx Context) withDefaultNow() Context {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx Context) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx Context) withDefaultMaps() Context {
	if ctx.Payload == nil {
		ctx.Payload = map[string]any{}
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx Context) withDefaults() Context {
	return ctx.withDefaultNow().withDefaultMaps()
}

func (ctx Context) label() string {
	if ctx.Name != "" {
		return ctx.Name
	}
	return "unnamed"
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx Context, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx Context) (any, error)
}

// EngineName reports which engine backs e.
func EngineName(e Evaluator) string {
	switch e.(type) {
	case nil:
		return "unknown"
	case *exprEvaluator:
		return "expr"
	case *celEvaluator:
		return "cel"
	default:
		if isJSEvaluator(e) {
			return "js"
		}
		return "custom"
	}
}
