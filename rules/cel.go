package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// CELEvaluatorOption configures the CEL evaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache wires a ProgramCache into the CEL evaluator.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry wires a FunctionRegistry into the CEL evaluator.
// Registered functions accept one to three dynamic arguments.
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(e *celEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

type celProgram struct {
	env     *celgo.Env
	program celgo.Program
}

type celEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELEvaluator constructs an Evaluator backed by cel-go.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEvaluator) Evaluate(ctx Context, expression string) (any, error) {
	if expression == "" {
		return nil, wrapEvaluatorError("cel", ErrEmptyExpression)
	}
	ctx = ctx.withDefaults()
	program, err := e.loadOrCompile(expression, ctx.Payload)
	if err != nil {
		return nil, err
	}
	out, _, err := program.program.Eval(e.activation(ctx))
	if err != nil {
		return nil, wrapEvaluationError("cel", expression, ctx.label(), err)
	}
	return out.Value(), nil
}

// Compile validates expression against an empty payload. Programs are built
// per payload shape on evaluation since CEL declares variables up front.
func (e *celEvaluator) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, wrapEvaluatorError("cel", ErrEmptyExpression)
	}
	env, err := e.buildEnv(nil)
	if err != nil {
		return nil, wrapEvaluatorError("cel", err)
	}
	if _, issues := env.Parse(expression); issues != nil && issues.Err() != nil {
		return nil, wrapEvaluationError("cel", expression, "", issues.Err())
	}
	return &celCompiledRule{
		evaluator:  e,
		expression: expression,
	}, nil
}

func (e *celEvaluator) loadOrCompile(expression string, payload map[string]any) (*celProgram, error) {
	key := cacheKey(expression, payload)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(*celProgram); ok {
				return program, nil
			}
		}
	}

	env, err := e.buildEnv(payload)
	if err != nil {
		return nil, wrapEvaluatorError("cel", err)
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, wrapEvaluationError("cel", expression, "", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, wrapEvaluationError("cel", expression, "", err)
	}

	bundle := &celProgram{
		env:     env,
		program: prg,
	}
	if e.cache != nil {
		e.cache.Set(key, bundle)
	}
	return bundle, nil
}

func (e *celEvaluator) buildEnv(payload map[string]any) (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("now", celgo.TimestampType),
		celgo.Variable("args", celgo.DynType),
		celgo.Variable("metadata", celgo.DynType),
	}
	for _, key := range payloadKeys(payload) {
		opts = append(opts, celgo.Variable(key, celgo.DynType))
	}
	if e.registry != nil {
		for _, name := range e.registry.Names() {
			if _, builtin := celBuiltins[name]; builtin {
				continue
			}
			opts = append(opts, e.functionDecl(name))
		}
	}
	return celgo.NewEnv(opts...)
}

func (e *celEvaluator) functionDecl(name string) celgo.EnvOption {
	dyn := celgo.DynType
	return celgo.Function(name,
		celgo.Overload(name+"_dyn1", []*celgo.Type{dyn}, dyn,
			celgo.UnaryBinding(func(arg ref.Val) ref.Val {
				return e.invoke(name, arg)
			})),
		celgo.Overload(name+"_dyn2", []*celgo.Type{dyn, dyn}, dyn,
			celgo.BinaryBinding(func(lhs, rhs ref.Val) ref.Val {
				return e.invoke(name, lhs, rhs)
			})),
		celgo.Overload(name+"_dyn3", []*celgo.Type{dyn, dyn, dyn}, dyn,
			celgo.FunctionBinding(func(values ...ref.Val) ref.Val {
				return e.invoke(name, values...)
			})),
	)
}

func (e *celEvaluator) invoke(name string, values ...ref.Val) ref.Val {
	args := make([]any, 0, len(values))
	for _, val := range values {
		args = append(args, val.Value())
	}
	result, err := e.registry.Call(name, args...)
	if err != nil {
		return types.NewErr("%s", err.Error())
	}
	if result == nil {
		return types.NullValue
	}
	return types.DefaultTypeAdapter.NativeToValue(result)
}

func (e *celEvaluator) activation(ctx Context) map[string]any {
	activation := map[string]any{}
	for key, value := range ctx.Payload {
		activation[key] = value
	}
	activation["now"] = ctx.timestamp()
	activation["args"] = ctx.Args
	activation["metadata"] = ctx.Metadata
	return activation
}

type celCompiledRule struct {
	evaluator  *celEvaluator
	expression string
}

func (r *celCompiledRule) Evaluate(ctx Context) (any, error) {
	return r.evaluator.Evaluate(ctx, r.expression)
}

// celBuiltins are not redeclared; CEL already provides them for strings.
var celBuiltins = map[string]struct{}{
	"matches":    {},
	"contains":   {},
	"startsWith": {},
	"endsWith":   {},
	"size":       {},
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var reservedNames = map[string]struct{}{"now": {}, "args": {}, "metadata": {}}

func payloadKeys(payload map[string]any) []string {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		if _, reserved := reservedNames[key]; reserved {
			continue
		}
		if !identifier.MatchString(key) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func cacheKey(expression string, payload map[string]any) string {
	return fmt.Sprintf("%s|%s", expression, strings.Join(payloadKeys(payload), ","))
}
