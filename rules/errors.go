package rules

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyExpression is returned when a rule has no source.
	ErrEmptyExpression = errors.New("rules: expression must not be empty")
	// ErrNoEvaluator is returned when a filter is built without an evaluator.
	ErrNoEvaluator = errors.New("rules: evaluator not configured")
	// ErrNotBoolean is returned when a filter rule yields a non-boolean value.
	ErrNotBoolean = errors.New("rules: filter must evaluate to a boolean")
	// ErrRuleTimeout is returned when a script exceeds its run time limit.
	ErrRuleTimeout = errors.New("rules: rule timed out")
)

// EvaluationError captures evaluator metadata alongside the originating error.
type EvaluationError struct {
	Engine string
	Expr   string
	Rule   string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("rules: %s evaluator %s rule=%s: %v", e.Engine, describeExpression(e.Expr), e.Rule, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "rules:") {
		return err
	}
	return fmt.Errorf("rules: %s evaluator: %w", engine, err)
}

func wrapEvaluationError(engine, expr, rule string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Rule == "" {
			evalErr.Rule = rule
		}
		return evalErr
	}

	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Rule:   rule,
		Err:    err,
	}
}
