package rules

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapEvaluationErrorCreatesMetadata(t *testing.T) {
	base := errors.New("boom")
	err := wrapEvaluationError("expr", "level && missing", "drop-debug", base)

	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	if evalErr.Engine != "expr" {
		t.Fatalf("expected engine expr, got %q", evalErr.Engine)
	}
	if evalErr.Expr != "level && missing" {
		t.Fatalf("expected expression metadata, got %q", evalErr.Expr)
	}
	if evalErr.Rule != "drop-debug" {
		t.Fatalf("expected rule metadata, got %q", evalErr.Rule)
	}
	if !errors.Is(evalErr, base) {
		t.Fatalf("wrapped error should unwrap to base error")
	}
}

func TestWrapEvaluationErrorAugmentsExisting(t *testing.T) {
	base := errors.New("compile failure")
	existing := &EvaluationError{
		Engine: "expr",
		Err:    base,
	}

	err := wrapEvaluationError("cel", "rule", "sample", existing)
	if !errors.Is(err, base) {
		t.Fatalf("expected base error to unwrap")
	}
	if existing.Engine != "expr" {
		t.Fatalf("existing engine should not be overwritten, got %q", existing.Engine)
	}
	if existing.Expr != "rule" {
		t.Fatalf("expression should be filled, got %q", existing.Expr)
	}
	if existing.Rule != "sample" {
		t.Fatalf("rule should be filled, got %q", existing.Rule)
	}
}

func TestWrapEvaluatorErrorPrefixesEngine(t *testing.T) {
	err := wrapEvaluatorError("cel", errors.New("env failure"))
	if !strings.HasPrefix(err.Error(), "rules: cel evaluator:") {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if wrapEvaluatorError("cel", ErrEmptyExpression) != ErrEmptyExpression {
		t.Fatalf("package errors should pass through unchanged")
	}
	if wrapEvaluatorError("cel", nil) != nil {
		t.Fatalf("nil error should stay nil")
	}
}

func TestEvaluationErrorMessage(t *testing.T) {
	err := &EvaluationError{Engine: "js", Rule: "r1", Err: errors.New("bad")}
	want := "rules: js evaluator expr=<empty> rule=r1: bad"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
	var nilErr *EvaluationError
	if nilErr.Error() != "<nil>" || nilErr.Unwrap() != nil {
		t.Fatalf("nil EvaluationError should be inert")
	}
}
