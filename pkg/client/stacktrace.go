package client

import (
	"errors"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"

	shim "github.com/goliatone/go-shim"
)

const (
	maxStackDepth = 64
	maxErrorDepth = 10
)

// internalPrefixes mark frames of the shim itself, trimmed from the top of
// captured stacks.
var internalPrefixes = []string{
	"github.com/goliatone/go-shim.",
	"github.com/goliatone/go-shim/pkg/client.",
}

// captureStacktrace records the caller's stack, outermost frame first. skip
// counts frames above captureStacktrace's caller.
func captureStacktrace(skip int) *shim.Stacktrace {
	pc := make([]uintptr, maxStackDepth)
	n := runtime.Callers(skip+2, pc)
	if n == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pc[:n])

	var collected []shim.StackFrame
	trimming := true
	for {
		fr, more := frames.Next()
		if trimming && isInternal(fr.Function) {
			if !more {
				break
			}
			continue
		}
		trimming = false
		collected = append(collected, newStackFrame(fr))
		if !more {
			break
		}
	}
	if len(collected) == 0 {
		return nil
	}
	for i, j := 0, len(collected)-1; i < j; i, j = i+1, j-1 {
		collected[i], collected[j] = collected[j], collected[i]
	}
	return &shim.Stacktrace{Frames: collected}
}

func newStackFrame(fr runtime.Frame) shim.StackFrame {
	module, function := splitFunction(fr.Function)
	return shim.StackFrame{
		Function: function,
		Module:   module,
		Filename: filepath.Base(fr.File),
		AbsPath:  fr.File,
		Lineno:   fr.Line,
		InApp:    isInApp(module),
	}
}

// splitFunction separates "pkg/path.(*T).Method" into its package path and
// the remaining symbol.
func splitFunction(name string) (string, string) {
	slash := strings.LastIndex(name, "/")
	dot := strings.Index(name[slash+1:], ".")
	if dot < 0 {
		return "", name
	}
	dot += slash + 1
	return name[:dot], name[dot+1:]
}

func isInternal(function string) bool {
	for _, prefix := range internalPrefixes {
		if strings.HasPrefix(function, prefix) {
			return true
		}
	}
	return false
}

func isInApp(module string) bool {
	if module == "" || module == "runtime" || module == "testing" {
		return false
	}
	return !strings.HasPrefix(module, "runtime/")
}

// exceptionChain walks err's unwrap chain. The innermost cause comes first;
// the outermost error, the one passed to CaptureException, carries stack.
func exceptionChain(err error, stack *shim.Stacktrace) []shim.Exception {
	var chain []shim.Exception
	for current := err; current != nil && len(chain) < maxErrorDepth; current = errors.Unwrap(current) {
		chain = append(chain, shim.Exception{
			Type:   reflect.TypeOf(current).String(),
			Value:  current.Error(),
			Module: errorModule(current),
		})
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	if len(chain) > 0 {
		chain[len(chain)-1].Stacktrace = stack
	}
	return chain
}

func errorModule(err error) string {
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.PkgPath()
}
