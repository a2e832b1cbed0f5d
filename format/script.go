package format

import (
	"context"
	"fmt"

	"github.com/dop251/goja"
)

// Engine evaluates inline formatter expressions.
type Engine interface {
	// Eval evaluates expr with the resolved value bound as "value" and
	// returns the expression result as a string.
	Eval(ctx context.Context, expr, value string) (string, error)
}

// GojaEngine evaluates formatter expressions in a JavaScript runtime. It is
// not safe for concurrent use; the render pipeline is single-threaded.
type GojaEngine struct {
	vm *goja.Runtime
}

// NewGojaEngine returns a fresh JavaScript engine.
func NewGojaEngine() *GojaEngine {
	return &GojaEngine{vm: goja.New()}
}

// Eval implements Engine. The context deadline interrupts long-running
// expressions.
func (e *GojaEngine) Eval(ctx context.Context, expr, value string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := e.vm.Set("value", value); err != nil {
		return "", err
	}

	done := make(chan struct{})
	defer close(done)
	defer e.vm.ClearInterrupt()

	go func() {
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	result, err := e.vm.RunString(expr)
	if err != nil {
		if interrupted, ok := err.(*goja.InterruptedError); ok {
			if cause := interrupted.Unwrap(); cause != nil {
				return "", cause
			}
			return "", context.Canceled
		}
		return "", fmt.Errorf("evaluating %q: %w", expr, err)
	}
	return result.String(), nil
}
