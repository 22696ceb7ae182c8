package starlark

import (
	"fmt"
	"sync"

	"go.starlark.net/starlark"
)

// ExecutionContext provides all globals for evaluating template expressions.
type ExecutionContext struct {
	// Data is the template data, one global per key
	Data starlark.StringDict

	// Compress is exposed as the "compress" global
	Compress bool

	// globals is the combined set of all globals for execution
	globals starlark.StringDict

	// pool supplies threads when set; otherwise a thread is created per eval
	pool *ThreadPool

	// mu protects globals during initialization
	mu sync.RWMutex
}

// ContextOption is a functional option for configuring ExecutionContext.
type ContextOption func(*ExecutionContext)

// WithThreadPool makes the context borrow its threads from pool.
func WithThreadPool(pool *ThreadPool) ContextOption {
	return func(ctx *ExecutionContext) {
		ctx.pool = pool
	}
}

// NewExecutionContext converts data into Starlark globals.
// Keys of data may not shadow builtins.
func NewExecutionContext(data map[string]any, compress bool, opts ...ContextOption) (*ExecutionContext, error) {
	converted, err := DataToStarlark(data)
	if err != nil {
		return nil, err
	}
	for name := range converted {
		if IsBuiltin(name) {
			return nil, fmt.Errorf("template data key %q conflicts with builtin", name)
		}
	}

	ctx := &ExecutionContext{
		Data:     converted,
		Compress: compress,
	}
	for _, opt := range opts {
		opt(ctx)
	}
	ctx.buildGlobals()
	return ctx, nil
}

// buildGlobals constructs the combined globals dict.
func (ctx *ExecutionContext) buildGlobals() {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	ctx.globals = Predeclared(ctx.Compress)
	for name, v := range ctx.Data {
		ctx.globals[name] = v
	}
}

// Globals returns the combined globals dictionary for Starlark execution.
func (ctx *ExecutionContext) Globals() starlark.StringDict {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.globals
}

// EvalExpr evaluates a single Starlark expression and returns the result.
// This is used for {{ expr }} template expressions.
func (ctx *ExecutionContext) EvalExpr(expr string, filename string, line int) (starlark.Value, error) {
	return ctx.EvalExprWithLocals(expr, filename, line, nil)
}

// EvalExprWithLocals evaluates a Starlark expression with additional local variables.
// This is used for expressions inside loops where loop variables need to be in scope.
func (ctx *ExecutionContext) EvalExprWithLocals(expr string, filename string, line int, locals starlark.StringDict) (starlark.Value, error) {
	thread := ctx.acquireThread(filename)

	// Combine globals with locals (locals take precedence)
	globals := ctx.Globals()
	if len(locals) > 0 {
		combined := make(starlark.StringDict, len(globals)+len(locals))
		for k, v := range globals {
			combined[k] = v
		}
		for k, v := range locals {
			combined[k] = v
		}
		globals = combined
	}

	result, err := starlark.Eval(thread, filename, expr, globals) //nolint:staticcheck // SA1019: will migrate to EvalOptions later
	if err != nil {
		// the thread may be cancelled; let it go
		return nil, &EvalError{
			File:    filename,
			Line:    line,
			Expr:    expr,
			Message: err.Error(),
		}
	}

	ctx.releaseThread(thread)
	return result, nil
}

// EvalExprString evaluates a Starlark expression and returns the string result.
func (ctx *ExecutionContext) EvalExprString(expr string, filename string, line int) (string, error) {
	return ctx.EvalExprStringWithLocals(expr, filename, line, nil)
}

// EvalExprStringWithLocals evaluates a Starlark expression with local variables and returns the string result.
func (ctx *ExecutionContext) EvalExprStringWithLocals(expr string, filename string, line int, locals starlark.StringDict) (string, error) {
	result, err := ctx.EvalExprWithLocals(expr, filename, line, locals)
	if err != nil {
		return "", err
	}
	return ValueString(result), nil
}

// ValueString converts a result to the text a template emits:
// strings unquoted, None as empty, everything else in Starlark form.
func ValueString(v starlark.Value) string {
	switch val := v.(type) {
	case starlark.String:
		return string(val)
	case starlark.NoneType:
		return ""
	default:
		return v.String()
	}
}

func (ctx *ExecutionContext) acquireThread(name string) *starlark.Thread {
	if ctx.pool != nil {
		return ctx.pool.Get(name)
	}
	return newThread(name, DefaultMaxSteps)
}

func (ctx *ExecutionContext) releaseThread(thread *starlark.Thread) {
	if ctx.pool != nil {
		ctx.pool.Put(thread)
	}
}

// EvalError represents an error during Starlark expression evaluation.
type EvalError struct {
	File    string
	Line    int
	Expr    string
	Message string
}

func (e *EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: error evaluating %q: %s", e.File, e.Line, e.Expr, e.Message)
	}
	return fmt.Sprintf("%s: error evaluating %q: %s", e.File, e.Expr, e.Message)
}
