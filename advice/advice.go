package advice

import (
	"context"
	"reflect"

	"github.com/glimte/weave-go/contracts"
)

// Invocation is the call-scoped record handed to Around advice. Exactly one
// Invocation exists per dispatched call; it is owned by that call's stack and
// must not be retained for deferred use.
type Invocation interface {
	// ID returns the unique id assigned to this call for log correlation.
	ID() string

	// Method returns the identity of the invoked method.
	Method() *contracts.Method

	// Args returns the live argument sequence. Mutations through SetArg are
	// visible to downstream advice and to the target.
	Args() []any

	// SetArg replaces one argument before continuation.
	SetArg(i int, v any)

	// Target returns the real target object behind the proxy.
	Target() any

	// Proxy returns the caller-visible proxy handle.
	Proxy() any

	// Proceed advances to the next handler in the resolved chain, or to the
	// real target method when none remain. At most one call per Around
	// advice is the documented usage; further calls re-run the target and
	// the hazard of double execution is owned by the advice author.
	Proceed(ctx context.Context) (any, error)
}

// Around is advice that wraps the continuation. It decides if, when, and
// with what arguments the rest of the chain runs, and may replace the result
// or failure flowing back.
type Around interface {
	// Advise processes the invocation and calls inv.Proceed to continue.
	Advise(ctx context.Context, inv Invocation) (any, error)

	// Name returns the advice name for logging and debugging.
	Name() string
}

// AroundFunc is a function adapter for Around.
type AroundFunc struct {
	name string
	fn   func(ctx context.Context, inv Invocation) (any, error)
}

// NewAroundFunc creates a new function-based Around advice.
func NewAroundFunc(name string, fn func(ctx context.Context, inv Invocation) (any, error)) *AroundFunc {
	return &AroundFunc{name: name, fn: fn}
}

// Advise implements Around.
func (a *AroundFunc) Advise(ctx context.Context, inv Invocation) (any, error) {
	return a.fn(ctx, inv)
}

// Name implements Around.
func (a *AroundFunc) Name() string { return a.name }

// Before is advice that runs prior to continuation. It cannot alter the
// eventual result; a failure it returns aborts the call before the target
// executes.
type Before interface {
	// Before runs ahead of the target. Returning an error prevents
	// continuation entirely.
	Before(ctx context.Context, m *contracts.Method, args []any, target any) error

	// Name returns the advice name for logging and debugging.
	Name() string
}

// BeforeFunc is a function adapter for Before.
type BeforeFunc struct {
	name string
	fn   func(ctx context.Context, m *contracts.Method, args []any, target any) error
}

// NewBeforeFunc creates a new function-based Before advice.
func NewBeforeFunc(name string, fn func(ctx context.Context, m *contracts.Method, args []any, target any) error) *BeforeFunc {
	return &BeforeFunc{name: name, fn: fn}
}

// Before implements Before.
func (b *BeforeFunc) Before(ctx context.Context, m *contracts.Method, args []any, target any) error {
	return b.fn(ctx, m, args, target)
}

// Name implements Before.
func (b *BeforeFunc) Name() string { return b.name }

// AfterReturning is advice that runs only when the call completed
// successfully. The result is read-only; a failure it returns replaces the
// successful outcome.
type AfterReturning interface {
	// AfterReturning observes the successful result.
	AfterReturning(ctx context.Context, result any, m *contracts.Method, args []any, target any) error

	// Name returns the advice name for logging and debugging.
	Name() string
}

// AfterReturningFunc is a function adapter for AfterReturning.
type AfterReturningFunc struct {
	name string
	fn   func(ctx context.Context, result any, m *contracts.Method, args []any, target any) error
}

// NewAfterReturningFunc creates a new function-based AfterReturning advice.
func NewAfterReturningFunc(name string, fn func(ctx context.Context, result any, m *contracts.Method, args []any, target any) error) *AfterReturningFunc {
	return &AfterReturningFunc{name: name, fn: fn}
}

// AfterReturning implements AfterReturning.
func (a *AfterReturningFunc) AfterReturning(ctx context.Context, result any, m *contracts.Method, args []any, target any) error {
	return a.fn(ctx, result, m, args, target)
}

// Name implements AfterReturning.
func (a *AfterReturningFunc) Name() string { return a.name }

// Throws is advice that runs only when the call terminated with a failure
// belonging to one of its declared categories. Returning nil lets the
// original failure keep propagating; returning an error replaces it
// entirely, regardless of the replacement's category.
type Throws interface {
	// Categories returns the failure categories this advice handles.
	// Concrete error types match themselves and anything wrapping them;
	// interface types match every implementation.
	Categories() []reflect.Type

	// HandleThrows observes a matching failure and optionally replaces it.
	HandleThrows(ctx context.Context, err error, m *contracts.Method, args []any, target any) error

	// Name returns the advice name for logging and debugging.
	Name() string
}

// ThrowsFunc is a function adapter for Throws.
type ThrowsFunc struct {
	name       string
	categories []reflect.Type
	fn         func(ctx context.Context, err error, m *contracts.Method, args []any, target any) error
}

// NewThrowsFunc creates a new function-based Throws advice for the given
// failure categories.
func NewThrowsFunc(name string, categories []reflect.Type, fn func(ctx context.Context, err error, m *contracts.Method, args []any, target any) error) *ThrowsFunc {
	return &ThrowsFunc{name: name, categories: categories, fn: fn}
}

// Categories implements Throws.
func (t *ThrowsFunc) Categories() []reflect.Type { return t.categories }

// HandleThrows implements Throws.
func (t *ThrowsFunc) HandleThrows(ctx context.Context, err error, m *contracts.Method, args []any, target any) error {
	return t.fn(ctx, err, m, args, target)
}

// Name implements Throws.
func (t *ThrowsFunc) Name() string { return t.name }
