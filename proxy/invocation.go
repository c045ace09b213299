package proxy

import (
	"context"

	"github.com/glimte/weave-go/contracts"
)

// invocation is the call-scoped state of one dispatch: the resolved chain,
// the live arguments, and the cursor. One invocation exists per call and is
// owned by that call's stack; it is never reused or retained.
type invocation struct {
	id       string
	resolved *resolvedMethod
	args     []any
	target   any
	proxy    any
	cursor   int

	// inflight is the failure currently unwinding, origin the chain position
	// of the frame that produced it (len(chain) for the target). Exception
	// advice uses origin to tell which handlers the failure passes through.
	inflight error
	origin   int
}

// ID implements advice.Invocation.
func (inv *invocation) ID() string { return inv.id }

// Method implements advice.Invocation.
func (inv *invocation) Method() *contracts.Method { return inv.resolved.method }

// Args implements advice.Invocation.
func (inv *invocation) Args() []any { return inv.args }

// SetArg implements advice.Invocation.
func (inv *invocation) SetArg(i int, v any) { inv.args[i] = v }

// Target implements advice.Invocation.
func (inv *invocation) Target() any { return inv.target }

// Proxy implements advice.Invocation.
func (inv *invocation) Proxy() any { return inv.proxy }

// Proceed implements advice.Invocation. It advances the cursor to the next
// handler, or to the real target once the chain is exhausted. Calling it
// again after the chain completed re-runs the target; the protocol permits
// that but the double-execution hazard belongs to the advice author.
func (inv *invocation) Proceed(ctx context.Context) (result any, err error) {
	pos := inv.cursor
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &contracts.UnexpectedError{Method: inv.resolved.method.String(), Value: r}
		}
		inv.note(pos, err)
	}()

	if pos < len(inv.resolved.chain) {
		inv.cursor++
		return inv.resolved.chain[pos].Advise(ctx, inv)
	}
	return inv.invokeTarget(ctx)
}

// note tracks the in-flight failure and the frame it came from. A handler
// returning a failure different from the one it received becomes the new
// origin; only frames outside the origin see the failure unwind.
func (inv *invocation) note(pos int, err error) {
	switch {
	case err == nil:
		inv.inflight, inv.origin = nil, 0
	case err != inv.inflight:
		inv.inflight, inv.origin = err, pos
	}
}

// invokeTarget executes the real method: the introduction delegate for
// introduced methods, the target object otherwise.
func (inv *invocation) invokeTarget(ctx context.Context) (any, error) {
	m := inv.resolved.method
	if inv.resolved.intro != nil {
		return inv.resolved.intro.Invoke(ctx, m.Name, inv.args)
	}
	return m.Invoke(ctx, inv.target, inv.args)
}
