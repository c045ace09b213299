package proxy

import (
	"context"
	"reflect"

	"github.com/glimte/weave-go/advice"
	"github.com/glimte/weave-go/advisor"
	"github.com/glimte/weave-go/contracts"
	"github.com/glimte/weave-go/introduction"
)

// resolvedMethod is the per-method dispatch entry computed once at build
// time: the method identity, the compiled handler chain, and the owning
// introduction for introduced methods.
type resolvedMethod struct {
	method *contracts.Method
	chain  []advice.Around
	throws []*throwsAdapter
	intro  *introduction.Introducer
}

// resolveTargetMethod compiles the chain for one of the target's own
// methods from the advisors in resolved order. It also reports which
// advisors matched, for the factory's strict-matching check.
func resolveTargetMethod(info *contracts.TypeInfo, m *contracts.Method, ordered []*advisor.Advisor) (*resolvedMethod, []*advisor.Advisor) {
	rm := &resolvedMethod{method: m}
	var applied []*advisor.Advisor
	for _, a := range ordered {
		if !a.Pointcut.MatchesType(info) || !a.Pointcut.MatchesMethod(info, m) {
			continue
		}
		h := compile(a)
		if ta, ok := h.(*throwsAdapter); ok {
			ta.position = len(rm.chain)
			rm.throws = append(rm.throws, ta)
		}
		rm.chain = append(rm.chain, h)
		applied = append(applied, a)
	}
	return rm, applied
}

// resolveIntroducedMethod builds the entry for a method owned by an
// introduction. The chain stays empty: dispatch goes straight to the
// introducer.
func resolveIntroducedMethod(in *introduction.Introducer, name string) *resolvedMethod {
	return &resolvedMethod{method: in.MethodFor(name), intro: in}
}

// compile turns an advisor's advice into a continuation-capable handler.
// Around advice is used as is; the simpler kinds become adapter wrappers so
// the executor never branches per kind.
func compile(a *advisor.Advisor) advice.Around {
	switch adv := a.Advice.(type) {
	case advice.Around:
		return adv
	case advice.Before:
		return &beforeAdapter{advice: adv}
	case advice.AfterReturning:
		return &afterReturningAdapter{advice: adv}
	case advice.Throws:
		return &throwsAdapter{advice: adv}
	default:
		// Registry validation rejects unknown kinds before this point.
		panic("weave: unreachable advice kind")
	}
}

// beforeAdapter runs its advice ahead of the continuation. A failure from
// the advice aborts the call: the target never executes.
type beforeAdapter struct {
	advice advice.Before
}

// Advise implements advice.Around.
func (b *beforeAdapter) Advise(ctx context.Context, inv advice.Invocation) (any, error) {
	if err := b.advice.Before(ctx, inv.Method(), inv.Args(), inv.Target()); err != nil {
		return nil, err
	}
	return inv.Proceed(ctx)
}

// Name implements advice.Around.
func (b *beforeAdapter) Name() string { return b.advice.Name() }

// afterReturningAdapter runs its advice only when the continuation
// succeeded. A failure from the advice replaces the successful result.
type afterReturningAdapter struct {
	advice advice.AfterReturning
}

// Advise implements advice.Around.
func (a *afterReturningAdapter) Advise(ctx context.Context, inv advice.Invocation) (any, error) {
	result, err := inv.Proceed(ctx)
	if err != nil {
		return nil, err
	}
	if aerr := a.advice.AfterReturning(ctx, result, inv.Method(), inv.Args(), inv.Target()); aerr != nil {
		return nil, aerr
	}
	return result, nil
}

// Name implements advice.Around.
func (a *afterReturningAdapter) Name() string { return a.advice.Name() }

// throwsAdapter runs its advice only when the continuation failed with a
// matching category. The most specific match across the call's entered
// Throws advice wins; a less specific adapter lets the failure pass
// untouched when a more specific one has seen or will see it.
type throwsAdapter struct {
	advice   advice.Throws
	position int
}

// Advise implements advice.Around.
func (t *throwsAdapter) Advise(ctx context.Context, inv advice.Invocation) (any, error) {
	result, err := inv.Proceed(ctx)
	if err == nil {
		return result, nil
	}

	cat, ok := t.bestCategory(err)
	if !ok {
		return nil, err
	}
	if t.deferred(inv, err, cat) {
		return nil, err
	}

	if replacement := t.advice.HandleThrows(ctx, err, inv.Method(), inv.Args(), inv.Target()); replacement != nil {
		return nil, replacement
	}
	return nil, err
}

// Name implements advice.Around.
func (t *throwsAdapter) Name() string { return t.advice.Name() }

// bestCategory picks the most specific of the advice's declared categories
// matching err.
func (t *throwsAdapter) bestCategory(err error) (reflect.Type, bool) {
	var best reflect.Type
	for _, cat := range t.advice.Categories() {
		if !contracts.MatchesCategory(err, cat) {
			continue
		}
		if best == nil || contracts.MoreSpecific(err, cat, best) {
			best = cat
		}
	}
	return best, best != nil
}

// deferred reports whether another Throws adapter on this failure's unwind
// path declares a strictly more specific matching category for err. An
// adapter whose frame returned before the failure arose is not on that path
// and is never deferred to.
func (t *throwsAdapter) deferred(inv advice.Invocation, err error, cat reflect.Type) bool {
	call, ok := inv.(*invocation)
	if !ok {
		return false
	}
	for _, other := range call.resolved.throws {
		if other == t {
			continue
		}
		// Outer frames still see the failure; deeper frames saw it only if
		// it arose below them.
		if other.position > t.position && other.position >= call.origin {
			continue
		}
		if otherCat, ok := other.bestCategory(err); ok && contracts.MoreSpecific(err, otherCat, cat) {
			return true
		}
	}
	return false
}
