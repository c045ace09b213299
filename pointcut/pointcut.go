package pointcut

import (
	"github.com/glimte/weave-go/contracts"
)

// Pointcut decides whether an advisor applies to a target type and, for an
// accepted type, to one of its methods. MatchesMethod is only consulted for
// types MatchesType already accepted.
type Pointcut interface {
	// MatchesType returns true if the advisor applies to the target type.
	MatchesType(t *contracts.TypeInfo) bool

	// MatchesMethod returns true if the advisor applies to a specific method
	// of an accepted type.
	MatchesMethod(t *contracts.TypeInfo, m *contracts.Method) bool
}

// Func is a function adapter for Pointcut; a nil typeFn accepts every type
// and a nil methodFn accepts every method of an accepted type.
type Func struct {
	typeFn   func(t *contracts.TypeInfo) bool
	methodFn func(t *contracts.TypeInfo, m *contracts.Method) bool
}

// NewFunc creates a new function-based pointcut.
func NewFunc(typeFn func(t *contracts.TypeInfo) bool, methodFn func(t *contracts.TypeInfo, m *contracts.Method) bool) *Func {
	return &Func{typeFn: typeFn, methodFn: methodFn}
}

// MatchesType implements Pointcut.
func (f *Func) MatchesType(t *contracts.TypeInfo) bool {
	if f.typeFn == nil {
		return true
	}
	return f.typeFn(t)
}

// MatchesMethod implements Pointcut.
func (f *Func) MatchesMethod(t *contracts.TypeInfo, m *contracts.Method) bool {
	if f.methodFn == nil {
		return true
	}
	return f.methodFn(t, m)
}

// True returns a pointcut that matches every method of every type.
func True() Pointcut {
	return &Func{}
}

// TypeNamed returns a pointcut accepting only target types with the given
// name, every method included.
func TypeNamed(name string) Pointcut {
	return NewFunc(func(t *contracts.TypeInfo) bool {
		return t.Name() == name
	}, nil)
}

// And combines pointcuts; all must accept.
type And struct {
	pointcuts []Pointcut
}

// NewAnd creates a pointcut that matches when every given pointcut matches.
func NewAnd(pointcuts ...Pointcut) *And {
	return &And{pointcuts: pointcuts}
}

// MatchesType implements Pointcut.
func (a *And) MatchesType(t *contracts.TypeInfo) bool {
	for _, pc := range a.pointcuts {
		if !pc.MatchesType(t) {
			return false
		}
	}
	return true
}

// MatchesMethod implements Pointcut.
func (a *And) MatchesMethod(t *contracts.TypeInfo, m *contracts.Method) bool {
	for _, pc := range a.pointcuts {
		if !pc.MatchesMethod(t, m) {
			return false
		}
	}
	return true
}

// Or combines pointcuts; at least one must accept.
type Or struct {
	pointcuts []Pointcut
}

// NewOr creates a pointcut that matches when any given pointcut matches.
func NewOr(pointcuts ...Pointcut) *Or {
	return &Or{pointcuts: pointcuts}
}

// MatchesType implements Pointcut.
func (o *Or) MatchesType(t *contracts.TypeInfo) bool {
	for _, pc := range o.pointcuts {
		if pc.MatchesType(t) {
			return true
		}
	}
	return false
}

// MatchesMethod implements Pointcut. A method matches when some pointcut
// accepts both the type and the method, keeping Or consistent with matching
// each alternative independently.
func (o *Or) MatchesMethod(t *contracts.TypeInfo, m *contracts.Method) bool {
	for _, pc := range o.pointcuts {
		if pc.MatchesType(t) && pc.MatchesMethod(t, m) {
			return true
		}
	}
	return false
}

// Not inverts the method-level decision of a pointcut. The type-level
// predicate is left untouched so that inversion narrows method selection
// rather than flipping which types the advisor attaches to.
type Not struct {
	pointcut Pointcut
}

// NewNot creates a pointcut matching every method the given pointcut rejects.
func NewNot(pointcut Pointcut) *Not {
	return &Not{pointcut: pointcut}
}

// MatchesType implements Pointcut.
func (n *Not) MatchesType(t *contracts.TypeInfo) bool {
	return n.pointcut.MatchesType(t)
}

// MatchesMethod implements Pointcut.
func (n *Not) MatchesMethod(t *contracts.TypeInfo, m *contracts.Method) bool {
	return !n.pointcut.MatchesMethod(t, m)
}
