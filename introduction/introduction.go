package introduction

import (
	"context"
	"fmt"
	"reflect"

	"github.com/glimte/weave-go/contracts"
)

// Template creates a fresh Introducer for one proxy. The factory calls it
// once per built proxy so that introduced state is never shared across
// targets, plus once at registration to validate the configuration. A
// template must therefore be safe to call repeatedly, and delegate
// construction side effects run once more than the number of built proxies.
type Template func() (*Introducer, error)

type binding struct {
	iface   reflect.Type
	impl    any
	guarded bool
}

type boundMethod struct {
	method  *contracts.Method
	impl    any
	guarded bool
}

// Introducer adds capability interfaces to one proxy and routes introduced
// calls to the implementations bound to them.
type Introducer struct {
	bindings []binding
	methods  map[string]boundMethod
	guard    func(m *contracts.Method) error
}

// New creates an introducer whose delegate implements all the given
// capability interfaces. Every interface is validated against the delegate
// immediately; a delegate missing a required operation fails construction
// with a configuration error.
func New(delegate any, interfaces ...reflect.Type) (*Introducer, error) {
	in := &Introducer{methods: make(map[string]boundMethod)}
	for _, iface := range interfaces {
		if err := in.bind(iface, delegate, true); err != nil {
			return nil, err
		}
	}
	return in, nil
}

// Bind adds a capability implemented by a separate object, typically
// per-instance mixin state rather than the delegate. Bound-state calls
// bypass the guard: the guard protects delegate operations, not the state
// that drives it.
func (in *Introducer) Bind(iface reflect.Type, impl any) error {
	return in.bind(iface, impl, false)
}

func (in *Introducer) bind(iface reflect.Type, impl any, guarded bool) error {
	if iface == nil || iface.Kind() != reflect.Interface {
		return &contracts.ConfigError{Op: "introduce", Reason: fmt.Sprintf("%v is not an interface type", iface)}
	}
	if impl == nil {
		return &contracts.ConfigError{Op: "introduce", Reason: fmt.Sprintf("no implementation bound for %s", iface.Name())}
	}
	if !reflect.TypeOf(impl).Implements(iface) {
		return &contracts.ConfigError{
			Op:     "introduce",
			Reason: fmt.Sprintf("%T does not implement introduced interface %s", impl, iface.Name()),
		}
	}

	methods, err := contracts.InterfaceMethods(iface)
	if err != nil {
		return err
	}
	for _, m := range methods {
		if existing, ok := in.methods[m.Name]; ok && existing.impl != impl {
			return &contracts.ConfigError{
				Op:     "introduce",
				Reason: fmt.Sprintf("method %s introduced by both %s and %s with different implementations", m.Name, existing.method.Interface.Name(), iface.Name()),
			}
		}
		in.methods[m.Name] = boundMethod{method: m, impl: impl, guarded: guarded}
	}
	in.bindings = append(in.bindings, binding{iface: iface, impl: impl, guarded: guarded})
	return nil
}

// SetGuard installs the guard consulted before forwarding delegate-bound
// calls. A non-nil return rejects the call with that failure; the delegate
// is never reached.
func (in *Introducer) SetGuard(guard func(m *contracts.Method) error) {
	in.guard = guard
}

// Interfaces returns the introduced capability interfaces.
func (in *Introducer) Interfaces() []reflect.Type {
	ifaces := make([]reflect.Type, len(in.bindings))
	for i, b := range in.bindings {
		ifaces[i] = b.iface
	}
	return ifaces
}

// Handles reports whether the named method belongs to one of the introduced
// capability interfaces.
func (in *Introducer) Handles(name string) bool {
	_, ok := in.methods[name]
	return ok
}

// MethodFor returns the introduced method descriptor for name, or nil.
func (in *Introducer) MethodFor(name string) *contracts.Method {
	if bm, ok := in.methods[name]; ok {
		return bm.method
	}
	return nil
}

// Invoke routes an introduced call: guard first for delegate-bound methods,
// then forward to the bound implementation.
func (in *Introducer) Invoke(ctx context.Context, name string, args []any) (any, error) {
	bm, ok := in.methods[name]
	if !ok {
		return nil, &contracts.MethodNotFoundError{Method: name, Target: "introduced capabilities"}
	}
	if bm.guarded && in.guard != nil {
		if err := in.guard(bm.method); err != nil {
			return nil, err
		}
	}
	return bm.method.Invoke(ctx, bm.impl, args)
}
