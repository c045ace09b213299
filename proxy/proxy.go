package proxy

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sort"

	"github.com/google/uuid"

	"github.com/glimte/weave-go/contracts"
	"github.com/glimte/weave-go/introduction"
)

// Proxy is the caller-visible handle for one advised target instance. Its
// chain table is resolved once at build time and read-only afterwards, so
// Invoke is safe for concurrent use; each call runs on its own invocation.
type Proxy struct {
	id          string
	target      any
	info        *contracts.TypeInfo
	methods     map[string]*resolvedMethod
	introducers []*introduction.Introducer
	logger      *slog.Logger
}

// ID returns the proxy's unique id.
func (p *Proxy) ID() string { return p.id }

// Target returns the real target object behind the proxy.
func (p *Proxy) Target() any { return p.target }

// Invoke dispatches one call: it resolves the method's precomputed chain,
// creates the call-scoped invocation, and runs the proceed protocol.
func (p *Proxy) Invoke(ctx context.Context, method string, args ...any) (any, error) {
	rm, ok := p.methods[method]
	if !ok {
		return nil, &contracts.MethodNotFoundError{Method: method, Target: fmt.Sprintf("%T", p.target)}
	}

	inv := &invocation{
		id:       uuid.New().String(),
		resolved: rm,
		args:     args,
		target:   p.target,
		proxy:    p,
	}

	p.logger.Debug("dispatching",
		"invocationId", inv.id,
		"method", rm.method.String(),
		"chainLength", len(rm.chain),
	)

	return inv.Proceed(ctx)
}

// MethodNames returns every dispatchable method name, the target's own and
// the introduced ones, in sorted order.
func (p *Proxy) MethodNames() []string {
	names := make([]string, 0, len(p.methods))
	for name := range p.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IntroducedInterfaces returns the capability interfaces added to this proxy
// by its introductions.
func (p *Proxy) IntroducedInterfaces() []reflect.Type {
	seen := make(map[reflect.Type]bool)
	var ifaces []reflect.Type
	for _, in := range p.introducers {
		for _, iface := range in.Interfaces() {
			if !seen[iface] {
				seen[iface] = true
				ifaces = append(ifaces, iface)
			}
		}
	}
	return ifaces
}

// Implements reports whether the proxy carries the given capability, either
// natively on the target or through an introduction.
func (p *Proxy) Implements(iface reflect.Type) bool {
	if iface == nil || iface.Kind() != reflect.Interface {
		return false
	}
	if p.info.Type.Implements(iface) {
		return true
	}
	for _, in := range p.introducers {
		for _, introduced := range in.Interfaces() {
			if introduced == iface {
				return true
			}
		}
	}
	return false
}
