// Package weave composes cross-cutting behavior (logging, counting, guards,
// lock-style mixins) around method calls on arbitrary objects, without those
// objects knowing about it.
//
// The subpackages carry the engine: pointcut selects calls, advice defines
// the behavior kinds, advisor binds and orders them, introduction adds whole
// capabilities with per-instance state, and proxy assembles everything into
// dispatchable handles. This package is a thin fluent front over the proxy
// factory for the common assembly path:
//
//	p, err := weave.New().
//		AdviseOrdered("audit", 1, pointcut.True(), advice.NewLoggingAdvice(logger)).
//		Advise("counter", pointcut.NewNameMatch("Deposit"), counter).
//		Introduce(func() (*introduction.Introducer, error) {
//			return introduction.NewLockIntroducer(store, introduction.DefaultGuardConfig(), taggerType)
//		}).
//		Build(account)
//	if err != nil {
//		return err
//	}
//	balance, err := p.Invoke(ctx, "Deposit", 100)
package weave

import (
	"github.com/glimte/weave-go/advisor"
	"github.com/glimte/weave-go/introduction"
	"github.com/glimte/weave-go/pointcut"
	"github.com/glimte/weave-go/proxy"
)

// Builder accumulates advisors and introductions for one target
// configuration. The first assembly error sticks and is returned by Build,
// so call sites can chain without checking each step.
type Builder struct {
	factory *proxy.Factory
	err     error
}

// New creates a new assembly builder.
func New(options ...proxy.FactoryOption) *Builder {
	return &Builder{factory: proxy.NewFactory(options...)}
}

// Advise registers advice under a pointcut with no explicit precedence.
func (b *Builder) Advise(name string, pc pointcut.Pointcut, adv any) *Builder {
	return b.add(advisor.New(name, pc, adv))
}

// AdviseOrdered registers advice with an explicit precedence; lower runs
// earlier, i.e. outermost.
func (b *Builder) AdviseOrdered(name string, order int, pc pointcut.Pointcut, adv any) *Builder {
	return b.add(advisor.New(name, pc, adv).WithOrder(order))
}

// AddAdvisor registers a fully constructed advisor.
func (b *Builder) AddAdvisor(a *advisor.Advisor) *Builder {
	return b.add(a)
}

func (b *Builder) add(a *advisor.Advisor) *Builder {
	if b.err == nil {
		b.err = b.factory.AddAdvisor(a)
	}
	return b
}

// Introduce registers an introduction template, instantiated freshly per
// built proxy.
func (b *Builder) Introduce(tmpl introduction.Template) *Builder {
	if b.err == nil {
		b.err = b.factory.AddIntroduction(tmpl)
	}
	return b
}

// Build constructs a proxy for the target, or returns the first assembly
// error recorded along the chain.
func (b *Builder) Build(target any) (*proxy.Proxy, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.factory.Build(target)
}
