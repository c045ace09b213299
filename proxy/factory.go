package proxy

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/glimte/weave-go/advisor"
	"github.com/glimte/weave-go/contracts"
	"github.com/glimte/weave-go/introduction"
)

// Factory is the assembly interface for one target configuration: register
// advisors and introduction templates, then build a proxy per target
// instance. Assembly is expected to finish before call traffic begins; a
// built proxy never re-reads the factory.
type Factory struct {
	registry  *advisor.Registry
	templates []introduction.Template
	logger    *slog.Logger
	strict    bool
}

// FactoryOption configures the Factory.
type FactoryOption func(*Factory)

// WithLogger sets the logger used by the factory and its proxies.
func WithLogger(logger *slog.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithStrictMatching makes Build fail with a configuration error when a
// registered advisor matches no method of the target, instead of silently
// attaching nothing.
func WithStrictMatching() FactoryOption {
	return func(f *Factory) {
		f.strict = true
	}
}

// NewFactory creates a new proxy factory.
func NewFactory(options ...FactoryOption) *Factory {
	f := &Factory{
		registry: advisor.NewRegistry(),
		logger:   slog.Default(),
	}
	for _, opt := range options {
		opt(f)
	}
	return f
}

// AddAdvisor registers an advisor with the factory's configuration.
func (f *Factory) AddAdvisor(a *advisor.Advisor) error {
	return f.registry.Register(a)
}

// AddIntroduction registers an introduction template. The template is
// instantiated once immediately so that an invalid delegate fails here, at
// assembly time, and then freshly per built proxy so introduced state stays
// per-instance.
func (f *Factory) AddIntroduction(tmpl introduction.Template) error {
	if tmpl == nil {
		return &contracts.ConfigError{Op: "introduce", Reason: "introduction template cannot be nil"}
	}
	probe, err := tmpl()
	if err != nil {
		return err
	}
	if probe == nil {
		return &contracts.ConfigError{Op: "introduce", Reason: "introduction template produced nil"}
	}
	f.templates = append(f.templates, tmpl)
	return nil
}

// Build constructs a proxy for one target instance: snapshot the target's
// method set, instantiate fresh introductions, and resolve the advice chain
// for every dispatchable method.
func (f *Factory) Build(target any) (*Proxy, error) {
	info, err := contracts.NewTypeInfo(target)
	if err != nil {
		return nil, err
	}

	introducers := make([]*introduction.Introducer, 0, len(f.templates))
	for _, tmpl := range f.templates {
		in, err := tmpl()
		if err != nil {
			return nil, err
		}
		introducers = append(introducers, in)
	}

	ordered := f.registry.Ordered()
	methods := make(map[string]*resolvedMethod)

	// Introduced methods first: they fully own their chain, shadowing any
	// same-named target method.
	for _, in := range introducers {
		for _, iface := range in.Interfaces() {
			for i := 0; i < iface.NumMethod(); i++ {
				name := iface.Method(i).Name
				if existing, ok := methods[name]; ok && existing.intro != in {
					return nil, &contracts.ConfigError{
						Op:     "build",
						Reason: fmt.Sprintf("method %s introduced by more than one introduction", name),
					}
				}
				methods[name] = resolveIntroducedMethod(in, name)
			}
		}
	}

	matched := make(map[*advisor.Advisor]bool, len(ordered))
	for _, name := range info.MethodNames() {
		if _, introduced := methods[name]; introduced {
			continue
		}
		rm, applied := resolveTargetMethod(info, info.Method(name), ordered)
		methods[name] = rm
		for _, a := range applied {
			matched[a] = true
		}
	}

	if f.strict {
		for _, a := range ordered {
			if !matched[a] {
				return nil, &contracts.ConfigError{
					Op:     "build",
					Reason: fmt.Sprintf("advisor %s matches no method of %s", a.Name, info.Name()),
				}
			}
		}
	}

	p := &Proxy{
		id:          uuid.New().String(),
		target:      target,
		info:        info,
		methods:     methods,
		introducers: introducers,
		logger:      f.logger,
	}

	f.logger.Info("built proxy",
		"proxyId", p.id,
		"targetType", info.Name(),
		"methods", len(methods),
		"advisors", f.registry.Len(),
		"introductions", len(introducers),
	)

	return p, nil
}
