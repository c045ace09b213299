// Package advisor binds pointcuts to advice and keeps them in resolved
// precedence order for the chain builder.
package advisor

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/glimte/weave-go/advice"
	"github.com/glimte/weave-go/contracts"
	"github.com/glimte/weave-go/pointcut"
)

// OrderNone marks an advisor without an explicit precedence. Such advisors
// run after every explicitly ordered one, in registration order.
const OrderNone = math.MaxInt

// Advisor binds one pointcut to one advice unit with a declared precedence.
// A lower order runs earlier, i.e. outermost in the chain. The Advice field
// holds exactly one of the four advice kinds.
type Advisor struct {
	// Name identifies the advisor in logs and errors.
	Name string

	// Order is the declared precedence; OrderNone when absent.
	Order int

	// Pointcut selects the calls this advisor applies to.
	Pointcut pointcut.Pointcut

	// Advice is the bound handler: advice.Around, advice.Before,
	// advice.AfterReturning, or advice.Throws.
	Advice any

	index int // registration position, the tie-break for equal order
}

// New creates an advisor with no explicit precedence.
func New(name string, pc pointcut.Pointcut, adv any) *Advisor {
	return &Advisor{Name: name, Order: OrderNone, Pointcut: pc, Advice: adv}
}

// WithOrder sets an explicit precedence and returns the advisor.
func (a *Advisor) WithOrder(order int) *Advisor {
	a.Order = order
	return a
}

func (a *Advisor) validate() error {
	if a.Pointcut == nil {
		return &contracts.ConfigError{Op: "register", Reason: fmt.Sprintf("advisor %s has no pointcut", a.Name)}
	}
	switch a.Advice.(type) {
	case advice.Around, advice.Before, advice.AfterReturning, advice.Throws:
		return nil
	default:
		return &contracts.ConfigError{Op: "register", Reason: fmt.Sprintf("advisor %s advice type %T is not a known advice kind", a.Name, a.Advice)}
	}
}

// Registry holds the advisors of one target configuration. Registration is
// expected to finish during proxy assembly; afterwards the registry is only
// read. The mutex guards against a misbehaving caller registering during
// live traffic, not against ordinary use.
type Registry struct {
	mu       sync.RWMutex
	advisors []*Advisor
}

// NewRegistry creates an empty advisor registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds an advisor. The registration position is the default
// tie-break for advisors with equal or absent precedence.
func (r *Registry) Register(a *Advisor) error {
	if a == nil {
		return &contracts.ConfigError{Op: "register", Reason: "advisor cannot be nil"}
	}
	if err := a.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	a.index = len(r.advisors)
	r.advisors = append(r.advisors, a)
	return nil
}

// Ordered returns the advisors sorted by precedence, registration order
// breaking ties. The slice is a copy; callers may not mutate the registry
// through it.
func (r *Registry) Ordered() []*Advisor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ordered := make([]*Advisor, len(r.advisors))
	copy(ordered, r.advisors)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})
	return ordered
}

// Len returns the number of registered advisors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.advisors)
}
