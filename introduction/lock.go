package introduction

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/glimte/weave-go/contracts"
)

// Lockable is the capability introduced by the lock mixin.
type Lockable interface {
	// Lock puts the object into locked mode.
	Lock()
	// Unlock leaves locked mode.
	Unlock()
	// Locked reports whether the object is in locked mode.
	Locked() bool
}

// LockableType is the Lockable capability identifier, for introspection.
var LockableType = reflect.TypeOf((*Lockable)(nil)).Elem()

// LockedError is the failure raised when a guarded operation is called on a
// locked object.
type LockedError struct {
	// Method is the rejected method name.
	Method string
}

// Error implements the error interface.
func (e *LockedError) Error() string {
	return fmt.Sprintf("object is locked: %s rejected", e.Method)
}

// IsLocked checks if an error is a lock rejection.
func IsLocked(err error) bool {
	var le *LockedError
	return errors.As(err, &le)
}

// LockMixin is the per-instance state behind the Lockable capability. One
// mixin belongs to exactly one proxy; locking it never affects other proxies
// built from the same template.
type LockMixin struct {
	mu     sync.Mutex
	locked bool
}

// Lock implements Lockable.
func (l *LockMixin) Lock() {
	l.mu.Lock()
	l.locked = true
	l.mu.Unlock()
}

// Unlock implements Lockable.
func (l *LockMixin) Unlock() {
	l.mu.Lock()
	l.locked = false
	l.mu.Unlock()
}

// Locked implements Lockable.
func (l *LockMixin) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.locked
}

// NewLockIntroducer builds an introducer that exposes the given capability
// interfaces from delegate plus a fresh Lockable mixin. While locked, calls
// to delegate operations matched by the guard configuration fail with a
// LockedError instead of being forwarded.
//
// Use it inside a Template so every proxy gets its own lock state:
//
//	factory.AddIntroduction(func() (*introduction.Introducer, error) {
//		return introduction.NewLockIntroducer(store, cfg, storageType)
//	})
func NewLockIntroducer(delegate any, cfg GuardConfig, interfaces ...reflect.Type) (*Introducer, error) {
	in, err := New(delegate, interfaces...)
	if err != nil {
		return nil, err
	}

	mixin := &LockMixin{}
	if err := in.Bind(LockableType, mixin); err != nil {
		return nil, err
	}

	denied := cfg.Compile()
	in.SetGuard(func(m *contracts.Method) error {
		if mixin.Locked() && denied(m) {
			return &LockedError{Method: m.Name}
		}
		return nil
	})
	return in, nil
}
