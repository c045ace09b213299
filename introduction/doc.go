// Package introduction lets a handler retroactively add whole capability
// interfaces, and optional private state, to a target's proxy.
//
// An Introducer binds capability interfaces to implementations: the
// delegate supplied at construction, or extra per-instance state such as a
// LockMixin. Construction validates once that every bound implementation
// structurally satisfies its interface; an unsatisfied capability is an
// assembly-time configuration error, never a call-time surprise.
//
// An Introducer is exclusively owned by one proxy. It may carry mutable
// state (the canonical case is the lock flag of LockMixin), so the factory
// instantiates a fresh Introducer per proxy from a template function; two
// proxies never observe each other's introduced state.
//
// Delegate-bound calls pass through an optional guard first. The guard
// rejects a configured subset of operations with a typed failure instead of
// forwarding, which is how the locked/read-only mode of NewLockIntroducer
// works.
package introduction
