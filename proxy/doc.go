// Package proxy assembles advisors and introductions into dispatchable
// proxies and runs the interception protocol for each call.
//
// A Factory is the assembly interface: register advisors, add introduction
// templates, then Build a proxy per target instance. Build snapshots the
// target's method set, instantiates fresh introduction state, and resolves
// the advice chain for every method eagerly. After Build returns, the
// proxy's chain table is immutable and safe for concurrent dispatch without
// locking; each call gets its own Invocation and cursor.
//
// Chain resolution compiles Before, AfterReturning, and Throws advice into
// adapter wrappers around the continuation, so the executor runs a single
// uniform proceed protocol and only Around advice ever sees the raw
// continuation primitive. A method introduced by a mixin is fully owned by
// its introduction: no class-level advisor joins that chain, because the
// target has no native implementation to fall through to.
package proxy
