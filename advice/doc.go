// Package advice defines the handler kinds the interception engine composes
// around a method call, plus a small set of built-in advice for common
// cross-cutting concerns.
//
// Four kinds exist:
//   - Around: receives the full Invocation and controls continuation
//     explicitly via Proceed; may inspect or replace arguments, the result,
//     or the failure.
//   - Before: runs prior to continuation; a failure it returns aborts the
//     call before the target executes.
//   - AfterReturning: runs only on successful completion; a failure it
//     returns replaces the successful result.
//   - Throws: runs only when the call failed with a matching failure
//     category; a failure it returns replaces the original.
//
// Only Around advice is handed the continuation primitive. The simpler kinds
// are compiled into adapter wrappers around Proceed at chain-build time, so
// the executor runs one uniform protocol.
//
// An advice instance may be shared across many proxies when it is stateless
// or synchronizes its own state (see CallCounter); introduction handlers are
// never shared and live in the introduction package.
package advice
