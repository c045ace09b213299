// Package contracts defines the core types shared by the interception engine.
//
// The engine operates on structured invocations rather than generated code:
// a Method identifies one callable operation on a target, a TypeInfo is the
// static snapshot of a target's declared method set taken at proxy
// construction time, and the error types here form the failure taxonomy that
// advice and dispatch code agree on:
//   - ConfigError: assembly-time failures, fatal to proxy construction
//   - UnexpectedError: a recovered panic from advice or the target, surfaced
//     as a typed failure so callers always observe some error value
//
// Failure categories for exception-typed advice are plain Go error types;
// the helpers in category.go decide whether a failure belongs to a declared
// category and which of several matching categories is the most specific.
package contracts
