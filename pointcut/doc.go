// Package pointcut provides the matcher model that decides which calls an
// advisor applies to.
//
// A Pointcut is a predicate pair: a type-level predicate over a target's
// static type snapshot and a method-level predicate over one declared method
// of an accepted type. Pointcuts must be pure: the chain builder resolves
// them once per (type, method) pair at proxy construction time and caches
// the result, so a pointcut that consults mutable state would be matched
// against stale answers.
//
// Pointcuts compose with And, Or, and Not, match by method name glob with
// NameMatch, or evaluate a compiled expression predicate with Expr:
//
//	pc, err := pointcut.Expr(`method startsWith "Get" && type == "Account"`)
package pointcut
