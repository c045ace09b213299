package contracts

import (
	"reflect"
)

// Failure categories are plain Go error types. A concrete type is its own
// category; an interface type is a broader category covering every error
// type that implements it. A failure belongs to a category when any error in
// its wrap chain is of that category, mirroring errors.As.

// CategoryOf returns the category type for a prototype error value, e.g.
// CategoryOf(&TimeoutError{}). Interface categories are declared directly
// with reflect.TypeOf((*Temporary)(nil)).Elem().
func CategoryOf(err error) reflect.Type {
	return reflect.TypeOf(err)
}

// MatchesCategory reports whether err belongs to the given failure category.
func MatchesCategory(err error, category reflect.Type) bool {
	_, ok := MatchDepth(err, category)
	return ok
}

// MatchDepth returns how far down err's wrap chain the category first
// matches. Depth 0 is the failure itself; a smaller depth is a more specific
// match. The second return is false when the category does not match at all.
func MatchDepth(err error, category reflect.Type) (int, bool) {
	if err == nil || category == nil {
		return 0, false
	}
	depth := 0
	for err != nil {
		if isCategory(reflect.TypeOf(err), category) {
			return depth, true
		}
		switch x := err.(type) {
		case interface{ Unwrap() error }:
			err = x.Unwrap()
		case interface{ Unwrap() []error }:
			for _, inner := range x.Unwrap() {
				if d, ok := MatchDepth(inner, category); ok {
					return depth + 1 + d, true
				}
			}
			return 0, false
		default:
			return 0, false
		}
		depth++
	}
	return 0, false
}

// MoreSpecific reports whether category a is a strictly better match than
// category b for the given failure. A match earlier in the wrap chain wins;
// at equal depth a narrower static category (one that implies the other but
// not vice versa) wins.
func MoreSpecific(err error, a, b reflect.Type) bool {
	da, oka := MatchDepth(err, a)
	db, okb := MatchDepth(err, b)
	if !oka || !okb {
		return oka && !okb
	}
	if da != db {
		return da < db
	}
	return implies(a, b) && !implies(b, a)
}

// implies reports whether every failure of category a is also of category b.
func implies(a, b reflect.Type) bool {
	if a == b {
		return true
	}
	if b.Kind() == reflect.Interface {
		return a.Implements(b)
	}
	return false
}

func isCategory(t, category reflect.Type) bool {
	if t == nil {
		return false
	}
	if category.Kind() == reflect.Interface {
		return t.Implements(category)
	}
	return t == category
}
