package contracts

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test failure taxonomy: validationFailure is a concrete category that also
// belongs to the broader domainFailure interface category.

type domainFailure interface {
	error
	Domain() string
}

type validationFailure struct {
	field string
}

func (e *validationFailure) Error() string  { return "invalid field " + e.field }
func (e *validationFailure) Domain() string { return "validation" }

type limitFailure struct{}

func (e *limitFailure) Error() string  { return "limit exceeded" }
func (e *limitFailure) Domain() string { return "limits" }

var (
	validationCategory = reflect.TypeOf(&validationFailure{})
	domainCategory     = reflect.TypeOf((*domainFailure)(nil)).Elem()
)

func TestMatchesCategory(t *testing.T) {
	t.Run("concrete category matches its own type", func(t *testing.T) {
		err := &validationFailure{field: "amount"}
		assert.True(t, MatchesCategory(err, validationCategory))
		assert.False(t, MatchesCategory(&limitFailure{}, validationCategory))
	})

	t.Run("interface category matches implementations", func(t *testing.T) {
		assert.True(t, MatchesCategory(&validationFailure{}, domainCategory))
		assert.True(t, MatchesCategory(&limitFailure{}, domainCategory))
		assert.False(t, MatchesCategory(errors.New("plain"), domainCategory))
	})

	t.Run("matches through wrap chain", func(t *testing.T) {
		wrapped := fmt.Errorf("dispatch: %w", &validationFailure{field: "amount"})
		assert.True(t, MatchesCategory(wrapped, validationCategory))
		assert.True(t, MatchesCategory(wrapped, domainCategory))
	})

	t.Run("nil inputs never match", func(t *testing.T) {
		assert.False(t, MatchesCategory(nil, validationCategory))
		assert.False(t, MatchesCategory(&validationFailure{}, nil))
	})
}

func TestMatchDepth(t *testing.T) {
	inner := &validationFailure{field: "amount"}
	wrapped := fmt.Errorf("layer two: %w", fmt.Errorf("layer one: %w", inner))

	depth, ok := MatchDepth(inner, validationCategory)
	assert.True(t, ok)
	assert.Equal(t, 0, depth)

	depth, ok = MatchDepth(wrapped, validationCategory)
	assert.True(t, ok)
	assert.Equal(t, 2, depth)

	_, ok = MatchDepth(wrapped, reflect.TypeOf(&limitFailure{}))
	assert.False(t, ok)
}

func TestMatchDepthJoinedErrors(t *testing.T) {
	joined := errors.Join(errors.New("plain"), &validationFailure{field: "amount"})

	depth, ok := MatchDepth(joined, validationCategory)
	assert.True(t, ok)
	assert.Equal(t, 1, depth)
}

func TestMoreSpecific(t *testing.T) {
	err := &validationFailure{field: "amount"}

	t.Run("narrower static category wins at equal depth", func(t *testing.T) {
		assert.True(t, MoreSpecific(err, validationCategory, domainCategory))
		assert.False(t, MoreSpecific(err, domainCategory, validationCategory))
	})

	t.Run("shallower match wins regardless of static relation", func(t *testing.T) {
		wrapped := fmt.Errorf("outer: %w", err)
		wrapperCategory := reflect.TypeOf(wrapped)

		assert.True(t, MoreSpecific(wrapped, wrapperCategory, validationCategory))
	})

	t.Run("non-matching category never wins", func(t *testing.T) {
		limitCategory := reflect.TypeOf(&limitFailure{})
		assert.True(t, MoreSpecific(err, validationCategory, limitCategory))
		assert.False(t, MoreSpecific(err, limitCategory, validationCategory))
	})

	t.Run("a category is not more specific than itself", func(t *testing.T) {
		assert.False(t, MoreSpecific(err, validationCategory, validationCategory))
	})
}
