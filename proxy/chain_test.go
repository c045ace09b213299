package proxy

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glimte/weave-go/advice"
	"github.com/glimte/weave-go/advisor"
	"github.com/glimte/weave-go/contracts"
	"github.com/glimte/weave-go/introduction"
	"github.com/glimte/weave-go/pointcut"
)

// Tagger is the guarded capability used by the introduction tests.
type Tagger interface {
	SetTag(tag string)
	Tag() string
}

var taggerType = reflect.TypeOf((*Tagger)(nil)).Elem()

type tagStore struct {
	tag string
}

func (s *tagStore) SetTag(tag string) { s.tag = tag }
func (s *tagStore) Tag() string       { return s.tag }

func lockedTemplate(store *tagStore) introduction.Template {
	return func() (*introduction.Introducer, error) {
		return introduction.NewLockIntroducer(store, introduction.DefaultGuardConfig(), taggerType)
	}
}

func TestChainDeterminism(t *testing.T) {
	var log []string
	var mu sync.Mutex

	f := quietFactory()
	require.NoError(t, f.AddAdvisor(advisor.New("outer", pointcut.True(), recorder("outer", &log, &mu)).WithOrder(1)))
	require.NoError(t, f.AddAdvisor(advisor.New("inner", pointcut.True(), recorder("inner", &log, &mu)).WithOrder(2)))

	run := func() []string {
		mu.Lock()
		log = nil
		mu.Unlock()

		p, err := f.Build(&account{})
		require.NoError(t, err)
		_, err = p.Invoke(context.Background(), "Deposit", 1)
		require.NoError(t, err)

		mu.Lock()
		defer mu.Unlock()
		out := make([]string, len(log))
		copy(out, log)
		return out
	}

	first := run()
	second := run()
	assert.Equal(t, first, second, "identical configuration must resolve identical chains")
	assert.Equal(t, []string{"enter:outer", "enter:inner", "exit:inner", "exit:outer"}, first)
}

func TestIntroducedMethodOwnership(t *testing.T) {
	var log []string
	var mu sync.Mutex

	f := quietFactory()
	// A catch-all advisor: it must wrap target methods but never an
	// introduced one.
	require.NoError(t, f.AddAdvisor(advisor.New("catchAll", pointcut.True(), recorder("catchAll", &log, &mu))))
	require.NoError(t, f.AddIntroduction(lockedTemplate(&tagStore{})))

	p, err := f.Build(&account{})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = p.Invoke(ctx, "SetTag", "audited")
	require.NoError(t, err)
	assert.Empty(t, log, "introduced call must be fully owned by its introduction")

	_, err = p.Invoke(ctx, "Deposit", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"enter:catchAll", "exit:catchAll"}, log)
}

func TestIntroductionIsolation(t *testing.T) {
	f := quietFactory()
	require.NoError(t, f.AddIntroduction(func() (*introduction.Introducer, error) {
		return introduction.NewLockIntroducer(&tagStore{}, introduction.DefaultGuardConfig(), taggerType)
	}))

	first, err := f.Build(&account{})
	require.NoError(t, err)
	second, err := f.Build(&account{})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = first.Invoke(ctx, "Lock")
	require.NoError(t, err)

	// Proxy one is locked; its guarded setter is rejected before the
	// delegate.
	_, err = first.Invoke(ctx, "SetTag", "x")
	require.Error(t, err)
	assert.True(t, introduction.IsLocked(err))

	// Proxy two, built from the same template, is untouched.
	locked, err := second.Invoke(ctx, "Locked")
	require.NoError(t, err)
	assert.Equal(t, false, locked)

	_, err = second.Invoke(ctx, "SetTag", "y")
	require.NoError(t, err)

	tag, err := second.Invoke(ctx, "Tag")
	require.NoError(t, err)
	assert.Equal(t, "y", tag)
}

func TestLockGuard(t *testing.T) {
	store := &tagStore{tag: "initial"}
	f := quietFactory()
	require.NoError(t, f.AddIntroduction(lockedTemplate(store)))

	p, err := f.Build(&account{})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = p.Invoke(ctx, "Lock")
	require.NoError(t, err)

	// Guarded operation: rejected, delegate never reached.
	_, err = p.Invoke(ctx, "SetTag", "blocked")
	require.Error(t, err)
	assert.True(t, introduction.IsLocked(err))
	assert.Equal(t, "initial", store.tag)

	// Unguarded operation: proceeds normally while locked.
	tag, err := p.Invoke(ctx, "Tag")
	require.NoError(t, err)
	assert.Equal(t, "initial", tag)

	_, err = p.Invoke(ctx, "Unlock")
	require.NoError(t, err)

	_, err = p.Invoke(ctx, "SetTag", "allowed")
	require.NoError(t, err)
	assert.Equal(t, "allowed", store.tag)
}

func TestIntroductionTemplateInstantiation(t *testing.T) {
	// One instantiation at registration to validate, then one per build.
	var instantiated int
	f := quietFactory()
	require.NoError(t, f.AddIntroduction(func() (*introduction.Introducer, error) {
		instantiated++
		return introduction.NewLockIntroducer(&tagStore{}, introduction.DefaultGuardConfig(), taggerType)
	}))
	assert.Equal(t, 1, instantiated)

	_, err := f.Build(&account{})
	require.NoError(t, err)
	_, err = f.Build(&account{})
	require.NoError(t, err)
	assert.Equal(t, 3, instantiated)
}

func TestIntroductionValidationAtAssembly(t *testing.T) {
	f := quietFactory()

	// account does not implement Tagger: the template must fail when it is
	// registered, long before any call is dispatched.
	err := f.AddIntroduction(func() (*introduction.Introducer, error) {
		return introduction.New(&account{}, taggerType)
	})
	require.Error(t, err)
	assert.True(t, contracts.IsConfigError(err))
}

func TestConflictingIntroductions(t *testing.T) {
	f := quietFactory()
	require.NoError(t, f.AddIntroduction(lockedTemplate(&tagStore{})))
	require.NoError(t, f.AddIntroduction(func() (*introduction.Introducer, error) {
		return introduction.New(&tagStore{}, taggerType)
	}))

	_, err := f.Build(&account{})
	require.Error(t, err)
	assert.True(t, contracts.IsConfigError(err))
	assert.Contains(t, err.Error(), "more than one introduction")
}

func TestPointcutScoping(t *testing.T) {
	counter := advice.NewCallCounter()

	f := quietFactory()
	require.NoError(t, f.AddAdvisor(advisor.New("depositsOnly", pointcut.NewNameMatch("Deposit"), counter)))

	p, err := f.Build(&account{})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = p.Invoke(ctx, "Deposit", 1)
	require.NoError(t, err)
	_, err = p.Invoke(ctx, "Balance")
	require.NoError(t, err)

	assert.Equal(t, int64(1), counter.Count("Deposit"))
	assert.Equal(t, int64(0), counter.Count("Balance"))
}
