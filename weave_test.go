package weave

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glimte/weave-go/advice"
	"github.com/glimte/weave-go/introduction"
	"github.com/glimte/weave-go/pointcut"
	"github.com/glimte/weave-go/proxy"
)

type Journal interface {
	Record(entry string)
	Entries() []string
}

var journalType = reflect.TypeOf((*Journal)(nil)).Elem()

type memoryJournal struct {
	entries []string
}

func (j *memoryJournal) Record(entry string) { j.entries = append(j.entries, entry) }
func (j *memoryJournal) Entries() []string   { return j.entries }

type vault struct {
	amount int
}

func (v *vault) Store(amount int) int { v.amount += amount; return v.amount }
func (v *vault) Amount() int          { return v.amount }

func quiet() proxy.FactoryOption {
	return proxy.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBuilder(t *testing.T) {
	t.Run("assembles advice and introductions end to end", func(t *testing.T) {
		counter := advice.NewCallCounter()
		journal := &memoryJournal{}

		p, err := New(quiet()).
			AdviseOrdered("log", 1, pointcut.True(), advice.NewLoggingAdvice(slog.New(slog.NewTextHandler(io.Discard, nil)))).
			Advise("counter", pointcut.NewNameMatch("Store"), counter).
			Introduce(func() (*introduction.Introducer, error) {
				return introduction.New(journal, journalType)
			}).
			Build(&vault{})
		require.NoError(t, err)
		ctx := context.Background()

		amount, err := p.Invoke(ctx, "Store", 50)
		require.NoError(t, err)
		assert.Equal(t, 50, amount)
		assert.Equal(t, int64(1), counter.Count("Store"))

		_, err = p.Invoke(ctx, "Record", "stored 50")
		require.NoError(t, err)

		entries, err := p.Invoke(ctx, "Entries")
		require.NoError(t, err)
		assert.Equal(t, []string{"stored 50"}, entries)

		assert.True(t, p.Implements(journalType))
	})

	t.Run("first assembly error sticks", func(t *testing.T) {
		_, err := New(quiet()).
			Advise("broken", nil, advice.NewCallCounter()).
			Advise("fine", pointcut.True(), advice.NewCallCounter()).
			Build(&vault{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken")
	})

	t.Run("invalid introduction fails at assembly", func(t *testing.T) {
		_, err := New(quiet()).
			Introduce(func() (*introduction.Introducer, error) {
				return introduction.New(&vault{}, journalType)
			}).
			Build(&vault{})
		assert.Error(t, err)
	})
}
