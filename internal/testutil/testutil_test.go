package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedClock_StandsStill(t *testing.T) {
	start := time.Date(2023, 8, 21, 9, 0, 0, 0, time.UTC)
	clock := NewFixedClock(start)

	assert.Equal(t, start, clock.Now())
	assert.Equal(t, start, clock.Now())
}

func TestFixedClock_SetAndAdvance(t *testing.T) {
	clock := NewFixedClock(time.Time{})

	day := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	clock.Set(day)
	clock.Advance(48 * time.Hour)
	assert.Equal(t, day.AddDate(0, 0, 2), clock.Now())
}

func TestFixedClock_ConcurrentAccess(t *testing.T) {
	clock := NewFixedClock(time.Time{})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clock.Advance(time.Second)
		}()
	}
	wg.Wait()

	assert.Equal(t, time.Time{}.Add(100*time.Second), clock.Now())
}

func TestOperator_AnswersInOrder(t *testing.T) {
	ctx := context.Background()
	op := NewOperator("first", "second")

	got, err := op.Prompt(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	got, err = op.Prompt(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	_, err = op.Prompt(ctx, "p3")
	assert.Error(t, err)
	assert.Equal(t, []string{"p1", "p2", "p3"}, op.Asked())
}

func TestEnv(t *testing.T) {
	env := Env(map[string]string{"HOME": "/home/ann"})
	assert.Equal(t, "/home/ann", env("HOME"))
	assert.Empty(t, env("DIARY_HOME"))
}
