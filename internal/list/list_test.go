package list

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/diary/internal/store"
)

func newContainer(t *testing.T, name string) store.Container {
	t.Helper()
	s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "list.db"), store.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	c, err := s.Root().Child(context.Background(), name)
	require.NoError(t, err)
	return c
}

func TestWriteRead_RoundTrip(t *testing.T) {
	sizes := []int{0, 1, 50}
	for _, n := range sizes {
		t.Run(fmt.Sprintf("%d items", n), func(t *testing.T) {
			ctx := context.Background()
			c := newContainer(t, "tags")

			items := make([]string, n)
			for i := range items {
				items[i] = fmt.Sprintf("tag-%02d", i)
			}

			require.NoError(t, Write(ctx, c, items))
			got, err := Read[string](ctx, c)
			require.NoError(t, err)
			assert.Equal(t, items, got)
		})
	}
}

func TestWrite_ReplacesPreviousContents(t *testing.T) {
	ctx := context.Background()
	c := newContainer(t, "notes")

	require.NoError(t, Write(ctx, c, []string{"a", "b", "c"}))
	require.NoError(t, Write(ctx, c, []string{"z"}))

	got, err := Read[string](ctx, c)
	require.NoError(t, err)
	assert.Equal(t, []string{"z"}, got)

	has, err := c.Has(ctx, "2")
	require.NoError(t, err)
	assert.False(t, has, "stale index survived rewrite")
}

func TestWrite_Uint16(t *testing.T) {
	ctx := context.Background()
	c := newContainer(t, "date")

	require.NoError(t, Write(ctx, c, []uint16{21, 8, 2023}))
	got, err := Read[uint16](ctx, c)
	require.NoError(t, err)
	assert.Equal(t, []uint16{21, 8, 2023}, got)
}

func TestRead_InconsistentLength(t *testing.T) {
	ctx := context.Background()
	c := newContainer(t, "broken")

	require.NoError(t, Write(ctx, c, []string{"a", "b"}))
	require.NoError(t, SetLen(ctx, c, 3))

	_, err := Read[string](ctx, c)
	assert.ErrorIs(t, err, ErrInconsistent)
}

func TestRead_MissingLength(t *testing.T) {
	_, err := Read[string](context.Background(), newContainer(t, "empty"))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPushPop(t *testing.T) {
	ctx := context.Background()
	c := newContainer(t, "unsorted")
	require.NoError(t, Write[string](ctx, c, nil))

	require.NoError(t, Push(ctx, c, "e1"))
	require.NoError(t, Push(ctx, c, "e2"))

	n, err := Len(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, uint16(2), n)

	item, ok, err := Pop[string](ctx, c, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "e2", item)

	got, err := Read[string](ctx, c)
	require.NoError(t, err)
	assert.Equal(t, []string{"e1"}, got)

	_, ok, err = Pop[string](ctx, c, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = Pop[string](ctx, c, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, ok, "pop from empty list")
}

func TestPop_RemovesKey(t *testing.T) {
	ctx := context.Background()
	c := newContainer(t, "stack")
	require.NoError(t, Write(ctx, c, []string{"a", "b"}))

	var buf bytes.Buffer
	_, _, err := Pop[string](ctx, c, zerolog.New(&buf))
	require.NoError(t, err)

	has, err := c.Has(ctx, "1")
	require.NoError(t, err)
	assert.False(t, has)
	assert.Empty(t, buf.String(), "no warning expected for a clean pop")
}

func TestAll_StopsEarly(t *testing.T) {
	ctx := context.Background()
	c := newContainer(t, "sorted")
	require.NoError(t, Write(ctx, c, []string{"a", "b", "c"}))

	var seen []string
	for item, err := range All[string](ctx, c) {
		require.NoError(t, err)
		seen = append(seen, item)
		if item == "b" {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}
