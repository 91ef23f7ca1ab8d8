package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	uid  string
	tags []string
	err  error
}

func (i item) UID() string { return i.uid }

func (i item) HasTag(_ context.Context, tag string) (bool, error) {
	if i.err != nil {
		return false, i.err
	}
	for _, t := range i.tags {
		if t == tag {
			return true, nil
		}
	}
	return false, nil
}

var items = []item{
	{uid: "both", tags: []string{"x", "y"}},
	{uid: "only-x", tags: []string{"x"}},
	{uid: "only-y", tags: []string{"y", "z"}},
	{uid: "none", tags: nil},
}

func TestStrict(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want []string
	}{
		{name: "both tags", tags: []string{"x", "y"}, want: []string{"both"}},
		{name: "one tag", tags: []string{"x"}, want: []string{"both", "only-x"}},
		{name: "no tags matches all", tags: nil, want: []string{"both", "only-x", "only-y", "none"}},
		{name: "unknown tag", tags: []string{"q"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Strict(context.Background(), tt.tags, items)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAny(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want []string
	}{
		{name: "either tag", tags: []string{"x", "y"}, want: []string{"both", "only-x", "only-y"}},
		{name: "one tag", tags: []string{"z"}, want: []string{"only-y"}},
		{name: "no tags matches nothing", tags: nil, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Any(context.Background(), tt.tags, items)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmptyItems(t *testing.T) {
	ctx := context.Background()

	got, err := Strict[item](ctx, []string{"x", "y"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = Any[item](ctx, []string{"x", "y"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	broken := []item{{uid: "b", err: boom}}

	_, err := Strict(context.Background(), []string{"x"}, broken)
	assert.ErrorIs(t, err, boom)
	_, err = Any(context.Background(), []string{"x"}, broken)
	assert.ErrorIs(t, err, boom)
}

func TestMatch(t *testing.T) {
	ctx := context.Background()
	strict, err := Match(ctx, true, []string{"x", "y"}, items)
	require.NoError(t, err)
	assert.Equal(t, []string{"both"}, strict)

	loose, err := Match(ctx, false, []string{"x", "y"}, items)
	require.NoError(t, err)
	assert.Len(t, loose, 3)
}
