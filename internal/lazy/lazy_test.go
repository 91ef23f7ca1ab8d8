package lazy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_LoadsOnce(t *testing.T) {
	var f Field[string]
	calls := 0
	load := func() (string, error) {
		calls++
		return "title", nil
	}

	for range 3 {
		v, err := f.Get(load)
		require.NoError(t, err)
		assert.Equal(t, "title", v)
	}
	assert.Equal(t, 1, calls)
	assert.True(t, f.IsLoaded())
}

func TestField_FailedLoadStaysUnloaded(t *testing.T) {
	var f Field[[]string]
	boom := errors.New("boom")

	_, err := f.Get(func() ([]string, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, f.IsLoaded())

	v, err := f.Get(func() ([]string, error) { return []string{"a"}, nil })
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v)
}

func TestField_ClearForcesReload(t *testing.T) {
	f := Loaded(uint16(7))
	v, ok := f.Value()
	assert.True(t, ok)
	assert.Equal(t, uint16(7), v)

	f.Clear()
	_, ok = f.Value()
	assert.False(t, ok)

	got, err := f.Get(func() (uint16, error) { return 9, nil })
	require.NoError(t, err)
	assert.Equal(t, uint16(9), got)
}

func TestField_SetWithoutLoad(t *testing.T) {
	var f Field[bool]
	f.Set(true)

	v, err := f.Get(func() (bool, error) {
		t.Fatal("load called on a set field")
		return false, nil
	})
	require.NoError(t, err)
	assert.True(t, v)
}
