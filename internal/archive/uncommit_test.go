package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/diary/internal/input"
)

func TestUncommit_RemovesEntry(t *testing.T) {
	ctx := context.Background()
	opts, _ := testOptions(t)
	a := initArchive(t, opts)

	commit(t, a, entryTOML("e1", "2023-08-21"))
	commit(t, a, entryTOML("e2", "2023-08-15"))
	require.NoError(t, a.Uncommit(ctx, "e1", false, typed(UncommitPhrase)))

	_, err := a.GetEntry(ctx, "e1")
	assert.ErrorIs(t, err, ErrNotFound)

	sorted, err := a.Sorted(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"e2"}, sorted, "pending arrivals are sorted before removal")
	assert.Equal(t, uint16(2), a.Itver())
}

func TestUncommit_RollbackRestores(t *testing.T) {
	ctx := context.Background()
	opts, _ := testOptions(t)
	a, err := Init(ctx, opts)
	require.NoError(t, err)
	commit(t, a, mocTOML("m1"))
	require.NoError(t, a.Uncommit(ctx, "m1", true, typed(UncommitPhrase)))
	require.NoError(t, a.Close())

	require.NoError(t, Rollback(ctx, opts))

	b := reopen(t, opts)
	_, err = b.GetMOC(ctx, "m1")
	assert.NoError(t, err)
}

func TestUncommit_Refused(t *testing.T) {
	ctx := context.Background()
	opts, _ := testOptions(t)
	a := initArchive(t, opts)
	commit(t, a, entryTOML("e1", "2023-08-21"))

	assert.ErrorIs(t, a.Uncommit(ctx, "ghost", false, typed(UncommitPhrase)), ErrNotFound)
	assert.ErrorIs(t, a.Uncommit(ctx, "e1", true, typed(UncommitPhrase)), ErrNotFound)

	err := a.Uncommit(ctx, "e1", false, typed("no", "no", "no"))
	assert.ErrorIs(t, err, ErrConfirmation)
	_, err = a.GetEntry(ctx, "e1")
	assert.NoError(t, err)
}

func TestPull_RoundTrips(t *testing.T) {
	ctx := context.Background()
	opts, _ := testOptions(t)
	a := initArchive(t, opts)
	commit(t, a, entryTOML("e1", "2023-08-21", "walks"))
	commit(t, a, mocTOML("m1", "walks"))

	dir := t.TempDir()
	cases := []struct {
		uid   string
		isMOC bool
		src   []byte
	}{
		{"e1", false, entryTOML("e1", "2023-08-21", "walks")},
		{"m1", true, mocTOML("m1", "walks")},
	}
	for _, tc := range cases {
		t.Run(tc.uid, func(t *testing.T) {
			path, err := a.Pull(ctx, tc.uid, tc.isMOC, dir, tc.uid+".toml")
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tc.uid+".toml"), path)

			pulled := readInput(t, path)
			want, err := input.Decode("want.toml", tc.src, nil)
			require.NoError(t, err)
			if diff := cmp.Diff(want, pulled); diff != "" {
				t.Errorf("pulled input mismatch (-want +got):\n%s", diff)
			}
		})
	}

	_, err := a.Pull(ctx, "ghost", false, dir, "ghost.toml")
	assert.ErrorIs(t, err, ErrNotFound)
}

func readInput(t *testing.T, path string) *input.Input {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	in, err := input.Decode(path, data, nil)
	require.NoError(t, err)
	return in
}
