package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// history builds an archive with two backups of the same identity: early is
// taken at itver 0 and the commit backup is left at itver 1 with entry e1.
func history(t *testing.T) (opts Options, early string) {
	t.Helper()
	ctx := context.Background()
	opts, _ = testOptions(t)

	a, err := Init(ctx, opts)
	require.NoError(t, err)
	early = filepath.Join(t.TempDir(), "early.diary")
	require.NoError(t, a.Backup(ctx, early))
	commit(t, a, entryTOML("e1", "2023-08-21"))
	require.NoError(t, a.Close())
	return opts, early
}

func reopen(t *testing.T, opts Options) *Archive {
	t.Helper()
	a, err := open(context.Background(), opts.ArchivePath(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestBackup_RequiresArchive(t *testing.T) {
	opts, _ := testOptions(t)
	err := Backup(context.Background(), opts, filepath.Join(t.TempDir(), "out.diary"))
	assert.ErrorIs(t, err, ErrNoArchive)
}

func TestLoadBackup_NoActiveArchive(t *testing.T) {
	ctx := context.Background()
	src, _ := history(t)
	dst, _ := testOptions(t)

	require.NoError(t, LoadBackup(ctx, dst, src.BackupPath()))

	a := reopen(t, dst)
	assert.Equal(t, uint16(1), a.Itver())
	_, err := a.GetEntry(ctx, "e1")
	assert.NoError(t, err)
}

func TestLoadBackup_NewerReplacesArchive(t *testing.T) {
	ctx := context.Background()
	src, early := history(t)
	dst, _ := testOptions(t)

	require.NoError(t, LoadBackup(ctx, dst, early))
	require.NoError(t, LoadBackup(ctx, dst, src.BackupPath()))

	a := reopen(t, dst)
	assert.Equal(t, uint16(1), a.Itver())
	_, err := a.GetEntry(ctx, "e1")
	assert.NoError(t, err)

	scratch, err := filepath.Glob(filepath.Join(dst.Home, "new-*"))
	require.NoError(t, err)
	assert.Empty(t, scratch, "scratch decompile is cleaned up")
}

func TestLoadBackup_OlderIsRejected(t *testing.T) {
	ctx := context.Background()
	opts, early := history(t)

	err := LoadBackup(ctx, opts, early)
	assert.ErrorIs(t, err, ErrVersionRegression)

	a := reopen(t, opts)
	assert.Equal(t, uint16(1), a.Itver())
	_, err = a.GetEntry(ctx, "e1")
	assert.NoError(t, err, "active archive is untouched")
}

func TestLoadBackup_SameAgeWarns(t *testing.T) {
	ctx := context.Background()
	opts, _ := history(t)
	logs := captureLogs(&opts)

	require.NoError(t, LoadBackup(ctx, opts, opts.BackupPath()))
	assert.Contains(t, logs.String(), "same age")
}

func TestLoadBackup_DifferentArchiveIsRejected(t *testing.T) {
	ctx := context.Background()
	src, _ := history(t)
	dst, _ := testOptions(t)
	other, err := Init(ctx, dst)
	require.NoError(t, err)
	uid := other.UID()
	require.NoError(t, other.Close())

	err = LoadBackup(ctx, dst, src.BackupPath())
	assert.ErrorIs(t, err, ErrIdentityMismatch)

	a := reopen(t, dst)
	assert.Equal(t, uid, a.UID())
	assert.Equal(t, uint16(0), a.Itver())
}

func TestLoadBackup_InvalidFile(t *testing.T) {
	ctx := context.Background()
	opts, _ := history(t)

	bogus := filepath.Join(t.TempDir(), "bogus.diary")
	require.NoError(t, os.WriteFile(bogus, []byte("not a backup"), 0o644))
	assert.ErrorIs(t, LoadBackup(ctx, opts, bogus), ErrInvalidBackup)
	assert.ErrorIs(t, LoadBackup(ctx, opts, filepath.Join(t.TempDir(), "missing")), ErrInvalidBackup)

	a := reopen(t, opts)
	assert.Equal(t, uint16(1), a.Itver())
}

func TestRollback_NoBackup(t *testing.T) {
	opts, _ := testOptions(t)
	initArchive(t, opts)

	err := Rollback(context.Background(), opts)
	assert.ErrorIs(t, err, ErrNoBackup)
}

func TestRollback_AfterCommitKeepsCommit(t *testing.T) {
	ctx := context.Background()
	opts, _ := history(t)
	logs := captureLogs(&opts)

	require.NoError(t, Rollback(ctx, opts))
	assert.Contains(t, logs.String(), "cannot revert successful commits")

	a := reopen(t, opts)
	_, err := a.GetEntry(ctx, "e1")
	assert.NoError(t, err)
}

func TestWipe(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed after a typo", func(t *testing.T) {
		opts, _ := history(t)
		logs := captureLogs(&opts)

		require.NoError(t, Wipe(ctx, opts, typed("nope", WipePhrase+"\n")))
		assert.False(t, Exists(opts))
		assert.Contains(t, logs.String(), "entered phrase incorrect")
		assert.FileExists(t, opts.BackupPath(), "the commit backup survives a wipe")
	})

	t.Run("never confirmed", func(t *testing.T) {
		opts, _ := history(t)

		err := Wipe(ctx, opts, typed("a", "b", "c"))
		assert.ErrorIs(t, err, ErrConfirmation)
		assert.True(t, Exists(opts))
	})

	t.Run("no prompt", func(t *testing.T) {
		opts, _ := history(t)
		assert.ErrorIs(t, Wipe(ctx, opts, nil), ErrConfirmation)
		assert.True(t, Exists(opts))
	})

	t.Run("no archive", func(t *testing.T) {
		opts, logs := testOptions(t)
		require.NoError(t, Wipe(ctx, opts, nil))
		assert.Contains(t, logs.String(), "doing nothing")
	})
}
