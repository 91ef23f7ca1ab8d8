// Package archive owns a diary archive: its store, its identity and its
// iteration counter.
//
// An archive lives in a home directory as a single store file. Its root
// holds:
//
//	uid               uint64, random, fixed at Init
//	itver             uint16, +1 on every successful commit
//	entries/<uid>/    one container per entry
//	mocs/<uid>/       one container per MOC
//	order/sorted      entry uids by date, oldest first
//	order/unsorted    entry uids in arrival order, emptied by Sort
//
// Every commit refreshes a backup file next to the store before and after
// writing. LoadBackup only accepts backups of the same archive that are
// not older than it; Rollback loads the commit backup.
package archive

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/roach88/diary/internal/list"
	"github.com/roach88/diary/internal/logging"
	"github.com/roach88/diary/internal/retryx"
	"github.com/roach88/diary/internal/store"
)

// Files inside the home directory.
const (
	ArchiveFile = "archive.db"
	BackupFile  = "backup.diary"
)

// Store keys.
const (
	keyUID      = "uid"
	keyItver    = "itver"
	nsEntries   = "entries"
	nsMOCs      = "mocs"
	nsOrder     = "order"
	keySorted   = "sorted"
	keyUnsorted = "unsorted"
)

// Options locates an archive and configures how it is accessed.
type Options struct {
	// Home is the directory holding the archive and its commit backup.
	Home string

	// Retry bounds retries of transient store failures.
	Retry retryx.Policy

	// Logger receives progress and warnings.
	Logger zerolog.Logger
}

// ArchivePath returns the store file of the archive.
func (o Options) ArchivePath() string {
	return filepath.Join(o.Home, ArchiveFile)
}

// BackupPath returns the backup refreshed by every commit.
func (o Options) BackupPath() string {
	return filepath.Join(o.Home, BackupFile)
}

func (o Options) storeOptions() store.Options {
	return store.Options{Retry: o.Retry, Logger: o.Logger}
}

// Exists reports whether an archive is present in opts.Home.
func Exists(opts Options) bool {
	return store.Exists(opts.ArchivePath())
}

// Archive is an open, active archive. It exclusively owns its store until
// Close.
type Archive struct {
	opts  Options
	store *store.Store
	log   zerolog.Logger
	uid   uint64
	itver uint16
}

// Init creates a new archive with a fresh uid and itver 0.
func Init(ctx context.Context, opts Options) (*Archive, error) {
	log := logging.Origin(opts.Logger, "Init")
	path := opts.ArchivePath()
	if Exists(opts) {
		return nil, fmt.Errorf("%s: %w; wipe it before initialising again", path, ErrArchiveExists)
	}

	log.Info().Str("path", path).Msg("initialising a new archive")
	s, err := store.Open(ctx, path, opts.storeOptions())
	if err != nil {
		return nil, fmt.Errorf("init archive: %w", err)
	}

	a := &Archive{opts: opts, store: s, log: opts.Logger, uid: newUID()}
	if err := a.initLayout(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("init archive: %w", err)
	}

	log.Info().Uint64("uid", a.uid).Msg("archive initialised")
	return a, nil
}

func (a *Archive) initLayout(ctx context.Context) error {
	root := a.store.Root()
	if err := store.Put(ctx, root, keyUID, a.uid); err != nil {
		return err
	}
	if err := store.Put(ctx, root, keyItver, a.itver); err != nil {
		return err
	}
	for _, name := range []string{nsEntries, nsMOCs} {
		if _, err := root.Child(ctx, name); err != nil {
			return err
		}
	}
	for _, name := range []string{keySorted, keyUnsorted} {
		c, err := a.order(ctx, name)
		if err != nil {
			return err
		}
		if err := list.Write[string](ctx, c, nil); err != nil {
			return err
		}
	}
	return nil
}

// newUID folds a random UUID into 64 bits.
func newUID() uint64 {
	u := uuid.New()
	return binary.BigEndian.Uint64(u[:8]) ^ binary.BigEndian.Uint64(u[8:])
}

// Load opens the archive in opts.Home, initialising one if none exists.
func Load(ctx context.Context, opts Options) (*Archive, error) {
	if !Exists(opts) {
		logging.Origin(opts.Logger, "Archive").Warn().
			Str("path", opts.ArchivePath()).
			Msg("archive not found; initialising a new one")
		return Init(ctx, opts)
	}
	return open(ctx, opts.ArchivePath(), opts)
}

// Open opens the archive in opts.Home. It fails with ErrNoArchive instead of
// initialising one, so writes never land in an archive with a fresh uid.
func Open(ctx context.Context, opts Options) (*Archive, error) {
	if !Exists(opts) {
		return nil, fmt.Errorf("%s: %w; run `diary init` first", opts.ArchivePath(), ErrNoArchive)
	}
	return open(ctx, opts.ArchivePath(), opts)
}

// open attaches to an existing store file at path and reads its identity.
func open(ctx context.Context, path string, opts Options) (*Archive, error) {
	s, err := store.Open(ctx, path, opts.storeOptions())
	if err != nil {
		return nil, fmt.Errorf("load archive: %w", err)
	}

	uid, err := store.Get[uint64](ctx, s.Root(), keyUID)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("load archive uid: %w", err)
	}
	itver, err := store.Get[uint16](ctx, s.Root(), keyItver)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("load archive itver: %w", err)
	}

	logging.Origin(opts.Logger, "Archive").Debug().
		Str("path", path).Uint64("uid", uid).Uint16("itver", itver).
		Msg("archive loaded")
	return &Archive{opts: opts, store: s, log: opts.Logger, uid: uid, itver: itver}, nil
}

// Close releases the store.
func (a *Archive) Close() error {
	return a.store.Close()
}

// UID returns the archive's identity.
func (a *Archive) UID() uint64 { return a.uid }

// Itver returns the number of successful commits.
func (a *Archive) Itver() uint16 { return a.itver }

// Options returns the options the archive was opened with.
func (a *Archive) Options() Options { return a.opts }

func (a *Archive) bumpItver(ctx context.Context) error {
	if a.itver == math.MaxUint16 {
		return ErrItverExhausted
	}
	next := a.itver + 1
	if err := store.Put(ctx, a.store.Root(), keyItver, next); err != nil {
		return fmt.Errorf("update itver: %w", err)
	}
	a.itver = next
	return nil
}

func (a *Archive) namespace(ctx context.Context, isMOC bool) (store.Container, error) {
	if isMOC {
		return a.store.Root().Child(ctx, nsMOCs)
	}
	return a.store.Root().Child(ctx, nsEntries)
}

func (a *Archive) order(ctx context.Context, name string) (store.Container, error) {
	order, err := a.store.Root().Child(ctx, nsOrder)
	if err != nil {
		return store.Container{}, err
	}
	return order.Child(ctx, name)
}
