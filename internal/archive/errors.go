package archive

import (
	"errors"

	"github.com/roach88/diary/internal/store"
)

var (
	// ErrArchiveExists is returned by Init when an archive is already present.
	ErrArchiveExists = errors.New("archive already exists")

	// ErrNoArchive is returned when an operation needs an archive and there
	// is none.
	ErrNoArchive = errors.New("no archive")

	// ErrIdentityMismatch is returned when a backup belongs to a different
	// archive.
	ErrIdentityMismatch = errors.New("backup belongs to a different archive")

	// ErrVersionRegression is returned when a backup is older than the
	// active archive.
	ErrVersionRegression = errors.New("backup is older than the active archive")

	// ErrInvalidBackup is returned for files that are not archive backups.
	ErrInvalidBackup = store.ErrInvalidBackup

	// ErrNoBackup is returned by Rollback when no commit has left a backup.
	ErrNoBackup = errors.New("no recent backup")

	// ErrNotFound is returned for unknown entry or MOC uids.
	ErrNotFound = store.ErrNotFound

	// ErrConfirmation is returned when the operator did not type the
	// confirmation phrase.
	ErrConfirmation = errors.New("confirmation phrase not entered")

	// ErrItverExhausted is returned when itver cannot be incremented.
	ErrItverExhausted = errors.New("itver exhausted")
)
