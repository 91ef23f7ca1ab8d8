package archive

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/roach88/diary/internal/logging"
	"github.com/roach88/diary/internal/store"
)

// Backup writes the whole archive to out as a single file.
func (a *Archive) Backup(ctx context.Context, out string) error {
	log := logging.Origin(a.log, "Backup")
	log.Info().Str("out", out).Msg("backing up archive")
	if err := a.store.Compile(ctx, out); err != nil {
		return fmt.Errorf("backup to %s: %w", out, err)
	}
	log.Info().Str("out", out).Msg("archive backed up")
	return nil
}

// Backup writes the archive in opts.Home to out. It fails with ErrNoArchive
// if there is no archive to back up.
func Backup(ctx context.Context, opts Options, out string) error {
	if !Exists(opts) {
		return fmt.Errorf("%s: %w; run `diary init` first", opts.ArchivePath(), ErrNoArchive)
	}
	a, err := open(ctx, opts.ArchivePath(), opts)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Backup(ctx, out)
}

// LoadBackup replaces the archive in opts.Home with the backup at in.
//
// If an archive is active, the backup must carry the same uid and an itver
// no lower than the active one; otherwise nothing is changed. An equal
// itver is accepted with a warning. With no active archive the backup is
// restored as is.
func LoadBackup(ctx context.Context, opts Options, in string) error {
	log := logging.Origin(opts.Logger, "Backup")
	log.Info().Str("in", in).Msg("loading archive backup")

	if !store.IsCompiled(in) {
		return fmt.Errorf("%s: %w", in, ErrInvalidBackup)
	}

	if Exists(opts) {
		if err := checkCandidate(ctx, opts, in); err != nil {
			return err
		}
	}

	if err := store.Decompile(in, opts.ArchivePath()); err != nil {
		return fmt.Errorf("restore %s: %w", in, err)
	}
	log.Info().Str("in", in).Msg("backup loaded")
	return nil
}

// checkCandidate decompiles in to a scratch file and compares its identity
// with the active archive.
func checkCandidate(ctx context.Context, opts Options, in string) error {
	log := logging.Origin(opts.Logger, "Backup")

	active, err := open(ctx, opts.ArchivePath(), opts)
	if err != nil {
		return err
	}
	uid, itver := active.uid, active.itver
	if err := active.Close(); err != nil {
		return err
	}

	scratch := filepath.Join(opts.Home, "new-"+uuid.NewString()+".db")
	defer store.RemoveFiles(scratch)

	if err := store.Decompile(in, scratch); err != nil {
		return fmt.Errorf("decompile %s: %w", in, err)
	}
	candidate, err := open(ctx, scratch, opts)
	if err != nil {
		return fmt.Errorf("%s: %v: %w", in, err, ErrInvalidBackup)
	}
	cUID, cItver := candidate.uid, candidate.itver
	candidate.Close()

	switch {
	case cUID != uid:
		return fmt.Errorf("%s: %w (uids don't match)", in, ErrIdentityMismatch)
	case cItver < itver:
		return fmt.Errorf("%s: %w (itver %d < %d)", in, ErrVersionRegression, cItver, itver)
	case cItver == itver:
		log.Warn().Uint16("itver", itver).
			Msg("backup is the same age as the active archive (itver is the same)")
	}
	return nil
}

// Rollback loads the backup refreshed by the last commit.
//
// It can only undo a commit that failed part way and left the archive
// corrupted. A completed commit refreshes the backup as its last step, so
// it is never undone.
func Rollback(ctx context.Context, opts Options) error {
	log := logging.Origin(opts.Logger, "RollBack")
	log.Warn().Msg("rollback cannot revert successful commits; only unsuccessful ones that corrupt the archive")

	path := opts.BackupPath()
	if !store.Exists(path) {
		return fmt.Errorf("%s: %w; cannot rollback", path, ErrNoBackup)
	}
	if err := LoadBackup(ctx, opts, path); err != nil {
		return err
	}
	log.Info().Msg("rolled back to last backup")
	return nil
}

// WipePhrase must be typed to confirm Wipe.
const WipePhrase = "I, as the user, confirm that I fully understand that I am wiping my ENTIRE archive and that this action is permanent and irreversible"

// Wipe deletes the archive in opts.Home once the operator has typed
// WipePhrase. A missing archive is only a warning.
func Wipe(ctx context.Context, opts Options, prompt Prompt) error {
	log := logging.Origin(opts.Logger, "Wipe")
	if !Exists(opts) {
		log.Warn().Str("path", opts.ArchivePath()).Msg("archive doesn't exist; doing nothing")
		return nil
	}

	if err := confirm(ctx, opts, "Wipe", WipePhrase, prompt); err != nil {
		return err
	}

	log.Info().Msg("wiping archive")
	if err := store.RemoveFiles(opts.ArchivePath()); err != nil {
		return fmt.Errorf("wipe: %w", err)
	}
	log.Info().Msg("archive wiped; run `diary init` to start a new one")
	return nil
}
