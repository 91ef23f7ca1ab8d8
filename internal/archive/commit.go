package archive

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/diary/internal/entity"
	"github.com/roach88/diary/internal/input"
	"github.com/roach88/diary/internal/list"
	"github.com/roach88/diary/internal/logging"
)

// CommitResult describes what a commit stored.
type CommitResult struct {
	UID   string `json:"uid"`
	IsMOC bool   `json:"is_moc"`
	Itver uint16 `json:"itver"`
}

// CommitFile commits the TOML file at path. Section paths inside it are
// read as given.
func (a *Archive) CommitFile(ctx context.Context, path string) (CommitResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CommitResult{}, fmt.Errorf("read commit file: %w", err)
	}
	return a.Commit(ctx, path, data, os.ReadFile)
}

// Commit validates data and stores the entry or MOC it describes.
//
// The archive is backed up to Options.BackupPath before anything is written
// and again once the commit is complete. Entries are pushed onto the
// unsorted stack; run Sort to place them.
func (a *Archive) Commit(ctx context.Context, source string, data []byte, readFile input.ReadFileFunc) (CommitResult, error) {
	log := logging.Origin(a.log, "Commit").With().Str("source", source).Logger()

	if err := a.Backup(ctx, a.opts.BackupPath()); err != nil {
		return CommitResult{}, fmt.Errorf("pre-commit backup: %w", err)
	}

	log.Info().Msg("parsing commit file")
	in, err := input.Decode(source, data, readFile)
	if err != nil {
		return CommitResult{}, err
	}

	ns, err := a.namespace(ctx, in.IsMOC)
	if err != nil {
		return CommitResult{}, err
	}

	if in.IsMOC {
		log.Info().Str("uid", in.MOC.UID).Msg("storing moc")
		if _, err := entity.NewMOC(ctx, ns, *in.MOC); err != nil {
			return CommitResult{}, err
		}
	} else {
		log.Info().Str("uid", in.Entry.UID).Msg("storing entry")
		if _, err := entity.NewEntry(ctx, ns, *in.Entry); err != nil {
			return CommitResult{}, err
		}

		unsorted, err := a.order(ctx, keyUnsorted)
		if err != nil {
			return CommitResult{}, err
		}
		log.Debug().Msg("adding entry to unsorted stack")
		if err := list.Push(ctx, unsorted, in.Entry.UID); err != nil {
			return CommitResult{}, fmt.Errorf("push unsorted: %w", err)
		}
	}

	if err := a.bumpItver(ctx); err != nil {
		return CommitResult{}, err
	}

	if err := a.Backup(ctx, a.opts.BackupPath()); err != nil {
		return CommitResult{}, fmt.Errorf("post-commit backup: %w", err)
	}

	log.Info().Str("uid", in.UID()).Uint16("itver", a.itver).Msg("committed")
	return CommitResult{UID: in.UID(), IsMOC: in.IsMOC, Itver: a.itver}, nil
}
