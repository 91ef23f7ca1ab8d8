package archive

import (
	"context"
	"fmt"
	"slices"

	"github.com/roach88/diary/internal/logging"
)

// UncommitPhrase must be typed to confirm Uncommit.
const UncommitPhrase = "mhm, yep, I do wanna remove this entry/moc permanently"

// Uncommit permanently removes an entry or MOC after the operator has typed
// UncommitPhrase.
//
// The archive is backed up to Options.BackupPath first and itver is left
// unchanged, so Rollback restores the removed item.
func (a *Archive) Uncommit(ctx context.Context, uid string, isMOC bool, prompt Prompt) error {
	log := logging.Origin(a.log, "Remove").With().Str("uid", uid).Bool("moc", isMOC).Logger()

	var err error
	if isMOC {
		_, err = a.GetMOC(ctx, uid)
	} else {
		_, err = a.GetEntry(ctx, uid)
	}
	if err != nil {
		return err
	}

	if err := confirm(ctx, a.opts, "Remove", UncommitPhrase, prompt); err != nil {
		return err
	}

	log.Info().Msg("backing up archive before removal; run `diary rollback` to revert")
	if err := a.Backup(ctx, a.opts.BackupPath()); err != nil {
		return fmt.Errorf("pre-removal backup: %w", err)
	}

	if err := a.Sort(ctx); err != nil {
		return err
	}

	ns, err := a.namespace(ctx, isMOC)
	if err != nil {
		return err
	}
	log.Info().Msg("removing")
	if err := ns.Remove(ctx, uid); err != nil {
		return fmt.Errorf("remove %q: %w", uid, err)
	}

	if !isMOC {
		sorted, err := a.Sorted(ctx)
		if err != nil {
			return err
		}
		sorted = slices.DeleteFunc(sorted, func(s string) bool { return s == uid })
		if err := a.writeOrder(ctx, keySorted, sorted); err != nil {
			return err
		}
	}

	log.Info().Msg("removed")
	return nil
}
