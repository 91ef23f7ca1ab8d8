package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/diary/internal/archive"
)

// PathResult reports a file a command read or wrote.
type PathResult struct {
	Action string `json:"action"`
	Path   string `json:"path"`
}

func (r PathResult) String() string {
	return fmt.Sprintf("✓ %s %s", r.Action, r.Path)
}

// NewBackupCommand creates the backup command.
func NewBackupCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "backup <out>",
		Short: "Write the whole archive to a single backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			if err := archive.Backup(cmd.Context(), rootOpts.archiveOptions(cmd), args[0]); err != nil {
				return fail(f, err)
			}
			return f.Success(PathResult{Action: "Backed up to", Path: args[0]})
		},
	}
}

// NewLoadBackupCommand creates the load-backup command.
func NewLoadBackupCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load-backup <in>",
		Short: "Replace the archive with a backup",
		Long: `Replace the archive with a backup file.

The backup must come from the same archive and must not be older than it.
With no archive present the backup is restored as is.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			if err := archive.LoadBackup(cmd.Context(), rootOpts.archiveOptions(cmd), args[0]); err != nil {
				return fail(f, err)
			}
			return f.Success(PathResult{Action: "Loaded backup", Path: args[0]})
		},
	}
}

// NewRollbackCommand creates the rollback command.
func NewRollbackCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rollback",
		Short: "Restore the backup taken by the last commit",
		Long: `Restore the backup taken by the last commit or uncommit.

This repairs an archive left corrupted by a failed commit, and undoes the
last uncommit. It cannot revert a successful commit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			opts := rootOpts.archiveOptions(cmd)
			if err := archive.Rollback(cmd.Context(), opts); err != nil {
				return fail(f, err)
			}
			return f.Success(PathResult{Action: "Rolled back to", Path: opts.BackupPath()})
		},
	}
}

// NewWipeCommand creates the wipe command.
func NewWipeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "wipe",
		Short: "Permanently delete the archive",
		Long: `Permanently delete the archive after typing a confirmation phrase.

The commit backup is kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			opts := rootOpts.archiveOptions(cmd)
			if err := archive.Wipe(cmd.Context(), opts, rootOpts.prompt(cmd)); err != nil {
				return fail(f, err)
			}
			return f.Success(PathResult{Action: "Wiped", Path: opts.ArchivePath()})
		},
	}
}
