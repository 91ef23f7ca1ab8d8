package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/diary/internal/archive"
)

// NewUncommitCommand creates the uncommit command.
func NewUncommitCommand(rootOpts *RootOptions) *cobra.Command {
	var isMOC bool

	cmd := &cobra.Command{
		Use:   "uncommit <uid>",
		Short: "Permanently remove an entry or MOC",
		Long: `Remove an entry (or, with --moc, a MOC) after typing a confirmation phrase.

The archive is backed up first; run rollback to undo the removal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			err := rootOpts.withActiveArchive(cmd.Context(), cmd, func(a *archive.Archive) error {
				return a.Uncommit(cmd.Context(), args[0], isMOC, rootOpts.prompt(cmd))
			})
			if err != nil {
				return fail(f, err)
			}
			return f.Success(PathResult{Action: "Removed", Path: args[0]})
		},
	}

	cmd.Flags().BoolVar(&isMOC, "moc", false, "remove a MOC instead of an entry")
	return cmd
}
