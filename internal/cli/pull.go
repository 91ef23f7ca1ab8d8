package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/diary/internal/archive"
)

// NewPullCommand creates the pull command.
func NewPullCommand(rootOpts *RootOptions) *cobra.Command {
	var isMOC bool

	cmd := &cobra.Command{
		Use:   "pull <uid> <dir> <file>",
		Short: "Write a stored entry or MOC back out as a commit file",
		Long: `Write a stored entry (or, with --moc, a MOC) to dir/file as TOML that
can be edited and committed again. Section contents are inlined.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			var path string
			err := rootOpts.withArchive(cmd.Context(), cmd, func(a *archive.Archive) error {
				var err error
				path, err = a.Pull(cmd.Context(), args[0], isMOC, args[1], args[2])
				return err
			})
			if err != nil {
				return fail(f, err)
			}
			return f.Success(PathResult{Action: "Pulled to", Path: path})
		},
	}

	cmd.Flags().BoolVar(&isMOC, "moc", false, "pull a MOC instead of an entry")
	return cmd
}
