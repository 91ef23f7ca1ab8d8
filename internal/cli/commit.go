package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/diary/internal/archive"
)

// CommitResults lists what a commit run wrote.
type CommitResults []archive.CommitResult

func (rs CommitResults) String() string {
	var b strings.Builder
	for i, r := range rs {
		if i > 0 {
			b.WriteByte('\n')
		}
		kind := "entry"
		if r.IsMOC {
			kind = "moc"
		}
		fmt.Fprintf(&b, "✓ Committed %s %s (itver %d)", kind, r.UID, r.Itver)
	}
	return b.String()
}

// NewCommitCommand creates the commit command.
func NewCommitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "commit <file>...",
		Short: "Commit entry or MOC files into the archive",
		Long: `Validate and commit one or more TOML entry or MOC files.

Each file is checked completely before anything is written. A uid that is
already in the archive is replaced. The archive is backed up before and
after every commit; committed entries wait for the next sort.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			var results CommitResults
			err := rootOpts.withActiveArchive(cmd.Context(), cmd, func(a *archive.Archive) error {
				for _, path := range args {
					f.VerboseLog("Committing %s", path)
					res, err := a.CommitFile(cmd.Context(), path)
					if err != nil {
						return err
					}
					results = append(results, res)
				}
				return nil
			})
			if err != nil {
				return fail(f, err)
			}
			return f.Success(results)
		},
	}
}
