package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/diary/internal/archive"
)

// SortResult lists entry uids oldest first.
type SortResult struct {
	Sorted []string `json:"sorted"`
}

func (r SortResult) String() string {
	return fmt.Sprintf("✓ %d entries sorted", len(r.Sorted))
}

// NewSortCommand creates the sort command.
func NewSortCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sort",
		Short: "Sort newly committed entries by date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			var res SortResult
			err := rootOpts.withArchive(cmd.Context(), cmd, func(a *archive.Archive) error {
				if err := a.Sort(cmd.Context()); err != nil {
					return err
				}
				sorted, err := a.Sorted(cmd.Context())
				res.Sorted = sorted
				return err
			})
			if err != nil {
				return fail(f, err)
			}
			return f.Success(res)
		},
	}
}
