package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/diary/internal/archive"
	"github.com/roach88/diary/internal/search"
)

// SearchResult lists the uids matching a tag search.
type SearchResult struct {
	Entries []string `json:"entries"`
	MOCs    []string `json:"mocs"`
}

func (r SearchResult) String() string {
	return fmt.Sprintf("Entries: [%s]\nMOCs: [%s]", strings.Join(r.Entries, ", "), strings.Join(r.MOCs, ", "))
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "search <tag>...",
		Short: "Find entries and MOCs by tag",
		Long: `Find entries and MOCs carrying any of the given tags, or with --strict,
all of them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			ctx := cmd.Context()
			var res SearchResult
			err := rootOpts.withArchive(ctx, cmd, func(a *archive.Archive) error {
				entries, err := a.ListEntries(ctx)
				if err != nil {
					return err
				}
				mocs, err := a.ListMOCs(ctx)
				if err != nil {
					return err
				}
				if res.Entries, err = search.Match(ctx, strict, args, entries); err != nil {
					return err
				}
				res.MOCs, err = search.Match(ctx, strict, args, mocs)
				return err
			})
			if err != nil {
				return fail(f, err)
			}
			return f.Success(res)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "require every tag")
	return cmd
}
