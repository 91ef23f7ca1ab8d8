package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/diary/internal/archive"
	"github.com/roach88/diary/internal/export"
)

// ExportResult lists the markdown files written.
type ExportResult struct {
	Files []string `json:"files"`
}

func (r ExportResult) String() string {
	return fmt.Sprintf("✓ Exported %d files", len(r.Files))
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		strict bool
		tags   []string
	)

	cmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Export the archive as markdown",
		Long: `Write one markdown page per entry and MOC into dir.

With --tag, only items carrying any of the tags are exported, or with
--strict, all of them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			var res ExportResult
			err := rootOpts.withArchive(cmd.Context(), cmd, func(a *archive.Archive) error {
				files, err := export.Export(cmd.Context(), a, args[0],
					export.Options{Tags: tags, Strict: strict}, rootOpts.logger(cmd))
				res.Files = files
				return err
			})
			if err != nil {
				return fail(f, err)
			}
			return f.Success(res)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "require every tag")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "only export items with this tag (repeatable)")
	return cmd
}
