package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/diary/internal/archive"
)

// InitResult reports a newly created archive.
type InitResult struct {
	UID  string `json:"uid"`
	Home string `json:"home"`
}

func (r InitResult) String() string {
	return fmt.Sprintf("✓ Initialised archive %s in %s", r.UID, r.Home)
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a new, empty archive",
		Long: `Create a new archive with a fresh identity in the home directory.

Fails if an archive already exists; wipe it first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			opts := rootOpts.archiveOptions(cmd)

			a, err := archive.Init(cmd.Context(), opts)
			if err != nil {
				return fail(f, err)
			}
			defer a.Close()

			return f.Success(InitResult{UID: formatUID(a.UID()), Home: opts.Home})
		},
	}
}

func formatUID(uid uint64) string {
	return fmt.Sprintf("%016x", uid)
}
