package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/diary/internal/archive"
)

// About describes one entry or MOC. Date is empty for MOCs.
type About struct {
	UID         string   `json:"uid"`
	IsMOC       bool     `json:"is_moc"`
	Date        string   `json:"date,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Notes       []string `json:"notes"`
	Tags        []string `json:"tags"`
}

func (a About) String() string {
	var b strings.Builder
	kind := "Entry"
	if a.IsMOC {
		kind = "MOC"
	}
	fmt.Fprintf(&b, "# About %s of uid `%s`\n", kind, a.UID)
	if !a.IsMOC {
		fmt.Fprintf(&b, "date: %s\n", a.Date)
	}
	fmt.Fprintf(&b, "title: %q\n", a.Title)
	fmt.Fprintf(&b, "description: %q\n", a.Description)
	writeList(&b, "notes", a.Notes)
	writeList(&b, "tags", a.Tags)
	return strings.TrimSuffix(b.String(), "\n")
}

func writeList(b *strings.Builder, name string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(b, "%s: []\n", name)
		return
	}
	fmt.Fprintf(b, "%s:\n", name)
	for _, item := range items {
		fmt.Fprintf(b, "  - %s\n", item)
	}
}

// NewAboutCommand creates the about command.
func NewAboutCommand(rootOpts *RootOptions) *cobra.Command {
	var isMOC bool

	cmd := &cobra.Command{
		Use:   "about <uid>",
		Short: "Show an entry or MOC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			var res About
			err := rootOpts.withArchive(cmd.Context(), cmd, func(a *archive.Archive) error {
				var err error
				if isMOC {
					res, err = aboutMOC(cmd.Context(), a, args[0])
				} else {
					res, err = aboutEntry(cmd.Context(), a, args[0])
				}
				return err
			})
			if err != nil {
				return fail(f, err)
			}
			return f.Success(res)
		},
	}

	cmd.Flags().BoolVar(&isMOC, "moc", false, "show a MOC instead of an entry")
	return cmd
}

func aboutEntry(ctx context.Context, a *archive.Archive, uid string) (About, error) {
	e, err := a.GetEntry(ctx, uid)
	if err != nil {
		return About{}, err
	}
	d, err := e.Draft(ctx)
	if err != nil {
		return About{}, err
	}
	return About{
		UID:         d.UID,
		Date:        d.Date.String(),
		Title:       d.Title,
		Description: d.Description,
		Notes:       d.Notes,
		Tags:        d.Tags,
	}, nil
}

func aboutMOC(ctx context.Context, a *archive.Archive, uid string) (About, error) {
	m, err := a.GetMOC(ctx, uid)
	if err != nil {
		return About{}, err
	}
	d, err := m.Draft(ctx)
	if err != nil {
		return About{}, err
	}
	return About{
		UID:         d.UID,
		IsMOC:       true,
		Title:       d.Title,
		Description: d.Description,
		Notes:       d.Notes,
		Tags:        d.Tags,
	}, nil
}
