package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/diary/internal/archive"
)

// ListItem is one line of `diary list`. Date is empty for MOCs.
type ListItem struct {
	UID   string `json:"uid"`
	Date  string `json:"date,omitempty"`
	Title string `json:"title"`
}

// ListResult lists entries or MOCs by uid.
type ListResult []ListItem

func (r ListResult) String() string {
	if len(r) == 0 {
		return "(empty)"
	}
	lines := make([]string, len(r))
	for i, item := range r {
		if item.Date != "" {
			lines[i] = fmt.Sprintf("%s  %s  %s", item.Date, item.UID, item.Title)
		} else {
			lines[i] = fmt.Sprintf("%s  %s", item.UID, item.Title)
		}
	}
	return strings.Join(lines, "\n")
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var isMOC bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries or MOCs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			res := ListResult{}
			err := rootOpts.withArchive(cmd.Context(), cmd, func(a *archive.Archive) error {
				var err error
				if isMOC {
					res, err = listMOCs(cmd.Context(), a)
				} else {
					res, err = listEntries(cmd.Context(), a)
				}
				return err
			})
			if err != nil {
				return fail(f, err)
			}
			return f.Success(res)
		},
	}

	cmd.Flags().BoolVar(&isMOC, "moc", false, "list MOCs instead of entries")
	return cmd
}

func listEntries(ctx context.Context, a *archive.Archive) (ListResult, error) {
	entries, err := a.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	res := ListResult{}
	for _, e := range entries {
		date, err := e.Date(ctx)
		if err != nil {
			return nil, err
		}
		title, err := e.Title(ctx)
		if err != nil {
			return nil, err
		}
		res = append(res, ListItem{UID: e.UID(), Date: date.String(), Title: title})
	}
	return res, nil
}

func listMOCs(ctx context.Context, a *archive.Archive) (ListResult, error) {
	mocs, err := a.ListMOCs(ctx)
	if err != nil {
		return nil, err
	}
	res := ListResult{}
	for _, m := range mocs {
		title, err := m.Title(ctx)
		if err != nil {
			return nil, err
		}
		res = append(res, ListItem{UID: m.UID(), Title: title})
	}
	return res, nil
}
