package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/diary/internal/entity"
)

// SinceResult counts days from 2020-01-01.
type SinceResult struct {
	Date  string `json:"date"`
	Days  int    `json:"days"`
	Today bool   `json:"today"`
}

func (r SinceResult) String() string {
	if r.Today {
		return fmt.Sprintf("Days since 2020: %d", r.Days)
	}
	return fmt.Sprintf("Days between 2020 and %s: %d", r.Date, r.Days)
}

// NewSinceCommand creates the since command.
func NewSinceCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "since [YYYY-MM-DD]",
		Short: "Count the days from 2020-01-01 to a date or today",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)

			res := SinceResult{Today: len(args) == 0}
			date := entity.DateOf(rootOpts.now())
			if !res.Today {
				var err error
				if date, err = entity.ParseDate(args[0]); err != nil {
					return fail(f, fmt.Errorf("invalid date %q: %w", args[0], err))
				}
			}

			days, err := entity.DaysSince2020(date)
			if err != nil {
				return fail(f, err)
			}
			res.Date, res.Days = date.String(), days
			return f.Success(res)
		},
	}
}
