package cli

import (
	"fmt"

	"attendly/internal/dates"
)

type EntryListCmd struct {
	From string `help:"Start of the date range (YYYY-MM-DD). Defaults to the first of the month."`
	To   string `help:"End of the date range (YYYY-MM-DD). Defaults to the last of the month."`
}

func (c *EntryListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	from := c.From
	if from == "" {
		from = dates.Format(dates.MonthStart(ctx.Today))
	}
	to := c.To
	if to == "" {
		to = dates.Format(dates.MonthEnd(ctx.Today))
	}
	if _, err := dates.Parse(from); err != nil {
		return err
	}
	if _, err := dates.Parse(to); err != nil {
		return err
	}

	entries, err := ctx.Store.EntriesByRange(from, to)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("No entries between %s and %s.\n", from, to)
		return nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%-12s %-12s %-8s %s", "DATE", "USER", "STATUS", "NOTE")))
	for _, e := range entries {
		note := e.Note
		if e.IsHalfDayLeave() {
			note = fmt.Sprintf("%s half-day (%s, %s)", note, e.HalfDayPortion, e.WorkingPortion)
		}
		fmt.Printf("%-12s %-12s %-8s %s\n", e.Date, e.UserID, e.Status, note)
	}
	return nil
}
