package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"attendly/internal/committer"
	"attendly/internal/plan"
	"attendly/internal/resolver"
)

type ReviewCmd struct {
	PlanFile string `arg:"" help:"Path to a proposed plan JSON file." type:"existingfile"`
}

// Run resolves the plan, lets the user pick which valid changes to apply,
// and commits the accepted subset.
func (c *ReviewCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	raw, err := os.ReadFile(c.PlanFile)
	if err != nil {
		return fmt.Errorf("failed to read plan: %w", err)
	}
	p, err := plan.Sanitize(raw)
	if err != nil {
		return fmt.Errorf("rejected plan: %w", err)
	}

	result, err := resolver.New(ctx.Store).Resolve(p, resolver.Options{
		Today:   ctx.Today,
		UserID:  ctx.UserID,
		IsAdmin: ctx.IsAdmin,
	})
	if err != nil {
		return err
	}

	renderChanges(result.Changes)

	var valid []resolver.ResolvedChange
	for _, change := range result.Changes {
		if change.Valid {
			valid = append(valid, change)
		}
	}
	if len(valid) == 0 {
		fmt.Println("\nNothing committable in this plan.")
		return nil
	}

	options := make([]huh.Option[string], 0, len(valid))
	selected := make([]string, 0, len(valid))
	for _, change := range valid {
		label := fmt.Sprintf("%s %s %s", change.Date, change.Day, change.Status)
		options = append(options, huh.NewOption(label, change.Date))
		selected = append(selected, change.Date)
	}

	confirm := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Select changes to apply").
				Options(options...).
				Value(&selected),
			huh.NewConfirm().
				Title("Commit the selected changes?").
				Value(&confirm),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	if !confirm || len(selected) == 0 {
		fmt.Println("Nothing committed.")
		return nil
	}

	accepted := make(map[string]bool, len(selected))
	for _, date := range selected {
		accepted[date] = true
	}
	var items []committer.ChangeItem
	for _, change := range valid {
		if !accepted[change.Date] {
			continue
		}
		items = append(items, committer.ChangeItem{
			Date:           change.Date,
			Status:         string(change.Status),
			Note:           change.Note,
			LeaveDuration:  change.LeaveDuration,
			HalfDayPortion: change.HalfDayPortion,
			WorkingPortion: change.WorkingPortion,
		})
	}

	commitResult, err := committer.Commit(items, ctx.Store, committer.Options{
		Today:   ctx.Today,
		UserID:  ctx.UserID,
		IsAdmin: ctx.IsAdmin,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Committed %d change(s), %d rejected.\n", commitResult.Processed, commitResult.Failed)
	return nil
}
