package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"attendly/internal/plan"
	"attendly/internal/resolver"
)

type ResolveCmd struct {
	PlanFile string `arg:"" help:"Path to a proposed plan JSON file." type:"existingfile"`
	JSON     bool   `help:"Emit the resolved changes as JSON instead of a table."`
}

func (c *ResolveCmd) Run(ctx *Context) error {
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

	if c.JSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if result.Summary != "" {
		fmt.Printf("%s\n\n", result.Summary)
	}
	renderChanges(result.Changes)
	return nil
}
