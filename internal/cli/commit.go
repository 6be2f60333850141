package cli

import (
	"fmt"

	"attendly/internal/committer"
)

type CommitCmd struct {
	ChangesFile string `arg:"" help:"Path to an approved change-set JSON file." type:"existingfile"`
}

func (c *CommitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	var items []committer.ChangeItem
	if err := readJSONFile(c.ChangesFile, &items); err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("change-set is empty")
	}

	result, err := committer.Commit(items, ctx.Store, committer.Options{
		Today:   ctx.Today,
		UserID:  ctx.UserID,
		IsAdmin: ctx.IsAdmin,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Committed %d change(s), %d rejected.\n", result.Processed, result.Failed)
	for _, item := range result.Items {
		if !item.OK {
			fmt.Println(invalidStyle.Render(fmt.Sprintf("  %s: %s", item.Date, item.Message)))
		}
	}
	return nil
}
