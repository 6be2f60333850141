package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"attendly/internal/dates"
	"attendly/internal/models"
)

type HolidayAddCmd struct {
	Date string `arg:"" help:"Holiday date (YYYY-MM-DD)."`
	Name string `arg:"" optional:"" help:"Holiday name."`
}

func (c *HolidayAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if _, err := dates.Parse(c.Date); err != nil {
		return err
	}
	if err := ctx.Store.AddHoliday(models.Holiday{Date: c.Date, Name: c.Name}); err != nil {
		return err
	}
	fmt.Printf("Added holiday %s\n", c.Date)
	return nil
}

type HolidayListCmd struct{}

func (c *HolidayListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	holidays, err := ctx.Store.Holidays()
	if err != nil {
		return err
	}
	if len(holidays) == 0 {
		fmt.Println("No holidays configured.")
		return nil
	}
	for _, h := range holidays {
		fmt.Printf("%s  %s\n", h.Date, h.Name)
	}
	return nil
}

type HolidayImportCmd struct {
	File string `arg:"" help:"YAML file with a list of {date, name} holidays." type:"existingfile"`
}

// Run imports a holiday calendar file, skipping rows with malformed dates.
func (c *HolidayImportCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}
	var doc struct {
		Holidays []models.Holiday `yaml:"holidays"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", c.File, err)
	}

	imported, skipped := 0, 0
	for _, h := range doc.Holidays {
		if _, err := dates.Parse(h.Date); err != nil {
			skipped++
			continue
		}
		if err := ctx.Store.AddHoliday(h); err != nil {
			return err
		}
		imported++
	}
	fmt.Printf("Imported %d holiday(s)", imported)
	if skipped > 0 {
		fmt.Printf(", skipped %d with invalid dates", skipped)
	}
	fmt.Println()
	return nil
}
