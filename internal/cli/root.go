package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"attendly/internal/models"
	"attendly/internal/resolver"
	"attendly/internal/storage"
)

type Context struct {
	Store   storage.Provider
	Today   time.Time
	UserID  string
	IsAdmin bool
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	validStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	invalidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// renderChanges prints a resolved change list, one row per date, with the
// invalid rows carrying their reason.
func renderChanges(changes []resolver.ResolvedChange) {
	if len(changes) == 0 {
		fmt.Println("No dates resolved.")
		return
	}
	fmt.Println(headerStyle.Render(fmt.Sprintf("%-12s %-10s %-8s %s", "DATE", "DAY", "STATUS", "NOTE")))
	for _, c := range changes {
		line := fmt.Sprintf("%-12s %-10s %-8s %s", c.Date, c.Day, c.Status, changeDetail(c))
		if c.Valid {
			fmt.Println(validStyle.Render(line))
		} else {
			fmt.Println(invalidStyle.Render(line))
			fmt.Println(faintStyle.Render("             " + c.ValidationMessage))
		}
	}
}

func changeDetail(c resolver.ResolvedChange) string {
	detail := c.Note
	if c.LeaveDuration == models.LeaveDurationHalf {
		half := fmt.Sprintf("half-day (%s, %s)", c.HalfDayPortion, c.WorkingPortion)
		if detail == "" {
			detail = half
		} else {
			detail = detail + " " + half
		}
	}
	return detail
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
