package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"attendly/internal/cli"
	"attendly/internal/dates"
	"attendly/internal/errors"
	"attendly/internal/logger"
	"attendly/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Storage path (.db for SQLite, .json for JSON, postgres:// for Postgres)." type:"path" default:"~/.config/attendly/attendly.db"`
	Debug   bool   `help:"Enable debug logging."`
	Today   string `help:"Override the reference date (YYYY-MM-DD). Defaults to the current date."`
	User    string `help:"Acting user id." default:"me"`
	Admin   bool   `help:"Act with administrator rights."`

	Init    cli.InitCmd    `cmd:"" help:"Initialize attendly storage."`
	Resolve cli.ResolveCmd `cmd:"" help:"Resolve a proposed plan into dated changes."`
	Review  cli.ReviewCmd  `cmd:"" help:"Resolve a plan and interactively commit the accepted changes."`
	Commit  cli.CommitCmd  `cmd:"" help:"Commit an approved change-set."`
	Entry   struct {
		List cli.EntryListCmd `cmd:"" help:"List attendance entries."`
	} `cmd:"" help:"Inspect attendance entries."`
	Holiday struct {
		Add    cli.HolidayAddCmd    `cmd:"" help:"Add a holiday."`
		List   cli.HolidayListCmd   `cmd:"" help:"List holidays."`
		Import cli.HolidayImportCmd `cmd:"" help:"Import a YAML holiday calendar."`
	} `cmd:"" help:"Manage the holiday calendar."`
	Users struct {
		Add  cli.UserAddCmd  `cmd:"" help:"Add a user to the directory."`
		List cli.UserListCmd `cmd:"" help:"List directory users."`
	} `cmd:"" name:"user" help:"Manage the user directory."`
}

// logDir picks where log files live: alongside file-backed storage, or the
// user config directory when storage is a database URL.
func logDir(config string) string {
	if strings.Contains(config, "://") {
		if home, err := os.UserConfigDir(); err == nil {
			return filepath.Join(home, "attendly")
		}
		return "."
	}
	return filepath.Dir(config)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("attendly"),
		kong.Description("Natural-language attendance planning assistant"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.3.0"},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: logDir(CLI.Config),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	today := time.Now()
	if CLI.Today != "" {
		parsed, err := dates.Parse(CLI.Today)
		if err != nil {
			errors.Fatal(err)
		}
		today = parsed
	}
	// Normalize to midnight so date arithmetic never crosses day boundaries.
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	var store storage.Provider
	switch {
	case strings.HasPrefix(CLI.Config, "postgres://"), strings.HasPrefix(CLI.Config, "postgresql://"):
		store = storage.NewPostgresStore(CLI.Config)
	case strings.HasSuffix(CLI.Config, ".json"):
		store = storage.NewJSONStore(CLI.Config)
	default:
		store = storage.NewSQLiteStore(CLI.Config)
	}

	appCtx := &cli.Context{
		Store:   store,
		Today:   today,
		UserID:  CLI.User,
		IsAdmin: CLI.Admin,
	}

	err := ctx.Run(appCtx)
	store.Close()
	if err != nil {
		errors.Fatal(err)
	}
}
