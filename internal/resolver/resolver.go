// Package resolver turns a sanitized Plan into a final, per-date,
// validity-annotated decision list.
package resolver

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"attendly/internal/dates"
	"attendly/internal/expression"
	"attendly/internal/generator"
	"attendly/internal/logger"
	"attendly/internal/models"
	"attendly/internal/modifier"
	"attendly/internal/plan"
)

// Store is the read-only view of the persistent state the resolver needs.
// Both batched lookups happen once per request regardless of action count.
type Store interface {
	EntriesByUserAndDates(userID string, dateSet []string) ([]models.Entry, error)
	Holidays() ([]models.Holiday, error)
	Users() ([]models.User, error)
}

// Options carries the caller's identity and reference date. Today is always
// supplied explicitly; the resolver never reads the wall clock.
type Options struct {
	Today   time.Time
	UserID  string
	IsAdmin bool
}

// ResolvedChange is one finalized date/status decision. Invalid dates are
// returned for user visibility, never silently discarded.
type ResolvedChange struct {
	Date              string        `json:"date"`
	Day               string        `json:"day"`
	Status            models.Status `json:"status"`
	Note              string        `json:"note,omitempty"`
	LeaveDuration     string        `json:"leave_duration,omitempty"`
	HalfDayPortion    string        `json:"half_day_portion,omitempty"`
	WorkingPortion    string        `json:"working_portion,omitempty"`
	Valid             bool          `json:"valid"`
	ValidationMessage string        `json:"validation_message,omitempty"`
}

// Result is the full outcome of resolving one plan.
type Result struct {
	Changes  []ResolvedChange `json:"changes"`
	Summary  string           `json:"summary,omitempty"`
	PlanHash string           `json:"plan_hash"`
}

type Resolver struct {
	store Store
}

func New(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve walks the plan's actions in order, expands each one through the
// generator registry (with fallbacks), validates every candidate date, and
// collapses to one record per date with later actions overriding earlier
// ones. Resolution is strictly sequential so that ordering guarantee holds.
func (r *Resolver) Resolve(p plan.Plan, opts Options) (Result, error) {
	if opts.Today.IsZero() {
		return Result{}, fmt.Errorf("reference date is required")
	}

	hash := fingerprint(p)

	holidayList, err := r.store.Holidays()
	if err != nil {
		return Result{}, fmt.Errorf("load holidays: %w", err)
	}
	holidays := make(map[string]bool, len(holidayList))
	for _, h := range holidayList {
		holidays[h.Date] = true
	}
	modCtx := modifier.Context{Today: opts.Today, Holidays: holidays}

	// Expand every action first so the store lookups can be batched across
	// the whole request.
	actionDates := make([][]string, len(p.Actions))
	for i, action := range p.Actions {
		actionDates[i] = r.expandAction(action, opts.Today, modCtx)
	}

	ownEntries, refEntries, err := r.batchLookups(p, actionDates, opts)
	if err != nil {
		return Result{}, err
	}

	byDate := make(map[string]ResolvedChange)
	for i, action := range p.Actions {
		for _, date := range actionDates[i] {
			change, include := r.resolveDate(date, action, opts, holidays, ownEntries, refEntries)
			if !include {
				continue
			}
			// Later plan entries override earlier ones for the same date.
			byDate[date] = change
		}
	}

	result := Result{Summary: p.Summary, PlanHash: hash, Changes: make([]ResolvedChange, 0, len(byDate))}
	for _, change := range byDate {
		result.Changes = append(result.Changes, change)
	}
	sort.Slice(result.Changes, func(i, j int) bool {
		return result.Changes[i].Date < result.Changes[j].Date
	})

	logger.Debug("plan resolved",
		"plan_hash", hash,
		"actions", len(p.Actions),
		"changes", len(result.Changes),
		"today", dates.Format(opts.Today),
	)
	return result, nil
}

// expandAction tries an ordered list of resolution strategies: the proposed
// tool call, a synthesized natural-language expression, then any explicit
// date expressions on the action. The first strategy that succeeds wins; if
// all fail the action contributes nothing, which is not fatal to the plan.
func (r *Resolver) expandAction(action plan.Action, today time.Time, modCtx modifier.Context) []string {
	strategies := []func() ([]string, bool){
		func() ([]string, bool) {
			gen := generator.Run(action.ToolCall.Tool, action.ToolCall.Params, today)
			return r.throughPipeline(gen, action.Modifiers, modCtx)
		},
		func() ([]string, bool) {
			expr := expression.Synthesize(action.ToolCall.Tool, action.ToolCall.Params)
			if expr == "" {
				return nil, false
			}
			return r.resolveExpression(expr, action.Modifiers, today, modCtx)
		},
		func() ([]string, bool) {
			var all []string
			seen := make(map[string]bool)
			for _, expr := range action.DateExpressions {
				resolved, ok := r.resolveExpression(expr, action.Modifiers, today, modCtx)
				if !ok {
					continue
				}
				for _, d := range resolved {
					if !seen[d] {
						seen[d] = true
						all = append(all, d)
					}
				}
			}
			if all == nil {
				return nil, false
			}
			sort.Strings(all)
			return all, true
		},
	}

	for _, strategy := range strategies {
		if resolved, ok := strategy(); ok {
			return resolved
		}
	}
	logger.Warn("action could not be resolved", "tool", action.ToolCall.Tool)
	return nil
}

func (r *Resolver) throughPipeline(gen generator.Result, mods []modifier.Modifier, modCtx modifier.Context) ([]string, bool) {
	if !gen.Success {
		return nil, false
	}
	if len(mods) == 0 {
		return gen.Dates, true
	}
	piped := modifier.RunPipeline(gen, mods, modCtx)
	for _, msg := range piped.ModifierErrors {
		logger.Warn("modifier failed, stage passed through", "error", msg)
	}
	return piped.Dates, piped.Success
}

func (r *Resolver) resolveExpression(expr string, mods []modifier.Modifier, today time.Time, modCtx modifier.Context) ([]string, bool) {
	resolved, err := expression.Resolve(expr, today)
	if err != nil {
		return nil, false
	}
	// Modifiers still apply after a fallback expansion; only generation was
	// replaced, not the filter chain.
	return r.throughPipeline(generator.Result{Success: true, Dates: resolved}, mods, modCtx)
}

// batchLookups performs the two per-request store reads: the caller's own
// entries (needed by filterByCurrentStatus) and, per named reference user,
// that user's office entries over the candidate dates.
func (r *Resolver) batchLookups(p plan.Plan, actionDates [][]string, opts Options) (map[string]models.Entry, map[string]map[string]bool, error) {
	needOwn := false
	refNames := make(map[string]bool)
	for _, action := range p.Actions {
		if action.FilterByCurrentStatus != "" {
			needOwn = true
		}
		if action.ReferenceUser != "" {
			refNames[action.ReferenceUser] = true
		}
	}
	if !needOwn && len(refNames) == 0 {
		return nil, nil, nil
	}

	candidates := unionDates(actionDates)

	var ownEntries map[string]models.Entry
	if needOwn {
		entries, err := r.store.EntriesByUserAndDates(opts.UserID, candidates)
		if err != nil {
			return nil, nil, fmt.Errorf("load entries: %w", err)
		}
		ownEntries = make(map[string]models.Entry, len(entries))
		for _, e := range entries {
			ownEntries[e.Date] = e
		}
	}

	var refEntries map[string]map[string]bool
	if len(refNames) > 0 {
		users, err := r.store.Users()
		if err != nil {
			return nil, nil, fmt.Errorf("load users: %w", err)
		}
		refEntries = make(map[string]map[string]bool, len(refNames))
		for name := range refNames {
			officeDates := make(map[string]bool)
			if user, found := findUser(users, name); found {
				entries, err := r.store.EntriesByUserAndDates(user.ID, candidates)
				if err != nil {
					return nil, nil, fmt.Errorf("load reference entries: %w", err)
				}
				for _, e := range entries {
					if e.Status == models.StatusOffice {
						officeDates[e.Date] = true
					}
				}
			}
			// A reference user that cannot be found stays an empty set:
			// absent on every date.
			refEntries[name] = officeDates
		}
	}

	return ownEntries, refEntries, nil
}

// findUser matches a name case-insensitively, trying exact match first and
// falling back to a whole-word partial match.
func findUser(users []models.User, name string) (models.User, bool) {
	query := strings.ToLower(strings.TrimSpace(name))
	for _, u := range users {
		if strings.ToLower(u.Name) == query {
			return u, true
		}
	}
	for _, u := range users {
		for _, word := range strings.Fields(strings.ToLower(u.Name)) {
			if word == query {
				return u, true
			}
		}
	}
	return models.User{}, false
}

func unionDates(actionDates [][]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, set := range actionDates {
		for _, d := range set {
			if !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	sort.Strings(out)
	return out
}

func fingerprint(p plan.Plan) string {
	hash, err := hashstructure.Hash(p, hashstructure.FormatV2, nil)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%016x", hash)
}
