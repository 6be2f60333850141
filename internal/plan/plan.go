// Package plan defines the proposed change-set for one natural-language
// command and the sanitization boundary between the untrusted proposer
// output and the engine's strict types.
package plan

import (
	"attendly/internal/models"
	"attendly/internal/modifier"
)

// ToolCall names a generator and carries its loosely-typed params. The
// generator registry is responsible for typing and rejecting the params.
type ToolCall struct {
	Tool   string         `json:"tool"`
	Params map[string]any `json:"params"`
}

// Action is one proposed operation: a generator call, optional modifiers,
// and the status/filter fields that shape the resulting changes. Actions are
// owned by their Plan and never mutated once resolution begins.
type Action struct {
	Type                  models.ActionType   `json:"type"`
	Status                models.Status       `json:"status,omitempty"`
	ToolCall              ToolCall            `json:"toolCall"`
	Modifiers             []modifier.Modifier `json:"modifiers,omitempty"`
	Note                  string              `json:"note,omitempty"`
	LeaveDuration         string              `json:"leaveDuration,omitempty"`
	HalfDayPortion        string              `json:"halfDayPortion,omitempty"`
	WorkingPortion        string              `json:"workingPortion,omitempty"`
	FilterByCurrentStatus string              `json:"filterByCurrentStatus,omitempty"`
	ReferenceUser         string              `json:"referenceUser,omitempty"`
	ReferenceCondition    string              `json:"referenceCondition,omitempty"`
	DateExpressions       []string            `json:"dateExpressions,omitempty"`
}

// Plan is the full proposal for one command. It is consumed once by the
// resolver and discarded; nothing here is persisted.
type Plan struct {
	Actions    []Action `json:"actions"`
	Summary    string   `json:"summary,omitempty"`
	TargetUser string   `json:"targetUser,omitempty"`
}
