package plan

import (
	"encoding/json"
	"fmt"

	"attendly/internal/models"
	"attendly/internal/modifier"
)

// Sanitize parses a raw proposer response into a Plan. The input is
// untrusted: explicit nulls are stripped recursively, shapes are checked
// field by field, and a malformed toolCall fails the whole parse so the
// caller can degrade to its fallback paths instead of acting on garbage.
func Sanitize(raw []byte) (Plan, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Plan{}, fmt.Errorf("parse plan: %w", err)
	}
	doc = StripNulls(doc)

	root, ok := doc.(map[string]any)
	if !ok {
		return Plan{}, fmt.Errorf("plan must be a JSON object")
	}

	rawActions, ok := root["actions"].([]any)
	if !ok || len(rawActions) == 0 {
		return Plan{}, fmt.Errorf("plan must include at least one action")
	}

	p := Plan{
		Summary:    optString(root, "summary"),
		TargetUser: optString(root, "targetUser"),
	}
	for i, item := range rawActions {
		obj, ok := item.(map[string]any)
		if !ok {
			return Plan{}, fmt.Errorf("action %d: must be an object", i)
		}
		action, err := sanitizeAction(obj)
		if err != nil {
			return Plan{}, fmt.Errorf("action %d: %w", i, err)
		}
		p.Actions = append(p.Actions, action)
	}
	return p, nil
}

func sanitizeAction(obj map[string]any) (Action, error) {
	action := Action{
		Type:                  models.ActionType(optString(obj, "type")),
		Status:                models.Status(optString(obj, "status")),
		Note:                  optString(obj, "note"),
		LeaveDuration:         optString(obj, "leaveDuration"),
		HalfDayPortion:        optString(obj, "halfDayPortion"),
		WorkingPortion:        optString(obj, "workingPortion"),
		FilterByCurrentStatus: optString(obj, "filterByCurrentStatus"),
		ReferenceUser:         optString(obj, "referenceUser"),
		ReferenceCondition:    optString(obj, "referenceCondition"),
	}

	switch action.Type {
	case models.ActionSet, models.ActionClear:
	case "":
		return Action{}, fmt.Errorf("type is required")
	default:
		return Action{}, fmt.Errorf("unknown action type: %q", action.Type)
	}
	if action.Type == models.ActionSet && action.Status != models.StatusOffice && action.Status != models.StatusLeave {
		return Action{}, fmt.Errorf("unknown status: %q", action.Status)
	}

	tc, err := sanitizeToolCall(obj["toolCall"])
	if err != nil {
		return Action{}, err
	}
	action.ToolCall = tc

	if rawMods, present := obj["modifiers"]; present {
		list, ok := rawMods.([]any)
		if !ok {
			return Action{}, fmt.Errorf("modifiers must be a list")
		}
		for i, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				return Action{}, fmt.Errorf("modifier %d: must be an object", i)
			}
			kind := optString(m, "type")
			if kind == "" {
				return Action{}, fmt.Errorf("modifier %d: type is required", i)
			}
			params, _ := m["params"].(map[string]any)
			action.Modifiers = append(action.Modifiers, modifier.Modifier{Type: kind, Params: params})
		}
	}

	if rawExprs, present := obj["dateExpressions"]; present {
		list, ok := rawExprs.([]any)
		if !ok {
			return Action{}, fmt.Errorf("dateExpressions must be a list")
		}
		for _, item := range list {
			if s, ok := item.(string); ok && s != "" {
				action.DateExpressions = append(action.DateExpressions, s)
			}
		}
	}

	return action, nil
}

func sanitizeToolCall(raw any) (ToolCall, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return ToolCall{}, fmt.Errorf("toolCall must be an object")
	}
	tool, ok := obj["tool"].(string)
	if !ok || tool == "" {
		return ToolCall{}, fmt.Errorf("toolCall.tool must be a non-empty string")
	}
	params, _ := obj["params"].(map[string]any)
	if params == nil {
		params = map[string]any{}
	}
	return ToolCall{Tool: tool, Params: params}, nil
}

// StripNulls removes explicit JSON nulls recursively. Proposer output
// routinely carries nulls for optional fields; stripping them up front keeps
// the loose shape from leaking into the typed layer.
func StripNulls(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if item == nil {
				continue
			}
			out[k] = StripNulls(item)
		}
		return out
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			out = append(out, StripNulls(item))
		}
		return out
	default:
		return v
	}
}

func optString(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}
