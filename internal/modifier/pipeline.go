package modifier

import (
	"fmt"
	"math"

	"attendly/internal/generator"
)

// PipelineResult is the outcome of running an ordered modifier chain over a
// generator result. Dates is always a subset of the generator's dates.
type PipelineResult struct {
	Success        bool             `json:"success"`
	Dates          []string         `json:"dates"`
	Generator      generator.Result `json:"generator_result"`
	ModifierErrors []string         `json:"modifier_errors,omitempty"`
}

// RunPipeline applies modifiers strictly in the order supplied, each stage
// receiving the previous stage's output. A failing modifier is recorded and
// the set passes through unchanged for that stage: partial pipeline success
// is preferred over total failure.
func RunPipeline(gen generator.Result, mods []Modifier, ctx Context) PipelineResult {
	result := PipelineResult{Generator: gen}
	if !gen.Success {
		return result
	}
	current := gen.Dates
	for i, m := range mods {
		reduced, err := Apply(current, m, ctx)
		if err != nil {
			result.ModifierErrors = append(result.ModifierErrors, fmt.Sprintf("modifier %d (%s): %v", i, m.Type, err))
			continue
		}
		current = reduced
	}
	if current == nil {
		current = []string{}
	}
	result.Success = true
	result.Dates = current
	return result
}

func stringField(params map[string]any, key, fallback string) (string, error) {
	v, ok := params[key]
	if !ok {
		return fallback, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("param %q must be a string", key)
	}
	return s, nil
}

func intField(params map[string]any, key string) (int, error) {
	v, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("param %q is required", key)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("param %q must be an integer", key)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("param %q must be an integer", key)
	}
}

func stringList(params map[string]any, key string) ([]string, error) {
	v, ok := params[key]
	if !ok {
		return nil, nil
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("param %q must be a list of strings", key)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("param %q must be a list of strings", key)
	}
}

func intList(params map[string]any, key string) ([]int, error) {
	v, ok := params[key]
	if !ok {
		return nil, nil
	}
	switch list := v.(type) {
	case []int:
		return list, nil
	case []any:
		out := make([]int, 0, len(list))
		for _, item := range list {
			n, err := intField(map[string]any{key: item}, key)
			if err != nil {
				return nil, fmt.Errorf("param %q must be a list of integers", key)
			}
			out = append(out, n)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("param %q must be a list of integers", key)
	}
}
