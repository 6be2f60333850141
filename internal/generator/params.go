package generator

import (
	"fmt"
	"math"

	"attendly/internal/constants"
)

// Param decoding for the loosely-typed maps that arrive from plan proposals.
// JSON numbers decode as float64, so integer fields tolerate both forms but
// reject anything non-numeric with a structured error.

func stringParam(params map[string]any, key, fallback string) (string, error) {
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

func requiredStringParam(params map[string]any, key string) (string, error) {
	s, err := stringParam(params, key, "")
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", fmt.Errorf("param %q is required", key)
	}
	return s, nil
}

func intParam(params map[string]any, key string, fallback int) (int, error) {
	v, ok := params[key]
	if !ok {
		return fallback, nil
	}
	return coerceInt(v, key)
}

func requiredIntParam(params map[string]any, key string) (int, error) {
	v, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("param %q is required", key)
	}
	return coerceInt(v, key)
}

func coerceInt(v any, key string) (int, error) {
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

func stringListParam(params map[string]any, key string) ([]string, error) {
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

func intListParam(params map[string]any, key string) ([]int, error) {
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
			n, err := coerceInt(item, key)
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

func positionParam(params map[string]any) (string, error) {
	pos, err := stringParam(params, "position", constants.PositionFirst)
	if err != nil {
		return "", err
	}
	if pos != constants.PositionFirst && pos != constants.PositionLast {
		return "", fmt.Errorf("param \"position\" must be %q or %q", constants.PositionFirst, constants.PositionLast)
	}
	return pos, nil
}
