package toolhandler

import (
	"fmt"
	"strconv"
	"strings"
)

// StringArg returns a trimmed string argument or an error naming the
// missing parameter.
func StringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("missing required parameter %q", key)
	}

	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	default:
		s = fmt.Sprintf("%v", t)
	}

	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return "", fmt.Errorf("missing required parameter %q", key)
	}

	return s, nil
}

func OptionalStringArg(args map[string]any, key string) string {
	s, _ := StringArg(args, key)
	return s
}

// IntArg accepts JSON numbers and numeric strings.
func IntArg(args map[string]any, key string, fallback int) int {
	v, ok := args[key]
	if !ok || v == nil {
		return fallback
	}

	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case int64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}

	return fallback
}

func StringProperty(description string) map[string]any {
	return map[string]any{
		"type":        "string",
		"description": description,
	}
}

func IntegerProperty(description string) map[string]any {
	return map[string]any{
		"type":        "integer",
		"description": description,
	}
}

func ObjectSchema(required []string, properties map[string]any) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// CheckCredential rejects a call whose credential argument differs from
// the value the handler's client was built with.
func CheckCredential(args map[string]any, key string, bound string) error {
	got, err := StringArg(args, key)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrToolInvocation, err)
	}
	if got != bound {
		return fmt.Errorf("%w: %s does not match the value bound to this request", ErrToolInvocation, key)
	}
	return nil
}
