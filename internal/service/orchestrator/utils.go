package orchestrator

import (
	"encoding/json"
	"strings"

	toolhandler "github.com/w-h-a/supportdesk/tool_handler"
)

const toolPrefix = "tool:"

// parseToolCall reports whether reply asks for a tool and splits it into
// the tool name and its raw arguments.
func parseToolCall(reply string) (bool, string, string) {
	trimmed := strings.TrimSpace(reply)
	trimmed = strings.TrimPrefix(trimmed, "`")
	trimmed = strings.TrimSuffix(trimmed, "`")
	trimmed = strings.TrimSpace(trimmed)

	if !strings.HasPrefix(strings.ToLower(trimmed), toolPrefix) {
		return false, "", ""
	}

	name, args := splitCommand(strings.TrimSpace(trimmed[len(toolPrefix):]))

	return true, name, args
}

func splitCommand(payload string) (name string, args string) {
	parts := strings.Fields(payload)
	if len(parts) == 0 {
		return "", ""
	}

	name = parts[0]
	if len(payload) > len(name) {
		args = strings.TrimSpace(payload[len(name):])
	}

	return name, args
}

func parseToolArguments(raw string) map[string]any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}
	}
	var payload map[string]any
	if strings.HasPrefix(raw, "{") {
		if err := json.Unmarshal([]byte(raw), &payload); err == nil && payload != nil {
			return payload
		}
	}
	if strings.HasPrefix(raw, "[") {
		var arr []any
		if err := json.Unmarshal([]byte(raw), &arr); err == nil {
			return map[string]any{"items": arr}
		}
	}
	return map[string]any{"input": raw}
}

func missingArguments(spec toolhandler.ToolSpec, args map[string]any) []string {
	missing := []string{}
	for _, name := range spec.Required() {
		v, ok := args[name]
		if !ok || v == nil {
			missing = append(missing, name)
			continue
		}
		if s, ok := v.(string); ok && len(strings.TrimSpace(s)) == 0 {
			missing = append(missing, name)
		}
	}
	return missing
}
