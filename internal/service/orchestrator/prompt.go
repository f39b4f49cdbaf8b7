package orchestrator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/w-h-a/supportdesk/internal/service/negotiator"
	toolhandler "github.com/w-h-a/supportdesk/tool_handler"
)

const expectedOutput = "A well-structured, polite, and clear customer response."

func buildSystemPrompt(cfg *negotiator.AgentConfiguration, specs []toolhandler.ToolSpec) string {
	var sb bytes.Buffer

	fmt.Fprintf(&sb, "You are a %s.\n", cfg.Role())
	fmt.Fprintf(&sb, "Goal: %s.\n", cfg.Goal())
	fmt.Fprintf(&sb, "Backstory: %s\n\n", cfg.Backstory())
	sb.WriteString(cfg.Instructions())

	if len(specs) > 0 {
		sb.WriteString("\n\nAvailable tools:\n")
		for _, spec := range specs {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", spec.Name, spec.Description))
			if len(spec.InputSchema) > 0 {
				schemaJSON, _ := json.MarshalIndent(spec.InputSchema, "  ", "  ")
				sb.WriteString("  Input schema: ")
				sb.Write(schemaJSON)
				sb.WriteString("\n")
			}
			if len(spec.Examples) > 0 {
				sb.WriteString("  Examples:\n")
				for _, ex := range spec.Examples {
					exJSON, _ := json.MarshalIndent(ex, "    ", "  ")
					sb.Write(exJSON)
					sb.WriteString("\n")
				}
			}
		}
		sb.WriteString("Invoke exactly one tool by replying with only `tool:<name> <json arguments>`. ")
		sb.WriteString("The tool result comes back as an observation. Any other reply is your final answer to the customer.\n")
	}

	return sb.String()
}

func buildTask(message string) string {
	var sb strings.Builder

	sb.WriteString("Respond to the customer message: ")
	sb.WriteString(strings.TrimSpace(message))
	sb.WriteString("\n\nExpected output: ")
	sb.WriteString(expectedOutput)

	return sb.String()
}

func observation(name string, content string) string {
	return fmt.Sprintf("Observation from %s:\n%s", name, strings.TrimSpace(content))
}
