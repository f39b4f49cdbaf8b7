package negotiator

import (
	"fmt"
	"maps"
	"strings"

	toolhandler "github.com/w-h-a/supportdesk/tool_handler"
)

type Builder struct {
	capabilities map[Capability]struct{}
	tools        []toolhandler.ToolHandler
	bindings     map[string]map[string]string
	role         string
	goal         string
	backstory    string
	instructions string
}

func (b *Builder) WithCapability(capability Capability, tools ...toolhandler.ToolHandler) *Builder {
	b.capabilities[capability] = struct{}{}
	b.tools = append(b.tools, tools...)
	return b
}

func (b *Builder) Bind(tool string, param string, value string) *Builder {
	if _, ok := b.bindings[tool]; !ok {
		b.bindings[tool] = map[string]string{}
	}
	b.bindings[tool][param] = value
	return b
}

func (b *Builder) WithNarrative(role string, goal string, backstory string) *Builder {
	b.role = role
	b.goal = goal
	b.backstory = backstory
	return b
}

func (b *Builder) WithInstructions(instructions string) *Builder {
	b.instructions = instructions
	return b
}

// Build checks that every binding names a tool the configuration exposes.
func (b *Builder) Build() (*AgentConfiguration, error) {
	names := make(map[string]struct{}, len(b.tools))
	for _, th := range b.tools {
		names[strings.ToLower(strings.TrimSpace(th.Spec().Name))] = struct{}{}
	}

	for tool := range b.bindings {
		if _, ok := names[strings.ToLower(tool)]; !ok {
			return nil, fmt.Errorf("binding for unknown tool %s", tool)
		}
	}

	cfg := &AgentConfiguration{
		capabilities: maps.Clone(b.capabilities),
		tools:        append([]toolhandler.ToolHandler(nil), b.tools...),
		bindings:     make(map[string]map[string]string, len(b.bindings)),
		role:         b.role,
		goal:         b.goal,
		backstory:    b.backstory,
		instructions: b.instructions,
	}

	for tool, params := range b.bindings {
		cfg.bindings[tool] = maps.Clone(params)
	}

	return cfg, nil
}

func NewBuilder() *Builder {
	return &Builder{
		capabilities: map[Capability]struct{}{},
		bindings:     map[string]map[string]string{},
	}
}
