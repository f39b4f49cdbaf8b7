package negotiator

import (
	"maps"
	"slices"

	toolhandler "github.com/w-h-a/supportdesk/tool_handler"
)

type Capability string

const (
	CapabilityKnowledge  Capability = "knowledge_base"
	CapabilityPayments   Capability = "payments"
	CapabilityMessaging  Capability = "messaging"
	CapabilityScheduling Capability = "scheduling"
)

// capabilityOrder fixes the order capabilities are listed and described in.
var capabilityOrder = []Capability{
	CapabilityKnowledge,
	CapabilityPayments,
	CapabilityMessaging,
	CapabilityScheduling,
}

// AgentConfiguration is the per-request agent definition. It is never
// mutated after Build, and every accessor returns a copy.
type AgentConfiguration struct {
	capabilities map[Capability]struct{}
	tools        []toolhandler.ToolHandler
	bindings     map[string]map[string]string
	role         string
	goal         string
	backstory    string
	instructions string
}

func (c *AgentConfiguration) Has(capability Capability) bool {
	_, ok := c.capabilities[capability]
	return ok
}

func (c *AgentConfiguration) Capabilities() []Capability {
	out := make([]Capability, 0, len(c.capabilities))
	for _, capability := range capabilityOrder {
		if c.Has(capability) {
			out = append(out, capability)
		}
	}
	return out
}

func (c *AgentConfiguration) Tools() []toolhandler.ToolHandler {
	return slices.Clone(c.tools)
}

// Binding returns the parameter values that must accompany every call
// to the named tool.
func (c *AgentConfiguration) Binding(tool string) map[string]string {
	return maps.Clone(c.bindings[tool])
}

func (c *AgentConfiguration) Bindings() map[string]map[string]string {
	out := make(map[string]map[string]string, len(c.bindings))
	for tool, params := range c.bindings {
		out[tool] = maps.Clone(params)
	}
	return out
}

func (c *AgentConfiguration) Role() string         { return c.role }
func (c *AgentConfiguration) Goal() string         { return c.goal }
func (c *AgentConfiguration) Backstory() string    { return c.backstory }
func (c *AgentConfiguration) Instructions() string { return c.instructions }
