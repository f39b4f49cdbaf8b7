package orchestrator

import (
	"fmt"
	"strings"

	toolhandler "github.com/w-h-a/supportdesk/tool_handler"
)

// catalog holds the tools one request may call, in registration order.
type catalog struct {
	tools map[string]toolhandler.ToolHandler
	specs map[string]toolhandler.ToolSpec
	order []string
}

func (c *catalog) register(th toolhandler.ToolHandler) error {
	if th == nil {
		return fmt.Errorf("tool is nil")
	}

	spec := th.Spec()
	key := strings.ToLower(strings.TrimSpace(spec.Name))
	if len(key) == 0 {
		return fmt.Errorf("tool name is required")
	}

	if _, ok := c.tools[key]; ok {
		return fmt.Errorf("tool %s already registered", key)
	}

	c.tools[key] = th
	c.specs[key] = spec
	c.order = append(c.order, key)

	return nil
}

func (c *catalog) listSpecs() []toolhandler.ToolSpec {
	specs := make([]toolhandler.ToolSpec, 0, len(c.specs))
	for _, key := range c.order {
		specs = append(specs, c.specs[key])
	}
	return specs
}

func (c *catalog) get(name string) (toolhandler.ToolHandler, toolhandler.ToolSpec, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	th, ok := c.tools[key]
	return th, c.specs[key], ok
}

func (c *catalog) names() []string {
	names := make([]string, 0, len(c.order))
	for _, key := range c.order {
		names = append(names, c.specs[key].Name)
	}
	return names
}

func newCatalog(handlers []toolhandler.ToolHandler) (*catalog, error) {
	c := &catalog{
		tools: map[string]toolhandler.ToolHandler{},
		specs: map[string]toolhandler.ToolSpec{},
		order: []string{},
	}

	for _, th := range handlers {
		if err := c.register(th); err != nil {
			return nil, err
		}
	}

	return c, nil
}
