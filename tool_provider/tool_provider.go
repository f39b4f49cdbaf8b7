package toolprovider

import (
	"context"

	toolhandler "github.com/w-h-a/supportdesk/tool_handler"
)

// ToolProvider produces the handlers for one capability. Providers for
// gated capabilities are built per request around that request's
// credential.
type ToolProvider interface {
	Name() string
	Load(ctx context.Context) ([]toolhandler.ToolHandler, error)
}
