package toolhandler

import (
	"context"
	"errors"
)

// ErrToolInvocation marks a failed external call made by a tool. The
// orchestrator turns it into observation text for the model.
var ErrToolInvocation = errors.New("tool invocation failed")

type ToolHandler interface {
	Spec() ToolSpec
	Invoke(ctx context.Context, req ToolRequest) (ToolResponse, error)
}
