package stripe

import (
	"context"
	"fmt"
	"maps"

	"github.com/w-h-a/supportdesk/payer"
	toolhandler "github.com/w-h-a/supportdesk/tool_handler"
)

type stripeToolHandler struct {
	options toolhandler.Options
	payer   payer.Payer
	apiKey  string
	name    string
	op      operation
}

func (th *stripeToolHandler) Spec() toolhandler.ToolSpec {
	properties := maps.Clone(th.op.properties)
	properties[ApiKeyParam] = toolhandler.StringProperty("The Stripe secret key bound to this request.")

	required := append([]string{ApiKeyParam}, th.op.required...)

	return toolhandler.ToolSpec{
		Name:        th.name,
		Description: th.op.description,
		InputSchema: toolhandler.ObjectSchema(required, properties),
	}
}

func (th *stripeToolHandler) Invoke(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	if err := toolhandler.CheckCredential(req.Arguments, ApiKeyParam, th.apiKey); err != nil {
		return toolhandler.ToolResponse{}, err
	}

	content, err := th.op.call(ctx, th.payer, req.Arguments)
	if err != nil {
		return toolhandler.ToolResponse{}, fmt.Errorf("%w: %s: %v", toolhandler.ErrToolInvocation, th.name, err)
	}

	return toolhandler.ToolResponse{
		Content: content,
		Metadata: map[string]string{
			"source": "stripe",
			"tool":   th.name,
		},
	}, nil
}

func NewToolHandler(opts ...toolhandler.Option) toolhandler.ToolHandler {
	options := toolhandler.NewOptions(opts...)

	th := &stripeToolHandler{
		options: options,
	}

	if p, ok := PayerFrom(options.Context); ok {
		th.payer = p
	}

	if key, ok := ApiKeyFrom(options.Context); ok {
		th.apiKey = key
	}

	if name, ok := OperationFrom(options.Context); ok {
		th.name = name
	}

	op, ok := operations[th.name]
	if !ok || th.payer == nil || len(th.apiKey) == 0 {
		panic(fmt.Sprintf("stripe tool handler requires a payer, an api key, and a known operation (got %q)", th.name))
	}
	th.op = op

	return th
}
