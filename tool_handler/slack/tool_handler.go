package slack

import (
	"context"
	"fmt"
	"maps"

	"github.com/w-h-a/supportdesk/messenger"
	toolhandler "github.com/w-h-a/supportdesk/tool_handler"
)

type slackToolHandler struct {
	options   toolhandler.Options
	messenger messenger.Messenger
	token     string
	name      string
	op        operation
}

func (th *slackToolHandler) Spec() toolhandler.ToolSpec {
	properties := maps.Clone(th.op.properties)
	properties[TokenParam] = toolhandler.StringProperty("The Slack bot token bound to this request.")

	required := append([]string{TokenParam}, th.op.required...)

	return toolhandler.ToolSpec{
		Name:        th.name,
		Description: th.op.description,
		InputSchema: toolhandler.ObjectSchema(required, properties),
	}
}

func (th *slackToolHandler) Invoke(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	if err := toolhandler.CheckCredential(req.Arguments, TokenParam, th.token); err != nil {
		return toolhandler.ToolResponse{}, err
	}

	content, err := th.op.call(ctx, th.messenger, req.Arguments)
	if err != nil {
		return toolhandler.ToolResponse{}, fmt.Errorf("%w: %s: %v", toolhandler.ErrToolInvocation, th.name, err)
	}

	return toolhandler.ToolResponse{
		Content: content,
		Metadata: map[string]string{
			"source": "slack",
			"tool":   th.name,
		},
	}, nil
}

func NewToolHandler(opts ...toolhandler.Option) toolhandler.ToolHandler {
	options := toolhandler.NewOptions(opts...)

	th := &slackToolHandler{
		options: options,
	}

	if m, ok := MessengerFrom(options.Context); ok {
		th.messenger = m
	}

	if token, ok := TokenFrom(options.Context); ok {
		th.token = token
	}

	if name, ok := OperationFrom(options.Context); ok {
		th.name = name
	}

	op, ok := operations[th.name]
	if !ok || th.messenger == nil || len(th.token) == 0 {
		panic(fmt.Sprintf("slack tool handler requires a messenger, a token, and a known operation (got %q)", th.name))
	}
	th.op = op

	return th
}
