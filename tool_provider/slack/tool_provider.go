package slack

import (
	"context"
	"fmt"

	"github.com/w-h-a/supportdesk/messenger"
	slackmessenger "github.com/w-h-a/supportdesk/messenger/slack"
	toolhandler "github.com/w-h-a/supportdesk/tool_handler"
	"github.com/w-h-a/supportdesk/tool_handler/slack"
	toolprovider "github.com/w-h-a/supportdesk/tool_provider"
)

const Name = "slack"

type slackToolProvider struct {
	options   toolprovider.Options
	messenger messenger.Messenger
}

func (tp *slackToolProvider) Name() string { return Name }

func (tp *slackToolProvider) Load(_ context.Context) ([]toolhandler.ToolHandler, error) {
	handlers := make([]toolhandler.ToolHandler, 0, len(slack.Operations))

	for _, op := range slack.Operations {
		handlers = append(handlers, slack.NewToolHandler(
			slack.WithMessenger(tp.messenger),
			slack.WithToken(tp.options.Credential),
			slack.WithOperation(op),
		))
	}

	return handlers, nil
}

func NewToolProvider(opts ...toolprovider.Option) (toolprovider.ToolProvider, error) {
	options := toolprovider.NewOptions(opts...)

	if len(options.Credential) == 0 {
		return nil, fmt.Errorf("slack tool provider requires a bot token")
	}

	messengerOpts := []messenger.Option{
		messenger.WithToken(options.Credential),
		messenger.WithTimeout(options.Timeout),
	}

	if teamId, ok := TeamIdFrom(options.Context); ok {
		messengerOpts = append(messengerOpts, messenger.WithTeamId(teamId))
	}

	if ids, ok := ChannelIdsFrom(options.Context); ok && len(ids) > 0 {
		messengerOpts = append(messengerOpts, messenger.WithChannelIds(ids...))
	}

	if len(options.BaseURL) > 0 {
		messengerOpts = append(messengerOpts, messenger.WithBaseURL(options.BaseURL))
	}

	return &slackToolProvider{
		options:   options,
		messenger: slackmessenger.NewMessenger(messengerOpts...),
	}, nil
}
