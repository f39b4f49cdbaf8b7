package slack

import (
	"context"

	toolprovider "github.com/w-h-a/supportdesk/tool_provider"
)

type teamIdKey struct{}

func WithTeamId(teamId string) toolprovider.Option {
	return func(o *toolprovider.Options) {
		o.Context = context.WithValue(o.Context, teamIdKey{}, teamId)
	}
}

func TeamIdFrom(ctx context.Context) (string, bool) {
	teamId, ok := ctx.Value(teamIdKey{}).(string)
	return teamId, ok
}

type channelIdsKey struct{}

func WithChannelIds(ids ...string) toolprovider.Option {
	return func(o *toolprovider.Options) {
		o.Context = context.WithValue(o.Context, channelIdsKey{}, ids)
	}
}

func ChannelIdsFrom(ctx context.Context) ([]string, bool) {
	ids, ok := ctx.Value(channelIdsKey{}).([]string)
	return ids, ok
}
