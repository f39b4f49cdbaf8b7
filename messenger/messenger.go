package messenger

import (
	"context"
	"errors"
)

var ErrRequest = errors.New("messaging request failed")

// Messenger is a team chat workspace reached with one bot credential.
// Every call returns the provider's raw JSON reply.
type Messenger interface {
	ListChannels(ctx context.Context, limit int, cursor string) (string, error)
	PostMessage(ctx context.Context, channelId string, text string) (string, error)
	ReplyToThread(ctx context.Context, channelId string, threadTs string, text string) (string, error)
	AddReaction(ctx context.Context, channelId string, timestamp string, reaction string) (string, error)
	ChannelHistory(ctx context.Context, channelId string, limit int) (string, error)
	ThreadReplies(ctx context.Context, channelId string, threadTs string) (string, error)
	ListUsers(ctx context.Context, limit int, cursor string) (string, error)
	UserProfile(ctx context.Context, userId string) (string, error)
}
