package slack

import (
	"context"

	"github.com/w-h-a/supportdesk/messenger"
	toolhandler "github.com/w-h-a/supportdesk/tool_handler"
)

const TokenParam = "slack_bot_token"

const (
	ListChannels   = "slack_list_channels"
	PostMessage    = "slack_post_message"
	ReplyToThread  = "slack_reply_to_thread"
	AddReaction    = "slack_add_reaction"
	ChannelHistory = "slack_get_channel_history"
	ThreadReplies  = "slack_get_thread_replies"
	ListUsers      = "slack_get_users"
	UserProfile    = "slack_get_user_profile"
)

type call func(ctx context.Context, m messenger.Messenger, args map[string]any) (string, error)

type operation struct {
	description string
	required    []string
	properties  map[string]any
	call        call
}

// Operations lists every Slack tool in the order it is advertised.
var Operations = []string{
	ListChannels,
	PostMessage,
	ReplyToThread,
	AddReaction,
	ChannelHistory,
	ThreadReplies,
	ListUsers,
	UserProfile,
}

var operations = map[string]operation{
	ListChannels: {
		description: "List public or pre-defined channels in the workspace with pagination.",
		properties: map[string]any{
			"limit":  toolhandler.IntegerProperty("Maximum number of channels to return (default 100, max 200)."),
			"cursor": toolhandler.StringProperty("Pagination cursor for the next page."),
		},
		call: func(ctx context.Context, m messenger.Messenger, args map[string]any) (string, error) {
			return m.ListChannels(ctx, toolhandler.IntArg(args, "limit", 100), toolhandler.OptionalStringArg(args, "cursor"))
		},
	},
	PostMessage: {
		description: "Post a new message to a Slack channel.",
		required:    []string{"channel_id", "text"},
		properties: map[string]any{
			"channel_id": toolhandler.StringProperty("The channel to post to."),
			"text":       toolhandler.StringProperty("The message text."),
		},
		call: func(ctx context.Context, m messenger.Messenger, args map[string]any) (string, error) {
			channel, err := toolhandler.StringArg(args, "channel_id")
			if err != nil {
				return "", err
			}
			text, err := toolhandler.StringArg(args, "text")
			if err != nil {
				return "", err
			}
			return m.PostMessage(ctx, channel, text)
		},
	},
	ReplyToThread: {
		description: "Reply to a specific message thread in Slack.",
		required:    []string{"channel_id", "thread_ts", "text"},
		properties: map[string]any{
			"channel_id": toolhandler.StringProperty("The channel containing the thread."),
			"thread_ts":  toolhandler.StringProperty("Timestamp of the parent message, like '1234567890.123456'."),
			"text":       toolhandler.StringProperty("The reply text."),
		},
		call: func(ctx context.Context, m messenger.Messenger, args map[string]any) (string, error) {
			channel, err := toolhandler.StringArg(args, "channel_id")
			if err != nil {
				return "", err
			}
			ts, err := toolhandler.StringArg(args, "thread_ts")
			if err != nil {
				return "", err
			}
			text, err := toolhandler.StringArg(args, "text")
			if err != nil {
				return "", err
			}
			return m.ReplyToThread(ctx, channel, ts, text)
		},
	},
	AddReaction: {
		description: "Add a reaction emoji to a message.",
		required:    []string{"channel_id", "timestamp", "reaction"},
		properties: map[string]any{
			"channel_id": toolhandler.StringProperty("The channel containing the message."),
			"timestamp":  toolhandler.StringProperty("Timestamp of the message to react to."),
			"reaction":   toolhandler.StringProperty("Emoji name without colons."),
		},
		call: func(ctx context.Context, m messenger.Messenger, args map[string]any) (string, error) {
			channel, err := toolhandler.StringArg(args, "channel_id")
			if err != nil {
				return "", err
			}
			ts, err := toolhandler.StringArg(args, "timestamp")
			if err != nil {
				return "", err
			}
			reaction, err := toolhandler.StringArg(args, "reaction")
			if err != nil {
				return "", err
			}
			return m.AddReaction(ctx, channel, ts, reaction)
		},
	},
	ChannelHistory: {
		description: "Get recent messages from a channel.",
		required:    []string{"channel_id"},
		properties: map[string]any{
			"channel_id": toolhandler.StringProperty("The channel to read."),
			"limit":      toolhandler.IntegerProperty("Number of messages to retrieve (default 10)."),
		},
		call: func(ctx context.Context, m messenger.Messenger, args map[string]any) (string, error) {
			channel, err := toolhandler.StringArg(args, "channel_id")
			if err != nil {
				return "", err
			}
			return m.ChannelHistory(ctx, channel, toolhandler.IntArg(args, "limit", 10))
		},
	},
	ThreadReplies: {
		description: "Get all replies in a message thread.",
		required:    []string{"channel_id", "thread_ts"},
		properties: map[string]any{
			"channel_id": toolhandler.StringProperty("The channel containing the thread."),
			"thread_ts":  toolhandler.StringProperty("Timestamp of the parent message."),
		},
		call: func(ctx context.Context, m messenger.Messenger, args map[string]any) (string, error) {
			channel, err := toolhandler.StringArg(args, "channel_id")
			if err != nil {
				return "", err
			}
			ts, err := toolhandler.StringArg(args, "thread_ts")
			if err != nil {
				return "", err
			}
			return m.ThreadReplies(ctx, channel, ts)
		},
	},
	ListUsers: {
		description: "Get users in the workspace with their basic profile information.",
		properties: map[string]any{
			"limit":  toolhandler.IntegerProperty("Maximum number of users to return (default 100, max 200)."),
			"cursor": toolhandler.StringProperty("Pagination cursor for the next page."),
		},
		call: func(ctx context.Context, m messenger.Messenger, args map[string]any) (string, error) {
			return m.ListUsers(ctx, toolhandler.IntArg(args, "limit", 100), toolhandler.OptionalStringArg(args, "cursor"))
		},
	},
	UserProfile: {
		description: "Get detailed profile information for a specific user.",
		required:    []string{"user_id"},
		properties: map[string]any{
			"user_id": toolhandler.StringProperty("The user to look up."),
		},
		call: func(ctx context.Context, m messenger.Messenger, args map[string]any) (string, error) {
			user, err := toolhandler.StringArg(args, "user_id")
			if err != nil {
				return "", err
			}
			return m.UserProfile(ctx, user)
		},
	},
}
