package slack

import (
	"context"

	"github.com/w-h-a/supportdesk/messenger"
	toolhandler "github.com/w-h-a/supportdesk/tool_handler"
)

type messengerKey struct{}

func WithMessenger(m messenger.Messenger) toolhandler.Option {
	return func(o *toolhandler.Options) {
		o.Context = context.WithValue(o.Context, messengerKey{}, m)
	}
}

func MessengerFrom(ctx context.Context) (messenger.Messenger, bool) {
	m, ok := ctx.Value(messengerKey{}).(messenger.Messenger)
	return m, ok
}

type tokenKey struct{}

func WithToken(token string) toolhandler.Option {
	return func(o *toolhandler.Options) {
		o.Context = context.WithValue(o.Context, tokenKey{}, token)
	}
}

func TokenFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok
}

type operationKey struct{}

func WithOperation(name string) toolhandler.Option {
	return func(o *toolhandler.Options) {
		o.Context = context.WithValue(o.Context, operationKey{}, name)
	}
}

func OperationFrom(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(operationKey{}).(string)
	return name, ok
}
