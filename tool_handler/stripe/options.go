package stripe

import (
	"context"

	"github.com/w-h-a/supportdesk/payer"
	toolhandler "github.com/w-h-a/supportdesk/tool_handler"
)

type payerKey struct{}

func WithPayer(p payer.Payer) toolhandler.Option {
	return func(o *toolhandler.Options) {
		o.Context = context.WithValue(o.Context, payerKey{}, p)
	}
}

func PayerFrom(ctx context.Context) (payer.Payer, bool) {
	p, ok := ctx.Value(payerKey{}).(payer.Payer)
	return p, ok
}

type apiKeyKey struct{}

func WithApiKey(key string) toolhandler.Option {
	return func(o *toolhandler.Options) {
		o.Context = context.WithValue(o.Context, apiKeyKey{}, key)
	}
}

func ApiKeyFrom(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(apiKeyKey{}).(string)
	return key, ok
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
