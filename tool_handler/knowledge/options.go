package knowledge

import (
	"context"

	"github.com/w-h-a/supportdesk/retriever"
	toolhandler "github.com/w-h-a/supportdesk/tool_handler"
)

type retrieverKey struct{}

func WithRetriever(r retriever.Retriever) toolhandler.Option {
	return func(o *toolhandler.Options) {
		o.Context = context.WithValue(o.Context, retrieverKey{}, r)
	}
}

func RetrieverFrom(ctx context.Context) (retriever.Retriever, bool) {
	r, ok := ctx.Value(retrieverKey{}).(retriever.Retriever)
	return r, ok
}

type ownerKey struct{}

// WithOwner pins the handler to one knowledge base owner. Calls naming a
// different agent_id are refused.
func WithOwner(ownerId string) toolhandler.Option {
	return func(o *toolhandler.Options) {
		o.Context = context.WithValue(o.Context, ownerKey{}, ownerId)
	}
}

func OwnerFrom(ctx context.Context) (string, bool) {
	ownerId, ok := ctx.Value(ownerKey{}).(string)
	return ownerId, ok
}
