package knowledge

import (
	"context"

	"github.com/w-h-a/supportdesk/retriever"
	toolprovider "github.com/w-h-a/supportdesk/tool_provider"
)

type retrieverKey struct{}

func WithRetriever(r retriever.Retriever) toolprovider.Option {
	return func(o *toolprovider.Options) {
		o.Context = context.WithValue(o.Context, retrieverKey{}, r)
	}
}

func RetrieverFrom(ctx context.Context) (retriever.Retriever, bool) {
	r, ok := ctx.Value(retrieverKey{}).(retriever.Retriever)
	return r, ok
}
