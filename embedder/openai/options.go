package openai

import (
	"context"

	"github.com/w-h-a/supportdesk/embedder"
)

type baseURLKey struct{}

func WithBaseURL(url string) embedder.Option {
	return func(o *embedder.Options) {
		o.Context = context.WithValue(o.Context, baseURLKey{}, url)
	}
}

func BaseURLFrom(ctx context.Context) (string, bool) {
	url, ok := ctx.Value(baseURLKey{}).(string)
	return url, ok
}
