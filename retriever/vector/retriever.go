package vector

import (
	"context"
	"fmt"
	"strings"

	"github.com/w-h-a/supportdesk/retriever"
	"github.com/w-h-a/supportdesk/storer"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("github.com/w-h-a/supportdesk/retriever/vector")

type vectorRetriever struct {
	options retriever.Options
}

func (r *vectorRetriever) Search(ctx context.Context, ownerId string, query string, opts ...retriever.SearchOption) ([]storer.Match, error) {
	options := retriever.NewSearchOptions(opts...)

	ctx, span := tracer.Start(ctx, "retriever.Search")
	defer span.End()

	span.SetAttributes(
		attribute.String("owner.id", ownerId),
		attribute.Int("search.limit", options.Limit),
	)

	if len(strings.TrimSpace(query)) == 0 {
		return nil, nil
	}

	vec, err := r.options.Embedder.EmbedQuery(ctx, query)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	matches, err := r.options.Storer.Search(ctx, ownerId, vec, options.Limit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("search.hits", len(matches)))

	return matches, nil
}

func NewRetriever(opts ...retriever.Option) retriever.Retriever {
	options := retriever.NewOptions(opts...)

	if options.Embedder == nil || options.Storer == nil {
		panic("vector retriever requires an embedder and a storer")
	}

	if options.Embedder.Dimension() != options.Storer.Dimension() {
		panic(fmt.Sprintf("%v: embedder %d storer %d", storer.ErrDimensionMismatch, options.Embedder.Dimension(), options.Storer.Dimension()))
	}

	return &vectorRetriever{
		options: options,
	}
}
