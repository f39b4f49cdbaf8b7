package openai

import (
	"context"
	"errors"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"github.com/w-h-a/supportdesk/embedder"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultModel     = "text-embedding-3-small"
	defaultDimension = 1536
)

type openAIEmbedder struct {
	options embedder.Options
	client  *openai.Client
}

func (e *openAIEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return embedder.Batches(ctx, texts, e.options.BatchSize, e.options.Dimension, e.embed)
}

func (e *openAIEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := embedder.Batches(ctx, []string{text}, 1, e.options.Dimension, e.embed)
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *openAIEmbedder) Dimension() int {
	return e.options.Dimension
}

func (e *openAIEmbedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	rsp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      texts,
		Model:      openai.EmbeddingModel(e.options.Model),
		Dimensions: e.options.Dimension,
	})
	if err != nil {
		return nil, err
	}

	if len(rsp.Data) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	// the api reports an index per item; do not rely on response order
	out := make([][]float32, len(texts))
	for _, item := range rsp.Data {
		if item.Index < 0 || item.Index >= len(out) {
			return nil, errors.New("embedding index out of range")
		}
		out[item.Index] = item.Embedding
	}

	return out, nil
}

func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	if len(options.Model) == 0 {
		options.Model = defaultModel
	}

	if options.Dimension <= 0 {
		options.Dimension = defaultDimension
	}

	cfg := openai.DefaultConfig(options.ApiKey)

	if url, ok := BaseURLFrom(options.Context); ok && len(url) > 0 {
		cfg.BaseURL = url
	}

	if options.HTTPClient != nil {
		cfg.HTTPClient = options.HTTPClient
	} else {
		cfg.HTTPClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	e := &openAIEmbedder{
		options: options,
		client:  openai.NewClientWithConfig(cfg),
	}

	return e
}
