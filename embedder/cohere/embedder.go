package cohere

import (
	"context"
	"errors"
	"net/http"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	cohereopt "github.com/cohere-ai/cohere-go/v2/option"
	"github.com/w-h-a/supportdesk/embedder"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultModel     = "embed-english-v3.0"
	defaultDimension = 1024
)

type cohereEmbedder struct {
	options embedder.Options
	client  *cohereclient.Client
}

func (e *cohereEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return embedder.Batches(ctx, texts, e.options.BatchSize, e.options.Dimension, func(ctx context.Context, batch []string) ([][]float32, error) {
		return e.embed(ctx, batch, cohere.EmbedInputTypeSearchDocument)
	})
}

func (e *cohereEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := embedder.Batches(ctx, []string{text}, 1, e.options.Dimension, func(ctx context.Context, batch []string) ([][]float32, error) {
		return e.embed(ctx, batch, cohere.EmbedInputTypeSearchQuery)
	})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *cohereEmbedder) Dimension() int {
	return e.options.Dimension
}

func (e *cohereEmbedder) embed(ctx context.Context, texts []string, inputType cohere.EmbedInputType) ([][]float32, error) {
	rsp, err := e.client.Embed(ctx, &cohere.EmbedRequest{
		Texts:     texts,
		Model:     cohere.String(e.options.Model),
		InputType: inputType.Ptr(),
	})
	if err != nil {
		return nil, err
	}

	if rsp == nil || rsp.EmbeddingsFloats == nil || len(rsp.EmbeddingsFloats.Embeddings) == 0 {
		return nil, errors.New("no response from Cohere")
	}

	out := make([][]float32, len(rsp.EmbeddingsFloats.Embeddings))
	for i, values := range rsp.EmbeddingsFloats.Embeddings {
		out[i] = embedder.ToFloat32(values)
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

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	clientOpts := []cohereopt.RequestOption{
		cohereopt.WithToken(options.ApiKey),
		cohereopt.WithHTTPClient(httpClient),
	}

	if url, ok := BaseURLFrom(options.Context); ok && len(url) > 0 {
		clientOpts = append(clientOpts, cohereopt.WithBaseURL(url))
	}

	e := &cohereEmbedder{
		options: options,
		client:  cohereclient.NewClient(clientOpts...),
	}

	return e
}

