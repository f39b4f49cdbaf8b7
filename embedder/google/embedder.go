package google

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	"github.com/w-h-a/supportdesk/embedder"
	genaiopt "google.golang.org/api/option"
)

const (
	defaultModel     = "text-embedding-004"
	defaultDimension = 768
)

type googleEmbedder struct {
	options embedder.Options
	client  *genai.Client
}

func (e *googleEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return embedder.Batches(ctx, texts, e.options.BatchSize, e.options.Dimension, func(ctx context.Context, batch []string) ([][]float32, error) {
		return e.embed(ctx, batch, genai.TaskTypeRetrievalDocument)
	})
}

func (e *googleEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := embedder.Batches(ctx, []string{text}, 1, e.options.Dimension, func(ctx context.Context, batch []string) ([][]float32, error) {
		return e.embed(ctx, batch, genai.TaskTypeRetrievalQuery)
	})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *googleEmbedder) Dimension() int {
	return e.options.Dimension
}

func (e *googleEmbedder) embed(ctx context.Context, texts []string, taskType genai.TaskType) ([][]float32, error) {
	model := e.client.EmbeddingModel(e.options.Model)
	model.TaskType = taskType

	batch := model.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	rsp, err := model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, err
	}

	if rsp == nil || len(rsp.Embeddings) == 0 {
		return nil, errors.New("no response from Google")
	}

	out := make([][]float32, len(rsp.Embeddings))
	for i, emb := range rsp.Embeddings {
		if emb == nil {
			return nil, errors.New("empty embedding from Google")
		}
		out[i] = emb.Values
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

	// google caps batch embedding requests at 100 items
	if options.BatchSize <= 0 || options.BatchSize > 100 {
		options.BatchSize = 100
	}

	e := &googleEmbedder{
		options: options,
	}

	client, err := genai.NewClient(
		context.Background(),
		genaiopt.WithAPIKey(options.ApiKey),
	)
	if err != nil {
		detail := "failed to initialize google embedder"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	e.client = client

	return e
}
