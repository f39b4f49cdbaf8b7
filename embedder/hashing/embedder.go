package hashing

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/w-h-a/supportdesk/embedder"
)

const defaultDimension = 1024

// hashingEmbedder projects word features into a fixed number of buckets.
// It needs no network and is fully deterministic, which makes it useful
// for local runs and tests.
type hashingEmbedder struct {
	options embedder.Options
}

func (e *hashingEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return embedder.Batches(ctx, texts, e.options.BatchSize, e.options.Dimension, e.embed)
}

func (e *hashingEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := embedder.Batches(ctx, []string{text}, 1, e.options.Dimension, e.embed)
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *hashingEmbedder) Dimension() int {
	return e.options.Dimension
}

func (e *hashingEmbedder) embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = e.vector(text)
	}
	return out, nil
}

func (e *hashingEmbedder) vector(text string) []float32 {
	vec := make([]float64, e.options.Dimension)

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	for _, word := range words {
		h := fnv.New64a()
		h.Write([]byte(word))
		sum := h.Sum64()

		bucket := int(sum % uint64(e.options.Dimension))
		if sum&(1<<63) != 0 {
			vec[bucket] -= 1
		} else {
			vec[bucket] += 1
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}

	out := make([]float32, len(vec))
	if norm == 0 {
		return out
	}

	norm = math.Sqrt(norm)
	for i, v := range vec {
		out[i] = float32(v / norm)
	}

	return out
}

func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	if options.Dimension <= 0 {
		options.Dimension = defaultDimension
	}

	return &hashingEmbedder{
		options: options,
	}
}
