package embedder

import (
	"context"
	"fmt"
)

// Batches runs fn over service-sized slices of texts and returns every vector
// in input order, or nothing at all.
func Batches(ctx context.Context, texts []string, size int, dimension int, fn func(context.Context, []string) ([][]float32, error)) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no texts to embed", ErrEncoding)
	}

	if size <= 0 {
		size = len(texts)
	}

	out := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += size {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
		}

		end := min(start+size, len(texts))

		vecs, err := fn(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
		}

		if len(vecs) != end-start {
			return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrEncoding, len(vecs), end-start)
		}

		for i, vec := range vecs {
			if dimension > 0 && len(vec) != dimension {
				return nil, fmt.Errorf("%w: vector %d has dimension %d, want %d", ErrEncoding, start+i, len(vec), dimension)
			}
		}

		out = append(out, vecs...)
	}

	return out, nil
}

func ToFloat32(values []float64) []float32 {
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	return out
}
