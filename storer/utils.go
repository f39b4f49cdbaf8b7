package storer

import (
	"fmt"
	"math"
	"strings"
)

// Validate checks a whole batch before anything is written.
func Validate(records []Record, dimension int) error {
	seen := make(map[string]struct{}, len(records))

	for i, rec := range records {
		if len(strings.TrimSpace(rec.Id)) == 0 {
			return fmt.Errorf("%w: record %d: id is required", ErrStoreWrite, i)
		}
		if _, ok := seen[rec.Id]; ok {
			return fmt.Errorf("%w: record %d: duplicate id %s", ErrStoreWrite, i, rec.Id)
		}
		seen[rec.Id] = struct{}{}

		if len(strings.TrimSpace(rec.OwnerId)) == 0 {
			return fmt.Errorf("%w: record %d: owner id is required", ErrStoreWrite, i)
		}
		if len(strings.TrimSpace(rec.Text)) == 0 {
			return fmt.Errorf("%w: record %d: text is required", ErrStoreWrite, i)
		}
		if len(rec.Vector) != dimension {
			return fmt.Errorf("%w: record %d: %w (got %d want %d)", ErrStoreWrite, i, ErrDimensionMismatch, len(rec.Vector), dimension)
		}
	}

	return nil
}

// ClampLimit rejects non-positive limits and caps the rest at max.
func ClampLimit(limit int, max int) (int, error) {
	if limit <= 0 {
		return 0, fmt.Errorf("%w: %w: %d", ErrStoreQuery, ErrInvalidLimit, limit)
	}
	if max > 0 && limit > max {
		return max, nil
	}
	return limit, nil
}

func CosineDistance(a, b []float32) float64 {
	return 1 - CosineSimilarity(a, b)
}

func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

func CloneMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return nil
	}
	out := make(map[string]any, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}
	return out
}
