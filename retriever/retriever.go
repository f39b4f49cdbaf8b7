package retriever

import (
	"context"

	"github.com/w-h-a/supportdesk/storer"
)

// Retriever answers free-text questions against one owner's knowledge base.
type Retriever interface {
	Search(ctx context.Context, ownerId string, query string, opts ...SearchOption) ([]storer.Match, error)
}
