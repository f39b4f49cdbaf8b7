package supportdesk

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/w-h-a/supportdesk/chunker"
	"github.com/w-h-a/supportdesk/embedder"
	"github.com/w-h-a/supportdesk/generator"
	handlerhttp "github.com/w-h-a/supportdesk/internal/handler/http"
	"github.com/w-h-a/supportdesk/internal/service/chat"
	"github.com/w-h-a/supportdesk/internal/service/ingestion"
	"github.com/w-h-a/supportdesk/internal/service/negotiator"
	"github.com/w-h-a/supportdesk/internal/service/orchestrator"
	"github.com/w-h-a/supportdesk/retriever"
	"github.com/w-h-a/supportdesk/retriever/vector"
	"github.com/w-h-a/supportdesk/storer"
)

type (
	ChatRequest   = negotiator.Request
	IngestRequest = ingestion.Request
	IngestResult  = ingestion.Result
)

// Gateway wires one embedder, one shared vector store and one generator
// into the chat and ingestion paths.
type Gateway struct {
	storer    storer.Storer
	chat      *chat.Service
	ingestion *ingestion.Pipeline
}

func (g *Gateway) Respond(ctx context.Context, req ChatRequest) (string, error) {
	return g.chat.Respond(ctx, req)
}

func (g *Gateway) Process(ctx context.Context, req IngestRequest) (IngestResult, error) {
	return g.ingestion.Process(ctx, req)
}

// Handler serves /chat, /process-file and /health.
func (g *Gateway) Handler() http.Handler {
	return handlerhttp.NewRouter(g, g)
}

func (g *Gateway) Close() error {
	return g.storer.Close()
}

func New(
	e embedder.Embedder,
	s storer.Storer,
	gen generator.Generator,
	opts ...Option,
) *Gateway {
	options := NewOptions(opts...)

	if e == nil || s == nil || gen == nil {
		panic("embedder, storer, and generator are required")
	}

	if e.Dimension() != s.Dimension() {
		detail := "embedder and storer dimensions differ"
		err := fmt.Errorf("%w: embedder %d storer %d", storer.ErrDimensionMismatch, e.Dimension(), s.Dimension())
		slog.Error(detail, "error", err)
		panic(err)
	}

	c, err := chunker.New(
		chunker.WithSize(options.ChunkSize),
		chunker.WithOverlap(options.ChunkOverlap),
	)
	if err != nil {
		detail := "failed to configure chunker"
		slog.Error(detail, "error", err)
		panic(detail)
	}

	r := vector.NewRetriever(
		retriever.WithEmbedder(e),
		retriever.WithStorer(s),
	)

	chatService := chat.New(
		negotiator.New(
			r,
			negotiator.WithTimeout(options.ToolTimeout),
			negotiator.WithSlackBaseURL(options.SlackBaseURL),
			negotiator.WithStripeBaseURL(options.StripeBaseURL),
		),
		orchestrator.New(gen, options.MaxToolCalls),
	)

	pipeline := ingestion.New(
		e,
		s,
		c,
		ingestion.WithTimeout(options.DownloadTimeout),
		ingestion.WithMaxBytes(options.MaxFileBytes),
	)

	return &Gateway{
		storer:    s,
		chat:      chatService,
		ingestion: pipeline,
	}
}
