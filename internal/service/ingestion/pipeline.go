package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/w-h-a/supportdesk/chunker"
	"github.com/w-h-a/supportdesk/embedder"
	"github.com/w-h-a/supportdesk/extractor"
	"github.com/w-h-a/supportdesk/storer"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/w-h-a/supportdesk/internal/service/ingestion")

type Request struct {
	URL      string
	Filename string
	OwnerId  string
}

type Result struct {
	ChunksProcessed int
	Message         string
}

// Pipeline turns one remote document into stored embedding records.
// A run either stores every chunk of the document or none of them.
type Pipeline struct {
	options  Options
	embedder embedder.Embedder
	storer   storer.Storer
	chunker  *chunker.Chunker
	client   *resty.Client
}

func (p *Pipeline) Process(ctx context.Context, req Request) (Result, error) {
	ctx, span := tracer.Start(ctx, "ingestion.Process")
	defer span.End()

	span.SetAttributes(
		attribute.String("owner.id", req.OwnerId),
		attribute.String("file.name", req.Filename),
	)

	result, err := p.process(ctx, span, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ingestion failed")
		slog.ErrorContext(ctx, "ingestion failed", "owner", req.OwnerId, "filename", req.Filename, "error", err)
		return Result{}, err
	}

	slog.InfoContext(ctx, "ingestion complete", "owner", req.OwnerId, "filename", req.Filename, "chunks", result.ChunksProcessed)

	return result, nil
}

func (p *Pipeline) process(ctx context.Context, span trace.Span, req Request) (Result, error) {
	req.URL = strings.TrimSpace(req.URL)
	req.Filename = strings.TrimSpace(req.Filename)
	req.OwnerId = strings.TrimSpace(req.OwnerId)

	if len(req.URL) == 0 || len(req.Filename) == 0 || len(req.OwnerId) == 0 {
		return Result{}, fail(StageValidate, ErrMissingField)
	}

	fileType, err := extractor.FileTypeOf(req.Filename)
	if err != nil {
		return Result{}, fail(StageValidate, err)
	}

	content, err := p.download(ctx, req.URL)
	if err != nil {
		return Result{}, fail(StageDownload, err)
	}

	text, err := extractor.Extract(content, fileType)
	if err != nil {
		return Result{}, fail(StageExtract, err)
	}

	if len(strings.TrimSpace(text)) == 0 {
		return Result{}, fail(StageExtract, ErrEmptyContent)
	}

	chunks, err := p.chunker.Chunk(text)
	if err != nil {
		return Result{}, fail(StageChunk, err)
	}

	span.SetAttributes(attribute.Int("chunks", len(chunks)))

	vectors, err := p.encode(ctx, chunks)
	if err != nil {
		return Result{}, fail(StageEncode, err)
	}

	createdAt := p.options.Now().UTC()
	ext := extractor.Extension(req.Filename)

	records := make([]storer.Record, 0, len(chunks))
	for i, chunk := range chunks {
		records = append(records, storer.Record{
			Id:      uuid.NewString(),
			OwnerId: req.OwnerId,
			Text:    chunk,
			Metadata: map[string]any{
				"filename":     req.Filename,
				"url":          req.URL,
				"chunk_index":  i,
				"total_chunks": len(chunks),
				"file_type":    ext,
			},
			Vector:    vectors[i],
			CreatedAt: createdAt,
		})
	}

	stored, err := p.storer.Store(ctx, records)
	if err != nil {
		return Result{}, fail(StageStore, err)
	}

	return Result{
		ChunksProcessed: stored,
		Message:         fmt.Sprintf("Successfully processed and stored %d chunks from %s", stored, req.Filename),
	}, nil
}

func (p *Pipeline) download(ctx context.Context, url string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "ingestion.Download")
	defer span.End()

	rsp, err := p.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}

	body := rsp.RawBody()
	defer body.Close()

	if rsp.StatusCode() < 200 || rsp.StatusCode() > 299 {
		return nil, fmt.Errorf("%w: http %d", ErrDownload, rsp.StatusCode())
	}

	content, err := io.ReadAll(io.LimitReader(body, p.options.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}

	if int64(len(content)) > p.options.MaxBytes {
		return nil, fmt.Errorf("%w: file larger than %d bytes", ErrDownload, p.options.MaxBytes)
	}

	span.SetAttributes(attribute.Int("file.bytes", len(content)))

	return content, nil
}

func (p *Pipeline) encode(ctx context.Context, chunks []string) ([][]float32, error) {
	ctx, span := tracer.Start(ctx, "ingestion.Encode")
	defer span.End()

	vectors, err := p.embedder.EmbedDocuments(ctx, chunks)
	if err != nil {
		return nil, err
	}

	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d vectors for %d chunks", embedder.ErrEncoding, len(vectors), len(chunks))
	}

	return vectors, nil
}

func New(e embedder.Embedder, s storer.Storer, c *chunker.Chunker, opts ...Option) *Pipeline {
	if e == nil || s == nil || c == nil {
		panic("embedder, storer, and chunker are required")
	}

	if e.Dimension() != s.Dimension() {
		panic(fmt.Sprintf("%v: embedder %d storer %d", storer.ErrDimensionMismatch, e.Dimension(), s.Dimension()))
	}

	options := NewOptions(opts...)

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	client := resty.NewWithClient(httpClient).
		SetTimeout(options.Timeout)

	return &Pipeline{
		options:  options,
		embedder: e,
		storer:   s,
		chunker:  c,
		client:   client,
	}
}
