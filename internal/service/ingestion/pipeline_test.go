package ingestion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/supportdesk/chunker"
	"github.com/w-h-a/supportdesk/embedder"
	"github.com/w-h-a/supportdesk/embedder/hashing"
	"github.com/w-h-a/supportdesk/extractor"
	"github.com/w-h-a/supportdesk/storer"
	"github.com/w-h-a/supportdesk/storer/memory"
)

type brokenEmbedder struct {
	embedder.Embedder
}

func (e brokenEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.Join(embedder.ErrEncoding, errors.New("quota exceeded"))
}

type brokenStorer struct {
	storer.Storer
}

func (s brokenStorer) Store(ctx context.Context, records []storer.Record) (int, error) {
	return 0, errors.Join(storer.ErrStoreWrite, errors.New("connection reset"))
}

func fileServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()

	var hits int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, &hits
}

func newChunker(t *testing.T) *chunker.Chunker {
	t.Helper()

	c, err := chunker.New(chunker.WithSize(120), chunker.WithOverlap(20))
	require.NoError(t, err)

	return c
}

func numberedSentences(n int) string {
	var sb strings.Builder
	for i := 0; sb.Len() < n; i++ {
		sb.WriteString(fmt.Sprintf("Sentence number %04d covers refunds and shipping. ", i))
	}
	return sb.String()[:n]
}

func storedChunks(t *testing.T, e embedder.Embedder, s storer.Storer, ownerId string) []storer.Record {
	t.Helper()

	query, err := e.EmbedQuery(context.Background(), "refunds")
	require.NoError(t, err)

	matches, err := s.Search(context.Background(), ownerId, query, 20)
	require.NoError(t, err)

	records := make([]storer.Record, 0, len(matches))
	for _, m := range matches {
		records = append(records, m.Record)
	}
	return records
}

func TestPipelineDefaults(t *testing.T) {
	ctx := context.Background()

	c, err := chunker.New()
	require.NoError(t, err)

	t.Run("ShouldStoreThreeIndexedChunksForA2400CharacterDocument", func(t *testing.T) {
		srv, _ := fileServer(t, http.StatusOK, numberedSentences(2400))

		e := hashing.NewEmbedder(embedder.WithDimension(64))
		s := memory.NewStorer(storer.WithDimension(64))

		result, err := New(e, s, c).Process(ctx, Request{URL: srv.URL + "/faq.txt", Filename: "faq.txt", OwnerId: "agent-1"})
		require.NoError(t, err)
		assert.Equal(t, 3, result.ChunksProcessed)
		assert.Equal(t, "Successfully processed and stored 3 chunks from faq.txt", result.Message)

		records := storedChunks(t, e, s, "agent-1")
		require.Len(t, records, 3)

		indexes := []int{}
		for _, rec := range records {
			assert.LessOrEqual(t, len([]rune(rec.Text)), 1000)
			assert.Equal(t, 3, rec.Metadata["total_chunks"])
			indexes = append(indexes, rec.Metadata["chunk_index"].(int))
		}
		assert.ElementsMatch(t, []int{0, 1, 2}, indexes)
	})

	t.Run("ShouldStoreUnsplittableSpanAsOneRecord", func(t *testing.T) {
		span := strings.Repeat("x", 1500)
		srv, _ := fileServer(t, http.StatusOK, span)

		e := hashing.NewEmbedder(embedder.WithDimension(64))
		s := memory.NewStorer(storer.WithDimension(64))

		result, err := New(e, s, c).Process(ctx, Request{URL: srv.URL + "/blob.txt", Filename: "blob.txt", OwnerId: "agent-1"})
		require.NoError(t, err)
		assert.Equal(t, 1, result.ChunksProcessed)

		records := storedChunks(t, e, s, "agent-1")
		require.Len(t, records, 1)
		assert.Equal(t, span, records[0].Text)
		assert.Equal(t, 0, records[0].Metadata["chunk_index"])
		assert.Equal(t, 1, records[0].Metadata["total_chunks"])
	})
}

func TestPipeline(t *testing.T) {
	ctx := context.Background()
	doc := strings.Repeat("Refunds are processed within five business days. ", 12)

	t.Run("ShouldStoreEveryChunkWithMetadata", func(t *testing.T) {
		srv, hits := fileServer(t, http.StatusOK, doc)

		e := hashing.NewEmbedder(embedder.WithDimension(64))
		s := memory.NewStorer(storer.WithDimension(64))
		p := New(e, s, newChunker(t))

		result, err := p.Process(ctx, Request{URL: srv.URL + "/faq.txt", Filename: "faq.txt", OwnerId: "agent-1"})
		require.NoError(t, err)
		require.Greater(t, result.ChunksProcessed, 1)
		assert.Equal(t, int32(1), atomic.LoadInt32(hits))
		assert.Contains(t, result.Message, "Successfully processed and stored")
		assert.Contains(t, result.Message, "from faq.txt")

		query, err := e.EmbedQuery(ctx, "refunds")
		require.NoError(t, err)

		matches, err := s.Search(ctx, "agent-1", query, 100)
		require.NoError(t, err)
		require.Len(t, matches, result.ChunksProcessed)

		createdAt := matches[0].Record.CreatedAt
		indexes := map[int]bool{}
		for _, m := range matches {
			assert.Equal(t, "faq.txt", m.Record.Metadata["filename"])
			assert.Equal(t, srv.URL+"/faq.txt", m.Record.Metadata["url"])
			assert.Equal(t, "txt", m.Record.Metadata["file_type"])
			assert.Equal(t, result.ChunksProcessed, m.Record.Metadata["total_chunks"])
			assert.Equal(t, createdAt, m.Record.CreatedAt)
			assert.NotEmpty(t, m.Record.Id)
			indexes[m.Record.Metadata["chunk_index"].(int)] = true
		}
		assert.Len(t, indexes, result.ChunksProcessed)

		others, err := s.Search(ctx, "agent-2", query, 100)
		require.NoError(t, err)
		assert.Empty(t, others)
	})

	t.Run("ShouldRejectUnsupportedTypeBeforeDownloading", func(t *testing.T) {
		srv, hits := fileServer(t, http.StatusOK, doc)

		p := New(hashing.NewEmbedder(embedder.WithDimension(64)), memory.NewStorer(storer.WithDimension(64)), newChunker(t))

		_, err := p.Process(ctx, Request{URL: srv.URL + "/sheet.xlsx", Filename: "sheet.xlsx", OwnerId: "agent-1"})
		require.ErrorIs(t, err, extractor.ErrUnsupportedType)

		var stageErr *StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, StageValidate, stageErr.Stage)
		assert.Equal(t, int32(0), atomic.LoadInt32(hits))
	})

	t.Run("ShouldRejectMissingFields", func(t *testing.T) {
		p := New(hashing.NewEmbedder(embedder.WithDimension(64)), memory.NewStorer(storer.WithDimension(64)), newChunker(t))

		_, err := p.Process(ctx, Request{URL: "http://example.com/a.txt", Filename: "a.txt", OwnerId: "  "})
		require.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("ShouldFailDownloadOnNonSuccessStatus", func(t *testing.T) {
		srv, _ := fileServer(t, http.StatusNotFound, "missing")

		s := memory.NewStorer(storer.WithDimension(64))
		p := New(hashing.NewEmbedder(embedder.WithDimension(64)), s, newChunker(t))

		_, err := p.Process(ctx, Request{URL: srv.URL + "/faq.txt", Filename: "faq.txt", OwnerId: "agent-1"})
		require.ErrorIs(t, err, ErrDownload)

		var stageErr *StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, StageDownload, stageErr.Stage)
	})

	t.Run("ShouldFailDownloadWhenFileIsTooLarge", func(t *testing.T) {
		srv, _ := fileServer(t, http.StatusOK, doc)

		p := New(hashing.NewEmbedder(embedder.WithDimension(64)), memory.NewStorer(storer.WithDimension(64)), newChunker(t), WithMaxBytes(16))

		_, err := p.Process(ctx, Request{URL: srv.URL + "/faq.txt", Filename: "faq.txt", OwnerId: "agent-1"})
		require.ErrorIs(t, err, ErrDownload)
	})

	t.Run("ShouldFailOnWhitespaceOnlyContent", func(t *testing.T) {
		srv, _ := fileServer(t, http.StatusOK, "  \n\t \n")

		p := New(hashing.NewEmbedder(embedder.WithDimension(64)), memory.NewStorer(storer.WithDimension(64)), newChunker(t))

		_, err := p.Process(ctx, Request{URL: srv.URL + "/blank.txt", Filename: "blank.txt", OwnerId: "agent-1"})
		require.ErrorIs(t, err, ErrEmptyContent)
	})

	t.Run("ShouldStoreNothingWhenEncodingFails", func(t *testing.T) {
		srv, _ := fileServer(t, http.StatusOK, doc)

		e := hashing.NewEmbedder(embedder.WithDimension(64))
		s := memory.NewStorer(storer.WithDimension(64))
		p := New(brokenEmbedder{Embedder: e}, s, newChunker(t))

		_, err := p.Process(ctx, Request{URL: srv.URL + "/faq.txt", Filename: "faq.txt", OwnerId: "agent-1"})
		require.ErrorIs(t, err, embedder.ErrEncoding)

		var stageErr *StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, StageEncode, stageErr.Stage)

		query, err := e.EmbedQuery(ctx, "refunds")
		require.NoError(t, err)

		matches, err := s.Search(ctx, "agent-1", query, 10)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("ShouldReportStoreFailure", func(t *testing.T) {
		srv, _ := fileServer(t, http.StatusOK, doc)

		p := New(hashing.NewEmbedder(embedder.WithDimension(64)), brokenStorer{Storer: memory.NewStorer(storer.WithDimension(64))}, newChunker(t))

		_, err := p.Process(ctx, Request{URL: srv.URL + "/faq.txt", Filename: "faq.txt", OwnerId: "agent-1"})
		require.ErrorIs(t, err, storer.ErrStoreWrite)

		var stageErr *StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, StageStore, stageErr.Stage)
	})

	t.Run("ShouldPanicOnDimensionMismatch", func(t *testing.T) {
		assert.Panics(t, func() {
			New(hashing.NewEmbedder(embedder.WithDimension(64)), memory.NewStorer(storer.WithDimension(32)), newChunker(t))
		})
	})
}
