package qdrant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/w-h-a/supportdesk/storer"
	getsafe "github.com/w-h-a/supportdesk/util/get_safe"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	// qdrant orders by score only, so extra points are fetched to put
	// equal scores back in insertion order before trimming
	tieWindow   = 16
	maxTieFetch = 1024
)

type qdrantStorer struct {
	options storer.Options
	client  *resty.Client
	seq     atomic.Int64
}

func (s *qdrantStorer) Store(ctx context.Context, records []storer.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	if err := storer.Validate(records, s.options.Dimension); err != nil {
		return 0, err
	}

	points := make([]qdrantPoint, 0, len(records))

	for _, rec := range records {
		points = append(points, qdrantPoint{
			Id:     rec.Id,
			Vector: rec.Vector,
			Payload: map[string]any{
				"owner_id":   rec.OwnerId,
				"text":       rec.Text,
				"metadata":   rec.Metadata,
				"created_at": rec.CreatedAt.UTC().Format(time.RFC3339Nano),
				"seq":        s.seq.Add(1),
			},
		})
	}

	req := map[string]any{
		"points": points,
	}

	var rsp qdrantEnvelope[json.RawMessage]

	path := fmt.Sprintf("/collections/%s/points?wait=true", url.PathEscape(s.options.Collection))

	if err := s.do(ctx, http.MethodPut, path, req, &rsp); err != nil {
		return 0, fmt.Errorf("%w: %v", storer.ErrStoreWrite, err)
	}

	if !rsp.Status.ok() && len(rsp.Status.Error) > 0 {
		return 0, fmt.Errorf("%w: %s", storer.ErrStoreWrite, rsp.Status.Error)
	}

	return len(records), nil
}

func (s *qdrantStorer) Search(ctx context.Context, ownerId string, vector []float32, limit int) ([]storer.Match, error) {
	limit, err := storer.ClampLimit(limit, s.options.MaxLimit)
	if err != nil {
		return nil, err
	}

	if len(vector) != s.options.Dimension {
		return nil, fmt.Errorf("%w: %w (got %d want %d)", storer.ErrStoreQuery, storer.ErrDimensionMismatch, len(vector), s.options.Dimension)
	}

	fetch := limit + tieWindow

	for {
		points, err := s.search(ctx, ownerId, vector, fetch)
		if err != nil {
			return nil, err
		}

		// grow the page while points tied with the cut-off may still be unseen
		if len(points) == fetch && fetch < maxTieFetch && points[len(points)-1].Score == points[limit-1].Score {
			fetch = min(fetch*2, maxTieFetch)
			continue
		}

		return rank(points, limit), nil
	}
}

func (s *qdrantStorer) search(ctx context.Context, ownerId string, vector []float32, fetch int) ([]qdrantPointResult, error) {
	req := map[string]any{
		"vector":       vector,
		"limit":        fetch,
		"with_vector":  true,
		"with_payload": true,
		"filter": map[string]any{
			"must": []map[string]any{
				{
					"key":   "owner_id",
					"match": map[string]any{"value": ownerId},
				},
			},
		},
	}

	var rsp qdrantEnvelope[[]qdrantPointResult]

	path := fmt.Sprintf("/collections/%s/points/search", url.PathEscape(s.options.Collection))

	if err := s.do(ctx, http.MethodPost, path, req, &rsp); err != nil {
		return nil, fmt.Errorf("%w: %v", storer.ErrStoreQuery, err)
	}

	return rsp.Result, nil
}

// rank orders points by distance then insertion sequence and keeps the first limit.
func rank(points []qdrantPointResult, limit int) []storer.Match {
	matches := make([]storer.Match, 0, len(points))
	seqs := make([]float64, 0, len(points))

	for _, point := range points {
		payload := point.Payload

		createdAt, _ := time.Parse(time.RFC3339Nano, getsafe.String(payload, "created_at"))

		matches = append(matches, storer.Match{
			Record: storer.Record{
				Id:        point.Id,
				OwnerId:   getsafe.String(payload, "owner_id"),
				Text:      getsafe.String(payload, "text"),
				Metadata:  getsafe.Metadata(payload, "metadata"),
				Vector:    point.Vector,
				CreatedAt: createdAt,
			},
			Distance: 1 - point.Score,
		})
		seqs = append(seqs, getsafe.Number(payload, "seq"))
	}

	idx := make([]int, len(matches))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ma, mb := matches[idx[a]], matches[idx[b]]
		if ma.Distance != mb.Distance {
			return ma.Distance < mb.Distance
		}
		return seqs[idx[a]] < seqs[idx[b]]
	})

	sorted := make([]storer.Match, 0, min(limit, len(idx)))
	for _, i := range idx[:min(limit, len(idx))] {
		sorted = append(sorted, matches[i])
	}

	return sorted
}

func (s *qdrantStorer) Dimension() int {
	return s.options.Dimension
}

func (s *qdrantStorer) Close() error {
	return nil
}

func (s *qdrantStorer) do(ctx context.Context, method string, path string, req any, rsp any) error {
	request := s.client.R().SetContext(ctx)

	if req != nil {
		request.SetBody(req)
	}

	response, err := request.Execute(method, path)
	if err != nil {
		return err
	}

	if response.IsError() {
		return &httpError{status: response.StatusCode(), body: response.String()}
	}

	if rsp != nil && len(response.Body()) > 0 {
		if err := json.Unmarshal(response.Body(), rsp); err != nil {
			return err
		}
	}

	return nil
}

type httpError struct {
	status int
	body   string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("qdrant http %d: %s", e.status, e.body)
}

func (s *qdrantStorer) configure(ctx context.Context) error {
	exists, err := s.collectionExists(ctx)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	return s.createCollection(ctx)
}

func (s *qdrantStorer) collectionExists(ctx context.Context) (bool, error) {
	path := fmt.Sprintf("/collections/%s", url.PathEscape(s.options.Collection))

	var rsp qdrantEnvelope[json.RawMessage]

	err := s.do(ctx, http.MethodGet, path, nil, &rsp)
	if err != nil {
		if herr, ok := err.(*httpError); ok && herr.status == http.StatusNotFound {
			return false, nil
		}
		return false, err
	}

	return rsp.Status.ok(), nil
}

func (s *qdrantStorer) createCollection(ctx context.Context) error {
	req := map[string]any{
		"vectors": map[string]any{
			"size":     s.options.Dimension,
			"distance": "Cosine",
		},
	}

	path := fmt.Sprintf("/collections/%s", url.PathEscape(s.options.Collection))

	var rsp qdrantEnvelope[json.RawMessage]

	if err := s.do(ctx, http.MethodPut, path, req, &rsp); err != nil {
		return err
	}

	if !rsp.Status.ok() {
		return fmt.Errorf("create collection: %s", rsp.Status.Error)
	}

	path = fmt.Sprintf("/collections/%s/index?wait=true", url.PathEscape(s.options.Collection))

	return s.do(ctx, http.MethodPut, path, map[string]any{
		"field_name":   "owner_id",
		"field_schema": "keyword",
	}, nil)
}

func NewStorer(opts ...storer.Option) storer.Storer {
	options := storer.NewOptions(opts...)

	if len(options.Location) == 0 ||
		len(options.Collection) == 0 ||
		options.Dimension <= 0 {
		panic("missing location, collection, or dimension for qdrant storer")
	}

	client := resty.NewWithClient(&http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}).
		SetBaseURL(options.Location).
		SetTimeout(15*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if len(options.ApiKey) > 0 {
		client.SetHeader("api-key", options.ApiKey)
	}

	s := &qdrantStorer{
		options: options,
		client:  client,
	}

	s.seq.Store(time.Now().UnixMicro())

	if err := s.configure(options.Context); err != nil {
		detail := "failed to configure collection for qdrant storer"
		slog.ErrorContext(options.Context, detail, "error", err)
		panic(detail)
	}

	return s
}
