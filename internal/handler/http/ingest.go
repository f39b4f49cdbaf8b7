package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/w-h-a/supportdesk/extractor"
	"github.com/w-h-a/supportdesk/internal/service/ingestion"
)

type Processor interface {
	Process(ctx context.Context, req ingestion.Request) (ingestion.Result, error)
}

type ingestRequest struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	OwnerId  string `json:"ownerId"`
	AgentId  string `json:"agentId"`
}

type ingestResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	ChunksProcessed int    `json:"chunksProcessed"`
}

type ingestHandler struct {
	processor Processor
}

func (h *ingestHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, ingestResponse{Message: "invalid json"})
		return
	}

	result, err := h.processor.Process(r.Context(), ingestion.Request{
		URL:      req.URL,
		Filename: req.Filename,
		OwnerId:  firstNonEmpty(strings.TrimSpace(req.OwnerId), strings.TrimSpace(req.AgentId)),
	})
	if err != nil {
		writeJSON(w, r, statusOf(err), ingestResponse{Message: fmt.Sprintf("Error processing file: %v", err)})
		return
	}

	writeJSON(w, r, http.StatusOK, ingestResponse{
		Success:         true,
		Message:         result.Message,
		ChunksProcessed: result.ChunksProcessed,
	})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ingestion.ErrMissingField), errors.Is(err, extractor.ErrUnsupportedType):
		return http.StatusBadRequest
	case errors.Is(err, ingestion.ErrDownload):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func NewIngestHandler(processor Processor) *ingestHandler {
	return &ingestHandler{processor: processor}
}
