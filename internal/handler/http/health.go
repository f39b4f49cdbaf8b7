package http

import "net/http"

type healthHandler struct{}

func (h *healthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "RAG processing service is running",
	})
}

func NewHealthHandler() *healthHandler {
	return &healthHandler{}
}
