package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

func NewRouter(responder Responder, processor Processor) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", NewHealthHandler().Handle).Methods(http.MethodGet)
	r.HandleFunc("/chat", NewChatHandler(responder).Handle).Methods(http.MethodPost)
	r.HandleFunc("/process-file", NewIngestHandler(processor).Handle).Methods(http.MethodPost)

	return r
}
