package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/w-h-a/supportdesk/internal/service/negotiator"
)

type Responder interface {
	Respond(ctx context.Context, req negotiator.Request) (string, error)
}

// chatRequest accepts agentId as an alias of ownerId.
type chatRequest struct {
	Message         string   `json:"message"`
	OwnerId         string   `json:"ownerId"`
	AgentId         string   `json:"agentId"`
	StripeEnabled   bool     `json:"stripeEnabled"`
	StripeApiKey    string   `json:"stripeApiKey"`
	SlackEnabled    bool     `json:"slackEnabled"`
	SlackBotToken   string   `json:"slackBotToken"`
	SlackTeamId     string   `json:"slackTeamId"`
	SlackChannelIds []string `json:"slackChannelIds"`
	CalEnabled      bool     `json:"calEnabled"`
	CalEventUrl     string   `json:"calEventUrl"`
}

type chatHandler struct {
	responder Responder
}

func (h *chatHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, map[string]any{"error": "invalid json"})
		return
	}

	ownerId := firstNonEmpty(strings.TrimSpace(req.OwnerId), strings.TrimSpace(req.AgentId))

	if len(ownerId) == 0 || len(strings.TrimSpace(req.Message)) == 0 {
		writeJSON(w, r, http.StatusBadRequest, map[string]any{"error": "message and ownerId are required"})
		return
	}

	out, err := h.responder.Respond(r.Context(), negotiator.Request{
		Message:         req.Message,
		OwnerId:         ownerId,
		StripeEnabled:   req.StripeEnabled,
		StripeApiKey:    req.StripeApiKey,
		SlackEnabled:    req.SlackEnabled,
		SlackBotToken:   req.SlackBotToken,
		SlackTeamId:     req.SlackTeamId,
		SlackChannelIds: req.SlackChannelIds,
		CalEnabled:      req.CalEnabled,
		CalEventUrl:     req.CalEventUrl,
	})
	if err != nil {
		writeJSON(w, r, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"response": out})
}

func NewChatHandler(responder Responder) *chatHandler {
	return &chatHandler{responder: responder}
}
