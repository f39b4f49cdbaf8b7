package chat

import (
	"context"
	"log/slog"

	"github.com/w-h-a/supportdesk/internal/service/negotiator"
	"github.com/w-h-a/supportdesk/internal/service/orchestrator"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/w-h-a/supportdesk/internal/service/chat")

type Service struct {
	negotiator   *negotiator.Service
	orchestrator *orchestrator.Orchestrator
}

// Respond negotiates a fresh configuration for the request and runs one
// orchestration against it. Nothing is kept between calls.
func (s *Service) Respond(ctx context.Context, req negotiator.Request) (string, error) {
	ctx, span := tracer.Start(ctx, "chat.Respond")
	defer span.End()

	span.SetAttributes(attribute.String("owner.id", req.OwnerId))

	cfg, err := s.negotiator.Negotiate(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "negotiation failed")
		return "", err
	}

	out, err := s.orchestrator.Run(ctx, cfg, req.Message)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "orchestration failed")
		slog.ErrorContext(ctx, "chat failed", "owner", req.OwnerId, "error", err)
		return "", err
	}

	return out, nil
}

func New(
	negotiator *negotiator.Service,
	orchestrator *orchestrator.Orchestrator,
) *Service {
	if negotiator == nil || orchestrator == nil {
		panic("negotiator and orchestrator are required")
	}

	return &Service{
		negotiator:   negotiator,
		orchestrator: orchestrator,
	}
}
