package negotiator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/w-h-a/supportdesk/retriever"
	toolhandler "github.com/w-h-a/supportdesk/tool_handler"
	"github.com/w-h-a/supportdesk/tool_handler/knowledge"
	"github.com/w-h-a/supportdesk/tool_handler/slack"
	"github.com/w-h-a/supportdesk/tool_handler/stripe"
	toolprovider "github.com/w-h-a/supportdesk/tool_provider"
	knowledgeprovider "github.com/w-h-a/supportdesk/tool_provider/knowledge"
	slackprovider "github.com/w-h-a/supportdesk/tool_provider/slack"
	stripeprovider "github.com/w-h-a/supportdesk/tool_provider/stripe"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrMissingOwner   = errors.New("owner id is required")
	ErrMissingMessage = errors.New("message is required")
)

var tracer = otel.Tracer("github.com/w-h-a/supportdesk/internal/service/negotiator")

// Service decides per request which capabilities the agent gets and
// with which credentials.
type Service struct {
	options   Options
	retriever retriever.Retriever
}

func (s *Service) Negotiate(ctx context.Context, req Request) (*AgentConfiguration, error) {
	ctx, span := tracer.Start(ctx, "negotiator.Negotiate")
	defer span.End()

	if len(strings.TrimSpace(req.OwnerId)) == 0 {
		return nil, ErrMissingOwner
	}

	if len(strings.TrimSpace(req.Message)) == 0 {
		return nil, ErrMissingMessage
	}

	b := NewBuilder()

	kp := knowledgeprovider.NewToolProvider(
		knowledgeprovider.WithRetriever(s.retriever),
		toolprovider.WithCredential(strings.TrimSpace(req.OwnerId)),
	)
	handlers, err := kp.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s tools: %w", kp.Name(), err)
	}
	b.WithCapability(CapabilityKnowledge, handlers...)
	bindAll(b, handlers, knowledge.OwnerParam, req.OwnerId)

	if req.paymentsEnabled() {
		tp, err := stripeprovider.NewToolProvider(
			toolprovider.WithCredential(req.StripeApiKey),
			toolprovider.WithBaseURL(s.options.StripeBaseURL),
			toolprovider.WithTimeout(s.options.Timeout),
		)
		if err != nil {
			return nil, err
		}
		handlers, err := tp.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load %s tools: %w", tp.Name(), err)
		}
		b.WithCapability(CapabilityPayments, handlers...)
		bindAll(b, handlers, stripe.ApiKeyParam, req.StripeApiKey)
	}

	if req.messagingEnabled() {
		tp, err := slackprovider.NewToolProvider(
			toolprovider.WithCredential(req.SlackBotToken),
			toolprovider.WithBaseURL(s.options.SlackBaseURL),
			toolprovider.WithTimeout(s.options.Timeout),
			slackprovider.WithTeamId(req.SlackTeamId),
			slackprovider.WithChannelIds(req.channelIds()...),
		)
		if err != nil {
			return nil, err
		}
		handlers, err := tp.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load %s tools: %w", tp.Name(), err)
		}
		b.WithCapability(CapabilityMessaging, handlers...)
		bindAll(b, handlers, slack.TokenParam, req.SlackBotToken)
	}

	if req.schedulingEnabled() {
		b.WithCapability(CapabilityScheduling)
	}

	capabilities := make([]Capability, 0, len(b.capabilities))
	for _, c := range capabilityOrder {
		if _, ok := b.capabilities[c]; ok {
			capabilities = append(capabilities, c)
		}
	}

	goal, backstory := narrative(capabilities)

	cfg, err := b.
		WithNarrative(role, goal, backstory).
		WithInstructions(instructions(req, capabilities)).
		Build()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(capabilities))
	for _, c := range capabilities {
		names = append(names, string(c))
	}

	span.SetAttributes(
		attribute.String("owner.id", req.OwnerId),
		attribute.StringSlice("capabilities", names),
	)

	slog.DebugContext(ctx, "negotiated capabilities", "owner", req.OwnerId, "capabilities", names, "tools", len(cfg.tools))

	return cfg, nil
}

func bindAll(b *Builder, handlers []toolhandler.ToolHandler, param string, value string) {
	for _, th := range handlers {
		b.Bind(th.Spec().Name, param, value)
	}
}

func New(r retriever.Retriever, opts ...Option) *Service {
	if r == nil {
		panic("retriever is required")
	}

	return &Service{
		options:   NewOptions(opts...),
		retriever: r,
	}
}
