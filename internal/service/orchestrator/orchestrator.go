package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/w-h-a/supportdesk/generator"
	"github.com/w-h-a/supportdesk/internal/service/negotiator"
	toolhandler "github.com/w-h-a/supportdesk/tool_handler"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const DefaultMaxToolCalls = 10

var ErrOrchestrationExhausted = errors.New("orchestration exhausted its tool call budget")

var tracer = otel.Tracer("github.com/w-h-a/supportdesk/internal/service/orchestrator")

// Orchestrator drives one reasoning pass per request. Each pass is
// sequential; separate passes share nothing.
type Orchestrator struct {
	generator    generator.Generator
	maxToolCalls int
}

func (o *Orchestrator) Run(ctx context.Context, cfg *negotiator.AgentConfiguration, message string) (string, error) {
	ctx, span := tracer.Start(ctx, "orchestrator.Run")
	defer span.End()

	if cfg == nil {
		return "", errors.New("agent configuration is required")
	}

	if len(strings.TrimSpace(message)) == 0 {
		return "", negotiator.ErrMissingMessage
	}

	tools, err := newCatalog(cfg.Tools())
	if err != nil {
		return "", err
	}

	m := newMachine()

	messages := []generator.Message{
		{Role: generator.RoleSystem, Content: buildSystemPrompt(cfg, tools.listSpecs())},
		{Role: generator.RoleUser, Content: buildTask(message)},
	}

	calls := 0

	if err := m.to(StateReasoning); err != nil {
		return "", err
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		reply, err := o.generator.Generate(ctx, messages)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "generation failed")
			return "", err
		}

		isCall, name, args := parseToolCall(reply)

		if !isCall {
			if err := m.to(StateResponding); err != nil {
				return "", err
			}

			answer := strings.TrimSpace(reply)

			if err := m.to(StateDone); err != nil {
				return "", err
			}

			span.SetAttributes(attribute.Int("tool.calls", calls))

			return answer, nil
		}

		if err := m.to(StateToolCall); err != nil {
			return "", err
		}

		calls++
		if calls > o.maxToolCalls {
			span.SetStatus(codes.Error, "tool call budget exhausted")
			slog.WarnContext(ctx, "orchestration exhausted", "limit", o.maxToolCalls)
			return "", fmt.Errorf("%w: more than %d tool calls", ErrOrchestrationExhausted, o.maxToolCalls)
		}

		messages = append(messages,
			generator.Message{Role: generator.RoleAssistant, Content: strings.TrimSpace(reply)},
			generator.Message{Role: generator.RoleUser, Content: o.invoke(ctx, cfg, tools, name, args)},
		)

		if err := m.to(StateReasoning); err != nil {
			return "", err
		}
	}
}

// invoke runs one tool call and always returns observation text. Only
// tools in the request's catalog can run, and bound parameters replace
// whatever the model supplied.
func (o *Orchestrator) invoke(ctx context.Context, cfg *negotiator.AgentConfiguration, tools *catalog, name string, rawArgs string) string {
	ctx, span := tracer.Start(ctx, "orchestrator.ToolCall")
	defer span.End()

	span.SetAttributes(attribute.String("tool.name", name))

	th, spec, ok := tools.get(name)
	if !ok {
		slog.WarnContext(ctx, "refused tool call", "tool", name)
		return observation(name, fmt.Sprintf("Error: tool %q is not available. Available tools: %s.", name, strings.Join(tools.names(), ", ")))
	}

	args := parseToolArguments(rawArgs)
	for param, value := range cfg.Binding(spec.Name) {
		args[param] = value
	}

	if missing := missingArguments(spec, args); len(missing) > 0 {
		return observation(spec.Name, fmt.Sprintf("Error: missing required arguments: %s.", strings.Join(missing, ", ")))
	}

	rsp, err := th.Invoke(ctx, toolhandler.ToolRequest{Arguments: args})
	if err != nil {
		span.RecordError(err)
		slog.InfoContext(ctx, "tool call failed", "tool", spec.Name, "error", err)
		return observation(spec.Name, fmt.Sprintf("Error: %v", err))
	}

	return observation(spec.Name, rsp.Content)
}

func New(g generator.Generator, maxToolCalls int) *Orchestrator {
	if g == nil {
		panic("generator is required")
	}

	if maxToolCalls <= 0 {
		maxToolCalls = DefaultMaxToolCalls
	}

	return &Orchestrator{
		generator:    g,
		maxToolCalls: maxToolCalls,
	}
}
