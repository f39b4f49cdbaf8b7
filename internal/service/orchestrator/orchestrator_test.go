package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/supportdesk/generator"
	"github.com/w-h-a/supportdesk/internal/service/negotiator"
	toolhandler "github.com/w-h-a/supportdesk/tool_handler"
)

type scriptedGenerator struct {
	replies []string
	err     error
	seen    [][]generator.Message
}

func (g *scriptedGenerator) Generate(_ context.Context, messages []generator.Message) (string, error) {
	g.seen = append(g.seen, append([]generator.Message(nil), messages...))
	if g.err != nil {
		return "", g.err
	}
	if len(g.replies) == 0 {
		return "done", nil
	}
	reply := g.replies[0]
	if len(g.replies) > 1 {
		g.replies = g.replies[1:]
	}
	return reply, nil
}

type recordingTool struct {
	name     string
	required []string
	calls    []map[string]any
	err      error
}

func (r *recordingTool) Spec() toolhandler.ToolSpec {
	spec := toolhandler.ToolSpec{Name: r.name, Description: "test tool " + r.name}
	if len(r.required) > 0 {
		spec.InputSchema = toolhandler.ObjectSchema(r.required, map[string]any{})
	}
	return spec
}

func (r *recordingTool) Invoke(_ context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	r.calls = append(r.calls, req.Arguments)
	if r.err != nil {
		return toolhandler.ToolResponse{}, r.err
	}
	return toolhandler.ToolResponse{Content: "result from " + r.name}, nil
}

func configWith(t *testing.T, tool *recordingTool) *negotiator.AgentConfiguration {
	t.Helper()

	cfg, err := negotiator.NewBuilder().
		WithCapability(negotiator.CapabilityKnowledge, tool).
		Bind(tool.name, "agent_id", "agent-1").
		WithNarrative("Customer Support Agent", "Assist customers", "You help.").
		WithInstructions("Use the tools.").
		Build()
	require.NoError(t, err)

	return cfg
}

func TestOrchestrator(t *testing.T) {
	ctx := context.Background()

	t.Run("ShouldAnswerDirectly", func(t *testing.T) {
		tool := &recordingTool{name: "search_knowledge_base"}
		g := &scriptedGenerator{replies: []string{"  Hello there!  "}}

		out, err := New(g, 0).Run(ctx, configWith(t, tool), "hi")
		require.NoError(t, err)

		assert.Equal(t, "Hello there!", out)
		require.Len(t, g.seen, 1)
		assert.Equal(t, generator.RoleSystem, g.seen[0][0].Role)
		assert.Contains(t, g.seen[0][0].Content, "- search_knowledge_base: test tool search_knowledge_base")
		assert.Contains(t, g.seen[0][0].Content, "Use the tools.")
		assert.Contains(t, g.seen[0][1].Content, "Respond to the customer message: hi")
		assert.Empty(t, tool.calls)
	})

	t.Run("ShouldOverwriteBoundArgumentsAndFeedObservation", func(t *testing.T) {
		tool := &recordingTool{name: "search_knowledge_base"}
		g := &scriptedGenerator{replies: []string{
			`tool:search_knowledge_base {"query":"refunds","agent_id":"someone-else"}`,
			"Refunds take five days.",
		}}

		out, err := New(g, 0).Run(ctx, configWith(t, tool), "how do refunds work?")
		require.NoError(t, err)
		assert.Equal(t, "Refunds take five days.", out)

		require.Len(t, tool.calls, 1)
		assert.Equal(t, "agent-1", tool.calls[0]["agent_id"])
		assert.Equal(t, "refunds", tool.calls[0]["query"])

		require.Len(t, g.seen, 2)
		last := g.seen[1]
		assert.Equal(t, generator.RoleAssistant, last[2].Role)
		assert.Equal(t, generator.RoleUser, last[3].Role)
		assert.Equal(t, "Observation from search_knowledge_base:\nresult from search_knowledge_base", last[3].Content)
	})

	t.Run("ShouldRefuseToolsOutsideTheConfiguration", func(t *testing.T) {
		tool := &recordingTool{name: "search_knowledge_base"}
		g := &scriptedGenerator{replies: []string{
			`tool:stripe_create_refund {"payment_intent_id":"pi_1"}`,
			"I cannot issue refunds.",
		}}

		out, err := New(g, 0).Run(ctx, configWith(t, tool), "refund me")
		require.NoError(t, err)
		assert.Equal(t, "I cannot issue refunds.", out)
		assert.Empty(t, tool.calls)
		assert.Contains(t, g.seen[1][3].Content, `tool "stripe_create_refund" is not available`)
		assert.NotContains(t, g.seen[0][0].Content, "stripe_create_refund")
	})

	t.Run("ShouldTurnToolErrorsIntoObservations", func(t *testing.T) {
		tool := &recordingTool{name: "search_knowledge_base", err: fmt.Errorf("%w: upstream 503", toolhandler.ErrToolInvocation)}
		g := &scriptedGenerator{replies: []string{
			"tool:search_knowledge_base {}",
			"Sorry, please try again later.",
		}}

		out, err := New(g, 0).Run(ctx, configWith(t, tool), "hi")
		require.NoError(t, err)
		assert.Equal(t, "Sorry, please try again later.", out)
		assert.Contains(t, g.seen[1][3].Content, "Error: tool invocation failed: upstream 503")
	})

	t.Run("ShouldNotInvokeWhenRequiredArgumentsAreMissing", func(t *testing.T) {
		tool := &recordingTool{name: "search_knowledge_base", required: []string{"query", "agent_id"}}
		g := &scriptedGenerator{replies: []string{
			`tool:search_knowledge_base {"query": "  "}`,
			"What would you like me to look up?",
		}}

		out, err := New(g, 0).Run(ctx, configWith(t, tool), "hi")
		require.NoError(t, err)
		assert.Equal(t, "What would you like me to look up?", out)
		assert.Empty(t, tool.calls)
		assert.Contains(t, g.seen[1][3].Content, "Error: missing required arguments: query.")
	})

	t.Run("ShouldFailWhenToolCallBudgetIsExceeded", func(t *testing.T) {
		tool := &recordingTool{name: "search_knowledge_base"}
		g := &scriptedGenerator{replies: []string{`tool:search_knowledge_base {"query":"again"}`}}

		_, err := New(g, DefaultMaxToolCalls).Run(ctx, configWith(t, tool), "loop forever")
		require.ErrorIs(t, err, ErrOrchestrationExhausted)
		assert.Len(t, tool.calls, DefaultMaxToolCalls)
		assert.Len(t, g.seen, DefaultMaxToolCalls+1)
	})

	t.Run("ShouldAbortOnGeneratorFailure", func(t *testing.T) {
		tool := &recordingTool{name: "search_knowledge_base"}
		g := &scriptedGenerator{err: fmt.Errorf("%w: quota", generator.ErrGeneration)}

		_, err := New(g, 0).Run(ctx, configWith(t, tool), "hi")
		require.ErrorIs(t, err, generator.ErrGeneration)
		require.Len(t, g.seen, 1)
	})

	t.Run("ShouldStopOnCancelledContext", func(t *testing.T) {
		tool := &recordingTool{name: "search_knowledge_base"}
		g := &scriptedGenerator{}

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := New(g, 0).Run(cctx, configWith(t, tool), "hi")
		require.True(t, errors.Is(err, context.Canceled))
		assert.Empty(t, g.seen)
	})
}

func TestMachine(t *testing.T) {
	t.Run("ShouldFollowTheAllowedPath", func(t *testing.T) {
		m := newMachine()
		for _, s := range []State{StateReasoning, StateToolCall, StateReasoning, StateResponding, StateDone} {
			require.NoError(t, m.to(s))
		}
		assert.Equal(t, StateDone, m.state)
		assert.Len(t, m.history, 6)
	})

	t.Run("ShouldRejectShortcuts", func(t *testing.T) {
		m := newMachine()
		require.ErrorIs(t, m.to(StateToolCall), ErrInvalidTransition)
		require.NoError(t, m.to(StateReasoning))
		require.ErrorIs(t, m.to(StateDone), ErrInvalidTransition)
		require.NoError(t, m.to(StateResponding))
		require.NoError(t, m.to(StateDone))
		require.ErrorIs(t, m.to(StateReasoning), ErrInvalidTransition)
	})
}

func TestParseToolCall(t *testing.T) {
	tests := []struct {
		reply  string
		isCall bool
		name   string
		args   string
	}{
		{reply: "Hello!", isCall: false},
		{reply: `tool:search_knowledge_base {"query":"x"}`, isCall: true, name: "search_knowledge_base", args: `{"query":"x"}`},
		{reply: "  TOOL:slack_get_users  ", isCall: true, name: "slack_get_users", args: ""},
		{reply: "`tool:slack_get_users {}`", isCall: true, name: "slack_get_users", args: "{}"},
		{reply: "I could use a tool: but won't", isCall: false},
	}

	for _, tt := range tests {
		t.Run(tt.reply, func(t *testing.T) {
			isCall, name, args := parseToolCall(tt.reply)
			assert.Equal(t, tt.isCall, isCall)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestParseToolArguments(t *testing.T) {
	assert.Equal(t, map[string]any{}, parseToolArguments(""))
	assert.Equal(t, map[string]any{"q": "x"}, parseToolArguments(`{"q":"x"}`))
	assert.Equal(t, map[string]any{"items": []any{"a"}}, parseToolArguments(`["a"]`))
	assert.Equal(t, map[string]any{"input": "plain"}, parseToolArguments("plain"))
	assert.Equal(t, map[string]any{"input": "null"}, parseToolArguments("null"))
}
