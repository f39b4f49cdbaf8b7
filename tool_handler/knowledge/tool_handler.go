package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/w-h-a/supportdesk/retriever"
	"github.com/w-h-a/supportdesk/storer"
	toolhandler "github.com/w-h-a/supportdesk/tool_handler"
)

const (
	Name         = "search_knowledge_base"
	OwnerParam   = "agent_id"
	DefaultLimit = 5

	header   = "Relevant context:"
	NoResult = "No relevant context found."
)

type vectorSearchToolHandler struct {
	options   toolhandler.Options
	retriever retriever.Retriever
	owner     string
}

func (th *vectorSearchToolHandler) Spec() toolhandler.ToolSpec {
	return toolhandler.ToolSpec{
		Name:        Name,
		Description: "Performs a vector similarity search in the knowledge base and returns chunks of text that help answer customer questions.",
		InputSchema: toolhandler.ObjectSchema(
			[]string{"query", OwnerParam},
			map[string]any{
				"query":    toolhandler.StringProperty("What to search the knowledge base for."),
				OwnerParam: toolhandler.StringProperty("The knowledge base owner supplied with the request."),
				"limit":    toolhandler.IntegerProperty("How many chunks to return (default 5)."),
			},
		),
		Examples: []map[string]any{
			{"query": "refund policy", OwnerParam: "<agent id>", "limit": DefaultLimit},
		},
	}
}

// Invoke never returns an error. Failures are reported as text so the
// agent can answer conversationally.
func (th *vectorSearchToolHandler) Invoke(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	query, err := toolhandler.StringArg(req.Arguments, "query")
	if err != nil {
		return respond(fmt.Sprintf("Error during vector search: %v", err)), nil
	}

	ownerId, err := toolhandler.StringArg(req.Arguments, OwnerParam)
	if err != nil {
		return respond(fmt.Sprintf("Error during vector search: %v", err)), nil
	}

	if len(th.owner) > 0 {
		if err := toolhandler.CheckCredential(req.Arguments, OwnerParam, th.owner); err != nil {
			return respond(fmt.Sprintf("Error during vector search: %v", err)), nil
		}
	}

	limit := toolhandler.IntArg(req.Arguments, "limit", DefaultLimit)
	if limit <= 0 {
		limit = DefaultLimit
	}

	matches, err := th.retriever.Search(ctx, ownerId, query, retriever.WithLimit(limit))
	if err != nil {
		return respond(fmt.Sprintf("Error during vector search: %v", err)), nil
	}

	return respond(Format(matches)), nil
}

// Format renders matches as ranked lines under a fixed header.
func Format(matches []storer.Match) string {
	if len(matches) == 0 {
		return NoResult
	}

	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, fmt.Sprintf("- %s (score: %.4f)", m.Record.Text, m.Distance))
	}

	return header + "\n" + strings.Join(lines, "\n")
}

func respond(content string) toolhandler.ToolResponse {
	return toolhandler.ToolResponse{
		Content: content,
		Metadata: map[string]string{
			"source": "knowledge",
			"tool":   Name,
		},
	}
}

func NewToolHandler(opts ...toolhandler.Option) toolhandler.ToolHandler {
	options := toolhandler.NewOptions(opts...)

	th := &vectorSearchToolHandler{
		options: options,
	}

	if r, ok := RetrieverFrom(options.Context); ok {
		th.retriever = r
	}

	if th.retriever == nil {
		panic("knowledge tool handler requires a retriever")
	}

	if ownerId, ok := OwnerFrom(options.Context); ok {
		th.owner = strings.TrimSpace(ownerId)
	}

	return th
}
