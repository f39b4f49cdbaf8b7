package knowledge

import (
	"context"

	"github.com/w-h-a/supportdesk/retriever"
	toolhandler "github.com/w-h-a/supportdesk/tool_handler"
	"github.com/w-h-a/supportdesk/tool_handler/knowledge"
	toolprovider "github.com/w-h-a/supportdesk/tool_provider"
)

const Name = "knowledge"

type knowledgeToolProvider struct {
	options   toolprovider.Options
	retriever retriever.Retriever
}

func (tp *knowledgeToolProvider) Name() string { return Name }

func (tp *knowledgeToolProvider) Load(_ context.Context) ([]toolhandler.ToolHandler, error) {
	opts := []toolhandler.Option{
		knowledge.WithRetriever(tp.retriever),
	}

	if len(tp.options.Credential) > 0 {
		opts = append(opts, knowledge.WithOwner(tp.options.Credential))
	}

	return []toolhandler.ToolHandler{
		knowledge.NewToolHandler(opts...),
	}, nil
}

func NewToolProvider(opts ...toolprovider.Option) toolprovider.ToolProvider {
	options := toolprovider.NewOptions(opts...)

	r, ok := RetrieverFrom(options.Context)
	if !ok || r == nil {
		panic("retriever is required")
	}

	return &knowledgeToolProvider{
		options:   options,
		retriever: r,
	}
}
