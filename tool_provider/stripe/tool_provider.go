package stripe

import (
	"context"
	"fmt"

	"github.com/w-h-a/supportdesk/payer"
	stripepayer "github.com/w-h-a/supportdesk/payer/stripe"
	toolhandler "github.com/w-h-a/supportdesk/tool_handler"
	"github.com/w-h-a/supportdesk/tool_handler/stripe"
	toolprovider "github.com/w-h-a/supportdesk/tool_provider"
)

const Name = "stripe"

type stripeToolProvider struct {
	options toolprovider.Options
	payer   payer.Payer
}

func (tp *stripeToolProvider) Name() string { return Name }

func (tp *stripeToolProvider) Load(_ context.Context) ([]toolhandler.ToolHandler, error) {
	handlers := make([]toolhandler.ToolHandler, 0, len(stripe.Operations))

	for _, op := range stripe.Operations {
		handlers = append(handlers, stripe.NewToolHandler(
			stripe.WithPayer(tp.payer),
			stripe.WithApiKey(tp.options.Credential),
			stripe.WithOperation(op),
		))
	}

	return handlers, nil
}

func NewToolProvider(opts ...toolprovider.Option) (toolprovider.ToolProvider, error) {
	options := toolprovider.NewOptions(opts...)

	if len(options.Credential) == 0 {
		return nil, fmt.Errorf("stripe tool provider requires a secret key")
	}

	payerOpts := []payer.Option{
		payer.WithApiKey(options.Credential),
		payer.WithTimeout(options.Timeout),
	}

	if len(options.BaseURL) > 0 {
		payerOpts = append(payerOpts, payer.WithBaseURL(options.BaseURL))
	}

	return &stripeToolProvider{
		options: options,
		payer:   stripepayer.NewPayer(payerOpts...),
	}, nil
}
