package stripe

import (
	"context"

	"github.com/w-h-a/supportdesk/payer"
	toolhandler "github.com/w-h-a/supportdesk/tool_handler"
)

const ApiKeyParam = "stripe_api_key"

const (
	SearchCustomers    = "stripe_search_customers"
	ListPaymentIntents = "stripe_list_payment_intents"
	CreateRefund       = "stripe_create_refund"
	ListSubscriptions  = "stripe_list_subscriptions"
	CancelSubscription = "stripe_cancel_subscription"
)

type call func(ctx context.Context, p payer.Payer, args map[string]any) (string, error)

type operation struct {
	description string
	required    []string
	properties  map[string]any
	call        call
}

var Operations = []string{
	SearchCustomers,
	ListPaymentIntents,
	CreateRefund,
	ListSubscriptions,
	CancelSubscription,
}

var operations = map[string]operation{
	SearchCustomers: {
		description: "Find Stripe customers by email address.",
		required:    []string{"email"},
		properties: map[string]any{
			"email": toolhandler.StringProperty("The customer's email address."),
		},
		call: func(ctx context.Context, p payer.Payer, args map[string]any) (string, error) {
			email, err := toolhandler.StringArg(args, "email")
			if err != nil {
				return "", err
			}
			return p.SearchCustomers(ctx, email)
		},
	},
	ListPaymentIntents: {
		description: "List recent payments, optionally for one customer.",
		properties: map[string]any{
			"customer_id": toolhandler.StringProperty("Restrict to this customer."),
			"limit":       toolhandler.IntegerProperty("How many payments to return (default 10, max 100)."),
		},
		call: func(ctx context.Context, p payer.Payer, args map[string]any) (string, error) {
			return p.ListPaymentIntents(ctx, toolhandler.OptionalStringArg(args, "customer_id"), toolhandler.IntArg(args, "limit", 10))
		},
	},
	CreateRefund: {
		description: "Refund a payment in full or in part.",
		required:    []string{"payment_intent_id"},
		properties: map[string]any{
			"payment_intent_id": toolhandler.StringProperty("The payment to refund."),
			"amount":            toolhandler.IntegerProperty("Amount in the smallest currency unit; omit for a full refund."),
			"reason":            toolhandler.StringProperty("One of duplicate, fraudulent, requested_by_customer."),
		},
		call: func(ctx context.Context, p payer.Payer, args map[string]any) (string, error) {
			pi, err := toolhandler.StringArg(args, "payment_intent_id")
			if err != nil {
				return "", err
			}
			amount := int64(toolhandler.IntArg(args, "amount", 0))
			return p.CreateRefund(ctx, pi, amount, toolhandler.OptionalStringArg(args, "reason"))
		},
	},
	ListSubscriptions: {
		description: "List subscriptions, optionally for one customer and status.",
		properties: map[string]any{
			"customer_id": toolhandler.StringProperty("Restrict to this customer."),
			"status":      toolhandler.StringProperty("Restrict to this status, for example active."),
		},
		call: func(ctx context.Context, p payer.Payer, args map[string]any) (string, error) {
			return p.ListSubscriptions(ctx, toolhandler.OptionalStringArg(args, "customer_id"), toolhandler.OptionalStringArg(args, "status"))
		},
	},
	CancelSubscription: {
		description: "Cancel a subscription immediately.",
		required:    []string{"subscription_id"},
		properties: map[string]any{
			"subscription_id": toolhandler.StringProperty("The subscription to cancel."),
		},
		call: func(ctx context.Context, p payer.Payer, args map[string]any) (string, error) {
			sub, err := toolhandler.StringArg(args, "subscription_id")
			if err != nil {
				return "", err
			}
			return p.CancelSubscription(ctx, sub)
		},
	},
}
