package payer

import (
	"context"
	"errors"
)

var ErrRequest = errors.New("payment request failed")

// Payer performs account and payment operations for one merchant
// credential. Every call returns the provider's raw JSON reply.
type Payer interface {
	SearchCustomers(ctx context.Context, email string) (string, error)
	ListPaymentIntents(ctx context.Context, customerId string, limit int) (string, error)
	CreateRefund(ctx context.Context, paymentIntentId string, amount int64, reason string) (string, error)
	ListSubscriptions(ctx context.Context, customerId string, status string) (string, error)
	CancelSubscription(ctx context.Context, subscriptionId string) (string, error)
}
