package stripe

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/w-h-a/supportdesk/payer"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL = "https://api.stripe.com/v1"
	maxPageSize    = 100
)

type stripePayer struct {
	options payer.Options
	client  *resty.Client
}

func (p *stripePayer) SearchCustomers(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if len(email) == 0 {
		return "", fmt.Errorf("%w: email is required", payer.ErrRequest)
	}

	return p.get(ctx, "/customers/search", map[string]string{
		"query": fmt.Sprintf("email:'%s'", strings.ReplaceAll(email, "'", `\'`)),
	})
}

func (p *stripePayer) ListPaymentIntents(ctx context.Context, customerId string, limit int) (string, error) {
	params := map[string]string{
		"limit": strconv.Itoa(capLimit(limit)),
	}
	if len(customerId) > 0 {
		params["customer"] = customerId
	}

	return p.get(ctx, "/payment_intents", params)
}

func (p *stripePayer) CreateRefund(ctx context.Context, paymentIntentId string, amount int64, reason string) (string, error) {
	if len(paymentIntentId) == 0 {
		return "", fmt.Errorf("%w: payment intent is required", payer.ErrRequest)
	}

	form := map[string]string{
		"payment_intent": paymentIntentId,
	}
	if amount > 0 {
		form["amount"] = strconv.FormatInt(amount, 10)
	}
	if len(reason) > 0 {
		form["reason"] = reason
	}

	rsp, err := p.request(ctx).
		SetFormData(form).
		Post("/refunds")

	return p.check("/refunds", rsp, err)
}

func (p *stripePayer) ListSubscriptions(ctx context.Context, customerId string, status string) (string, error) {
	params := map[string]string{}
	if len(customerId) > 0 {
		params["customer"] = customerId
	}
	if len(status) > 0 {
		params["status"] = status
	}

	return p.get(ctx, "/subscriptions", params)
}

func (p *stripePayer) CancelSubscription(ctx context.Context, subscriptionId string) (string, error) {
	if len(subscriptionId) == 0 {
		return "", fmt.Errorf("%w: subscription is required", payer.ErrRequest)
	}

	path := "/subscriptions/" + url.PathEscape(subscriptionId)

	rsp, err := p.request(ctx).Delete(path)

	return p.check(path, rsp, err)
}

func (p *stripePayer) get(ctx context.Context, path string, params map[string]string) (string, error) {
	rsp, err := p.request(ctx).
		SetQueryParams(params).
		Get(path)

	return p.check(path, rsp, err)
}

func (p *stripePayer) request(ctx context.Context) *resty.Request {
	return p.client.R().
		SetContext(ctx).
		SetAuthToken(p.options.ApiKey)
}

func (p *stripePayer) check(path string, rsp *resty.Response, err error) (string, error) {
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", payer.ErrRequest, path, err)
	}

	if rsp.IsError() {
		return "", fmt.Errorf("%w: %s: http %d: %s", payer.ErrRequest, path, rsp.StatusCode(), rsp.String())
	}

	return rsp.String(), nil
}

func capLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

func NewPayer(opts ...payer.Option) payer.Payer {
	options := payer.NewOptions(opts...)

	if len(options.ApiKey) == 0 {
		panic("stripe payer requires a secret key")
	}

	if len(options.BaseURL) == 0 {
		options.BaseURL = defaultBaseURL
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	client := resty.NewWithClient(httpClient).
		SetBaseURL(options.BaseURL).
		SetTimeout(options.Timeout).
		SetHeader("Accept", "application/json")

	return &stripePayer{
		options: options,
		client:  client,
	}
}
