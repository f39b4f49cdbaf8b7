package negotiator

import "time"

type Option func(*Options)

type Options struct {
	Timeout       time.Duration
	SlackBaseURL  string
	StripeBaseURL string
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

func WithSlackBaseURL(url string) Option {
	return func(o *Options) {
		o.SlackBaseURL = url
	}
}

func WithStripeBaseURL(url string) Option {
	return func(o *Options) {
		o.StripeBaseURL = url
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Timeout: 20 * time.Second,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
