package toolprovider

import (
	"context"
	"time"
)

type Option func(*Options)

type Options struct {
	Credential string
	BaseURL    string
	Timeout    time.Duration
	Context    context.Context
}

func WithCredential(credential string) Option {
	return func(o *Options) {
		o.Credential = credential
	}
}

func WithBaseURL(url string) Option {
	return func(o *Options) {
		o.BaseURL = url
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Timeout: 20 * time.Second,
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
