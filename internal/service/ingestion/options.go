package ingestion

import (
	"net/http"
	"time"
)

type Option func(*Options)

type Options struct {
	Timeout    time.Duration
	MaxBytes   int64
	HTTPClient *http.Client
	Now        func() time.Time
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

func WithMaxBytes(n int64) Option {
	return func(o *Options) {
		o.MaxBytes = n
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) {
		o.HTTPClient = client
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.Now = now
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Timeout:  60 * time.Second,
		MaxBytes: 50 << 20,
		Now:      time.Now,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
