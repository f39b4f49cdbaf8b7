package supportdesk

import "time"

type Option func(*Options)

type Options struct {
	ChunkSize       int
	ChunkOverlap    int
	MaxToolCalls    int
	ToolTimeout     time.Duration
	DownloadTimeout time.Duration
	MaxFileBytes    int64
	SlackBaseURL    string
	StripeBaseURL   string
}

func WithChunkSize(size int) Option {
	return func(o *Options) {
		o.ChunkSize = size
	}
}

func WithChunkOverlap(overlap int) Option {
	return func(o *Options) {
		o.ChunkOverlap = overlap
	}
}

func WithMaxToolCalls(n int) Option {
	return func(o *Options) {
		o.MaxToolCalls = n
	}
}

func WithToolTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.ToolTimeout = timeout
	}
}

func WithDownloadTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.DownloadTimeout = timeout
	}
}

func WithMaxFileBytes(n int64) Option {
	return func(o *Options) {
		o.MaxFileBytes = n
	}
}

// WithSlackBaseURL points the per-request Slack clients somewhere other
// than slack.com, e.g. a proxy or a test server.
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
		ChunkSize:       1000,
		ChunkOverlap:    200,
		MaxToolCalls:    10,
		ToolTimeout:     20 * time.Second,
		DownloadTimeout: 60 * time.Second,
		MaxFileBytes:    50 << 20,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
