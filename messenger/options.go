package messenger

import (
	"context"
	"net/http"
	"time"
)

type Option func(*Options)

type Options struct {
	Token      string
	TeamId     string
	ChannelIds []string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Context    context.Context
}

func WithToken(token string) Option {
	return func(o *Options) {
		o.Token = token
	}
}

func WithTeamId(teamId string) Option {
	return func(o *Options) {
		o.TeamId = teamId
	}
}

func WithChannelIds(ids ...string) Option {
	return func(o *Options) {
		o.ChannelIds = ids
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

func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) {
		o.HTTPClient = client
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Timeout: 15 * time.Second,
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
