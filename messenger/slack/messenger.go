package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/w-h-a/supportdesk/messenger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL = "https://slack.com/api"
	maxPageSize    = 200
)

type slackMessenger struct {
	options messenger.Options
	client  *resty.Client
}

type envelope struct {
	Ok    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type channelInfo struct {
	envelope
	Channel map[string]any `json:"channel"`
}

func (m *slackMessenger) ListChannels(ctx context.Context, limit int, cursor string) (string, error) {
	if len(m.options.ChannelIds) > 0 {
		return m.listPredefinedChannels(ctx)
	}

	params := map[string]string{
		"types":            "public_channel",
		"exclude_archived": "true",
		"limit":            strconv.Itoa(capLimit(limit, 100)),
	}
	if len(m.options.TeamId) > 0 {
		params["team_id"] = m.options.TeamId
	}
	if len(cursor) > 0 {
		params["cursor"] = cursor
	}

	return m.get(ctx, "/conversations.list", params)
}

func (m *slackMessenger) listPredefinedChannels(ctx context.Context) (string, error) {
	channels := []map[string]any{}

	for _, id := range m.options.ChannelIds {
		id = strings.TrimSpace(id)
		if len(id) == 0 {
			continue
		}

		raw, err := m.get(ctx, "/conversations.info", map[string]string{"channel": id})
		if err != nil {
			return "", err
		}

		var info channelInfo
		if err := json.Unmarshal([]byte(raw), &info); err != nil {
			return "", fmt.Errorf("%w: decode conversations.info: %v", messenger.ErrRequest, err)
		}

		if info.Channel == nil {
			continue
		}
		if archived, _ := info.Channel["is_archived"].(bool); archived {
			continue
		}

		channels = append(channels, info.Channel)
	}

	b, err := json.Marshal(map[string]any{
		"ok":       true,
		"channels": channels,
		"response_metadata": map[string]any{
			"next_cursor": "",
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", messenger.ErrRequest, err)
	}

	return string(b), nil
}

func (m *slackMessenger) PostMessage(ctx context.Context, channelId string, text string) (string, error) {
	return m.post(ctx, "/chat.postMessage", map[string]any{
		"channel": channelId,
		"text":    text,
	})
}

func (m *slackMessenger) ReplyToThread(ctx context.Context, channelId string, threadTs string, text string) (string, error) {
	return m.post(ctx, "/chat.postMessage", map[string]any{
		"channel":   channelId,
		"thread_ts": threadTs,
		"text":      text,
	})
}

func (m *slackMessenger) AddReaction(ctx context.Context, channelId string, timestamp string, reaction string) (string, error) {
	return m.post(ctx, "/reactions.add", map[string]any{
		"channel":   channelId,
		"timestamp": timestamp,
		"name":      strings.Trim(reaction, ":"),
	})
}

func (m *slackMessenger) ChannelHistory(ctx context.Context, channelId string, limit int) (string, error) {
	return m.get(ctx, "/conversations.history", map[string]string{
		"channel": channelId,
		"limit":   strconv.Itoa(capLimit(limit, 10)),
	})
}

func (m *slackMessenger) ThreadReplies(ctx context.Context, channelId string, threadTs string) (string, error) {
	return m.get(ctx, "/conversations.replies", map[string]string{
		"channel": channelId,
		"ts":      threadTs,
	})
}

func (m *slackMessenger) ListUsers(ctx context.Context, limit int, cursor string) (string, error) {
	params := map[string]string{
		"limit": strconv.Itoa(capLimit(limit, 100)),
	}
	if len(m.options.TeamId) > 0 {
		params["team_id"] = m.options.TeamId
	}
	if len(cursor) > 0 {
		params["cursor"] = cursor
	}

	return m.get(ctx, "/users.list", params)
}

func (m *slackMessenger) UserProfile(ctx context.Context, userId string) (string, error) {
	return m.get(ctx, "/users.profile.get", map[string]string{
		"user":           userId,
		"include_labels": "true",
	})
}

func (m *slackMessenger) get(ctx context.Context, path string, params map[string]string) (string, error) {
	rsp, err := m.client.R().
		SetContext(ctx).
		SetAuthToken(m.options.Token).
		SetQueryParams(params).
		Get(path)

	return m.check(path, rsp, err)
}

func (m *slackMessenger) post(ctx context.Context, path string, body map[string]any) (string, error) {
	rsp, err := m.client.R().
		SetContext(ctx).
		SetAuthToken(m.options.Token).
		SetHeader("Content-Type", "application/json; charset=utf-8").
		SetBody(body).
		Post(path)

	return m.check(path, rsp, err)
}

func (m *slackMessenger) check(path string, rsp *resty.Response, err error) (string, error) {
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", messenger.ErrRequest, path, err)
	}

	if rsp.IsError() {
		return "", fmt.Errorf("%w: %s: http %d: %s", messenger.ErrRequest, path, rsp.StatusCode(), rsp.String())
	}

	var env envelope
	if err := json.Unmarshal(rsp.Body(), &env); err == nil && !env.Ok && len(env.Error) > 0 {
		return "", fmt.Errorf("%w: %s: %s", messenger.ErrRequest, path, env.Error)
	}

	return rsp.String(), nil
}

func capLimit(limit int, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

func NewMessenger(opts ...messenger.Option) messenger.Messenger {
	options := messenger.NewOptions(opts...)

	if len(options.Token) == 0 {
		panic("slack messenger requires a bot token")
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

	return &slackMessenger{
		options: options,
		client:  client,
	}
}
