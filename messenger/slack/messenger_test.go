package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/supportdesk/messenger"
)

func TestSlackMessenger(t *testing.T) {
	ctx := context.Background()

	t.Run("ShouldCapChannelListLimitAndSendBearerToken", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/conversations.list", r.URL.Path)
			assert.Equal(t, "Bearer xoxb-1", r.Header.Get("Authorization"))
			assert.Equal(t, "200", r.URL.Query().Get("limit"))
			assert.Equal(t, "T1", r.URL.Query().Get("team_id"))
			assert.Equal(t, "true", r.URL.Query().Get("exclude_archived"))
			_, _ = w.Write([]byte(`{"ok":true,"channels":[{"id":"C1"}]}`))
		}))
		defer srv.Close()

		m := NewMessenger(
			messenger.WithToken("xoxb-1"),
			messenger.WithTeamId("T1"),
			messenger.WithBaseURL(srv.URL),
		)

		out, err := m.ListChannels(ctx, 500, "")
		require.NoError(t, err)
		assert.Contains(t, out, `"C1"`)
	})

	t.Run("ShouldListOnlyPredefinedUnarchivedChannels", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/conversations.info", r.URL.Path)
			switch r.URL.Query().Get("channel") {
			case "C1":
				_, _ = w.Write([]byte(`{"ok":true,"channel":{"id":"C1","is_archived":false}}`))
			case "C2":
				_, _ = w.Write([]byte(`{"ok":true,"channel":{"id":"C2","is_archived":true}}`))
			default:
				t.Errorf("unexpected channel %s", r.URL.Query().Get("channel"))
			}
		}))
		defer srv.Close()

		m := NewMessenger(
			messenger.WithToken("xoxb-1"),
			messenger.WithChannelIds("C1", " C2 "),
			messenger.WithBaseURL(srv.URL),
		)

		out, err := m.ListChannels(ctx, 10, "")
		require.NoError(t, err)

		var decoded struct {
			Ok       bool             `json:"ok"`
			Channels []map[string]any `json:"channels"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.True(t, decoded.Ok)
		require.Len(t, decoded.Channels, 1)
		assert.Equal(t, "C1", decoded.Channels[0]["id"])
	})

	t.Run("ShouldPostThreadReplyAsJSON", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/chat.postMessage", r.URL.Path)

			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "C1", body["channel"])
			assert.Equal(t, "1700000000.000100", body["thread_ts"])
			assert.Equal(t, "on it", body["text"])

			_, _ = w.Write([]byte(`{"ok":true,"ts":"1700000000.000200"}`))
		}))
		defer srv.Close()

		m := NewMessenger(messenger.WithToken("xoxb-1"), messenger.WithBaseURL(srv.URL))

		out, err := m.ReplyToThread(ctx, "C1", "1700000000.000100", "on it")
		require.NoError(t, err)
		assert.Contains(t, out, "1700000000.000200")
	})

	t.Run("ShouldTurnSlackErrorsIntoRequestErrors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/reactions.add" {
				_, _ = w.Write([]byte(`{"ok":false,"error":"invalid_name"}`))
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`boom`))
		}))
		defer srv.Close()

		m := NewMessenger(messenger.WithToken("xoxb-1"), messenger.WithBaseURL(srv.URL))

		_, err := m.AddReaction(ctx, "C1", "1.2", ":nope:")
		require.ErrorIs(t, err, messenger.ErrRequest)
		assert.Contains(t, err.Error(), "invalid_name")

		_, err = m.UserProfile(ctx, "U1")
		require.ErrorIs(t, err, messenger.ErrRequest)
		assert.Contains(t, err.Error(), "500")
	})
}
