package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/supportdesk/generator"
)

func TestAnthropicGenerator(t *testing.T) {
	t.Run("ShouldSendSystemOutOfBand", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/messages", r.URL.Path)

			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

			system, _ := body["system"].([]any)
			if assert.Len(t, system, 1) {
				assert.Equal(t, "You are support.", system[0].(map[string]any)["text"])
			}
			msgs, _ := body["messages"].([]any)
			if assert.Len(t, msgs, 2) {
				assert.Equal(t, "user", msgs[0].(map[string]any)["role"])
				assert.Equal(t, "assistant", msgs[1].(map[string]any)["role"])
			}

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-5-haiku-latest","content":[{"type":"text","text":"Glad to help."}],"stop_reason":"end_turn","usage":{"input_tokens":3,"output_tokens":3}}`))
		}))
		defer srv.Close()

		g := NewGenerator(generator.WithApiKey("key"), generator.WithBaseURL(srv.URL))

		out, err := g.Generate(context.Background(), []generator.Message{
			{Role: generator.RoleSystem, Content: "You are support."},
			{Role: generator.RoleUser, Content: "Hi"},
			{Role: generator.RoleAssistant, Content: "tool:x {}"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Glad to help.", out)
	})

	t.Run("ShouldWrapFailures", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
		}))
		defer srv.Close()

		g := NewGenerator(generator.WithApiKey("key"), generator.WithBaseURL(srv.URL))

		_, err := g.Generate(context.Background(), []generator.Message{{Role: generator.RoleUser, Content: "Hi"}})
		require.ErrorIs(t, err, generator.ErrGeneration)
	})
}
