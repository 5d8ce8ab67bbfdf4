package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendWelcome_OK(t *testing.T) {
	var body map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/project-apis/v1/project/proj-1/messages", r.URL.Path)
		assert.Equal(t, "pwd", r.Header.Get("X-AiSensy-Project-API-Pwd"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "proj-1", "pwd")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, client.SendWelcome(ctx, "919876543210"))

	want := map[string]any{
		"to":   "919876543210",
		"type": "template",
		"template": map[string]any{
			"language": map[string]any{"policy": "deterministic", "code": "en"},
			"name":     "welcome_message",
			"components": []any{
				map[string]any{
					"type":       "body",
					"parameters": []any{map[string]any{"type": "text", "text": ""}},
				},
			},
		},
	}
	assert.Equal(t, want, body)
}

func TestSendWelcome_Rejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"bad pwd"}`))
	}))
	defer ts.Close()

	err := NewClient(ts.URL, "proj-1", "pwd").SendWelcome(context.Background(), "919876543210")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSendWelcome_NotConfigured(t *testing.T) {
	tests := []struct {
		name   string
		client *Client
	}{
		{name: "nil", client: nil},
		{name: "no project", client: NewClient("https://apis.aisensy.com", "", "pwd")},
		{name: "no password", client: NewClient("https://apis.aisensy.com", "proj", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.client.SendWelcome(context.Background(), "91"), ErrNotConfigured)
		})
	}
}
