package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/forensic-audit/internal/domain/analysis"
)

func TestNarrate(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		var body struct {
			Model string `json:"model"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotModel = body.Model

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  body.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": `{"summary":"Reported income exceeds the ledger.","recommendation":"Request the full SAF-T export."}`,
				},
			}},
		})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", srv.URL+"/v1", "gpt-4o-mini")
	text, err := c.Narrate(context.Background(), analysis.Report{VerdictLabel: "CRITICAL RISK"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", gotModel)
	assert.Equal(t, "Reported income exceeds the ledger.\n\nRequest the full SAF-T export.", text)
}

func TestNarrate_QuotaExceeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota","type":"insufficient_quota"}}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", srv.URL+"/v1", "gpt-4o-mini")
	_, err := c.Narrate(context.Background(), analysis.Report{})
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}
