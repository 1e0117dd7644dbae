// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/article-console/internal/parse"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(ts *httptest.Server) *Client {
	return &Client{Endpoint: ts.URL, APIKey: "test-key", Client: ts.Client(), Logger: quietLogger()}
}

func TestInvoke_Success(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var in invokeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "zebres bipedes", in.Message)
		assert.Equal(t, "agent-1", in.AgentID)

		io.WriteString(w, `{
			"success": true,
			"response": {"status": "success", "result": "Voici:\n{\"title\": \"Zebres Bipedes\", \"total_score\": 87}"}
		}`)
	}))
	defer ts.Close()

	res := newTestClient(ts).Invoke(context.Background(), "zebres bipedes", "agent-1")
	require.True(t, res.Succeeded())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	parsed := parse.FromRaw(res.Payload())
	require.True(t, parsed.Found)
	assert.Equal(t, "Zebres Bipedes", parsed.String("title", ""))
	assert.Equal(t, float64(87), parse.Score(parsed))
}

func TestInvoke_ArtifactFiles(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{
			"success": true,
			"response": {"status": "success", "result": {"image_description": "a zebra", "image_prompt_used": "zebra on two legs"}},
			"module_outputs": {"artifact_files": [{"file_url": ""}, {"file_url": "https://x/img.png", "name": "img.png"}]}
		}`)
	}))
	defer ts.Close()

	res := newTestClient(ts).Invoke(context.Background(), "image please", "img-agent")
	require.True(t, res.Success)
	assert.Equal(t, "https://x/img.png", res.FirstArtifactURL())

	parsed := parse.FromRaw(res.Payload())
	assert.Equal(t, "a zebra", parsed.String("image_description", ""))
}

func TestInvoke_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"http error with error field", http.StatusUnauthorized, `{"error": "invalid api key"}`, "invalid api key"},
		{"http error with message", http.StatusBadGateway, `{"message": "upstream down"}`, "upstream down"},
		{"undecodable body", http.StatusOK, `<html>oops</html>`, "decoding response"},
		{"agent reported failure", http.StatusOK, `{"success": false, "error": "agent crashed"}`, "agent crashed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer ts.Close()

			res := newTestClient(ts).Invoke(context.Background(), "q", "a")
			assert.False(t, res.Success)
			assert.False(t, res.Succeeded())
			assert.Contains(t, res.FailureMessage("fallback"), tt.wantMsg)
		})
	}
}

func TestInvoke_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	c := newTestClient(ts)
	ts.Close()

	res := c.Invoke(context.Background(), "q", "a")
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "calling agent")
}

func TestInvoke_CancelledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"success": true}`)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := newTestClient(ts).Invoke(ctx, "q", "a")
	assert.False(t, res.Success)
}

func TestInvoke_Unconfigured(t *testing.T) {
	var nilClient *Client
	assert.False(t, nilClient.Invoke(context.Background(), "q", "a").Success)

	res := (&Client{}).Invoke(context.Background(), "q", "a")
	assert.False(t, res.Success)
	assert.Equal(t, "agent endpoint is not configured", res.Error)
}

func TestResultHelpers(t *testing.T) {
	tests := []struct {
		name          string
		res           Result
		wantSucceeded bool
		wantMsg       string
	}{
		{"success", Result{Success: true, Response: &Response{Status: "success"}}, true, "fallback"},
		{"processing status", Result{Success: true, Response: &Response{Status: "error", Message: "timed out"}}, false, "timed out"},
		{"missing response", Result{Success: true}, false, "fallback"},
		{"error wins", Failure("boom"), false, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantSucceeded, tt.res.Succeeded())
			assert.Equal(t, tt.wantMsg, tt.res.FailureMessage("fallback"))
		})
	}
}
