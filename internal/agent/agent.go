// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent invokes the external generation agents. One call is one
// request/response round trip; every failure mode, transport errors
// included, is folded into a Result so callers never see a panic or error.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pdiddy/article-console/internal/httputil"
	"github.com/pdiddy/article-console/pkg/types"
)

// StatusSuccess is the processing status of a completed agent run.
const StatusSuccess = "success"

// Invoker calls a named agent with a message. Implementations must not
// retry, batch, or cache.
type Invoker interface {
	Invoke(ctx context.Context, message, agentID string) Result
}

// Result is the uniform outcome of an agent call.
type Result struct {
	// Success reports whether the call itself succeeded.
	Success bool `json:"success"`

	// Error holds the failure message when Success is false.
	Error string `json:"error,omitempty"`

	// Response carries the agent's processing status and result payload.
	Response *Response `json:"response,omitempty"`

	// ArtifactFiles lists files produced by the run (image generation).
	ArtifactFiles []ArtifactFile `json:"artifact_files,omitempty"`
}

// Response is the agent-level payload inside a successful call.
type Response struct {
	Status  string          `json:"status"`
	Result  json.RawMessage `json:"result,omitempty"`
	Message string          `json:"message,omitempty"`
}

// ArtifactFile is a file produced by an agent run, referenced by URL.
type ArtifactFile struct {
	FileURL  string `json:"file_url"`
	Name     string `json:"name,omitempty"`
	FileType string `json:"file_type,omitempty"`
}

// Failure builds a failed Result carrying msg.
func Failure(msg string) Result {
	return Result{Success: false, Error: msg}
}

// Succeeded reports whether the call succeeded and the agent finished its
// run with a success status.
func (r Result) Succeeded() bool {
	return r.Success && r.Response != nil && r.Response.Status == StatusSuccess
}

// FailureMessage picks the most specific failure text available.
func (r Result) FailureMessage(fallback string) string {
	if r.Error != "" {
		return r.Error
	}
	if r.Response != nil && r.Response.Message != "" {
		return r.Response.Message
	}
	return fallback
}

// Payload returns the raw result payload, or nil.
func (r Result) Payload() json.RawMessage {
	if r.Response == nil {
		return nil
	}
	return r.Response.Result
}

// FirstArtifactURL returns the URL of the first artifact file with one.
func (r Result) FirstArtifactURL() string {
	for _, f := range r.ArtifactFiles {
		if f.FileURL != "" {
			return f.FileURL
		}
	}
	return ""
}

// Client calls the agent endpoint over HTTP.
type Client struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
	Logger   *slog.Logger
}

// NewClient builds a Client from configuration.
func NewClient(cfg types.AgentConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		Endpoint: cfg.Endpoint,
		APIKey:   cfg.APIKey,
		Client:   &http.Client{Timeout: cfg.Timeout},
		Logger:   logger,
	}
}

var _ Invoker = (*Client)(nil)

type invokeRequest struct {
	Message string `json:"message"`
	AgentID string `json:"agent_id"`
}

// invokeResponse is the endpoint's wire shape. Artifact files arrive under
// module_outputs.
type invokeResponse struct {
	Success       bool      `json:"success"`
	Error         string    `json:"error,omitempty"`
	Response      *Response `json:"response,omitempty"`
	ModuleOutputs *struct {
		ArtifactFiles []ArtifactFile `json:"artifact_files"`
	} `json:"module_outputs,omitempty"`
}

// Invoke sends message to agentID and normalizes the outcome.
func (c *Client) Invoke(ctx context.Context, message, agentID string) (res Result) {
	if c == nil {
		return Failure("agent client is not configured")
	}
	defer func() {
		if p := recover(); p != nil {
			res = Failure(fmt.Sprintf("agent call aborted: %v", p))
		}
	}()
	if c.Endpoint == "" {
		return Failure("agent endpoint is not configured")
	}

	log := c.logger().With("agent_id", agentID)

	req, err := httputil.NewJSONRequest(ctx, http.MethodPost, c.Endpoint, c.APIKey, invokeRequest{
		Message: message,
		AgentID: agentID,
	})
	if err != nil {
		return Failure(err.Error())
	}

	log.Debug("invoking agent", "message_bytes", len(message))
	resp, err := httputil.Do(c.Client, req)
	if err != nil {
		var se *httputil.StatusError
		if errors.As(err, &se) {
			log.Warn("agent returned error status", "status", se.StatusCode)
			return Failure(httputil.ErrorMessage(se))
		}
		log.Warn("agent call failed", "error", err)
		return Failure(fmt.Sprintf("calling agent: %v", err))
	}

	var body invokeResponse
	if err := httputil.DecodeJSON(resp, &body); err != nil {
		log.Warn("agent response undecodable", "error", err)
		return Failure(err.Error())
	}

	res = Result{
		Success:  body.Success,
		Error:    body.Error,
		Response: body.Response,
	}
	if body.ModuleOutputs != nil {
		res.ArtifactFiles = body.ModuleOutputs.ArtifactFiles
	}
	log.Debug("agent call finished", "success", res.Success, "artifacts", len(res.ArtifactFiles))
	return res
}

func (c *Client) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
