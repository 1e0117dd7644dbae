// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package knowledge mirrors the reference documents held by the external
// document store that grounds article generation.
package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/pdiddy/article-console/internal/httputil"
	"github.com/pdiddy/article-console/pkg/types"
)

// DocumentStore is the remote store behind a knowledge base. Every call is
// a single round trip.
type DocumentStore interface {
	List(ctx context.Context, kbID string) ([]types.KnowledgeDocument, error)
	Upload(ctx context.Context, kbID, fileName string, r io.Reader) error
	Delete(ctx context.Context, kbID string, fileNames []string) error
}

// Client is the HTTP DocumentStore.
type Client struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
	Logger   *slog.Logger
}

// NewClient builds a Client from configuration.
func NewClient(cfg types.DocumentStoreConfig, logger *slog.Logger) *Client {
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

var _ DocumentStore = (*Client)(nil)

// ErrUnspecified is returned when the store reports a failure without
// saying why.
var ErrUnspecified = errors.New("document store reported failure")

// envelope is the common response wrapper. A 2xx reply can still carry
// success=false.
type envelope struct {
	Success   *bool                     `json:"success,omitempty"`
	Error     string                    `json:"error,omitempty"`
	Documents []types.KnowledgeDocument `json:"documents,omitempty"`
}

func (e envelope) err() error {
	if e.Success != nil && !*e.Success {
		if e.Error != "" {
			return errors.New(e.Error)
		}
		return ErrUnspecified
	}
	return nil
}

// List returns the documents in kbID.
func (c *Client) List(ctx context.Context, kbID string) ([]types.KnowledgeDocument, error) {
	u, err := c.documentsURL(kbID)
	if err != nil {
		return nil, err
	}
	req, err := httputil.NewJSONRequest(ctx, http.MethodGet, u, c.APIKey, nil)
	if err != nil {
		return nil, err
	}

	var body envelope
	if err := c.do(req, &body); err != nil {
		return nil, err
	}
	if err := body.err(); err != nil {
		return nil, err
	}
	if body.Documents == nil {
		return nil, ErrUnspecified
	}
	c.Logger.Debug("documents listed", "kb_id", kbID, "count", len(body.Documents))
	return body.Documents, nil
}

// Upload sends one file and starts training on it.
func (c *Client) Upload(ctx context.Context, kbID, fileName string, r io.Reader) error {
	u, err := c.documentsURL(kbID)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(fileName))
	if err != nil {
		return fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("reading %s: %w", fileName, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &buf)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	httputil.SetAuth(req, c.APIKey)

	var body envelope
	if err := c.do(req, &body); err != nil {
		return err
	}
	if err := body.err(); err != nil {
		return err
	}
	c.Logger.Info("document uploaded", "kb_id", kbID, "file", fileName)
	return nil
}

// Delete removes documents by file name.
func (c *Client) Delete(ctx context.Context, kbID string, fileNames []string) error {
	u, err := c.documentsURL(kbID)
	if err != nil {
		return err
	}
	req, err := httputil.NewJSONRequest(ctx, http.MethodDelete, u, c.APIKey, map[string][]string{
		"file_names": fileNames,
	})
	if err != nil {
		return err
	}

	var body envelope
	if err := c.do(req, &body); err != nil {
		return err
	}
	return body.err()
}

func (c *Client) documentsURL(kbID string) (string, error) {
	if c.Endpoint == "" {
		return "", errors.New("document store endpoint is not configured")
	}
	if kbID == "" {
		return "", errors.New("knowledge base id is required")
	}
	u, err := url.JoinPath(c.Endpoint, "knowledge-bases", kbID, "documents")
	if err != nil {
		return "", fmt.Errorf("building documents url: %w", err)
	}
	return u, nil
}

// do performs req and decodes the envelope. An empty 2xx body is accepted.
func (c *Client) do(req *http.Request, body *envelope) error {
	resp, err := httputil.Do(c.Client, req)
	if err != nil {
		var se *httputil.StatusError
		if errors.As(err, &se) {
			return errors.New(httputil.ErrorMessage(se))
		}
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, body); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
