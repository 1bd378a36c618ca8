// Package videodb is a typed HTTP client for the remote VideoDB service.
// The service owns all video processing semantics (transcription, search,
// stream composition); this package only shapes requests and responses.
package videodb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/videodb-stack/vdbctl/internal/errors"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.videodb.io"

// authHeader carries the API key on every request.
const authHeader = "x-access-token"

// Connection is an authenticated handle to the service.
type Connection struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option configures a Connection.
type Option func(*Connection)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Connection) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Connection) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// Connect creates a Connection. The key is not validated here; the first
// request surfaces an auth failure.
func Connect(apiKey string, opts ...Option) (*Connection, error) {
	if apiKey == "" {
		return nil, errors.APIKeyMissing("api key")
	}

	c := &Connection{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// apiResponse is the service's uniform envelope.
type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// get issues a GET and decodes the data envelope into out.
func (c *Connection) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// post issues a POST with a JSON body and decodes the data envelope into out.
func (c *Connection) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// delete issues a DELETE.
func (c *Connection) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Connection) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, method+" "+path, out)
}

// uploadFile issues a multipart POST streaming a local file.
func (c *Connection) uploadFile(ctx context.Context, path, filePath string, fields map[string]string, out any) error {
	file, err := os.Open(filePath)
	if err != nil {
		return errors.IOReadError(filePath, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if v != "" {
			if err := mw.WriteField(k, v); err != nil {
				return fmt.Errorf("encoding form field %s: %w", k, err)
			}
		}
	}
	part, err := mw.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return fmt.Errorf("encoding form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return errors.IOReadError(filePath, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finalizing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.send(req, "POST "+path, out)
}

// send executes a prepared request and maps the response envelope.
func (c *Connection) send(req *http.Request, operation string, out any) error {
	req.Header.Set(authHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.APIRequest(operation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.APIRequest(operation, err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return errors.APIAuthFailed()
	}

	var envelope apiResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return errors.APIBadResponse(operation, err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := envelope.Message
		if msg == "" {
			msg = resp.Status
		}
		return errors.APIRequest(operation, fmt.Errorf("%s", msg)).
			WithDetail("status_code", resp.StatusCode)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return errors.APIBadResponse(operation, err)
		}
	}
	return nil
}
