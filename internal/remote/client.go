package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"easel/internal/config"
)

const (
	defaultBaseURL     = "https://generativelanguage.googleapis.com"
	apiVersion         = "v1beta"
	defaultHTTPTimeout = 60 * time.Second
)

// Client wraps the generative service's batch and long-running-operation
// APIs. It is the only component that ever sees the API key.
type Client struct {
	apiKey     string
	baseURL    string
	imageModel string
	videoModel string
	httpClient *http.Client
}

// Option customizes the remote client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the default API base (useful for tests/mocks).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// NewClient constructs a remote API client.
func NewClient(apiKey, imageModel, videoModel string, opts ...Option) *Client {
	client := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    defaultBaseURL,
		imageModel: strings.TrimSpace(imageModel),
		videoModel: strings.TrimSpace(videoModel),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// NewClientFromConfig builds a client from application configuration.
func NewClientFromConfig(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.Remote.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return NewClient(
		cfg.Remote.APIKey,
		cfg.Remote.ImageModel,
		cfg.Remote.VideoModel,
		WithBaseURL(cfg.Remote.BaseURL),
		WithHTTPClient(&http.Client{Timeout: timeout}),
	)
}

// doJSON issues a request with the API key header and decodes the JSON
// response into out. Remote 4xx verdicts map to ErrRemote (ErrNotFound for
// 404); network failures and 5xx map to ErrTransient.
func (c *Client) doJSON(ctx context.Context, method, url string, body any, out any, operation string) error {
	if c.apiKey == "" {
		return Wrap(ErrValidation, operation, "api key required", nil)
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return Wrap(ErrValidation, operation, "encode request", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return Wrap(ErrValidation, operation, "build request", err)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Wrap(ErrTransient, operation, "request failed", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return Wrap(ErrTransient, operation, "read body", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Wrap(ErrNotFound, operation, remoteErrorText(payload, resp.StatusCode), nil)
	case resp.StatusCode >= http.StatusInternalServerError:
		return Wrap(ErrTransient, operation, remoteErrorText(payload, resp.StatusCode), nil)
	case resp.StatusCode >= http.StatusBadRequest:
		return Wrap(ErrRemote, operation, remoteErrorText(payload, resp.StatusCode), nil)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return Wrap(ErrMalformedPayload, operation, "decode response", err)
	}
	return nil
}

// download fetches raw bytes from a result URI using the same credential.
func (c *Client) download(ctx context.Context, uri, operation string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, "", Wrap(ErrValidation, operation, "build download request", err)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", Wrap(ErrTransient, operation, "download failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		marker := ErrRemote
		if resp.StatusCode >= http.StatusInternalServerError {
			marker = ErrTransient
		}
		return nil, "", Wrap(marker, operation, fmt.Sprintf("download http %d", resp.StatusCode), nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", Wrap(ErrTransient, operation, "read download", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (c *Client) resourceURL(name string) string {
	return c.baseURL + "/" + apiVersion + "/" + strings.TrimPrefix(name, "/")
}

func (c *Client) modelURL(model, verb string) string {
	return c.baseURL + "/" + apiVersion + "/models/" + model + ":" + verb
}

func remoteErrorText(payload []byte, status int) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil {
		if msg := strings.TrimSpace(envelope.Error.Message); msg != "" {
			return fmt.Sprintf("http %d: %s", status, msg)
		}
	}
	if trimmed := strings.TrimSpace(string(payload)); trimmed != "" {
		return fmt.Sprintf("http %d: %s", status, trimmed)
	}
	return fmt.Sprintf("http %d", status)
}
