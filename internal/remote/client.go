// Package remote delivers captured mutations to the attendance backend
// over HTTP. The rest of the engine only sees the Deliver and Ping shapes,
// so tests substitute fakes freely.
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

	"golang.org/x/oauth2/clientcredentials"

	"github.com/workpunch/punch/internal/model"
)

const defaultTimeout = 10 * time.Second

// Config holds the endpoint and optional OAuth2 client-credentials auth.
type Config struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// Client is the HTTP adapter for the abstract remote collaborator.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient builds a client. When token credentials are configured the
// underlying transport refreshes bearer tokens automatically.
func NewClient(ctx context.Context, cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var httpClient *http.Client
	if cfg.TokenURL != "" && cfg.ClientID != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		httpClient = cc.Client(ctx)
	} else {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = timeout

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// Deliver posts one mutation snapshot. A 409 means the backend has already
// applied a mutation with this ID; that counts as delivered so replays stay
// at-most-once.
func (c *Client) Deliver(ctx context.Context, m model.PendingMutation) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding mutation: %w", err)
	}

	endpoint := c.baseURL + "/v1/mutations"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delivering mutation %s: %w", m.ID, err)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusConflict:
		// Already applied upstream.
		return nil
	default:
		return fmt.Errorf("remote error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}

// Ping checks reachability of the backend; it backs the connectivity probe.
func (c *Client) Ping(ctx context.Context) error {
	if c.baseURL == "" {
		return fmt.Errorf("no remote configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote unreachable: %w", err)
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("remote health check returned %d", resp.StatusCode)
	}
	return nil
}
