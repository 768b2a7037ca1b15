package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dsavelev/remindsync/internal/client/models"
	"github.com/dsavelev/remindsync/internal/common"
)

// HTTPClient implements Client over plain HTTP/JSON.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client for the authority at baseURL
// (e.g. "http://127.0.0.1:8080").
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s: %s", common.ErrUnavailable, resp.Status, string(b))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var body map[string]any
	return c.do(ctx, http.MethodGet, "/", nil, &body)
}

func (c *HTTPClient) SyncReminders(ctx context.Context, rs []models.Reminder) (*SyncStats, error) {
	req := struct {
		Reminders []models.Reminder `json:"reminders"`
	}{Reminders: rs}

	var stats SyncStats
	if err := c.do(ctx, http.MethodPost, "/sync-reminders", req, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *HTTPClient) VapidPublicKey(ctx context.Context) (string, error) {
	var resp struct {
		PublicKey string `json:"publicKey"`
	}
	if err := c.do(ctx, http.MethodGet, "/vapid-public-key", nil, &resp); err != nil {
		return "", err
	}
	if resp.PublicKey == "" {
		return "", fmt.Errorf("authority returned empty public key")
	}
	return resp.PublicKey, nil
}

func (c *HTTPClient) Subscribe(ctx context.Context, sub *PushSubscription) error {
	return c.do(ctx, http.MethodPost, "/subscribe", sub, nil)
}
