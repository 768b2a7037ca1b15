package subscription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dsavelev/remindsync/internal/client/api"
	"github.com/dsavelev/remindsync/internal/common"
)

// WorkerTransport implements PushTransport against the delivery worker's
// HTTP gateway. The worker owns the subscription key material; the client
// only relays the application-server key and receives the descriptor.
type WorkerTransport struct {
	baseURL string
	http    *http.Client
}

func NewWorkerTransport(workerURL string) *WorkerTransport {
	return &WorkerTransport{
		baseURL: strings.TrimRight(workerURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Ready checks that the worker daemon is registered and answering.
func (t *WorkerTransport) Ready(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/version", nil)
	if err != nil {
		return err
	}
	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrWorkerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %s", common.ErrWorkerUnavailable, resp.Status)
	}
	return nil
}

// Subscribe asks the worker to mint a push subscription for the given
// application-server key.
func (t *WorkerTransport) Subscribe(ctx context.Context, vapidPublicKey string) (*api.PushSubscription, error) {
	body, err := json.Marshal(map[string]string{"applicationServerKey": vapidPublicKey})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/subscribe", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrWorkerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("subscribe failed: %s: %s", resp.Status, string(b))
	}

	var sub api.PushSubscription
	if err := json.NewDecoder(resp.Body).Decode(&sub); err != nil {
		return nil, fmt.Errorf("decode subscription: %w", err)
	}
	return &sub, nil
}
