package authority

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dsavelev/remindsync/internal/client/api"
	"github.com/dsavelev/remindsync/internal/logging"
)

// Pusher delivers payloads to a subscription endpoint, carrying the VAPID
// authorization the delivery worker verifies.
type Pusher struct {
	keys *VapidKeys
	http *http.Client
	log  logging.Logger
}

func NewPusher(keys *VapidKeys, log logging.Logger) *Pusher {
	return &Pusher{
		keys: keys,
		http: &http.Client{Timeout: 10 * time.Second},
		log:  log,
	}
}

// Push posts payload to the subscription endpoint. A 410 response means
// the subscription was invalidated on the receiving side; the caller may
// retry after the device resubscribes.
func (p *Pusher) Push(ctx context.Context, sub *api.PushSubscription, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sub.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	auth, err := p.keys.AuthorizationHeader(sub.Endpoint)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", auth)
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("TTL", "60")

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("push delivery: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("push rejected: %s: %s", resp.Status, string(b))
	}

	p.log.Info(ctx, "push delivered", "endpoint", sub.Endpoint, "bytes", len(payload))
	return nil
}
