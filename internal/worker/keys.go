package worker

import (
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/dsavelev/remindsync/internal/client/api"
	"github.com/google/uuid"
)

// subscriptionState is one live push subscription held by the worker: the
// token that addresses it and the key material the transport generated.
type subscriptionState struct {
	Token string
	Keys  api.SubscriptionKeys
	vapid string
}

// newSubscription generates fresh key material: an ECDH P-256 keypair
// whose public point becomes p256dh, and a random 16-byte auth secret,
// both base64url-encoded as the push contract requires.
func newSubscription(vapidPublicKey string) (*subscriptionState, error) {
	priv, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate p256 key: %w", err)
	}

	auth := make([]byte, 16)
	if _, err := rand.Read(auth); err != nil {
		return nil, fmt.Errorf("generate auth secret: %w", err)
	}

	return &subscriptionState{
		Token: uuid.NewString(),
		Keys: api.SubscriptionKeys{
			P256dh: base64.RawURLEncoding.EncodeToString(priv.PublicKey().Bytes()),
			Auth:   base64.RawURLEncoding.EncodeToString(auth),
		},
		vapid: vapidPublicKey,
	}, nil
}

// descriptor builds the subscription descriptor addressed at this worker.
func (s *subscriptionState) descriptor(baseURL string) *api.PushSubscription {
	return &api.PushSubscription{
		Endpoint: baseURL + "/push/" + s.Token,
		Keys:     s.Keys,
	}
}
