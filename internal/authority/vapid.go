package authority

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// VapidKeys is the authority's application-server keypair. The public half
// is handed to clients; the private half signs push authorization tokens.
type VapidKeys struct {
	private *ecdsa.PrivateKey
	public  string
}

// GenerateVapidKeys creates a fresh P-256 keypair. The public key is the
// base64url uncompressed point, the form the subscription contract uses.
func GenerateVapidKeys() (*VapidKeys, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate vapid keypair: %w", err)
	}

	point := make([]byte, 65)
	point[0] = 0x04
	priv.PublicKey.X.FillBytes(point[1:33])
	priv.PublicKey.Y.FillBytes(point[33:65])

	return &VapidKeys{
		private: priv,
		public:  base64.RawURLEncoding.EncodeToString(point),
	}, nil
}

// PublicKey returns the base64url-encoded public key.
func (k *VapidKeys) PublicKey() string { return k.public }

// AuthorizationHeader signs a short-lived token for a push to endpoint and
// formats the "vapid t=..., k=..." header the transport expects.
func (k *VapidKeys) AuthorizationHeader(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}

	claims := jwt.MapClaims{
		"aud": u.Scheme + "://" + u.Host,
		"exp": time.Now().Add(12 * time.Hour).Unix(),
		"sub": "mailto:ops@remindsync.local",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(k.private)
	if err != nil {
		return "", fmt.Errorf("sign vapid token: %w", err)
	}

	return fmt.Sprintf("vapid t=%s, k=%s", token, k.public), nil
}
