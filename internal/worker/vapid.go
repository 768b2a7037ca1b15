package worker

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"

	"github.com/dsavelev/remindsync/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// parseVapidPublicKey decodes a base64url, uncompressed P-256 point into an
// ECDSA public key (the form the authority hands out).
func parseVapidPublicKey(encoded string) (*ecdsa.PublicKey, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode vapid key: %w", err)
	}
	if len(raw) != 65 || raw[0] != 0x04 {
		return nil, fmt.Errorf("vapid key is not an uncompressed P-256 point")
	}
	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(raw[1:33]),
		Y:     new(big.Int).SetBytes(raw[33:65]),
	}, nil
}

// verifyVapidAuth checks the push request's Authorization header against
// the application-server key this subscription was created with. The
// header carries "vapid t=<jwt>, k=<key>" per the push contract; only the
// JWT is verified, with ES256 and a fresh expiry required.
func verifyVapidAuth(header, vapidPublicKey string) error {
	if vapidPublicKey == "" {
		return fmt.Errorf("%w: no application server key", common.ErrInvalidPushAuth)
	}

	token := ""
	header = strings.TrimSpace(header)
	lower := strings.ToLower(header)
	switch {
	case strings.HasPrefix(lower, "vapid "):
		for _, part := range strings.Split(header[len("vapid "):], ",") {
			part = strings.TrimSpace(part)
			if strings.HasPrefix(part, "t=") {
				token = part[2:]
			}
		}
	case strings.HasPrefix(lower, "webpush "):
		token = strings.TrimSpace(header[len("webpush "):])
	}
	if token == "" {
		return fmt.Errorf("%w: missing vapid token", common.ErrInvalidPushAuth)
	}

	pub, err := parseVapidPublicKey(vapidPublicKey)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidPushAuth, err)
	}

	_, err = jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return pub, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidPushAuth, err)
	}
	return nil
}
