package token

import (
	"encoding/json"
	"errors"
	"time"

	jose "github.com/go-jose/go-jose/v3"
	"github.com/google/uuid"
)

var (
	ErrInvalidDownloadToken = errors.New("invalid download token")
	ErrExpiredDownloadToken = errors.New("download token has expired")
)

// downloadClaims is the signed payload of a download token. The token
// grants access to exactly one will's generated document.
type downloadClaims struct {
	WillID    uuid.UUID `json:"will_id"`
	ExpiresAt int64     `json:"exp"`
}

// DownloadSigner issues and verifies short-lived JWS tokens that
// authorize downloading a single generated document
type DownloadSigner struct {
	key []byte
	ttl time.Duration
}

var timeNow = time.Now

// NewDownloadSigner creates a signer using the given HMAC key
func NewDownloadSigner(key string, ttl time.Duration) *DownloadSigner {
	return &DownloadSigner{key: []byte(key), ttl: ttl}
}

// Sign issues a download token for the will
func (s *DownloadSigner) Sign(willID uuid.UUID) (string, error) {
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: s.key}, nil)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(downloadClaims{
		WillID:    willID,
		ExpiresAt: timeNow().Add(s.ttl).Unix(),
	})
	if err != nil {
		return "", err
	}

	object, err := signer.Sign(payload)
	if err != nil {
		return "", err
	}
	return object.CompactSerialize()
}

// Verify checks the token signature and expiry and returns the will ID
// it was issued for
func (s *DownloadSigner) Verify(token string) (uuid.UUID, error) {
	object, err := jose.ParseSigned(token)
	if err != nil {
		return uuid.Nil, ErrInvalidDownloadToken
	}

	payload, err := object.Verify(s.key)
	if err != nil {
		return uuid.Nil, ErrInvalidDownloadToken
	}

	var claims downloadClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return uuid.Nil, ErrInvalidDownloadToken
	}
	if timeNow().Unix() > claims.ExpiresAt {
		return uuid.Nil, ErrExpiredDownloadToken
	}
	return claims.WillID, nil
}
