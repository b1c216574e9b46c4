package user

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// AuthToken is an opaque bearer token mapping a token key to a user.
type AuthToken struct {
	Key       string
	UserID    uuid.UUID
	CreatedAt time.Time
}

// NewAuthToken issues a fresh opaque token for the given user. The key
// is 40 hex characters from a cryptographic source.
func NewAuthToken(userID uuid.UUID) (*AuthToken, error) {
	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	return &AuthToken{
		Key:       hex.EncodeToString(raw),
		UserID:    userID,
		CreatedAt: time.Now(),
	}, nil
}
