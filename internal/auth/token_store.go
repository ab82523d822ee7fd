package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/cache"
)

const revokedUserKeyPrefix = "revoked:user:"

// RevocationChecker reports whether tokens issued to a user must be rejected.
type RevocationChecker interface {
	IsUserRevoked(ctx context.Context, userID uuid.UUID) (bool, error)
}

// TokenStore keeps user revocation markers in Redis.
// Markers live as long as an access token so every outstanding token is covered.
type TokenStore struct {
	cache *cache.Client
	ttl   time.Duration
}

// Ensure TokenStore implements RevocationChecker
var _ RevocationChecker = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client, ttl time.Duration) *TokenStore {
	if ttl <= 0 {
		ttl = DefaultAccessTokenExpiry
	}
	return &TokenStore{cache: cache, ttl: ttl}
}

// RevokeUser marks every token of the user as revoked.
func (s *TokenStore) RevokeUser(ctx context.Context, userID uuid.UUID) error {
	return s.cache.Set(ctx, revokedUserKeyPrefix+userID.String(), []byte("1"), s.ttl)
}

// IsUserRevoked checks the revocation marker. An unreachable store reports not revoked.
func (s *TokenStore) IsUserRevoked(ctx context.Context, userID uuid.UUID) (bool, error) {
	data, err := s.cache.Get(ctx, revokedUserKeyPrefix+userID.String())
	if err != nil {
		return false, nil
	}
	return data != nil, nil
}
