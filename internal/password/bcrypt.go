// Package password provides one-way password hashing.
package password

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is used when no cost is configured.
const DefaultCost = 10

// Hasher turns a plaintext password into a storable hash.
type Hasher interface {
	Hash(plaintext string) (string, error)
}

// BcryptHasher implements Hasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// Ensure BcryptHasher implements Hasher.
var _ Hasher = (*BcryptHasher)(nil)

// NewBcryptHasher creates a bcrypt hasher. Out of range costs are clamped.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash creates a bcrypt hash from a password.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Cost returns the effective bcrypt cost.
func (h *BcryptHasher) Cost() int {
	return h.cost
}
