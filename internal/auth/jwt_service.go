package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultAccessTokenExpiry is the lifetime of minted access tokens when none is configured.
const DefaultAccessTokenExpiry = 15 * time.Minute

var (
	// ErrEmptySecret is returned when verification is attempted without a signing secret.
	ErrEmptySecret = errors.New("signing secret is empty")
	// ErrInvalidToken is returned when a parsed token is not valid.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the verified payload of a bearer token. Subject carries the user ID.
type Claims struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the subject as a user ID.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Verifier validates a bearer token against a signing secret.
type Verifier interface {
	Verify(token string, secret []byte) (*Claims, error)
}

// HS256Verifier verifies HMAC-SHA256 signed tokens. Expiry is mandatory.
type HS256Verifier struct {
	Issuer string
	Leeway time.Duration
}

// Ensure HS256Verifier implements Verifier.
var _ Verifier = HS256Verifier{}

// Verify checks signature, algorithm, expiry and subject and returns the claims.
func (v HS256Verifier) Verify(tokenString string, secret []byte) (*Claims, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.Leeway),
	}
	if v.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.Issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, fmt.Errorf("token subject: %w", err)
	}
	return claims, nil
}

// JWTService mints and validates access tokens with a single secret.
type JWTService struct {
	secret   []byte
	issuer   string
	expiry   time.Duration
	verifier HS256Verifier
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret, issuer string, expiry time.Duration) *JWTService {
	if expiry <= 0 {
		expiry = DefaultAccessTokenExpiry
	}
	return &JWTService{
		secret:   []byte(secret),
		issuer:   issuer,
		expiry:   expiry,
		verifier: HS256Verifier{Issuer: issuer},
	}
}

// Expiry returns the access token lifetime.
func (s *JWTService) Expiry() time.Duration {
	return s.expiry
}

// GenerateAccessToken generates a new access token for the user.
func (s *JWTService) GenerateAccessToken(userID uuid.UUID, username, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken validates a JWT token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	return s.verifier.Verify(tokenString, s.secret)
}
