package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signClaims(t *testing.T, method jwt.SigningMethod, claims jwt.Claims, key interface{}) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService(testSecret, "taskflow", time.Minute)
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(userID, "alice", "alice@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "taskflow", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestNewJWTService_DefaultExpiry(t *testing.T) {
	svc := NewJWTService(testSecret, "", 0)
	assert.Equal(t, DefaultAccessTokenExpiry, svc.Expiry())
}

func TestHS256Verifier_Verify(t *testing.T) {
	userID := uuid.New()
	valid := func() *Claims {
		return &Claims{
			Username: "alice",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   userID.String(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
	}

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		secret  []byte
		wantErr bool
	}{
		{
			name: "valid token",
			token: func(t *testing.T) string {
				return signClaims(t, jwt.SigningMethodHS256, valid(), []byte(testSecret))
			},
			secret: []byte(testSecret),
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				return signClaims(t, jwt.SigningMethodHS256, valid(), []byte("other"))
			},
			secret:  []byte(testSecret),
			wantErr: true,
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				c := valid()
				c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
				return signClaims(t, jwt.SigningMethodHS256, c, []byte(testSecret))
			},
			secret:  []byte(testSecret),
			wantErr: true,
		},
		{
			name: "missing expiry",
			token: func(t *testing.T) string {
				c := valid()
				c.ExpiresAt = nil
				return signClaims(t, jwt.SigningMethodHS256, c, []byte(testSecret))
			},
			secret:  []byte(testSecret),
			wantErr: true,
		},
		{
			name: "other hmac algorithm",
			token: func(t *testing.T) string {
				return signClaims(t, jwt.SigningMethodHS512, valid(), []byte(testSecret))
			},
			secret:  []byte(testSecret),
			wantErr: true,
		},
		{
			name: "subject is not a user id",
			token: func(t *testing.T) string {
				c := valid()
				c.Subject = "alice"
				return signClaims(t, jwt.SigningMethodHS256, c, []byte(testSecret))
			},
			secret:  []byte(testSecret),
			wantErr: true,
		},
		{
			name: "garbage",
			token: func(t *testing.T) string {
				return "not-a-jwt"
			},
			secret:  []byte(testSecret),
			wantErr: true,
		},
		{
			name: "empty secret",
			token: func(t *testing.T) string {
				return signClaims(t, jwt.SigningMethodHS256, valid(), []byte(testSecret))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := HS256Verifier{}.Verify(tt.token(t), tt.secret)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID.String(), claims.Subject)
		})
	}
}

func TestHS256Verifier_Issuer(t *testing.T) {
	svc := NewJWTService(testSecret, "someone-else", time.Minute)
	token, err := svc.GenerateAccessToken(uuid.New(), "alice", "alice@example.com")
	require.NoError(t, err)

	_, err = HS256Verifier{Issuer: "taskflow"}.Verify(token, []byte(testSecret))
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}
