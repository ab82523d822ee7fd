package auth

import (
	"errors"
	"log/slog"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	apperrors "taskflow/internal/errors"
)

// ErrTokenRevoked is returned when the token subject has been revoked.
var ErrTokenRevoked = errors.New("token revoked")

// GuardConfig wires the authentication guard.
type GuardConfig struct {
	Verifier Verifier
	Secret   []byte
	// Revocations is optional; nil disables the revocation check.
	Revocations RevocationChecker
	Logger      *slog.Logger
	Skipper     middleware.Skipper
}

// verifyError marks failures that happened after a token was extracted.
type verifyError struct {
	err error
}

func (e *verifyError) Error() string { return e.err.Error() }
func (e *verifyError) Unwrap() error { return e.err }

// Guard returns middleware admitting only requests with a valid bearer token.
// Verified claims are stored under ContextKey and on the request context.
func Guard(cfg GuardConfig) echo.MiddlewareFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	skipper := cfg.Skipper
	if skipper == nil {
		skipper = middleware.DefaultSkipper
	}

	return echojwt.WithConfig(echojwt.Config{
		Skipper:     skipper,
		ContextKey:  ContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := cfg.Verifier.Verify(token, cfg.Secret)
			if err != nil {
				return nil, &verifyError{err: err}
			}
			if cfg.Revocations != nil {
				userID, _ := claims.UserID()
				revoked, err := cfg.Revocations.IsUserRevoked(c.Request().Context(), userID)
				if err == nil && revoked {
					return nil, &verifyError{err: ErrTokenRevoked}
				}
			}
			return claims, nil
		},
		SuccessHandler: func(c echo.Context) {
			claims, ok := ClaimsFromEcho(c)
			if !ok {
				return
			}
			req := c.Request()
			c.SetRequest(req.WithContext(WithClaims(req.Context(), claims)))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			req := c.Request()
			var verr *verifyError
			if errors.As(err, &verr) {
				logger.Warn("bearer token rejected",
					"method", req.Method,
					"path", req.URL.Path,
					"error", verr.err)
				return apperrors.Unauthorized(apperrors.CodeInvalidToken, "Invalid or expired token")
			}
			logger.Warn("no bearer token in request",
				"method", req.Method,
				"path", req.URL.Path)
			return apperrors.Unauthorized(apperrors.CodeMissingToken, "Missing authentication token").
				WithSuggestion("Send an Authorization: Bearer <token> header")
		},
	})
}
