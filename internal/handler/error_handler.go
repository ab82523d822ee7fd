package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "taskflow/internal/errors"
)

// ErrorHandler renders every error as an ErrorResponse and logs it.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		appErr := toAppError(err)
		status := appErr.Status()
		req := c.Request()

		attrs := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"status", status,
			"code", appErr.Code,
		}
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(req.Context(), "request failed", append(attrs, "error", err)...)
		} else {
			logger.WarnContext(req.Context(), "request rejected", attrs...)
		}

		if req.Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, appErr.ToErrorResponse(req.URL.Path, time.Now()))
		}
		if err != nil {
			logger.Error("write error response", "error", err)
		}
	}
}

func toAppError(err error) *apperrors.AppError {
	if appErr, ok := apperrors.As(err); ok {
		return appErr
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		return apperrors.MapErrorToHTTP(err)
	}
	switch {
	case he.Code == http.StatusNotFound:
		return apperrors.NotFound(apperrors.CodeRouteNotFound, "Route not found")
	case he.Code == http.StatusMethodNotAllowed:
		return apperrors.MethodNotAllowed(apperrors.CodeMethodNotAllowed, "Method not allowed")
	case he.Code == http.StatusUnauthorized:
		return apperrors.Unauthorized(apperrors.CodeMissingToken, "Missing authentication token")
	case he.Code >= http.StatusInternalServerError:
		return apperrors.MapErrorToHTTP(err)
	default:
		return apperrors.BadRequest(apperrors.CodeInvalidRequest, http.StatusText(he.Code)).WithCause(err)
	}
}
