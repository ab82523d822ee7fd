package handler

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "taskflow/internal/errors"
)

// bindBody decodes a JSON request body into dst. Unknown fields are rejected.
// Path and query values never leak into inputs. An empty body leaves dst untouched.
func bindBody(c echo.Context, dst interface{}) error {
	req := c.Request()
	if req.Body == nil || req.ContentLength == 0 {
		return nil
	}
	if ct := req.Header.Get(echo.HeaderContentType); !strings.HasPrefix(ct, echo.MIMEApplicationJSON) {
		return apperrors.BadRequest(apperrors.CodeInvalidRequest, "Request body must be JSON").
			WithSuggestion("Send the body with Content-Type: application/json")
	}

	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperrors.BadRequest(apperrors.CodeInvalidRequest, "Invalid request body").WithCause(err)
	}
	return nil
}

// pathUUID parses a required UUID path parameter.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	return parseUUID(name, c.Param(name))
}

// queryUUID parses an optional UUID query parameter. Absent means uuid.Nil.
func queryUUID(c echo.Context, name string) (uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return uuid.Nil, nil
	}
	return parseUUID(name, raw)
}

func parseUUID(name, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.BadRequest(apperrors.CodeInvalidUUID, "invalid "+name).
			WithFields(map[string]string{name: "must be a valid UUID"})
	}
	return id, nil
}
