package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dukerupert/vigie"
)

// errorStatusCode maps domain error codes to HTTP status codes.
func errorStatusCode(code string) int {
	switch code {
	case vigie.ENOTFOUND:
		return http.StatusNotFound
	case vigie.EINVALID:
		return http.StatusBadRequest
	case vigie.ECONFLICT:
		return http.StatusConflict
	case vigie.EUNPROCESSABLE:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse represents the JSON error response format.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Reason  string            `json:"reason,omitempty"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// HandleError converts domain errors to appropriate HTTP responses.
// It logs internal errors and returns user-safe messages.
func HandleError(c echo.Context, logger *slog.Logger, err error) error {
	code := vigie.ErrorCode(err)
	reason := vigie.ErrorReason(err)
	message := vigie.ErrorMessage(err)
	fields := vigie.ErrorFields(err)
	status := errorStatusCode(code)

	// Log internal errors with full details
	if code == vigie.EINTERNAL {
		logger.Error("internal error",
			slog.String("error", err.Error()),
			slog.String("path", c.Path()),
			slog.String("method", c.Request().Method),
		)
		// Don't expose internal error details to clients
		message = "An internal error occurred."
	}

	// Partial-replace failures need support escalation; make them loud.
	if reason == vigie.ReasonReplaceIncomplete {
		logger.Error("replace left partial report state",
			slog.String("error", err.Error()),
			slog.String("path", c.Path()),
		)
	}

	return c.JSON(status, ErrorResponse{
		Error:   code,
		Reason:  reason,
		Message: message,
		Fields:  fields,
	})
}
