package errors

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// statusClientClosedRequest is the nginx-convention status for a
// client that went away mid-request; net/http has no constant for it.
const statusClientClosedRequest = 499

// Map converts repo/infra errors into an HTTP status code and a
// client-safe message. Keeps service and handler layers clean by
// centralizing the mapping.
func Map(err error) (int, string) {
	if err == nil {
		return http.StatusOK, ""
	}

	switch {
	case KindOf(err) == KindValidation:
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "record not found"

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"

	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, "request was canceled"

	case KindOf(err) == KindPersistence:
		return http.StatusServiceUnavailable, "storage unavailable, retry later"

	default:
		// fallback → bubble up error message for debugging
		return http.StatusInternalServerError, err.Error()
	}
}
