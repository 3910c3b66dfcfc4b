package dto

import (
	"errors"
	"net/http"

	"github.com/shopmetrics/backend/internal/domain/shared"
)

// statusByCode maps domain error codes onto HTTP statuses. Codes not listed
// here fall back to 400: a DomainError is by construction a caller problem,
// not a server fault.
var statusByCode = map[string]int{
	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"DOMAIN_TAKEN":         http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"SYNC_IN_PROGRESS":     http.StatusConflict,
	"UNAUTHORIZED":         http.StatusUnauthorized,
	"INVALID_CREDENTIALS":  http.StatusUnauthorized,
	"WEBHOOK_UNAUTHORIZED": http.StatusUnauthorized,
	"USER_INACTIVE":        http.StatusForbidden,
	"FORBIDDEN":            http.StatusForbidden,
	"STORE_NOT_CONNECTED":  http.StatusUnprocessableEntity,
	"INVALID_STATE":        http.StatusUnprocessableEntity,
}

// MapError converts any error into an HTTP status and a response envelope.
// Domain errors carry their own code and message; everything else is
// reported as an opaque internal error so repository and driver details
// never leak to clients.
func MapError(err error) (int, Response) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status, ok := statusByCode[domainErr.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		return status, NewErrorResponse(domainErr.Code, domainErr.Message)
	}

	return http.StatusInternalServerError, NewErrorResponse("INTERNAL_ERROR", "An internal error occurred")
}
