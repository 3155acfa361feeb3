package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/taskhub/internal/api/shared"
	"github.com/phrazzld/taskhub/internal/domain"
	"github.com/phrazzld/taskhub/internal/store"
)

// genericErrorMessage is sent to clients for any failure they cannot act on.
const genericErrorMessage = "an unexpected error occurred"

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients. Duplicate IDs are generated server-side, so they are
// server errors.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err. Validation
// messages are safe by construction and are returned as is; everything else
// maps to a fixed message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return genericErrorMessage
	}

	var valErr *domain.ValidationError
	switch {
	case errors.As(err, &valErr):
		return valErr.Error()

	case errors.Is(err, store.ErrInvalidEntity):
		return "invalid task data"

	default:
		return genericErrorMessage
	}
}

// HandleAPIError writes the envelope for err and logs it. Client errors get
// their safe message; server errors get fallbackMsg (or the generic message
// when fallbackMsg is empty) while the redacted detail goes to the log.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMsg string) {
	status := MapErrorToStatusCode(err)

	message := GetSafeErrorMessage(err)
	if status >= http.StatusInternalServerError {
		message = fallbackMsg
		if message == "" {
			message = genericErrorMessage
		}
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
