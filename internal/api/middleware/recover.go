package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/phrazzld/taskhub/internal/api/shared"
)

// Recoverer converts a panic in a downstream handler into a 500 error
// envelope. The panic value and stack are redacted and logged.
// http.ErrAbortHandler is re-raised so net/http can abort the response.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			err := fmt.Errorf("panic: %v\n%s", rvr, debug.Stack())
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				"an unexpected error occurred", err)
		}()

		next.ServeHTTP(w, r)
	})
}
