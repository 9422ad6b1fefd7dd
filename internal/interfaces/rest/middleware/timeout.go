package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/giftwell/fulfillment-service/internal/interfaces/rest"
)

// Timeout bounds request handling and answers with the service's JSON error
// envelope once the deadline passes.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	body, _ := json.Marshal(rest.ErrorResponse{
		Error: rest.ErrorDetail{
			Code:    "TIMEOUT",
			Message: "request timed out",
		},
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			http.TimeoutHandler(next, timeout, string(body)).ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
