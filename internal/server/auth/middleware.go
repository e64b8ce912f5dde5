package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/avolkov/qrforge/internal/common"
)

type ctxKey string

const clientIDKey ctxKey = "clientID"

// ClientID returns the identifier the middleware stored for this request,
// or "" when the request was not authenticated.
func ClientID(ctx context.Context) string {
	id, _ := ctx.Value(clientIDKey).(string)
	return id
}

// Middleware rejects requests without a valid "Authorization: Bearer" token
// and stores the token's client ID in the request context. A nil or empty
// secret disables the check entirely.
func Middleware(secretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(secretKey) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, common.ErrUnauthorized.Error(), http.StatusUnauthorized)
				return
			}

			clientID, err := ClientIDFromToken(token, secretKey)
			if err != nil {
				http.Error(w, common.ErrInvalidToken.Error(), http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), clientIDKey, clientID)))
		})
	}
}
