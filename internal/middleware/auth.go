package middleware

import (
	"context"
	"net/http"
	"strings"

	"servicepro/internal/httpx"
	"servicepro/internal/token"
)

type contextKey string

const claimsKey contextKey = "claims"

// TokenVerifier decouples the middleware from the token package's concrete
// service in tests.
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(v TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: v}
}

// Handle requires a valid bearer token and injects the decoded claims into
// the request context. Browsers cannot set headers on websocket upgrades, so
// a ?token= query parameter is accepted as a fallback.
func (am *AuthMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := ""

		authHeader := r.Header.Get("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			tokenString = r.URL.Query().Get("token")
		}

		if tokenString == "" {
			httpx.Error(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "No token provided")
			return
		}

		claims, err := am.verifier.Verify(tokenString)
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the claims injected by Handle, or nil.
func FromContext(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(claimsKey).(*token.Claims)
	return claims
}
