package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"servicepro/internal/token"
)

type fakeVerifier struct {
	claims *token.Claims
	err    error
	seen   string
}

func (f *fakeVerifier) Verify(tokenString string) (*token.Claims, error) {
	f.seen = tokenString
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func protected(v TokenVerifier) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return NewAuthMiddleware(v).Handle(next)
}

func TestMissingToken(t *testing.T) {
	h := protected(&fakeVerifier{})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInvalidToken(t *testing.T) {
	h := protected(&fakeVerifier{err: token.ErrInvalid})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestValidBearerToken(t *testing.T) {
	v := &fakeVerifier{claims: &token.Claims{UserID: "u42", Username: "a@b.c"}}

	var got *token.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := NewAuthMiddleware(v).Handle(next)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer tok-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "tok-123", v.seen)
	require.NotNil(t, got)
	require.Equal(t, "u42", got.UserID)
}

func TestQueryParamFallback(t *testing.T) {
	v := &fakeVerifier{claims: &token.Claims{UserID: "u42"}}

	h := protected(v)

	req := httptest.NewRequest(http.MethodGet, "/ws?token=tok-ws", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "tok-ws", v.seen)
}
