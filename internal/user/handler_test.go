package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"servicepro/internal/httpx"
)

func TestRegisterMissingFields(t *testing.T) {
	// Validation rejects the request before the service is touched.
	h := NewHandler(nil)

	tests := []struct {
		name string
		body string
	}{
		{"missing password", `{"name":"Rahim","username":"rahim@example.com"}`},
		{"missing username", `{"name":"Rahim","password":"s3cret"}`},
		{"empty body", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Register(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp httpx.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			require.Equal(t, httpx.CodeBadRequest, resp.Error.Code)
		})
	}
}
