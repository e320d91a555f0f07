package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicepro/internal/httpx"
)

// The counter guard lives in the store (conditional $inc); what the API
// promises is the error surface: a counter at zero is a 400 and stays at
// zero, a missing document is a 404, and the two are never conflated.
func TestWriteErrMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"invalid id", ErrInvalidID, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid ID format"},
		{"decrement at zero", ErrAtZero, http.StatusBadRequest, httpx.CodeBadRequest, "Count cannot be negative"},
		{"missing document", ErrNotFound, http.StatusNotFound, httpx.CodeNotFound, "Item not found"},
		{"storage failure", errors.New("socket closed"), http.StatusInternalServerError, httpx.CodeInternal, "Failed to decrement count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeErr(rec, tt.err, "Failed to decrement count")

			require.Equal(t, tt.wantStatus, rec.Code)

			var resp httpx.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
		})
	}
}
