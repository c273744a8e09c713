package devauth

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/storagegate/devauth/core"
)

func TestDefaultErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "bad URL",
			err:        core.ErrBadURL,
			wantStatus: http.StatusPreconditionFailed,
			wantBody:   "Bad URL",
		},
		{
			name:       "missing token",
			err:        core.ErrMissingToken,
			wantStatus: http.StatusPreconditionFailed,
			wantBody:   "Missing Auth Token",
		},
		{
			name:       "wrapped bad request",
			err:        fmt.Errorf("gate: %w", core.ErrMissingToken),
			wantStatus: http.StatusPreconditionFailed,
			wantBody:   "Missing Auth Token",
		},
		{
			name:       "unauthorized",
			err:        core.ErrUnauthorized,
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Unauthorized",
		},
		{
			name:       "anything else",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Something went wrong while checking the auth token.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			DefaultErrorHandler(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantBody, rec.Body.String())
			assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Equal(t, tc.wantStatus, StatusCode(tc.err))
		})
	}

	assert.Equal(t, http.StatusOK, StatusCode(nil))
}
