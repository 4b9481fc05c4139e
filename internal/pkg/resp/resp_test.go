package resp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomrelay/internal/pkg/errs"
	"roomrelay/internal/pkg/logx"
)

func respondError(t *testing.T, err error) (*httptest.ResponseRecorder, JSONResponse) {
	t.Helper()
	logx.SetOutput(io.Discard)

	rec := httptest.NewRecorder()
	RespondError(rec, httptest.NewRequest(http.MethodGet, "/api/rooms/x", nil), err)

	var body JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    int
		message string
	}{
		{
			name:    "custom error",
			err:     errs.NewError(errs.ErrRoomNotFound),
			status:  http.StatusNotFound,
			code:    errs.ErrRoomNotFound,
			message: "Room not found.",
		},
		{
			name:    "wrapped custom error",
			err:     fmt.Errorf("lookup: %w", errs.NewError(errs.ErrRoomNotFound)),
			status:  http.StatusNotFound,
			code:    errs.ErrRoomNotFound,
			message: "Room not found.",
		},
		{
			name:   "plain error",
			err:    errors.New("disk on fire"),
			status: http.StatusInternalServerError,
			code:   errs.ErrUnknown,
		},
		{
			name:   "nil",
			err:    nil,
			status: http.StatusInternalServerError,
			code:   errs.ErrUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := respondError(t, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, body.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, body.Message)
			}
			assert.NotContains(t, rec.Body.String(), "disk on fire")
		})
	}
}

func TestRespondSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondSuccess(rec, httptest.NewRequest(http.MethodGet, "/health", nil), map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.JSONEq(t, `{"code":0,"message":"success","data":{"status":"ok"}}`, rec.Body.String())
}
