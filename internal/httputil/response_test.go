package httputil

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/cosecrets/cosecrets/internal/errors"
)

func testGinContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/secrets", nil)
	return c, recorder
}

func TestHandleErrorGin_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"NotFound", apperrors.ErrNotFound, http.StatusNotFound, "not_found"},
		{"Conflict", apperrors.ErrConflict, http.StatusConflict, "conflict"},
		{"InvalidInput", apperrors.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
		{"Unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"Forbidden", apperrors.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"Integrity", apperrors.ErrIntegrity, http.StatusInternalServerError, "internal_error"},
		{"Configuration", apperrors.ErrConfiguration, http.StatusInternalServerError, "internal_error"},
		{"Unknown", apperrors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, recorder := testGinContext()

			HandleErrorGin(c, tt.err, logger)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			var response ErrorResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
			assert.Equal(t, tt.wantCode, response.Error)
		})
	}
}

func TestHandleErrorGin_WrappedErrorsKeepMapping(t *testing.T) {
	c, recorder := testGinContext()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := apperrors.Wrap(apperrors.Wrap(apperrors.ErrNotFound, "secret not found"), "read secret")
	HandleErrorGin(c, err, logger)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHandleErrorGin_IntegrityNeverLeaksDetail(t *testing.T) {
	c, recorder := testGinContext()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := apperrors.Wrap(apperrors.ErrIntegrity, "ciphertext authentication failed for secret abc")
	HandleErrorGin(c, err, logger)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "ciphertext")
	assert.NotContains(t, recorder.Body.String(), "abc")
}

func TestHandleErrorGin_NilError(t *testing.T) {
	c, recorder := testGinContext()

	HandleErrorGin(c, nil, nil)
	assert.Empty(t, recorder.Body.String())
}

func TestHandleBadRequestGin(t *testing.T) {
	c, recorder := testGinContext()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	HandleBadRequestGin(c, apperrors.New("invalid uuid"), logger)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "bad_request", response.Error)
	assert.Equal(t, "invalid uuid", response.Message)
}
