package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/tulsi/pkg/middleware"
)

func getTestLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestErrorHandlerHTTPError(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = middleware.Error(getTestLogger())
	e.Use(middleware.Context())
	e.GET("/boom", func(c echo.Context) error {
		return httperror.NewHTTPError(http.StatusConflict, "devotee already exists")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)

	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "devotee already exists", resp.Message)
	assert.Equal(t, "req-123", resp.RequestID)
}

func TestErrorHandlerEchoError(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = middleware.Error(getTestLogger())
	e.Use(middleware.Context())
	e.GET("/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	})

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not found", resp.Message)
	assert.NotEmpty(t, resp.RequestID)
}

func TestErrorHandlerUnknownError(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = middleware.Error(getTestLogger())
	e.GET("/oops", func(c echo.Context) error {
		return assert.AnError
	})

	req := httptest.NewRequest(http.MethodGet, "/oops", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Internal Server Error", resp.Message)
}
