package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "github.com/Ramsey-B/tulsi/pkg/context"
	"github.com/Ramsey-B/tulsi/pkg/middleware"
)

func TestContextMiddlewareEnrichesRequest(t *testing.T) {
	e := echo.New()
	e.Use(middleware.Context())

	var requestID, method, route, remoteIP, userID string
	e.GET("/devotees", func(c echo.Context) error {
		ctx := c.Request().Context()
		requestID = appctx.GetRequestID(ctx)
		method = appctx.GetMethod(ctx)
		route = appctx.GetRoute(ctx)
		remoteIP = appctx.GetRemoteIP(ctx)
		userID = appctx.GetUserID(ctx)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/devotees", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-456")
	req.Header.Set(middleware.HeaderUserID, "operator-7")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-456", requestID)
	assert.Equal(t, http.MethodGet, method)
	assert.Equal(t, "/devotees", route)
	assert.NotEmpty(t, remoteIP)
	assert.Equal(t, "operator-7", userID)
}

func TestContextMiddlewareGeneratesRequestID(t *testing.T) {
	e := echo.New()
	e.Use(middleware.Context())

	var requestID string
	e.GET("/", func(c echo.Context) error {
		requestID = appctx.GetRequestID(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.NotEmpty(t, requestID)
}
