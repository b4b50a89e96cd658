package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListNakshatras(t *testing.T) {
	h := NewNakshatraHandler()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nakshatras", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.List(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp NakshatraListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 27, resp.Count)
	assert.Equal(t, "ASWATHY", resp.Items[0])
}

func TestResolveNakshatra(t *testing.T) {
	h := NewNakshatraHandler()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nakshatras/resolve?label=Ashwathy", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Resolve(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ResolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ASWATHY", resp.Nakshatra)
}

func TestResolveNakshatraNoMatch(t *testing.T) {
	h := NewNakshatraHandler()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nakshatras/resolve?label=gibberish", nil)
	rec := httptest.NewRecorder()
	err := h.Resolve(e.NewContext(req, rec))

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}

func TestResolveNakshatraMissingLabel(t *testing.T) {
	h := NewNakshatraHandler()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nakshatras/resolve", nil)
	rec := httptest.NewRecorder()
	err := h.Resolve(e.NewContext(req, rec))

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
}
