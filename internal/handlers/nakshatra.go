package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/tulsi/pkg/nakshatra"
)

// NakshatraHandler exposes the controlled vocabulary
type NakshatraHandler struct{}

// NewNakshatraHandler creates a new nakshatra handler
func NewNakshatraHandler() *NakshatraHandler {
	return &NakshatraHandler{}
}

// NakshatraListResponse lists the canonical nakshatra names
type NakshatraListResponse struct {
	Items []string `json:"items"`
	Count int      `json:"count"`
}

// ResolveResponse reports the canonical form of a free-form label
type ResolveResponse struct {
	Label     string `json:"label"`
	Nakshatra string `json:"nakshatra"`
}

// RegisterRoutes registers the nakshatra routes
func (h *NakshatraHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/nakshatras", h.List)
	g.GET("/nakshatras/resolve", h.Resolve)
}

// List handles GET /nakshatras
func (h *NakshatraHandler) List(c echo.Context) error {
	names := nakshatra.All()
	return SuccessResponse(c, NakshatraListResponse{
		Items: names,
		Count: len(names),
	})
}

// Resolve handles GET /nakshatras/resolve?label=... so operators can check
// how a spelling will be interpreted before importing a roster.
func (h *NakshatraHandler) Resolve(c echo.Context) error {
	label := c.QueryParam("label")
	if label == "" {
		return BadRequest("label query parameter is required")
	}

	canonical, ok := nakshatra.Resolve(label)
	if !ok {
		return NotFound("no nakshatra matches label: " + label)
	}

	return SuccessResponse(c, ResolveResponse{
		Label:     label,
		Nakshatra: canonical,
	})
}
