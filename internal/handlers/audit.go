package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/tulsi/pkg/models"
	"github.com/Ramsey-B/tulsi/pkg/repositories"
)

// AuditHandler exposes the duplicate and invalid audit tables
type AuditHandler struct {
	duplicates repositories.DuplicateEntryRepo
	invalids   repositories.InvalidEntryRepo
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(duplicates repositories.DuplicateEntryRepo, invalids repositories.InvalidEntryRepo) *AuditHandler {
	return &AuditHandler{
		duplicates: duplicates,
		invalids:   invalids,
	}
}

// RegisterRoutes registers the audit routes
func (h *AuditHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/duplicates", h.ListDuplicates)
	g.DELETE("/duplicates", h.ClearDuplicates)
	g.GET("/invalids", h.ListInvalids)
	g.DELETE("/invalids", h.ClearInvalids)
}

// ListDuplicates handles GET /duplicates
func (h *AuditHandler) ListDuplicates(c echo.Context) error {
	ctx := c.Request().Context()

	page, pageSize, limit, offset := ParsePagination(c)
	entries, total, err := h.duplicates.List(ctx, limit, offset)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []models.DuplicateEntry{}
	}

	return SuccessResponse(c, models.DuplicateEntryListResponse{
		Items:      entries,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	})
}

// ClearDuplicates handles DELETE /duplicates
func (h *AuditHandler) ClearDuplicates(c echo.Context) error {
	if err := h.duplicates.Clear(c.Request().Context()); err != nil {
		return err
	}
	return NoContentResponse(c)
}

// ListInvalids handles GET /invalids
func (h *AuditHandler) ListInvalids(c echo.Context) error {
	ctx := c.Request().Context()

	page, pageSize, limit, offset := ParsePagination(c)
	entries, total, err := h.invalids.List(ctx, limit, offset)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []models.InvalidEntry{}
	}

	return SuccessResponse(c, models.InvalidEntryListResponse{
		Items:      entries,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	})
}

// ClearInvalids handles DELETE /invalids
func (h *AuditHandler) ClearInvalids(c echo.Context) error {
	if err := h.invalids.Clear(c.Request().Context()); err != nil {
		return err
	}
	return NoContentResponse(c)
}
