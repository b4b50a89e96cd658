package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/tulsi/pkg/events"
	"github.com/Ramsey-B/tulsi/pkg/intake"
	"github.com/Ramsey-B/tulsi/pkg/models"
	"github.com/Ramsey-B/tulsi/pkg/nakshatra"
	"github.com/Ramsey-B/tulsi/pkg/repositories"
)

// DevoteeHandler handles devotee registration and administration requests
type DevoteeHandler struct {
	pipeline *intake.Pipeline
	repo     repositories.DevoteeRepo
	emitter  events.Emitter
}

// NewDevoteeHandler creates a new devotee handler
func NewDevoteeHandler(pipeline *intake.Pipeline, repo repositories.DevoteeRepo, emitter events.Emitter) *DevoteeHandler {
	return &DevoteeHandler{
		pipeline: pipeline,
		repo:     repo,
		emitter:  emitter,
	}
}

// ValidationErrorResponse names every field that failed canonicalization so
// the caller can correct the source data.
type ValidationErrorResponse struct {
	Error  string              `json:"error"`
	Fields []intake.FieldError `json:"fields"`
}

// RegisterRoutes registers the devotee routes
func (h *DevoteeHandler) RegisterRoutes(g *echo.Group) {
	devotees := g.Group("/devotees")
	devotees.POST("", h.Create)
	devotees.GET("", h.List)
	devotees.GET("/:id", h.Get)
	devotees.PUT("/:id", h.Update)
	devotees.DELETE("/:id", h.Delete)
	devotees.DELETE("/nakshatra/:name", h.DeleteByNakshatra)
}

// Create handles POST /devotees
func (h *DevoteeHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.CreateDevoteeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}

	result, err := h.pipeline.Process(ctx, "api", intake.Candidate{
		Name:        req.Name,
		CountryCode: req.CountryCode,
		Phone:       req.Phone,
		Nakshatra:   req.Nakshatra,
	})
	if err != nil {
		return err
	}

	switch result.Outcome {
	case intake.OutcomeRejected:
		return c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "FIELD_INVALID",
			Fields: result.FieldErrors,
		})
	case intake.OutcomeDuplicate:
		return repositories.ErrDevoteeExists
	}

	h.emitter.DevoteeCreated(ctx, result.Devotee)
	return CreatedResponse(c, result.Devotee)
}

// List handles GET /devotees
func (h *DevoteeHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	filter := ""
	if label := c.QueryParam("nakshatra"); label != "" {
		canonical, ok := nakshatra.Resolve(label)
		if !ok {
			return BadRequest("unknown nakshatra: " + label)
		}
		filter = canonical
	}

	page, pageSize, limit, offset := ParsePagination(c)
	devotees, total, err := h.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return err
	}
	if devotees == nil {
		devotees = []models.Devotee{}
	}

	return SuccessResponse(c, models.DevoteeListResponse{
		Items:      devotees,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	})
}

// Get handles GET /devotees/:id
func (h *DevoteeHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	devotee, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return SuccessResponse(c, devotee)
}

// Update handles PUT /devotees/:id. The replacement fields are revalidated
// exactly like a new registration, excluding the record itself from the
// duplicate check.
func (h *DevoteeHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	existing, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	var req models.CreateDevoteeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}

	fields, fieldErrs, err := h.pipeline.Validate(ctx, intake.Candidate{
		Name:        req.Name,
		CountryCode: req.CountryCode,
		Phone:       req.Phone,
		Nakshatra:   req.Nakshatra,
	}, &id)
	if err != nil {
		return err
	}
	if len(fieldErrs) > 0 {
		return c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "FIELD_INVALID",
			Fields: fieldErrs,
		})
	}

	existing.Name = fields.Name
	existing.CountryCode = fields.CountryCode
	existing.Phone = fields.Phone
	existing.Nakshatra = fields.Nakshatra

	if err := h.repo.Update(ctx, existing); err != nil {
		return err
	}

	h.emitter.DevoteeUpdated(ctx, existing)
	return SuccessResponse(c, existing)
}

// Delete handles DELETE /devotees/:id
func (h *DevoteeHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := ParseUUID(c, "id")
	if err != nil {
		return err
	}

	devotee, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		return err
	}

	h.emitter.DevoteeDeleted(ctx, devotee)
	return NoContentResponse(c)
}

// DeleteByNakshatra handles DELETE /devotees/nakshatra/:name. The label goes
// through the same resolution as intake before it is used as a key.
func (h *DevoteeHandler) DeleteByNakshatra(c echo.Context) error {
	ctx := c.Request().Context()

	label := c.Param("name")
	canonical, ok := nakshatra.Resolve(label)
	if !ok {
		return NotFound("unknown nakshatra: " + label)
	}

	deleted, err := h.repo.DeleteByNakshatra(ctx, canonical)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return NotFound("no devotees found for nakshatra " + canonical)
	}

	h.emitter.DevoteesPurged(ctx, canonical, deleted)
	return SuccessResponse(c, models.DeleteByNakshatraResponse{
		Nakshatra: canonical,
		Deleted:   int(deleted),
	})
}
