package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/tulsi/pkg/events"
	"github.com/Ramsey-B/tulsi/pkg/importer"
)

// ImportHandler handles bulk roster uploads
type ImportHandler struct {
	importer *importer.Importer
	emitter  events.Emitter
}

// NewImportHandler creates a new import handler
func NewImportHandler(imp *importer.Importer, emitter events.Emitter) *ImportHandler {
	return &ImportHandler{
		importer: imp,
		emitter:  emitter,
	}
}

// RegisterRoutes registers the import routes
func (h *ImportHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/devotees/import", h.Import)
}

// Import handles POST /devotees/import. Expects a multipart form with the
// roster under the "file" field.
func (h *ImportHandler) Import(c echo.Context) error {
	ctx := c.Request().Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return BadRequest("missing file upload")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return BadRequest("failed to read file upload")
	}
	defer file.Close()

	summary, err := h.importer.Import(ctx, fileHeader.Filename, file)
	if err != nil {
		return err
	}

	h.emitter.ImportCompleted(ctx, fileHeader.Filename, summary)
	return SuccessResponse(c, summary)
}
