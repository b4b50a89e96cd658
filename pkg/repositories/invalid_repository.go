package repositories

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/tulsi/pkg/database"
	"github.com/Ramsey-B/tulsi/pkg/models"
	"github.com/Ramsey-B/tulsi/pkg/tracing"
)

const invalidEntriesTable = "invalid_entries"

var invalidEntryStruct = database.NewStruct(new(models.InvalidEntry))

// InvalidEntryRepository handles the append-only invalid audit table
type InvalidEntryRepository struct {
	*Repository
}

// NewInvalidEntryRepository creates a new invalid entry repository
func NewInvalidEntryRepository(db database.DB, logger ectologger.Logger) *InvalidEntryRepository {
	return &InvalidEntryRepository{
		Repository: NewRepository(db, logger),
	}
}

// Insert appends an invalid audit record
func (r *InvalidEntryRepository) Insert(ctx context.Context, entry *models.InvalidEntry) error {
	ctx, span := tracing.StartSpan(ctx, "InvalidEntryRepository.Insert")
	defer span.End()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	ib := database.NewInsertBuilder()
	ib.InsertInto(invalidEntriesTable).
		Cols("id", "name", "country_code", "phone", "nakshatra", "reason", "created_at").
		Values(entry.ID, entry.Name, entry.CountryCode, entry.Phone, entry.Nakshatra, entry.Reason, sqlbuilder.Raw("NOW()")).
		Returning("created_at")

	query, args := ib.Build()
	err := r.DB().QueryRowContext(ctx, query, args...).Scan(&entry.CreatedAt)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to insert invalid entry")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to insert invalid entry")
	}

	return nil
}

// List retrieves invalid entries newest-first with the total count
func (r *InvalidEntryRepository) List(ctx context.Context, limit, offset int) ([]models.InvalidEntry, int, error) {
	ctx, span := tracing.StartSpan(ctx, "InvalidEntryRepository.List")
	defer span.End()

	sb := invalidEntryStruct.SelectFrom(invalidEntriesTable)
	sb.OrderBy("created_at").Desc()
	sb.Limit(limit).Offset(offset)

	query, args := sb.Build()
	var entries []models.InvalidEntry
	err := r.DB().SelectContext(ctx, &entries, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list invalid entries")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list invalid entries")
	}

	cb := database.NewSelectBuilder()
	cb.Select("COUNT(*)").From(invalidEntriesTable)

	query, args = cb.Build()
	var total int
	err = r.DB().GetContext(ctx, &total, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to count invalid entries")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count invalid entries")
	}

	return entries, total, nil
}

// Clear removes every invalid audit record
func (r *InvalidEntryRepository) Clear(ctx context.Context) error {
	ctx, span := tracing.StartSpan(ctx, "InvalidEntryRepository.Clear")
	defer span.End()

	db := database.NewDeleteBuilder()
	db.DeleteFrom(invalidEntriesTable)

	query, args := db.Build()
	result, err := r.DB().ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to clear invalid entries")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to clear invalid entries")
	}

	rows, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"count": rows,
	}).Info("Cleared invalid entries")
	return nil
}
