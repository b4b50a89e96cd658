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

const duplicateEntriesTable = "duplicate_entries"

var duplicateEntryStruct = database.NewStruct(new(models.DuplicateEntry))

// DuplicateEntryRepository handles the append-only duplicate audit table
type DuplicateEntryRepository struct {
	*Repository
}

// NewDuplicateEntryRepository creates a new duplicate entry repository
func NewDuplicateEntryRepository(db database.DB, logger ectologger.Logger) *DuplicateEntryRepository {
	return &DuplicateEntryRepository{
		Repository: NewRepository(db, logger),
	}
}

// Insert appends a duplicate audit record
func (r *DuplicateEntryRepository) Insert(ctx context.Context, entry *models.DuplicateEntry) error {
	ctx, span := tracing.StartSpan(ctx, "DuplicateEntryRepository.Insert")
	defer span.End()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	ib := database.NewInsertBuilder()
	ib.InsertInto(duplicateEntriesTable).
		Cols("id", "name", "country_code", "phone", "nakshatra", "created_at").
		Values(entry.ID, entry.Name, entry.CountryCode, entry.Phone, entry.Nakshatra, sqlbuilder.Raw("NOW()")).
		Returning("created_at")

	query, args := ib.Build()
	err := r.DB().QueryRowContext(ctx, query, args...).Scan(&entry.CreatedAt)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to insert duplicate entry")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to insert duplicate entry")
	}

	return nil
}

// List retrieves duplicate entries newest-first with the total count
func (r *DuplicateEntryRepository) List(ctx context.Context, limit, offset int) ([]models.DuplicateEntry, int, error) {
	ctx, span := tracing.StartSpan(ctx, "DuplicateEntryRepository.List")
	defer span.End()

	sb := duplicateEntryStruct.SelectFrom(duplicateEntriesTable)
	sb.OrderBy("created_at").Desc()
	sb.Limit(limit).Offset(offset)

	query, args := sb.Build()
	var entries []models.DuplicateEntry
	err := r.DB().SelectContext(ctx, &entries, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list duplicate entries")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list duplicate entries")
	}

	cb := database.NewSelectBuilder()
	cb.Select("COUNT(*)").From(duplicateEntriesTable)

	query, args = cb.Build()
	var total int
	err = r.DB().GetContext(ctx, &total, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to count duplicate entries")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count duplicate entries")
	}

	return entries, total, nil
}

// Clear removes every duplicate audit record
func (r *DuplicateEntryRepository) Clear(ctx context.Context) error {
	ctx, span := tracing.StartSpan(ctx, "DuplicateEntryRepository.Clear")
	defer span.End()

	db := database.NewDeleteBuilder()
	db.DeleteFrom(duplicateEntriesTable)

	query, args := db.Build()
	result, err := r.DB().ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to clear duplicate entries")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to clear duplicate entries")
	}

	rows, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"count": rows,
	}).Info("Cleared duplicate entries")
	return nil
}
