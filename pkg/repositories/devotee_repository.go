package repositories

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/Ramsey-B/tulsi/pkg/database"
	"github.com/Ramsey-B/tulsi/pkg/models"
	"github.com/Ramsey-B/tulsi/pkg/tracing"
)

const devoteesTable = "devotees"

var devoteeStruct = database.NewStruct(new(models.Devotee))

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// DevoteeRepository handles database operations for devotees
type DevoteeRepository struct {
	*Repository
}

// NewDevoteeRepository creates a new devotee repository
func NewDevoteeRepository(db database.DB, logger ectologger.Logger) *DevoteeRepository {
	return &DevoteeRepository{
		Repository: NewRepository(db, logger),
	}
}

// Create inserts a new devotee. Returns ErrDevoteeExists when the identity
// constraint fires, which callers treat as a duplicate verdict.
func (r *DevoteeRepository) Create(ctx context.Context, devotee *models.Devotee) (*models.Devotee, error) {
	ctx, span := tracing.StartSpan(ctx, "DevoteeRepository.Create")
	defer span.End()

	if devotee.ID == uuid.Nil {
		devotee.ID = uuid.New()
	}

	ib := database.NewInsertBuilder()
	ib.InsertInto(devoteesTable).
		Cols("id", "name", "country_code", "phone", "nakshatra", "created_at").
		Values(devotee.ID, devotee.Name, devotee.CountryCode, devotee.Phone, devotee.Nakshatra, sqlbuilder.Raw("NOW()")).
		Returning("created_at")

	query, args := ib.Build()
	err := r.DB().QueryRowContext(ctx, query, args...).Scan(&devotee.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDevoteeExists
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"devotee_id": devotee.ID,
		}).Error("failed to create devotee")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create devotee")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"devotee_id": devotee.ID,
		"nakshatra":  devotee.Nakshatra,
	}).Debugf("Created %s", devoteesTable)
	return devotee, nil
}

// GetByID retrieves a devotee by ID
func (r *DevoteeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Devotee, error) {
	ctx, span := tracing.StartSpan(ctx, "DevoteeRepository.GetByID")
	defer span.End()

	sb := devoteeStruct.SelectFrom(devoteesTable)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var devotee models.Devotee
	err := r.DB().GetContext(ctx, &devotee, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NotFound("devotee %s does not exist", id)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"devotee_id": id,
		}).Error("failed to get devotee by ID")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get devotee by ID")
	}

	return &devotee, nil
}

// List retrieves devotees newest-first, optionally filtered by canonical
// nakshatra. Returns the page plus the total count for the filter.
func (r *DevoteeRepository) List(ctx context.Context, nakshatra string, limit, offset int) ([]models.Devotee, int, error) {
	ctx, span := tracing.StartSpan(ctx, "DevoteeRepository.List")
	defer span.End()

	sb := devoteeStruct.SelectFrom(devoteesTable)
	if nakshatra != "" {
		sb.Where(sb.Equal("nakshatra", nakshatra))
	}
	sb.OrderBy("created_at").Desc()
	sb.Limit(limit).Offset(offset)

	query, args := sb.Build()
	var devotees []models.Devotee
	err := r.DB().SelectContext(ctx, &devotees, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"nakshatra": nakshatra,
		}).Error("failed to list devotees")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list devotees")
	}

	cb := database.NewSelectBuilder()
	cb.Select("COUNT(*)").From(devoteesTable)
	if nakshatra != "" {
		cb.Where(cb.Equal("nakshatra", nakshatra))
	}

	query, args = cb.Build()
	var total int
	err = r.DB().GetContext(ctx, &total, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to count devotees")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count devotees")
	}

	return devotees, total, nil
}

// Update replaces the four business fields of an existing devotee. Returns
// ErrDevoteeExists when the new identity collides with another record.
func (r *DevoteeRepository) Update(ctx context.Context, devotee *models.Devotee) error {
	ctx, span := tracing.StartSpan(ctx, "DevoteeRepository.Update")
	defer span.End()

	ub := database.NewUpdateBuilder()
	ub.Update(devoteesTable).
		Set(
			ub.Assign("name", devotee.Name),
			ub.Assign("country_code", devotee.CountryCode),
			ub.Assign("phone", devotee.Phone),
			ub.Assign("nakshatra", devotee.Nakshatra),
		).
		Where(ub.Equal("id", devotee.ID))
	ub.SQL("RETURNING created_at")

	query, args := ub.Build()
	err := r.DB().QueryRowContext(ctx, query, args...).Scan(&devotee.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return NotFound("devotee %s does not exist", devotee.ID)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDevoteeExists
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"devotee_id": devotee.ID,
		}).Error("failed to update devotee")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update devotee")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"devotee_id": devotee.ID,
	}).Debugf("Updated %s", devoteesTable)
	return nil
}

// Delete removes a devotee by ID
func (r *DevoteeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "DevoteeRepository.Delete")
	defer span.End()

	db := database.NewDeleteBuilder()
	db.DeleteFrom(devoteesTable).
		Where(db.Equal("id", id))

	query, args := db.Build()
	result, err := r.DB().ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"devotee_id": id,
		}).Error("failed to delete devotee")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete devotee")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"devotee_id": id,
		}).Error("failed to delete devotee")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete devotee")
	}
	if rows == 0 {
		return NotFound("devotee %s does not exist", id)
	}

	return nil
}

// DeleteByNakshatra removes every devotee registered under the given
// canonical nakshatra and returns the count removed.
func (r *DevoteeRepository) DeleteByNakshatra(ctx context.Context, nakshatra string) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "DevoteeRepository.DeleteByNakshatra")
	defer span.End()

	db := database.NewDeleteBuilder()
	db.DeleteFrom(devoteesTable).
		Where(db.Equal("nakshatra", nakshatra))

	query, args := db.Build()
	result, err := r.DB().ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"nakshatra": nakshatra,
		}).Error("failed to delete devotees by nakshatra")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete devotees by nakshatra")
	}

	rows, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"nakshatra": nakshatra,
		"count":     rows,
	}).Info("Deleted devotees by nakshatra")
	return rows, nil
}

// ExistsByIdentity reports whether a devotee with the exact canonical
// identity tuple exists. excludeID, when set, ignores that record so an
// update does not collide with itself.
func (r *DevoteeRepository) ExistsByIdentity(ctx context.Context, identity models.DevoteeIdentity, excludeID *uuid.UUID) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "DevoteeRepository.ExistsByIdentity")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("COUNT(*)").From(devoteesTable)
	sb.Where(
		sb.Equal("name", identity.Name),
		sb.Equal("country_code", identity.CountryCode),
		sb.Equal("phone", identity.Phone),
		sb.Equal("nakshatra", identity.Nakshatra),
	)
	if excludeID != nil {
		sb.Where(sb.NotEqual("id", *excludeID))
	}

	query, args := sb.Build()
	var count int
	err := r.DB().GetContext(ctx, &count, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"nakshatra": identity.Nakshatra,
		}).Error("failed to check devotee identity")
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to check devotee identity")
	}

	return count > 0, nil
}
