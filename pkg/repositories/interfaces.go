package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/Ramsey-B/tulsi/pkg/models"
)

// DevoteeRepo defines the interface for devotee repository operations
type DevoteeRepo interface {
	Create(ctx context.Context, devotee *models.Devotee) (*models.Devotee, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Devotee, error)
	List(ctx context.Context, nakshatra string, limit, offset int) ([]models.Devotee, int, error)
	Update(ctx context.Context, devotee *models.Devotee) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByNakshatra(ctx context.Context, nakshatra string) (int64, error)
	ExistsByIdentity(ctx context.Context, identity models.DevoteeIdentity, excludeID *uuid.UUID) (bool, error)
}

// DuplicateEntryRepo defines the interface for duplicate audit operations
type DuplicateEntryRepo interface {
	Insert(ctx context.Context, entry *models.DuplicateEntry) error
	List(ctx context.Context, limit, offset int) ([]models.DuplicateEntry, int, error)
	Clear(ctx context.Context) error
}

// InvalidEntryRepo defines the interface for invalid audit operations
type InvalidEntryRepo interface {
	Insert(ctx context.Context, entry *models.InvalidEntry) error
	List(ctx context.Context, limit, offset int) ([]models.InvalidEntry, int, error)
	Clear(ctx context.Context) error
}
