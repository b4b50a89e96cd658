package repositories

import (
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/tulsi/pkg/database"
)

// ErrDevoteeExists is returned when an insert or update collides with the
// devotee uniqueness constraint on (name, country_code, phone, nakshatra).
// Callers translate it into a duplicate outcome rather than a failure.
var ErrDevoteeExists = httperror.NewHTTPError(http.StatusConflict, "devotee already exists")

// NotFound returns a 404 HTTP error with a descriptive message
func NotFound(format string, args ...any) error {
	return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf(format, args...))
}

// Repository provides the shared database handle and logger
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new base repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// DB returns the database instance
func (r *Repository) DB() database.DB {
	return r.db
}
