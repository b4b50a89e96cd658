package models

import (
	"time"

	"github.com/google/uuid"
)

// DuplicateEntry records a candidate that collided with an existing devotee.
// Append-only; cleared only by an explicit administrative delete.
type DuplicateEntry struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	CountryCode string    `json:"country_code" db:"country_code"`
	Phone       string    `json:"phone" db:"phone"`
	Nakshatra   string    `json:"nakshatra" db:"nakshatra"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// InvalidEntry records a candidate that failed canonicalization or category
// resolution. Fields are best-effort copies of whatever was parseable.
type InvalidEntry struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	CountryCode string    `json:"country_code" db:"country_code"`
	Phone       string    `json:"phone" db:"phone"`
	Nakshatra   string    `json:"nakshatra" db:"nakshatra"`
	Reason      string    `json:"reason" db:"reason"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// DuplicateEntryListResponse is the response for listing duplicate entries
type DuplicateEntryListResponse struct {
	Items      []DuplicateEntry `json:"items"`
	TotalCount int              `json:"total_count"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
}

// InvalidEntryListResponse is the response for listing invalid entries
type InvalidEntryListResponse struct {
	Items      []InvalidEntry `json:"items"`
	TotalCount int            `json:"total_count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
}
