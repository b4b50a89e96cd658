package models

import (
	"time"

	"github.com/google/uuid"
)

// Devotee is a registered devotee, unique per (name, country_code, phone, nakshatra).
// All four business fields are stored in canonical form.
type Devotee struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	CountryCode string    `json:"country_code" db:"country_code"`
	Phone       string    `json:"phone" db:"phone"`
	Nakshatra   string    `json:"nakshatra" db:"nakshatra"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// DevoteeIdentity is the canonical four-field tuple used for duplicate detection.
type DevoteeIdentity struct {
	Name        string
	CountryCode string
	Phone       string
	Nakshatra   string
}

// CreateDevoteeRequest is the request for registering a single devotee.
// Fields arrive raw; the intake pipeline canonicalizes and validates them.
type CreateDevoteeRequest struct {
	Name        string `json:"name"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
	Nakshatra   string `json:"nakshatra"`
}

// DevoteeListResponse is the response for listing devotees
type DevoteeListResponse struct {
	Items      []Devotee `json:"items"`
	TotalCount int       `json:"total_count"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
}

// DeleteByNakshatraResponse reports an administrative delete-by-category
type DeleteByNakshatraResponse struct {
	Nakshatra string `json:"nakshatra"`
	Deleted   int    `json:"deleted"`
}

// ImportSummary is the aggregate outcome of one bulk import
type ImportSummary struct {
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
}
