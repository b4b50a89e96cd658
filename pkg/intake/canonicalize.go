// Package intake implements the validation pipeline every devotee candidate
// passes through before persistence, regardless of source: canonicalize the
// raw fields, resolve the birth star against the controlled vocabulary, then
// check for duplicates. Each candidate resolves to exactly one outcome with
// exactly one side effect.
package intake

import (
	"fmt"
	"strings"

	"github.com/Ramsey-B/tulsi/pkg/normalizers"
)

// Field rejection reasons. These are stable strings surfaced in API error
// payloads and invalid-entry audit records.
const (
	ReasonEmpty      = "EMPTY"
	ReasonNonNumeric = "NON_NUMERIC"
	ReasonTooShort   = "TOO_SHORT"
	ReasonNoMatch    = "NO_MATCH"
)

const minPhoneDigits = 7

// FieldError describes a single canonicalization failure.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// CanonicalFields holds the cleaned field values. Nakshatra is still the raw
// label at this stage; resolution happens in the pipeline.
type CanonicalFields struct {
	Name        string
	CountryCode string
	Phone       string
	Nakshatra   string
}

// Canonicalizer cleans and validates raw candidate fields. All fields are
// checked so a rejected candidate reports every failure, not just the first.
type Canonicalizer struct {
	countryCodeRequired bool
}

// NewCanonicalizer returns a canonicalizer. countryCodeRequired controls
// whether an empty country code is a rejection, which varies by deployment.
func NewCanonicalizer(countryCodeRequired bool) *Canonicalizer {
	return &Canonicalizer{countryCodeRequired: countryCodeRequired}
}

// Canonicalize validates and cleans the raw fields. On failure the returned
// slice holds one entry per failing field in a stable order.
func (c *Canonicalizer) Canonicalize(name, countryCode, phone, star string) (CanonicalFields, []FieldError) {
	var fieldErrs []FieldError

	cleanName := normalizers.ApplyChain(name, "trim", "uppercase")
	if cleanName == "" {
		fieldErrs = append(fieldErrs, FieldError{Field: "name", Reason: ReasonEmpty})
	}

	cleanCountry := strings.TrimSpace(countryCode)
	switch {
	case cleanCountry == "":
		if c.countryCodeRequired {
			fieldErrs = append(fieldErrs, FieldError{Field: "countryCode", Reason: ReasonEmpty})
		}
	case !normalizers.IsDigits(cleanCountry):
		fieldErrs = append(fieldErrs, FieldError{Field: "countryCode", Reason: ReasonNonNumeric})
	}

	// Phone is validated, not repaired: any non-digit character rejects the
	// candidate rather than being stripped.
	cleanPhone := strings.TrimSpace(phone)
	switch {
	case cleanPhone == "":
		fieldErrs = append(fieldErrs, FieldError{Field: "phone", Reason: ReasonEmpty})
	case !normalizers.IsDigits(cleanPhone):
		fieldErrs = append(fieldErrs, FieldError{Field: "phone", Reason: ReasonNonNumeric})
	case len(cleanPhone) < minPhoneDigits:
		fieldErrs = append(fieldErrs, FieldError{Field: "phone", Reason: ReasonTooShort})
	}

	cleanStar := strings.TrimSpace(star)
	if cleanStar == "" {
		fieldErrs = append(fieldErrs, FieldError{Field: "nakshatra", Reason: ReasonEmpty})
	}

	if len(fieldErrs) > 0 {
		return CanonicalFields{}, fieldErrs
	}

	return CanonicalFields{
		Name:        cleanName,
		CountryCode: cleanCountry,
		Phone:       cleanPhone,
		Nakshatra:   cleanStar,
	}, nil
}
