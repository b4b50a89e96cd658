package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	c := NewCanonicalizer(true)

	fields, fieldErrs := c.Canonicalize("  ramesh kumar ", "91", "9812345678", " Rohini ")

	require.Empty(t, fieldErrs)
	assert.Equal(t, "RAMESH KUMAR", fields.Name)
	assert.Equal(t, "91", fields.CountryCode)
	assert.Equal(t, "9812345678", fields.Phone)
	assert.Equal(t, "Rohini", fields.Nakshatra)
}

func TestCanonicalizeFieldErrors(t *testing.T) {
	tests := []struct {
		name     string
		inName   string
		country  string
		phone    string
		star     string
		expected []FieldError
	}{
		{
			name:     "empty name",
			inName:   "   ",
			country:  "91",
			phone:    "9812345678",
			star:     "Rohini",
			expected: []FieldError{{Field: "name", Reason: ReasonEmpty}},
		},
		{
			name:     "phone with letters",
			inName:   "Ramesh",
			country:  "91",
			phone:    "98AB123",
			star:     "Rohini",
			expected: []FieldError{{Field: "phone", Reason: ReasonNonNumeric}},
		},
		{
			name:     "phone too short",
			inName:   "Ramesh",
			country:  "91",
			phone:    "12345",
			star:     "Rohini",
			expected: []FieldError{{Field: "phone", Reason: ReasonTooShort}},
		},
		{
			name:     "phone exactly at minimum",
			inName:   "Ramesh",
			country:  "91",
			phone:    "1234567",
			star:     "Rohini",
			expected: nil,
		},
		{
			name:     "empty phone",
			inName:   "Ramesh",
			country:  "91",
			phone:    "",
			star:     "Rohini",
			expected: []FieldError{{Field: "phone", Reason: ReasonEmpty}},
		},
		{
			name:     "country code with plus sign",
			inName:   "Ramesh",
			country:  "+91",
			phone:    "9812345678",
			star:     "Rohini",
			expected: []FieldError{{Field: "countryCode", Reason: ReasonNonNumeric}},
		},
		{
			name:     "missing country code",
			inName:   "Ramesh",
			country:  "",
			phone:    "9812345678",
			star:     "Rohini",
			expected: []FieldError{{Field: "countryCode", Reason: ReasonEmpty}},
		},
		{
			name:    "every field bad reports every failure",
			inName:  "",
			country: "abc",
			phone:   "12x",
			star:    "",
			expected: []FieldError{
				{Field: "name", Reason: ReasonEmpty},
				{Field: "countryCode", Reason: ReasonNonNumeric},
				{Field: "phone", Reason: ReasonNonNumeric},
				{Field: "nakshatra", Reason: ReasonEmpty},
			},
		},
	}

	c := NewCanonicalizer(true)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, fieldErrs := c.Canonicalize(tc.inName, tc.country, tc.phone, tc.star)
			assert.Equal(t, tc.expected, fieldErrs)
		})
	}
}

func TestCanonicalizeOptionalCountryCode(t *testing.T) {
	c := NewCanonicalizer(false)

	fields, fieldErrs := c.Canonicalize("Ramesh", "", "9812345678", "Rohini")

	require.Empty(t, fieldErrs)
	assert.Equal(t, "", fields.CountryCode)
}
