// Package importer reads tabular devotee rosters (CSV or XLSX) and feeds
// every data row through the intake pipeline independently. One bad row never
// fails the batch; a missing required column or a storage failure does.
package importer

import (
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"

	"github.com/Ramsey-B/tulsi/pkg/normalizers"
)

// Logical fields every roster must provide, in reporting order.
var requiredFields = []string{"name", "countrycode", "phone", "nakshatra"}

// headerAliases maps normalized header spellings onto logical fields. Headers
// are matched case- and space-insensitively.
var headerAliases = map[string]string{
	"name":         "name",
	"countrycode":  "countrycode",
	"country_code": "countrycode",
	"phone":        "phone",
	"phoneno":      "phone",
	"phonenumber":  "phone",
	"nakshatra":    "nakshatra",
}

// columnMap holds the index of each logical field in the header row.
type columnMap map[string]int

func normalizeHeader(header string) string {
	return normalizers.ApplyChain(header, "trim", "lowercase", "remove_whitespace")
}

// mapColumns resolves the header row onto logical fields. The whole batch is
// rejected when any required field has no matching column.
func mapColumns(headers []string) (columnMap, error) {
	columns := make(columnMap, len(requiredFields))
	for i, header := range headers {
		field, ok := headerAliases[normalizeHeader(header)]
		if !ok {
			continue
		}
		// First matching column wins when a header repeats.
		if _, seen := columns[field]; !seen {
			columns[field] = i
		}
	}

	var missing []string
	for _, field := range requiredFields {
		if _, ok := columns[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "required columns missing: %s", strings.Join(missing, ", "))
	}

	return columns, nil
}

// cell returns the value at the field's column, or "" when the row is short.
func (c columnMap) cell(row []string, field string) string {
	idx := c[field]
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}
