package importer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Ramsey-B/tulsi/pkg/intake"
	"github.com/Ramsey-B/tulsi/pkg/models"
)

type memoryDevoteeStore struct {
	devotees map[models.DevoteeIdentity]bool
}

func newMemoryDevoteeStore() *memoryDevoteeStore {
	return &memoryDevoteeStore{devotees: map[models.DevoteeIdentity]bool{}}
}

func (m *memoryDevoteeStore) ExistsByIdentity(_ context.Context, identity models.DevoteeIdentity, _ *uuid.UUID) (bool, error) {
	return m.devotees[identity], nil
}

func (m *memoryDevoteeStore) Create(_ context.Context, devotee *models.Devotee) (*models.Devotee, error) {
	devotee.ID = uuid.New()
	m.devotees[models.DevoteeIdentity{
		Name:        devotee.Name,
		CountryCode: devotee.CountryCode,
		Phone:       devotee.Phone,
		Nakshatra:   devotee.Nakshatra,
	}] = true
	return devotee, nil
}

type memoryAudit struct {
	duplicates []*models.DuplicateEntry
	invalids   []*models.InvalidEntry
}

func (m *memoryAudit) Insert(_ context.Context, entry *models.DuplicateEntry) error {
	m.duplicates = append(m.duplicates, entry)
	return nil
}

type memoryInvalidAudit struct {
	audit *memoryAudit
}

func (m *memoryInvalidAudit) Insert(_ context.Context, entry *models.InvalidEntry) error {
	m.audit.invalids = append(m.audit.invalids, entry)
	return nil
}

func newTestImporter() (*Importer, *memoryDevoteeStore, *memoryAudit) {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	store := newMemoryDevoteeStore()
	audit := &memoryAudit{}
	pipeline := intake.NewPipeline(intake.NewCanonicalizer(true), store, audit, &memoryInvalidAudit{audit: audit}, logger)
	return NewImporter(pipeline, logger), store, audit
}

func TestImportCSV(t *testing.T) {
	csvData := strings.Join([]string{
		"Name,Country Code,PhoneNo,Nakshatra",
		"Ramesh Kumar,91,9812345678,Ashwathy",
		"Ramesh Kumar,91,9812345678,Ashwathy",
		"Suresh,91,12345,Rohini",
		"Lakshmi,91,9898989898,Notastar",
		"Devi,91,9797979797,Revathy",
	}, "\n")

	imp, store, audit := newTestImporter()
	summary, err := imp.Import(context.Background(), "roster.csv", strings.NewReader(csvData))

	require.NoError(t, err)
	assert.Equal(t, models.ImportSummary{Created: 2, Duplicates: 1, Invalid: 2}, summary)
	assert.Len(t, audit.duplicates, 1)
	assert.Len(t, audit.invalids, 2)
	assert.True(t, store.devotees[models.DevoteeIdentity{
		Name: "DEVI", CountryCode: "91", Phone: "9797979797", Nakshatra: "REVATHI",
	}])
}

func TestImportCSVScientificNotationPhone(t *testing.T) {
	csvData := strings.Join([]string{
		"name,country_code,phone,nakshatra",
		"Ramesh,91,9.812345678E9,Rohini",
		"Suresh,91,9797979797.0,Makam",
	}, "\n")

	imp, store, _ := newTestImporter()
	summary, err := imp.Import(context.Background(), "roster.csv", strings.NewReader(csvData))

	require.NoError(t, err)
	assert.Equal(t, models.ImportSummary{Created: 2}, summary)
	assert.True(t, store.devotees[models.DevoteeIdentity{
		Name: "RAMESH", CountryCode: "91", Phone: "9812345678", Nakshatra: "ROHINI",
	}])
	assert.True(t, store.devotees[models.DevoteeIdentity{
		Name: "SURESH", CountryCode: "91", Phone: "9797979797", Nakshatra: "MAKAM",
	}])
}

func TestImportCSVMissingColumns(t *testing.T) {
	csvData := "name,phone\nRamesh,9812345678\n"

	imp, _, _ := newTestImporter()
	_, err := imp.Import(context.Background(), "roster.csv", strings.NewReader(csvData))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "required columns missing")
	assert.Contains(t, err.Error(), "countrycode")
	assert.Contains(t, err.Error(), "nakshatra")
}

func TestImportCSVBlankAndShortRows(t *testing.T) {
	csvData := strings.Join([]string{
		"name,countrycode,phone,nakshatra",
		"Ramesh,91,9812345678,Rohini",
		",,,",
		"Suresh,91",
	}, "\n")

	imp, _, audit := newTestImporter()
	summary, err := imp.Import(context.Background(), "roster.csv", strings.NewReader(csvData))

	require.NoError(t, err)
	// Blank rows are skipped; short rows are invalid, not fatal.
	assert.Equal(t, models.ImportSummary{Created: 1, Invalid: 1}, summary)
	require.Len(t, audit.invalids, 1)
}

func TestImportXLSX(t *testing.T) {
	workbook := excelize.NewFile()
	sheet := workbook.GetSheetName(0)
	require.NoError(t, workbook.SetSheetRow(sheet, "A1", &[]any{"Name", "CountryCode", "Phone", "Nakshatra"}))
	require.NoError(t, workbook.SetSheetRow(sheet, "A2", &[]any{"Ramesh", "91", 9812345678, "Pooyam"}))
	require.NoError(t, workbook.SetSheetRow(sheet, "A3", &[]any{"Suresh", "91", "9898989898", "Thiru Vathira"}))

	var buf bytes.Buffer
	require.NoError(t, workbook.Write(&buf))

	imp, store, _ := newTestImporter()
	summary, err := imp.Import(context.Background(), "roster.xlsx", &buf)

	require.NoError(t, err)
	assert.Equal(t, models.ImportSummary{Created: 2}, summary)
	assert.True(t, store.devotees[models.DevoteeIdentity{
		Name: "RAMESH", CountryCode: "91", Phone: "9812345678", Nakshatra: "POOYAM",
	}])
	assert.True(t, store.devotees[models.DevoteeIdentity{
		Name: "SURESH", CountryCode: "91", Phone: "9898989898", Nakshatra: "THIRUVATHIRA",
	}])
}

func TestImportUnsupportedFormat(t *testing.T) {
	imp, _, _ := newTestImporter()
	_, err := imp.Import(context.Background(), "roster.pdf", strings.NewReader("whatever"))

	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestImportEmptyFile(t *testing.T) {
	imp, _, _ := newTestImporter()
	_, err := imp.Import(context.Background(), "roster.csv", strings.NewReader(""))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")
}

func TestRecoverNumericCell(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"9812345678", "9812345678"},
		{"9.812345678E9", "9812345678"},
		{"9.812345678e9", "9812345678"},
		{"9812345678.0", "9812345678"},
		{"98AB123", "98AB123"},
		{"", ""},
		{"-9.8e9", "-9.8e9"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, recoverNumericCell(tc.input), tc.input)
	}
}

func TestMapColumnsAliases(t *testing.T) {
	columns, err := mapColumns([]string{"  NAME ", "Country_Code", "PhoneNumber", "NAKSHATRA", "extra"})

	require.NoError(t, err)
	assert.Equal(t, 0, columns["name"])
	assert.Equal(t, 1, columns["countrycode"])
	assert.Equal(t, 2, columns["phone"])
	assert.Equal(t, 3, columns["nakshatra"])
}
