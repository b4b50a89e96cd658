package importer

import (
	"context"
	"encoding/csv"
	"io"
	"math"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/Ramsey-B/tulsi/pkg/intake"
	"github.com/Ramsey-B/tulsi/pkg/metrics"
	"github.com/Ramsey-B/tulsi/pkg/models"
	"github.com/Ramsey-B/tulsi/pkg/tracing"
)

// ErrUnsupportedFormat rejects files that are neither CSV nor XLSX.
var ErrUnsupportedFormat = httperror.NewHTTPError(http.StatusBadRequest, "unsupported file format, expected .csv or .xlsx")

// Importer drives one bulk roster through the intake pipeline.
type Importer struct {
	pipeline *intake.Pipeline
	logger   ectologger.Logger
}

func NewImporter(pipeline *intake.Pipeline, logger ectologger.Logger) *Importer {
	return &Importer{
		pipeline: pipeline,
		logger:   logger,
	}
}

// Import parses the file, maps its header row and runs every data row through
// the pipeline. Rows are independent: a rejected or duplicate row only bumps
// its counter. A storage failure aborts the batch; rows already committed
// stay committed.
func (i *Importer) Import(ctx context.Context, filename string, file io.Reader) (models.ImportSummary, error) {
	ctx, span := tracing.StartSpan(ctx, "Importer.Import")
	defer span.End()

	format, err := detectFormat(filename)
	if err != nil {
		metrics.ImportsTotal.WithLabelValues("unknown", "rejected").Inc()
		return models.ImportSummary{}, err
	}

	start := time.Now()

	var rows [][]string
	switch format {
	case "csv":
		rows, err = readCSV(file)
	case "xlsx":
		rows, err = readXLSX(file)
	}
	if err != nil {
		metrics.ImportsTotal.WithLabelValues(format, "rejected").Inc()
		return models.ImportSummary{}, err
	}
	if len(rows) == 0 {
		metrics.ImportsTotal.WithLabelValues(format, "rejected").Inc()
		return models.ImportSummary{}, httperror.NewHTTPError(http.StatusBadRequest, "file has no header row")
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		metrics.ImportsTotal.WithLabelValues(format, "rejected").Inc()
		return models.ImportSummary{}, err
	}

	var summary models.ImportSummary
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}

		candidate := intake.Candidate{
			Name:        columns.cell(row, "name"),
			CountryCode: columns.cell(row, "countrycode"),
			Phone:       recoverNumericCell(columns.cell(row, "phone")),
			Nakshatra:   columns.cell(row, "nakshatra"),
		}

		result, err := i.pipeline.Process(ctx, "import", candidate)
		if err != nil {
			metrics.ImportsTotal.WithLabelValues(format, "failed").Inc()
			return models.ImportSummary{}, errors.Wrap(err, "import aborted by storage failure")
		}

		switch result.Outcome {
		case intake.OutcomeAccepted:
			summary.Created++
		case intake.OutcomeDuplicate:
			summary.Duplicates++
		case intake.OutcomeRejected:
			summary.Invalid++
		}
		metrics.ImportRowsTotal.WithLabelValues(strings.ToLower(string(result.Outcome))).Inc()
	}

	metrics.ImportsTotal.WithLabelValues(format, "completed").Inc()
	metrics.ImportDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())

	i.logger.WithContext(ctx).WithFields(map[string]any{
		"filename":   filename,
		"format":     format,
		"created":    summary.Created,
		"duplicates": summary.Duplicates,
		"invalid":    summary.Invalid,
	}).Info("bulk import completed")

	return summary, nil
}

func detectFormat(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return "csv", nil
	case ".xlsx":
		return "xlsx", nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func readCSV(file io.Reader) ([][]string, error) {
	reader := csv.NewReader(file)
	// Rosters exported by hand often have ragged rows; short rows read as
	// empty cells instead of failing the batch.
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "failed to parse CSV: %s", err)
	}
	return rows, nil
}

func readXLSX(file io.Reader) ([][]string, error) {
	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "failed to open workbook: %s", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "workbook has no sheets")
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "failed to read workbook rows: %s", err)
	}
	return rows, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// recoverNumericCell undoes spreadsheet rendering of numeric phone columns.
// A cell meaning 9812345678 can arrive as "9.812345678E9" or "9812345678.0";
// both are restored to the literal digit string. Anything that is not a
// plain non-negative number is returned unchanged for the canonicalizer to
// judge.
func recoverNumericCell(value string) string {
	trimmed := strings.TrimSpace(value)
	if !strings.ContainsAny(trimmed, "eE.") {
		return value
	}

	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || parsed < 0 || math.IsInf(parsed, 0) || math.IsNaN(parsed) {
		return value
	}

	return strconv.FormatFloat(math.Trunc(parsed), 'f', -1, 64)
}
