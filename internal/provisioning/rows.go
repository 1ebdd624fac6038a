// internal/provisioning/rows.go
package provisioning

import (
	"strconv"

	"loan-risk-sim/internal/common/errors"
	"loan-risk-sim/internal/common/logger"
	"loan-risk-sim/internal/models"
)

const (
	ColumnAge      = "age"
	ColumnAmount   = "amount"
	ColumnDuration = "months_loan_duration"
)

// parseRows turns raw records into SourceRows. Blank rows are skipped; the
// first invalid field aborts the whole load.
func parseRows(records []record, log logger.Logger) ([]models.SourceRow, error) {
	out := make([]models.SourceRow, 0, len(records))
	for _, rec := range records {
		if rec.blank() {
			log.Warn("Skipping blank applicant row", map[string]interface{}{"line": rec.line})
			continue
		}
		row, err := parseRow(rec.line, rec.fields)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

func parseRow(line int, fields map[string]string) (models.SourceRow, error) {
	age, err := intField(line, fields, ColumnAge)
	if err != nil {
		return models.SourceRow{}, err
	}
	amount, err := intField(line, fields, ColumnAmount)
	if err != nil {
		return models.SourceRow{}, err
	}
	term, err := intField(line, fields, ColumnDuration)
	if err != nil {
		return models.SourceRow{}, err
	}

	if age < 0 {
		return models.SourceRow{}, errors.NewMalformedInputError(line, ColumnAge, fields[ColumnAge], "must not be negative")
	}
	if amount <= 0 {
		return models.SourceRow{}, errors.NewMalformedInputError(line, ColumnAmount, fields[ColumnAmount], "must be positive")
	}
	if term <= 0 {
		return models.SourceRow{}, errors.NewInvalidTermError(line, term)
	}

	return models.SourceRow{Line: line, Age: age, Amount: amount, TermMonths: term}, nil
}

func intField(line int, fields map[string]string, name string) (int, error) {
	raw, ok := fields[name]
	if !ok {
		return 0, errors.NewMalformedInputError(line, name, "", "column is missing")
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewMalformedInputError(line, name, raw, "is not an integer")
	}
	return v, nil
}
