// internal/provisioning/postgres.go
package provisioning

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"

	"loan-risk-sim/internal/common/errors"
	"loan-risk-sim/internal/common/logger"
	"loan-risk-sim/internal/models"
)

// PostgresSource reads applicants from a table with the same columns as the
// CSV file. Values are selected as text so a bad value surfaces as
// MALFORMED_INPUT rather than a scan error.
type PostgresSource struct {
	db     *sql.DB
	table  string
	logger logger.Logger
}

func NewPostgresSource(db *sql.DB, table string, log logger.Logger) *PostgresSource {
	return &PostgresSource{db: db, table: table, logger: log}
}

func (s *PostgresSource) Name() string   { return "postgres:" + s.table }
func (s *PostgresSource) Format() string { return FormatPostgres }

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// ValidTableName reports whether name is "table" or "schema.table" made of
// plain identifiers.
func ValidTableName(name string) bool {
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return false
	}
	for _, p := range parts {
		if !identifierPattern.MatchString(p) {
			return false
		}
	}
	return true
}

// quoteTable quotes each part of a possibly schema-qualified name.
func quoteTable(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

func (s *PostgresSource) query() string {
	return fmt.Sprintf(
		`SELECT age::text, amount::text, months_loan_duration::text FROM %s`,
		quoteTable(s.table),
	)
}

func (s *PostgresSource) Rows(ctx context.Context) ([]models.SourceRow, error) {
	rows, err := s.db.QueryContext(ctx, s.query())
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError(s.table, err)
	}
	defer rows.Close()

	var records []record
	line := 0
	for rows.Next() {
		line++
		var age, amount, term sql.NullString
		if err := rows.Scan(&age, &amount, &term); err != nil {
			return nil, errors.NewQueryExecutionFailedError(s.table, err)
		}
		records = append(records, record{line: line, fields: map[string]string{
			ColumnAge:      age.String,
			ColumnAmount:   amount.String,
			ColumnDuration: term.String,
		}})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError(s.table, err)
	}

	s.logger.Info("Read applicant table", map[string]interface{}{
		"table": s.table,
		"rows":  len(records),
	})
	return parseRows(records, s.logger)
}
