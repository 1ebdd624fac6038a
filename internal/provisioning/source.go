// internal/provisioning/source.go
package provisioning

import (
	"context"
	"strings"

	"loan-risk-sim/internal/common/errors"
	"loan-risk-sim/internal/common/logger"
	"loan-risk-sim/internal/common/metrics"
	"loan-risk-sim/internal/models"
)

// RowSource yields the raw applicant rows of one data source.
type RowSource interface {
	Rows(ctx context.Context) ([]models.SourceRow, error)
	Name() string
	Format() string
}

// FileSource reads a CSV or XLSX file through a FileOpener.
type FileSource struct {
	location string
	format   string
	opener   FileOpener
	logger   logger.Logger
}

// NewFileSource builds a file source. An empty format is detected from the
// location and, failing that, from the content type reported by the opener.
func NewFileSource(location, format string, opener FileOpener, log logger.Logger) *FileSource {
	return &FileSource{
		location: location,
		format:   strings.ToLower(strings.TrimSpace(format)),
		opener:   opener,
		logger:   log,
	}
}

func (s *FileSource) Name() string { return s.location }

func (s *FileSource) Format() string {
	if s.format != "" {
		return s.format
	}
	if f := detectFormat(s.location, ""); f != "" {
		return f
	}
	return "unknown"
}

func (s *FileSource) Rows(ctx context.Context) ([]models.SourceRow, error) {
	rc, meta, err := s.opener.Open(ctx, s.location)
	if err != nil {
		return nil, errors.NewSourceUnavailableError(s.location, err)
	}
	defer rc.Close()

	format := s.format
	if format == "" {
		format = detectFormat(s.location, meta.ContentType)
	}

	s.logger.Info("Reading applicant source", map[string]interface{}{
		"source":      s.location,
		"transport":   meta.Source,
		"format":      format,
		"contentType": meta.ContentType,
		"size":        meta.Size,
	})

	var records []record
	switch format {
	case FormatCSV:
		records, err = readCSV(rc)
	case FormatXLSX:
		records, err = readXLSXFirstSheet(rc)
	default:
		return nil, errors.NewSourceFormatUnsupportedError(format)
	}
	if err != nil {
		return nil, errors.NewSourceUnavailableError(s.location, err)
	}

	return parseRows(records, s.logger)
}

// Load reads all rows from src and keeps the first limit of them.
func Load(ctx context.Context, src RowSource, limit int, log logger.Logger) ([]models.SourceRow, error) {
	rows, err := src.Rows(ctx)
	if err != nil {
		return nil, err
	}
	// CachedSource counts its own hits and misses.
	if _, cached := src.(*CachedSource); !cached {
		metrics.ApplicantsLoaded.WithLabelValues(src.Format(), metrics.CacheDisabled).Add(float64(len(rows)))
	}

	total := len(rows)
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	log.Info("Applicants loaded", map[string]interface{}{
		"source": src.Name(),
		"format": src.Format(),
		"rows":   total,
		"taken":  len(rows),
	})
	return rows, nil
}
