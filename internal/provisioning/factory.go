// internal/provisioning/factory.go
package provisioning

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"loan-risk-sim/internal/common/errors"
	"loan-risk-sim/internal/common/logger"
)

// Factory builds the RowSource for a location and format. DB and Redis are
// optional; without Redis or with a zero CacheTTL nothing is cached.
type Factory struct {
	Opener   FileOpener
	DB       *sql.DB
	Table    string
	Redis    redis.Cmdable
	CacheTTL time.Duration
	Logger   logger.Logger
}

func (f *Factory) Source(location, format string) (RowSource, error) {
	var src RowSource
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatPostgres:
		if f.DB == nil {
			return nil, errors.NewDatabaseConnectionFailedError(stderrors.New("postgres source requested but database is not configured"))
		}
		table := f.Table
		if location != "" && !strings.ContainsAny(location, "/\\") && detectFormat(location, "") == "" {
			table = location
		}
		if !ValidTableName(table) {
			return nil, errors.NewInvalidSimulationParametersError(
				fmt.Sprintf("postgres table %q must be table or schema.table", table))
		}
		src = NewPostgresSource(f.DB, table, f.Logger)
	case "", FormatCSV, FormatXLSX:
		if location == "" {
			return nil, errors.NewInvalidSimulationParametersError("source path is empty")
		}
		opener := f.Opener
		if opener == nil {
			opener = NewCompoundOpener(nil, nil)
		}
		src = NewFileSource(location, format, opener, f.Logger)
	default:
		return nil, errors.NewSourceFormatUnsupportedError(format)
	}

	if f.Redis != nil && f.CacheTTL > 0 {
		src = NewCachedSource(src, f.Redis, f.CacheTTL, f.Logger)
	}
	return src, nil
}
