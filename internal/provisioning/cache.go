// internal/provisioning/cache.go
package provisioning

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"loan-risk-sim/internal/common/errors"
	"loan-risk-sim/internal/common/logger"
	"loan-risk-sim/internal/common/metrics"
	"loan-risk-sim/internal/models"
)

const cacheKeyPrefix = "applicants:"

// CachedSource keeps the parsed rows of another source in Redis. A Redis
// failure never fails the load; the inner source is read directly.
type CachedSource struct {
	inner  RowSource
	redis  redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedSource(inner RowSource, rdb redis.Cmdable, ttl time.Duration, log logger.Logger) *CachedSource {
	return &CachedSource{inner: inner, redis: rdb, ttl: ttl, logger: log}
}

func (s *CachedSource) Name() string   { return s.inner.Name() }
func (s *CachedSource) Format() string { return s.inner.Format() }

func (s *CachedSource) cacheKey() string {
	return cacheKeyPrefix + s.inner.Name()
}

func (s *CachedSource) Rows(ctx context.Context) ([]models.SourceRow, error) {
	key := s.cacheKey()

	val, err := s.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var rows []models.SourceRow
		if jsonErr := json.Unmarshal([]byte(val), &rows); jsonErr == nil {
			metrics.ApplicantsLoaded.WithLabelValues(s.Format(), metrics.CacheHit).Add(float64(len(rows)))
			s.logger.Debug("Applicant rows served from cache", map[string]interface{}{
				"key":  key,
				"rows": len(rows),
			})
			return rows, nil
		}
		s.logger.Warn("Discarding undecodable cache entry", map[string]interface{}{"key": key})
	case stderrors.Is(err, redis.Nil):
	default:
		s.warn(err, key)
	}

	rows, err := s.inner.Rows(ctx)
	if err != nil {
		return nil, err
	}
	metrics.ApplicantsLoaded.WithLabelValues(s.Format(), metrics.CacheMiss).Add(float64(len(rows)))

	data, err := json.Marshal(rows)
	if err != nil {
		return rows, nil
	}
	if err := s.redis.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.warn(err, key)
	}
	return rows, nil
}

func (s *CachedSource) warn(err error, key string) {
	stdErr := errors.NewCacheUnavailableError(err)
	s.logger.Warn("Applicant cache bypassed", map[string]interface{}{
		"key":       key,
		"errorCode": string(stdErr.Code),
		"error":     err,
	})
}
