// internal/provisioning/setup_test.go
package provisioning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-risk-sim/internal/common/config"
	"loan-risk-sim/internal/common/logger"
)

func TestNewFactoryFromConfig(t *testing.T) {
	t.Run("file only", func(t *testing.T) {
		cfg := &config.Config{Source: config.SourceConfig{Path: "data/credit.csv", Table: "credit_applicants"}}

		f, closeFn, err := NewFactoryFromConfig(context.Background(), cfg, logger.NewTestLogger(t))
		require.NoError(t, err)
		defer closeFn()

		assert.Nil(t, f.DB)
		assert.Nil(t, f.Redis)
		assert.NotNil(t, f.Opener)
		assert.Equal(t, "credit_applicants", f.Table)
	})

	t.Run("redis cache", func(t *testing.T) {
		mr, _ := createTestRedis(t)
		cfg := &config.Config{
			Source:   config.SourceConfig{Path: "data/credit.csv", CacheTTLSeconds: 60},
			Database: config.DatabaseConfig{Redis: config.RedisConfig{Address: mr.Addr()}},
		}

		f, closeFn, err := NewFactoryFromConfig(context.Background(), cfg, logger.NewTestLogger(t))
		require.NoError(t, err)
		defer closeFn()

		assert.NotNil(t, f.Redis)
		src, err := f.Source("data/credit.csv", "")
		require.NoError(t, err)
		assert.IsType(t, &CachedSource{}, src)
	})

	t.Run("s3 opener", func(t *testing.T) {
		cfg := &config.Config{
			Source: config.SourceConfig{Path: "s3://loans/credit.csv"},
			Storage: config.StorageConfig{S3: config.S3Config{
				Endpoint:  "localhost:9000",
				AccessKey: "minio",
				SecretKey: "minio123",
				Bucket:    "loans",
			}},
		}

		f, closeFn, err := NewFactoryFromConfig(context.Background(), cfg, logger.NewTestLogger(t))
		require.NoError(t, err)
		defer closeFn()

		compound, ok := f.Opener.(*CompoundOpener)
		require.True(t, ok)
		assert.NotNil(t, compound.S3)
		assert.NotNil(t, compound.HTTP)
	})
}
