// internal/provisioning/setup.go
package provisioning

import (
	"context"
	"time"

	"loan-risk-sim/internal/common/config"
	"loan-risk-sim/internal/common/database"
	httpclient "loan-risk-sim/internal/common/http"
	"loan-risk-sim/internal/common/logger"
)

// NewFactoryFromConfig connects the optional backends named in cfg and returns
// a Factory over them. Backends that are not configured are left out; ones
// that are configured but unreachable are an error. The returned func closes
// whatever was opened.
func NewFactoryFromConfig(ctx context.Context, cfg *config.Config, log logger.Logger) (*Factory, func(), error) {
	var closers []func() error
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}

	f := &Factory{
		Table:    cfg.Source.Table,
		CacheTTL: time.Duration(cfg.Source.CacheTTLSeconds) * time.Second,
		Logger:   log,
	}

	var s3Opener FileOpener
	if cfg.Storage.S3.Endpoint != "" {
		s3, err := database.NewS3(cfg.Storage.S3)
		if err != nil {
			return nil, func() {}, err
		}
		s3Opener = NewS3Opener(s3.Client, s3.Bucket)
		log.Info("S3 opener configured", map[string]interface{}{
			"endpoint": cfg.Storage.S3.Endpoint,
			"bucket":   s3.Bucket,
		})
	}
	f.Opener = NewCompoundOpener(NewHTTPOpener(httpclient.NewClient(60 * time.Second)), s3Opener)

	if cfg.Database.Postgres.Enabled() {
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		closers = append(closers, pg.Close)
		if err := pg.Ping(ctx); err != nil {
			closeAll()
			return nil, func() {}, err
		}
		f.DB = pg.DB
		log.Info("PostgreSQL connected", map[string]interface{}{"host": cfg.Database.Postgres.Host})
	}

	if cfg.Database.Redis.Address != "" && f.CacheTTL > 0 {
		rdb, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		closers = append(closers, rdb.Close)
		if err := rdb.Ping(ctx); err != nil {
			log.Warn("Redis unreachable, applicant cache disabled", map[string]interface{}{"error": err})
		} else {
			f.Redis = rdb.Client
		}
	}

	return f, closeAll, nil
}
