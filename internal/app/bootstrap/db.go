// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	landingpagestore "github.com/dalemusser/stratacourse/internal/app/store/landingpages"
	"github.com/dalemusser/stratacourse/internal/app/store/landingpages/memstore"
	"github.com/dalemusser/stratacourse/internal/app/store/landingpages/pgstore"
	"github.com/dalemusser/stratacourse/internal/app/system/indexes"
	"github.com/dalemusser/stratacourse/internal/app/system/landingresolve"
	"github.com/dalemusser/stratacourse/internal/app/system/seeding"
	"github.com/dalemusser/stratacourse/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// ConnectDB connects to the configured page store and builds the resolver
// that fronts it.
//
// WAFFLE calls this after configuration is loaded but before EnsureSchema and
// Startup.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	var deps DBDeps

	switch appCfg.PageStore {
	case StoreMongo:
		// Configure MongoDB connection pool
		poolCfg := wafflemongo.DefaultPoolConfig()
		if appCfg.MongoMaxPoolSize > 0 {
			poolCfg.MaxPoolSize = appCfg.MongoMaxPoolSize
		}
		if appCfg.MongoMinPoolSize > 0 {
			poolCfg.MinPoolSize = appCfg.MongoMinPoolSize
		}

		client, err := wafflemongo.ConnectWithPool(ctx, appCfg.MongoURI, appCfg.MongoDatabase, poolCfg)
		if err != nil {
			return DBDeps{}, err
		}
		db := client.Database(appCfg.MongoDatabase)

		logger.Info("connected to MongoDB",
			zap.String("database", appCfg.MongoDatabase),
			zap.Uint64("max_pool_size", poolCfg.MaxPoolSize),
			zap.Uint64("min_pool_size", poolCfg.MinPoolSize),
		)
		deps.MongoClient = client
		deps.MongoDatabase = db
		deps.Pages = landingpagestore.New(db)

	case StorePostgres:
		pool, err := pgstore.Connect(ctx, appCfg.PostgresDSN)
		if err != nil {
			return DBDeps{}, fmt.Errorf("connect to PostgreSQL: %w", err)
		}
		cfg := pool.Config()
		logger.Info("connected to PostgreSQL",
			zap.String("host", cfg.ConnConfig.Host),
			zap.String("database", cfg.ConnConfig.Database),
			zap.Int32("max_conns", cfg.MaxConns),
		)
		deps.PostgresPool = pool
		deps.Pages = pgstore.New(pool)

	case StoreMemory:
		logger.Warn("using in-memory landing page store; pages are lost on restart")
		deps.Pages = memstore.New()

	default:
		return DBDeps{}, fmt.Errorf("unknown page_store %q", appCfg.PageStore)
	}

	deps.PageStoreName = appCfg.PageStore
	deps.Resolver = landingresolve.New(deps.Pages, landingresolve.Options{
		Window:     appCfg.LandingRevalidate,
		MaxEntries: appCfg.LandingCacheMax,
		Logger:     logger.Named("landingresolve"),
	})

	return deps, nil
}

// EnsureSchema sets up collections, indexes or tables for the active store,
// then seeds the demo page when configured.
//
// The context has a timeout based on coreCfg.IndexBootTimeout, so long-running
// migrations should respect context cancellation.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	switch {
	case deps.MongoDatabase != nil:
		db := deps.MongoDatabase

		// Collections and validators first so indexes land on existing collections.
		logger.Info("ensuring collections and validators")
		if err := validators.EnsureAll(ctx, db); err != nil {
			logger.Error("failed to ensure validators", zap.Error(err))
			return err
		}

		logger.Info("ensuring database indexes")
		if err := indexes.EnsureAll(ctx, db); err != nil {
			logger.Error("failed to ensure indexes", zap.Error(err))
			return err
		}

	case deps.PostgresPool != nil:
		logger.Info("ensuring PostgreSQL schema")
		if err := pgstore.EnsureSchema(ctx, deps.PostgresPool); err != nil {
			logger.Error("failed to ensure PostgreSQL schema", zap.Error(err))
			return err
		}
	}

	if appCfg.SeedLandingPages {
		logger.Info("seeding default data")
		if err := seeding.SeedAll(ctx, deps.Pages, logger); err != nil {
			logger.Error("failed to seed default data", zap.Error(err))
			return err
		}
	}

	logger.Info("database schema ensured successfully", zap.String("page_store", deps.PageStoreName))
	return nil
}
