// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	recipeapp "github.com/forkful/v1/internal/application/recipe"
	userapp "github.com/forkful/v1/internal/application/user"
	"github.com/forkful/v1/internal/infrastructure/cache"
	"github.com/forkful/v1/internal/infrastructure/config"
	"github.com/forkful/v1/internal/infrastructure/http/apiserver"
	"github.com/forkful/v1/internal/infrastructure/monitoring"
	gormRepo "github.com/forkful/v1/internal/infrastructure/persistence/gorm"
	"github.com/forkful/v1/internal/infrastructure/persistence/migrations"
	"github.com/forkful/v1/internal/infrastructure/persistence/postgres"
	"github.com/forkful/v1/internal/infrastructure/persistence/sqlite"
	"github.com/forkful/v1/internal/infrastructure/security"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	MetricsModule,
	DatabaseModule,
	CacheModule,
	RepositoryModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return monitoring.NewLogger(monitoring.LogConfig{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			ServiceName: cfg.App.Name,
			Environment: cfg.App.Environment,
			Version:     cfg.App.Version,
		})
	},
)

// MetricsModule provides prometheus metrics
var MetricsModule = fx.Provide(
	monitoring.NewMetrics,
)

// DatabaseModule provides the GORM connection for the configured driver
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		logLevel := gormLogger.Silent
		if cfg.App.Debug {
			logLevel = gormLogger.Info
		}

		switch cfg.Database.Driver {
		case "postgres":
			db, err := postgres.Connect(cfg, logLevel)
			if err != nil {
				return nil, fmt.Errorf("failed to connect to postgres: %w", err)
			}
			if cfg.Database.AutoMigrate {
				sqlDB, err := db.DB()
				if err != nil {
					return nil, err
				}
				migrator, err := migrations.New(sqlDB, cfg.Database.Database, log)
				if err != nil {
					return nil, fmt.Errorf("failed to init migrations: %w", err)
				}
				if err := migrator.Up(); err != nil {
					return nil, fmt.Errorf("failed to run migrations: %w", err)
				}
			}
			log.Info("connected to postgres",
				zap.String("host", cfg.Database.Host),
				zap.String("database", cfg.Database.Database),
			)
			return db, nil

		default:
			db, err := sqlite.SetupDatabase(cfg.Database.SQLitePath, logLevel)
			if err != nil {
				return nil, fmt.Errorf("failed to setup sqlite database: %w", err)
			}
			if cfg.Database.Seed {
				if err := sqlite.SeedDatabase(db); err != nil {
					log.Warn("failed to seed database", zap.Error(err))
				}
			}
			log.Info("connected to sqlite",
				zap.String("path", cfg.Database.SQLitePath),
			)
			return db, nil
		}
	},
)

// CacheModule provides the optional Redis token cache. When Redis is
// disabled the auth service gets a nil cache and reads tokens from the
// database on every request.
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*cache.TokenCache, error) {
		if !cfg.Redis.Enabled {
			log.Info("redis disabled, token cache off")
			return nil, nil
		}
		return cache.NewTokenCache(cfg.Redis, log)
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormRepo.NewUserRepository,
	gormRepo.NewAuthTokenRepository,
	gormRepo.NewRecipeRepository,
	gormRepo.NewAttributeRepository,
	gormRepo.NewTxManager,
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	security.NewAuthService,
	userapp.NewUserService,
	recipeapp.NewRecipeService,
	recipeapp.NewAttributeService,
)

// HTTPModule provides the API server
var HTTPModule = fx.Provide(
	apiserver.NewAPIServer,
)

// LifecycleModule registers application lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks starts the HTTP server when the app starts and
// drains connections on shutdown.
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	tokenCache *cache.TokenCache,
	server *apiserver.APIServer,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting application",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := server.Start(); err != nil {
					log.Fatal("failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down application")

			if err := server.Shutdown(ctx); err != nil {
				log.Error("failed to shutdown HTTP server", zap.Error(err))
			}

			if tokenCache != nil {
				if err := tokenCache.Close(); err != nil {
					log.Error("failed to close token cache", zap.Error(err))
				}
			}

			sqlDB, err := db.DB()
			if err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()
			return nil
		},
	})
}
