// Package app wires configuration, storage, services and the HTTP router into
// a runnable process.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/finance-tracker/finance-api/internal/api"
	"github.com/finance-tracker/finance-api/internal/api/handler"
	"github.com/finance-tracker/finance-api/internal/core/service"
	mongostore "github.com/finance-tracker/finance-api/internal/infrastructure/db/mongo"
	redisstore "github.com/finance-tracker/finance-api/internal/infrastructure/db/redis"
	"github.com/finance-tracker/finance-api/internal/pkg/config"
)

const readHeaderTimeout = 10 * time.Second

// Application holds the process-wide dependencies.
type Application struct {
	cfg *config.Config
	log zerolog.Logger

	mongo *mongo.Client
	redis *redis.Client

	server *http.Server
}

// New connects to MongoDB and Redis, seeds default data and builds the HTTP
// server. Connections opened before a failure are closed again.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *Application, err error) {
	app := &Application{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			app.closeStores()
		}
	}()

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return nil, err
	}
	app.mongo = mongoClient

	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		return nil, err
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	app.redis = rdb

	credentials := mongostore.NewCredentialStore(db)
	profiles := mongostore.NewProfileRepository(db)
	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	throttle := redisstore.NewLoginThrottle(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)

	if err := service.NewSeeder(credentials, hasher, log).Seed(ctx, adminSeed(cfg.Seed)); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	authService := service.NewAuthService(credentials, hasher, tokens, log, service.WithLoginThrottle(throttle))
	router := api.NewRouter(api.Deps{
		Log:            log,
		AuthService:    authService,
		ProfileService: service.NewProfileService(credentials, profiles, log),
		Tokens:         tokens,
		HealthChecks:   []handler.DependencyCheck{handler.MongoCheck(db), handler.RedisCheck(rdb)},
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AuthRateLimit:  cfg.Auth.RateLimit,
		AuthRateBurst:  cfg.Auth.RateBurst,
	})

	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return app, nil
}

// Run serves HTTP until ctx is cancelled or the server fails, then shuts down.
func (app *Application) Run(ctx context.Context) error {
	app.log.Info().Str("port", app.cfg.Port).Str("env", app.cfg.Env).Msg("finance api starting")

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		app.closeStores()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		app.log.Info().Msg("shutdown signal received")
		return app.Shutdown()
	}
}

// Shutdown drains in-flight requests within the configured timeout and
// closes the store connections.
func (app *Application) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownTimeout)
	defer cancel()

	var shutdownErr error
	if err := app.server.Shutdown(ctx); err != nil {
		app.log.Error().Err(err).Msg("graceful server shutdown failed")
		shutdownErr = err
		if err := app.server.Close(); err != nil {
			app.log.Error().Err(err).Msg("close server")
		}
	}

	app.closeStores()
	app.log.Info().Msg("finance api stopped")
	return shutdownErr
}

func (app *Application) closeStores() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.log.Error().Err(err).Msg("close redis")
		}
		app.redis = nil
	}
	if app.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.mongo.Disconnect(ctx); err != nil {
			app.log.Error().Err(err).Msg("disconnect mongo")
		}
		app.mongo = nil
	}
}

// adminSeed returns nil when admin seeding is disabled.
func adminSeed(cfg config.SeedConfig) *service.AdminSeed {
	if !cfg.Admin {
		return nil
	}
	return &service.AdminSeed{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}
}
