package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/config"
	httptransport "github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/http"
	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/http/handler"
	httpmiddleware "github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/http/middleware"
	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/password"
	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/repository"
	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/retail"
	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/server"
	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/service"
	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/token"
	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/upload"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newPGXPool,
			newMongoClient,
			newUserRepository,
			newLookupRepository,
			newHasher,
			newTokenIssuer,
			service.NewGuard,
			service.NewAuthService,
			newUploadStore,
			newRetailStore,
			handler.NewAuthHandler,
			handler.NewUserHandler,
			handler.NewUploadHandler,
			handler.NewRetailHandler,
			newHealthHandler,
			newAuthMiddleware,
			httptransport.NewRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newPGXPool(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := repository.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Close()
			return nil
		},
	})

	return pool, nil
}

func newMongoClient(lc fx.Lifecycle, cfg config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect document store: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping document store: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	return client, nil
}

func newUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return repository.NewPostgresUserRepo(pool)
}

func newLookupRepository(pool *pgxpool.Pool) repository.LookupRepository {
	return repository.NewPostgresLookupRepo(pool)
}

func newHasher(cfg config.Config) password.Hasher {
	return password.NewHasher(cfg.BcryptCost)
}

func newTokenIssuer(cfg config.Config) *token.Issuer {
	return token.NewIssuer(cfg.TokenSecret, cfg.TokenTTL)
}

func newUploadStore(cfg config.Config) *upload.Store {
	return upload.NewStore(cfg.UploadDir, cfg.UploadMaxBytes)
}

func newRetailStore(client *mongo.Client, cfg config.Config) *retail.Store {
	return retail.NewStore(client, cfg.MongoDatabase)
}

func newHealthHandler(pool *pgxpool.Pool, store *retail.Store) *handler.HealthHandler {
	return handler.NewHealthHandler(pool, store)
}

func newAuthMiddleware(tokens *token.Issuer) *httpmiddleware.Auth {
	return httpmiddleware.NewAuth(tokens)
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}
