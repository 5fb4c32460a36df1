// Command server runs the storefront API.
//
// Usage:
//
//	server           start the HTTP server (migrations are applied first)
//	server migrate   apply migrations and exit
//	server rollback  roll every migration back and exit
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/liqued/storefront-api/internal/api"
	"github.com/liqued/storefront-api/internal/core/ports"
	"github.com/liqued/storefront-api/internal/core/service"
	"github.com/liqued/storefront-api/internal/infrastructure/config"
	"github.com/liqued/storefront-api/internal/infrastructure/db/postgres"
	"github.com/liqued/storefront-api/internal/infrastructure/db/redis"
	httpserver "github.com/liqued/storefront-api/internal/infrastructure/http"
	"github.com/liqued/storefront-api/internal/infrastructure/http/handlers"
	"github.com/liqued/storefront-api/internal/infrastructure/storage"
	"github.com/liqued/storefront-api/internal/pkg/password"
	"github.com/liqued/storefront-api/internal/pkg/token"
	"github.com/liqued/storefront-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "storefront-api",
	})

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	if err := run(ctx, cmd, cfg, log); err != nil {
		log.Fatal().Err(err).Str("command", cmd).Msg("server exited")
	}
}

func run(ctx context.Context, cmd string, cfg *config.Config, log zerolog.Logger) error {
	db, err := postgres.Connect(ctx, postgres.Config{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Name,
		SSLMode:  cfg.Postgres.SSLMode,
		MaxConns: cfg.Postgres.MaxConns,
	})
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info().Str("host", cfg.Postgres.Host).Str("database", cfg.Postgres.Name).Msg("postgres connected")

	switch cmd {
	case "migrate":
		if err := postgres.Migrate(ctx, db.DB); err != nil {
			return err
		}
		log.Info().Msg("migrations applied")
		return nil
	case "rollback":
		if err := postgres.Rollback(ctx, db.DB); err != nil {
			return err
		}
		log.Info().Msg("migrations rolled back")
		return nil
	case "", "serve":
	default:
		return fmt.Errorf("unknown command %q (expected serve, migrate or rollback)", cmd)
	}

	if err := postgres.Migrate(ctx, db.DB); err != nil {
		return err
	}

	// Redis only backs contact dedup; the API runs without it.
	var (
		rdb         *goredis.Client
		dedup       service.ContactDedup
		redisPinger handlers.Pinger
	)
	rdb, err = redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, contact dedup disabled")
	} else {
		defer rdb.Close()
		dedup = redis.NewContactDedup(rdb)
		redisPinger = handlers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	}

	images, uploadDir, err := imageStore(ctx, cfg)
	if err != nil {
		return err
	}

	if !cfg.IsProduction() && cfg.Auth.JWTSecret == config.DevJWTSecret {
		log.Warn().Msg("JWT_SECRET not set, using the development secret")
	}

	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	users := postgres.NewUserRepository(db)
	categories := postgres.NewCategoryRepository(db)

	authService := service.NewAuthService(users, password.NewHasher(cfg.Auth.BcryptCost), tokens, logger.Component("auth"))
	if cfg.Admin.Email != "" {
		if err := authService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return err
		}
	}

	e := api.NewRouter(api.Deps{
		Log:        log,
		Tokens:     tokens,
		Auth:       authService,
		Products:   service.NewProductService(postgres.NewProductRepository(db), categories, images, logger.Component("products")),
		Categories: service.NewCategoryService(categories, logger.Component("categories")),
		Contact:    service.NewContactService(postgres.NewContactRepository(db), dedup, logger.Component("contact")),
		Database:   service.NewDatabaseService(postgres.NewSchemaRepository(db), cfg.Postgres.Name, logger.Component("database")),
		Postgres:   db,
		Redis:      redisPinger,
		UploadDir:  uploadDir,
	})

	return httpserver.Serve(ctx, e, ":"+cfg.Port, log)
}

// imageStore selects S3 when a bucket is configured and the local upload
// directory otherwise. The returned dir is empty for S3.
func imageStore(ctx context.Context, cfg *config.Config) (ports.ImageStore, string, error) {
	if cfg.S3.Bucket != "" {
		s3, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:        cfg.S3.Bucket,
			Region:        cfg.S3.Region,
			Endpoint:      cfg.S3.Endpoint,
			AccessKey:     cfg.S3.AccessKey,
			SecretKey:     cfg.S3.SecretKey,
			UsePathStyle:  cfg.S3.UsePathStyle,
			PublicBaseURL: cfg.S3.PublicBaseURL,
		})
		if err != nil {
			return nil, "", err
		}
		return storage.NewValidating(s3, cfg.Upload.MaxBytes), "", nil
	}

	local, err := storage.NewLocalStore(cfg.Upload.Dir, "/uploads")
	if err != nil {
		return nil, "", err
	}
	return storage.NewValidating(local, cfg.Upload.MaxBytes), local.Dir(), nil
}
