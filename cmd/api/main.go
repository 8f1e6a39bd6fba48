// @title        ModernCRM API
// @version      1.0
// @description  Customers, deals, tasks and dashboard summaries behind bearer-token auth.
// @BasePath     /api
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/moderncrm/crm-api/internal/api"
	"github.com/moderncrm/crm-api/internal/core/ports"
	"github.com/moderncrm/crm-api/internal/core/service"
	"github.com/moderncrm/crm-api/internal/infrastructure/db/memory"
	"github.com/moderncrm/crm-api/internal/infrastructure/db/mongo"
	"github.com/moderncrm/crm-api/internal/infrastructure/db/redis"
	"github.com/moderncrm/crm-api/internal/infrastructure/queue"
	"github.com/moderncrm/crm-api/internal/infrastructure/ratelimit"
	"github.com/moderncrm/crm-api/internal/infrastructure/token"
	"github.com/moderncrm/crm-api/internal/pkg/config"
	"github.com/moderncrm/crm-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// the logger is not configured yet
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: "crm-api"})
	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	tokens, err := token.NewManager(cfg.JWTSecret, token.DefaultTTL)
	if err != nil {
		return err
	}

	store := memory.NewStore()
	if cfg.Seed.Enabled {
		if err := store.SeedDemo(ctx, memory.DemoUser{
			Name:     cfg.Seed.Name,
			Email:    cfg.Seed.Email,
			Password: cfg.Seed.Password,
		}); err != nil {
			return err
		}
		log.Info().Str("email", cfg.Seed.Email).Msg("demo data seeded")
	}

	deps := api.Deps{
		Tokens:          tokens,
		RateLimitMax:    cfg.RateLimit.Max,
		RateLimitWindow: cfg.RateLimit.Window,
		FrontendURL:     cfg.FrontendURL,
		Logger:          logger.WithComponent("http"),
	}

	// --- Rate limit store: Redis when configured, else in process ---
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		deps.Redis = goredis.UniversalClient(rdb)
		deps.RateLimitStore = redis.NewRateLimitStore(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("rate limiting via redis")
	} else {
		mem := ratelimit.NewMemoryStore()
		go mem.RunSweeper(ctx, time.Minute)
		deps.RateLimitStore = mem
	}

	// --- Activity sink: MongoDB when configured, else the log ---
	var sink ports.ActivitySink = queue.NewLogSink(logger.WithComponent("activity"))
	if cfg.Mongo.URI != "" {
		audit, err := mongo.Connect(ctx, mongo.Config{
			URI:         cfg.Mongo.URI,
			Database:    cfg.Mongo.Database,
			MaxPoolSize: cfg.Mongo.MaxPoolSize,
		})
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = audit.Close(dctx)
		}()
		repo := mongo.NewActivityRepository(audit.DB)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("activity indexes not created")
		}
		deps.Mongo = audit.DB
		sink = repo
		log.Info().Str("database", cfg.Mongo.Database).Msg("activity feed via mongodb")
	}

	dispatcher := queue.NewDispatcher(0, sink, logger.WithComponent("activity"))
	dispatcher.Start(ctx)

	svcLog := logger.WithComponent("service")
	deps.Auth = service.NewAuthService(store.Users, tokens, dispatcher, svcLog)
	deps.Customers = service.NewCustomerService(store.Customers, dispatcher, svcLog)
	deps.Deals = service.NewDealService(store.Deals, dispatcher, svcLog)
	deps.Tasks = service.NewTaskService(store.Tasks, dispatcher, svcLog)
	deps.Dashboard = service.NewDashboardService(store.Customers, store.Deals, store.Tasks)

	e := api.NewRouter(deps)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("shutdown complete")
	return nil
}
