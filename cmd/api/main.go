package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/usershub/internal/auth"
	"github.com/geocoder89/usershub/internal/config"
	"github.com/geocoder89/usershub/internal/db"
	"github.com/geocoder89/usershub/internal/domain/user"
	httpx "github.com/geocoder89/usershub/internal/http"
	"github.com/geocoder89/usershub/internal/http/handlers"
	"github.com/geocoder89/usershub/internal/observability"
	"github.com/geocoder89/usershub/internal/ratelimit"
	"github.com/geocoder89/usershub/internal/redisclient"
	"github.com/geocoder89/usershub/internal/repo"
	"github.com/geocoder89/usershub/internal/repo/cached"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	err := cfg.Validate()
	if err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	tracing := observability.TracerConfig{
		ServiceName: "usershub",
		Environment: cfg.Env,
		Endpoint:    cfg.OTELEndpoint,
		SampleRatio: cfg.OTELSampleRatio,
	}

	shutdownTracer, err := observability.InitTracer(ctx, tracing)
	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	// metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	// storage
	store, err := repo.Open(cfg, prom)
	if err != nil {
		log.Error("store open failed", "driver", cfg.DBDriver, "err", err)
		os.Exit(1)
	}
	defer store.Close()

	if cfg.MigrateOnStart {
		mctx, cancel := config.WithTimeout(30 * time.Second)
		err = store.Migrate(mctx)
		cancel()
		if err != nil {
			log.Error("migrations failed", "err", err)
			os.Exit(1)
		}
	}

	sctx, cancel := config.WithTimeout(10 * time.Second)
	err = db.EnsureAdminUser(sctx, store.Users, cfg)
	cancel()
	if err != nil {
		log.Error("admin seed failed", "err", err)
		os.Exit(1)
	}

	users, authService := newUserServices(cfg, store.Users)

	checks := []handlers.Check{{Name: "database", Ping: store.Ping}}

	// rate limit counters live in redis when configured so every replica shares them
	var limiter ratelimit.Store = ratelimit.NewMemory()
	if cfg.RedisAddr != "" {
		rdb := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		limiter = ratelimit.NewRedis(rdb.Raw(), "usershub:ratelimit:")
		checks = append(checks, handlers.Check{Name: "redis", Ping: rdb.Ping})
	}

	// set up routers with the log
	router := httpx.NewRouter(log, cfg, httpx.Deps{
		Users:    users,
		Auth:     authService,
		Limiter:  limiter,
		Prom:     prom,
		Gatherer: reg,
		Checks:   checks,
		Tracing:  tracing.Enabled(),
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "driver", cfg.DBDriver)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		err = shutdownTracer(ctx)
		if err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}

// newUserServices returns the cached repository for public reads and an auth
// service over the uncached store, so token and admin checks always see
// flag changes made by other processes.
func newUserServices(cfg config.Config, store user.Repository) (user.Repository, *auth.Service) {
	reads := cached.NewUsersRepo(store, cfg.UserCacheTTL())
	svc := auth.NewService(store, auth.NewManager(cfg.JWTSecret, cfg.AccessTTL()), cfg.BcryptCost)

	return reads, svc
}
