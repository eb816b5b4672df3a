package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"aigate/internal/config"
	"aigate/internal/core/rollup"
	httpx "aigate/internal/http"
	"aigate/internal/services/accounts"
	"aigate/internal/services/auth"
	"aigate/internal/services/dashboard"
	"aigate/internal/services/proxies"
	"aigate/internal/store/postgres"
	"aigate/internal/upstream"
)

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init DB
	pool := postgres.MustOpen(ctx, cfg.DB.DSN)
	defer pool.Close()

	accountRepo := postgres.NewAccountRepository(pool)
	groupRepo := postgres.NewGroupRepository(pool)
	proxyRepo := postgres.NewProxyRepository(pool)
	announcementRepo := postgres.NewAnnouncementRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	usageRepo := postgres.NewUsageRepository(pool)

	// Redis backs the fixed-window rate limiter; optional in dev.
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	}

	authService := auth.NewService(userRepo, cfg.Sec.JWTSecret, cfg.Sec.SessionTTL)
	accountService := accounts.NewService(accountRepo, groupRepo)
	proxyService := proxies.NewService(proxyRepo, cfg.Sec.AESKey)
	dashboardService := dashboard.NewService(usageRepo)

	if err := authService.EnsureBootstrapAdmin(ctx, cfg.Sec.BootstrapEmail, cfg.Sec.BootstrapPass); err != nil {
		log.Fatal().Err(err).Msg("bootstrap admin failed")
	}

	registry := upstream.NewDefaultRegistry()

	// Usage rollup worker
	worker := rollup.NewWorker(usageRepo)
	go worker.Run(ctx)

	r := httpx.NewRouter(httpx.RouterDependencies{
		Config:           cfg,
		AuthService:      authService,
		AccountService:   accountService,
		ProxyService:     proxyService,
		DashboardService: dashboardService,
		GroupRepo:        groupRepo,
		AnnouncementRepo: announcementRepo,
		UserRepo:         userRepo,
		UpstreamRegistry: registry,
		Redis:            rdb,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Msgf("aigate admin API listening on :%s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	log.Info().Msg("server stopped")
}
