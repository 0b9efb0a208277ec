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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/rmoreas/library-admin/internal/auth"
	"github.com/rmoreas/library-admin/internal/catalog"
	"github.com/rmoreas/library-admin/internal/config"
	httpx "github.com/rmoreas/library-admin/internal/http"
	"github.com/rmoreas/library-admin/internal/observability"
	"github.com/rmoreas/library-admin/internal/repo/userfile"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	// tracing is best effort; the admin panel must come up without a collector
	shutdownTracer, err := observability.InitTracer(context.Background(), "library-admin", cfg.OTLPEndpoint)

	if err != nil {
		log.Warn("tracing disabled", "err", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	// the credential store must be usable before anything is served;
	// first run seeds the default admin/user accounts
	users := userfile.NewUsersRepo(cfg.UsersFile)

	if _, err := users.Load(); err != nil {
		log.Error("credential store unusable", "file", cfg.UsersFile, "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	catalogClient := catalog.NewClient(cfg.CatalogBaseURL, prom)

	cache := catalog.NewCachedLister(catalogClient, cfg.DashboardTTL).
		WithCacheCounters(
			func() { prom.DashboardCacheHits.WithLabelValues("hit").Inc() },
			func() { prom.DashboardCacheHits.WithLabelValues("miss").Inc() },
		)

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL)

	router := httpx.NewRouter(httpx.Deps{
		Cfg:     cfg,
		Users:   users,
		Catalog: catalogClient,
		Cache:   cache,
		JWT:     jwtManager,
		Prom:    prom,
		PromReg: reg,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "catalog", cfg.CatalogBaseURL)
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

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		_ = shutdownTracer(ctx)
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
