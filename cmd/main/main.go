package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	_ "net/http/pprof"

	"incentive-service/internal/config"
	"incentive-service/internal/incentive/catalog"
	incHnd "incentive-service/internal/incentive/handler"
	incSvc "incentive-service/internal/incentive/service"
	"incentive-service/internal/store"
	serverhttp "incentive-service/server/http"
)

func main() {
	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		runtime.GOMAXPROCS(runtime.NumCPU())
	}

	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	cat := catalog.Default()
	if cfg.CatalogFile != "" {
		var err error
		cat, err = catalog.Load(cfg.CatalogFile)
		if err != nil {
			logger.Fatal().Err(err).Str("file", cfg.CatalogFile).Msg("load catalog")
		}
	}

	aliases := incSvc.DefaultAliases()
	if cfg.ColumnsFile != "" {
		var err error
		aliases, err = incSvc.LoadAliases(cfg.ColumnsFile)
		if err != nil {
			logger.Fatal().Err(err).Str("file", cfg.ColumnsFile).Msg("load columns")
		}
	}

	var st *store.Store
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		var err error
		st, err = store.Open(ctx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			logger.Fatal().Err(err).Msg("open store")
		}
		defer st.Close()
		logger.Info().Msg("visit persistence enabled")
	}

	deps := incHnd.Deps{Cfg: cfg, Catalog: cat, Aliases: aliases, Store: st, Logger: logger}
	r := serverhttp.NewRouter(deps, logger)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	logger.Info().Str("addr", cfg.Addr()).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
