package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"promptguard/internal/core/version"
	"promptguard/internal/platform/config"
	"promptguard/internal/platform/logger"
	phttp "promptguard/internal/platform/net/http"
	"promptguard/internal/platform/net/middleware"

	screenmod "promptguard/internal/services/screen/module"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*), screen module under CORE_SCREEN_*
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	coreCfg := root.Prefix("CORE_")

	// bring up logging early
	l := logger.Get()

	screen, err := screenmod.New(screenmod.FromConfig(coreCfg))
	if err != nil {
		l.Panic().Err(err).Msg("screen module init failed")
	}

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	r := srv.Router()
	r.Use(middleware.Defaults()...)
	r.Use(middleware.CORS(middleware.CORSOptions{
		AllowedOrigins: apiCfg.MayCSV("CORS_ORIGINS", []string{"*"}),
	}))
	r.Use(middleware.AccessLogZerolog(middleware.AccessLogOptions{
		Slow: apiCfg.MayDuration("SLOW", 500*time.Millisecond),
	}))
	r.Use(middleware.RecoverJSON)
	r.Use(middleware.Heartbeat("/healthz"))

	screen.MountRoutes(r)
	phttp.GetJSON(r, "/version", func(*http.Request) (any, error) {
		return version.Info(), nil
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			l.Panic().Err(err).Msg("http server stopped")
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Error().Err(err).Msg("graceful shutdown failed")
		}
		<-done
	}
}
