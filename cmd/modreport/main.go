package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/techentum/mod-report/internal/auth"
	"github.com/techentum/mod-report/internal/config"
	"github.com/techentum/mod-report/internal/logger"
	"github.com/techentum/mod-report/internal/store/sqlite"
	"github.com/techentum/mod-report/internal/web"
)

func main() {
	var (
		configFlag    = flag.String("config", "", "Path to a YAML config file")
		listenFlag    = flag.String("listen", "", "HTTP listen address (overrides config)")
		dataDirFlag   = flag.String("data-dir", "", "Directory for the SQLite database (overrides config)")
		verboseFlag   = flag.Bool("verbose", false, "Enable debug logging")
		shutdownGrace = flag.Duration("grace", 5*time.Second, "Shutdown grace period")
	)
	flag.Parse()

	logger.SetVerbose(*verboseFlag)

	cfg, err := config.Load(*configFlag)
	if err != nil {
		logger.Error("config: %v", err)
		os.Exit(1)
	}
	if *listenFlag != "" {
		cfg.Listen = *listenFlag
	}
	if *dataDirFlag != "" {
		cfg.DataDir = *dataDirFlag
	}
	if cfg.UsingDefaultSecret() {
		logger.Warn("session secret is the development default; set session.secret in the config file")
	}

	st, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		logger.Error("open store: %v", err)
		os.Exit(1)
	}
	defer st.Close()

	authManager := auth.NewManager(st, cfg.Session.Secret, cfg.Session.CookieName)

	server, err := web.New(st, authManager)
	if err != nil {
		logger.Error("web server: %v", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:         cfg.Listen,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	logger.Info("listening on %s", cfg.Listen)

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errChan:
		logger.Error("listen: %v", err)
		os.Exit(1)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), *shutdownGrace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown: %v", err)
	}
}
