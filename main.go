package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/lazharichir/nutsrv/config"
	"github.com/lazharichir/nutsrv/domain"
	"github.com/lazharichir/nutsrv/history"
	"github.com/lazharichir/nutsrv/server"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	// Parse command line flags
	var (
		listen   = flag.String("listen", cfg.ListenAddr, "Game protocol listen address")
		httpAddr = flag.String("http", cfg.HTTPAddr, "HTTP API listen address")
		dsn      = flag.String("db", cfg.HistoryDSN, "SQLite path for hand results, empty keeps them in memory")
	)
	flag.Parse()
	cfg.ListenAddr, cfg.HTTPAddr, cfg.HistoryDSN = *listen, *httpAddr, *dsn

	logger.SetLevel(cfg.LogLevel)
	logger.Info("Starting HoldingNuts-compatible poker server...")

	var store history.Store = history.NewInMemoryStore()
	if cfg.HistoryDSN != "" {
		sqlite, err := history.NewSQLiteStore(cfg.HistoryDSN)
		if err != nil {
			logger.WithError(err).Fatal("failed to open hand history database")
		}
		defer sqlite.Close()
		store = sqlite
		logger.WithField("dsn", cfg.HistoryDSN).Info("hand history stored in sqlite")
	}

	registry := domain.NewRegistry(logger)
	for id := 0; id < cfg.Games; id++ {
		g := domain.NewGameController(id, domain.GameConfig{
			MaxPlayers: cfg.MaxPlayers,
			StartStake: cfg.StartStake,
			Blind:      cfg.Blind,
			Timeout:    cfg.ActionTimeout,
			Logger:     logger,
		})
		if err := registry.Add(g); err != nil {
			logger.WithError(err).Fatal("failed to create game")
		}
	}

	srv := server.NewServer(registry, store, server.Options{
		ListenAddr:  cfg.ListenAddr,
		HTTPAddr:    cfg.HTTPAddr,
		Tick:        cfg.Tick,
		AuthSecret:  cfg.AuthSecret,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.WithError(err).Error("server failed")
		os.Exit(1)
	}
	logger.Info("server stopped")
}
