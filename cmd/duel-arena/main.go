package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ericogr/duel-arena/internal/api"
	"github.com/ericogr/duel-arena/internal/battle"
	"github.com/ericogr/duel-arena/internal/logging"
	"github.com/ericogr/duel-arena/internal/service"
	"github.com/ericogr/duel-arena/internal/version"
)

func main() {
	defer logging.Sync()

	cfg := loadConfigOrExit()
	cat := loadCatalogOrExit(cfg.CatalogPath)
	repo := createRepositoryOrExit(cfg.DatabasePath)

	// Battles run under this context; cancelling it on SIGINT/SIGTERM ends
	// every live session as errored before the server stops.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := service.New(ctx, repo, cat, service.Options{
		Timeouts:     battle.Timeouts{Lead: cfg.LeadTimeout, Turn: cfg.TurnTimeout},
		DefaultLevel: cfg.DefaultLevel,
		AIName:       cfg.AIName,
	})
	startStaleReaper(ctx, svc, cfg.MaxBattleAge)

	tokens, err := api.NewTokenIssuer(cfg.SessionSecret, 24*time.Hour)
	if err != nil {
		logging.Fatal("Failed to initialize session tokens", err, nil)
	}
	router := api.NewRouter(api.RouterConfig{
		Service:    svc,
		Tokens:     tokens,
		AdminToken: cfg.AdminToken,
	})

	v := version.Get()
	logging.Info("duel-arena starting", logging.Fields{"version": v.Version, "commit": v.Commit})

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := serve(ctx, srv); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
