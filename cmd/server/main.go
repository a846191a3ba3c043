package main

import (
	"context"
	"net/http"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/geochain-io/geochain-backend/internal/config"
	"github.com/geochain-io/geochain-backend/internal/game"
	"github.com/geochain-io/geochain-backend/internal/gazetteer"
	"github.com/geochain-io/geochain-backend/internal/httpapi"
	"github.com/geochain-io/geochain-backend/internal/hub"
	"github.com/geochain-io/geochain-backend/internal/match"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	// An unloadable dataset is the one fatal condition: without it no
	// answer could ever validate.
	gaz, err := gazetteer.Load(cfg.DatasetPath)
	if err != nil {
		log.Fatalw("failed to load gazetteer", "path", cfg.DatasetPath, "err", err)
	}
	log.Infow("gazetteer loaded", "locations", gaz.Len())

	defaults := game.Config{TimeLimit: cfg.DefaultTimeLimit, Lives: cfg.DefaultLives}

	ctx := context.Background()
	h := hub.NewHub(ctx, gaz, clockwork.NewRealClock(), log)
	handler := httpapi.SetupRoutes(h, match.New(gaz), defaults, log)

	log.Infow("listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatalw("server exited", "err", err)
	}
}
