package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/geochain-io/geochain-backend/internal/game"
	"github.com/geochain-io/geochain-backend/internal/hub"
	"github.com/geochain-io/geochain-backend/internal/match"
	"github.com/geochain-io/geochain-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, validator *match.Validator, defaults game.Config, log *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/api", Hello)
	r.Get("/api/create_game", CreateGame)
	r.Get("/api/check-room/{roomID}", CheckRoom(h))
	r.Post("/api/validate_location", ValidateLocation(h, validator))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, defaults, log))
	return r
}
