package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/geochain-io/geochain-backend/internal/hub"
	"github.com/geochain-io/geochain-backend/internal/match"
	"github.com/geochain-io/geochain-backend/internal/room"
	"github.com/geochain-io/geochain-backend/internal/types"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Hello(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("Hello, world!"))
}

// CreateGame hands out a fresh game id. The room itself is created lazily
// when the first player joins over the socket.
func CreateGame(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		GameID string `json:"gameId"`
	}{GameID: uuid.NewString()})
}

func CheckRoom(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.GetRoom{ID: chi.URLParam(r, "roomID"), Reply: reply}
		writeJSON(w, http.StatusOK, struct {
			Exists bool `json:"exists"`
		}{Exists: <-reply != nil})
	}
}

type validateRequest struct {
	GameID   string `json:"gameId"`
	Location string `json:"location"`
}

type validateResponse struct {
	Success      bool                `json:"success"`
	Message      string              `json:"message,omitempty"`
	LocationData *types.LocationData `json:"location_data,omitempty"`
}

// ValidateLocation runs the same validator as add-location, through the
// room actor so an accepted name counts as guessed for that room.
func ValidateLocation(h *hub.Hub, validator *match.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req validateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GameID == "" || req.Location == "" {
			writeJSON(w, http.StatusBadRequest, validateResponse{
				Success: false,
				Message: "Missing gameId or location.",
			})
			return
		}

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.GetRoom{ID: req.GameID, Reply: reply}
		rm := <-reply

		var res match.Result
		if rm != nil {
			resCh := make(chan match.Result, 1)
			rm.Inbox() <- room.Validate{Raw: req.Location, Reply: resCh}
			res = <-resCh
		} else {
			// Unknown room: validate against the gazetteer only, with a
			// throwaway guessed set.
			res = validator.Validate(req.Location, make(map[string]bool))
		}

		if !res.OK {
			writeJSON(w, http.StatusOK, validateResponse{Success: false, Message: res.Message})
			return
		}
		writeJSON(w, http.StatusOK, validateResponse{
			Success: true,
			LocationData: &types.LocationData{
				Latitude:  res.Record.Latitude,
				Longitude: res.Record.Longitude,
				Name:      res.Record.Name,
			},
		})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
