// Package ws is the socket transport: it decodes event envelopes from the
// browser, dispatches them into room inboxes, and pumps room broadcasts
// back out. All game logic lives behind the inbox; this layer never touches
// room state directly.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/geochain-io/geochain-backend/internal/game"
	"github.com/geochain-io/geochain-backend/internal/hub"
	"github.com/geochain-io/geochain-backend/internal/room"
	"github.com/geochain-io/geochain-backend/internal/types"
)

const writeTimeout = 3 * time.Second

func Handler(h *hub.Hub, defaults game.Config, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		connID := uuid.NewString()
		out := make(chan types.ServerMessage, 32)
		clog := log.With("connId", connID)

		// Every room this connection joined, by game id. A disconnect must
		// reach all of them or a ghost player lingers in the earlier rooms.
		joined := make(map[string]*room.Room)
		defer func() {
			for _, rm := range joined {
				rm.Inbox() <- room.Leave{ConnID: connID}
			}
		}()

		// Writer goroutine: drains the outbox until the room closes it or
		// the connection dies.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for msg := range out {
				payload, err := json.Marshal(msg)
				if err != nil {
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"event":"error","data":{"message":"bad json"}}`))
				continue
			}

			switch cm.Event {
			case "join-room":
				if cm.GameID == "" || cm.Nickname == "" {
					_ = conn.Write(r.Context(), websocket.MessageText,
						[]byte(`{"event":"error","data":{"message":"missing gameId or nickname"}}`))
					continue
				}
				cfg := defaults
				if cm.TimeLimit != nil {
					cfg.TimeLimit = *cm.TimeLimit
				}
				if cm.Lives != nil {
					cfg.Lives = *cm.Lives
				}
				reply := make(chan *room.Room, 1)
				h.Inbox() <- hub.EnsureRoom{ID: cm.GameID, Cfg: cfg, Reply: reply}
				rm := <-reply
				rm.Inbox() <- room.Join{ConnID: connID, Nickname: cm.Nickname, Outbox: out}
				joined[cm.GameID] = rm

			case "start-game-pressed":
				rm := lookup(h, cm.GameID)
				if rm == nil {
					sendNow(out, types.ServerMessage{
						Event: types.EvtStartGameError,
						Data:  types.ErrorMessage{Message: "The specified room does not exist."},
					})
					continue
				}
				rm.Inbox() <- room.StartGame{ConnID: connID}

			case "add-location":
				if rm := lookup(h, cm.GameID); rm != nil {
					rm.Inbox() <- room.AddLocation{ConnID: connID, Raw: cm.Location}
				}

			case "change-current":
				if rm := lookup(h, cm.GameID); rm != nil {
					rm.Inbox() <- room.ChangeLetter{Letter: cm.Letter}
				}

			case "update-life":
				if cm.NewLives == nil {
					continue
				}
				if rm := lookup(h, cm.GameID); rm != nil {
					rm.Inbox() <- room.UpdateLife{UserID: cm.UserID, NewLives: *cm.NewLives}
				}

			default:
				clog.Debugw("unknown event", "event", cm.Event)
			}
		}
	}
}

func lookup(h *hub.Hub, gameID string) *room.Room {
	reply := make(chan *room.Room, 1)
	h.Inbox() <- hub.GetRoom{ID: gameID, Reply: reply}
	return <-reply
}

// sendNow targets the connection's own outbox, bypassing any room. Used for
// errors that belong to the requester only.
func sendNow(out chan types.ServerMessage, msg types.ServerMessage) {
	select {
	case out <- msg:
	default:
	}
}
