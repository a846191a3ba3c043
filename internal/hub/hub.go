// Package hub is the session registry: one actor mapping game ids to live
// rooms. Rooms are created lazily on first join and kept for the life of
// the process.
package hub

import (
	"context"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/geochain-io/geochain-backend/internal/game"
	"github.com/geochain-io/geochain-backend/internal/gazetteer"
	"github.com/geochain-io/geochain-backend/internal/room"
)

type HubMsg interface{ isHubMsg() }

// EnsureRoom returns the room for an id, creating it with the given config
// when it does not exist yet. Config is only used on creation; later
// joiners inherit the first joiner's settings.
type EnsureRoom struct {
	ID    string
	Cfg   game.Config
	Reply chan *room.Room
}

type GetRoom struct {
	ID    string
	Reply chan *room.Room
}

// RemoveRoom exists for future idle-room reaping; nothing calls it in the
// normal flow.
type RemoveRoom struct{ ID string }

type ShutdownHub struct{}

func (EnsureRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RemoveRoom) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	gaz    *gazetteer.Index
	clock  clockwork.Clock
	log    *zap.SugaredLogger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, gaz *gazetteer.Index, clock clockwork.Clock, log *zap.SugaredLogger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		gaz:    gaz,
		clock:  clock,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureRoom:
				if rm := h.rooms[msg.ID]; rm != nil {
					msg.Reply <- rm
					break
				}
				rm := room.New(h.ctx, msg.ID, msg.Cfg, h.gaz, h.clock, h.log)
				h.rooms[msg.ID] = rm
				h.log.Infow("room created", "gameId", msg.ID, "timeLimit", msg.Cfg.TimeLimit, "lives", msg.Cfg.Lives)
				msg.Reply <- rm

			case GetRoom:
				msg.Reply <- h.rooms[msg.ID] // May be nil

			case RemoveRoom:
				if rm := h.rooms[msg.ID]; rm != nil {
					rm.Inbox() <- room.Shutdown{}
					delete(h.rooms, msg.ID)
				}

			case ShutdownHub:
				for _, rm := range h.rooms {
					rm.Inbox() <- room.Shutdown{}
				}
				clear(h.rooms)
				h.cancel()
			}
		}
	}
}
