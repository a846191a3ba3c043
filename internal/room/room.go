// Package room runs one game session as an actor: a single goroutine owns
// the state and consumes an inbox, so network events, timer ticks and
// disconnects can never race on room fields.
package room

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/geochain-io/geochain-backend/internal/game"
	"github.com/geochain-io/geochain-backend/internal/gazetteer"
	"github.com/geochain-io/geochain-backend/internal/match"
	"github.com/geochain-io/geochain-backend/internal/types"
)

type Room struct {
	id        string
	inbox     chan Msg
	state     *game.State
	gaz       *gazetteer.Index
	validator *match.Validator
	clients   map[string]chan types.ServerMessage
	dropped   map[string]bool
	clock     clockwork.Clock
	ticker    clockwork.Ticker
	log       *zap.SugaredLogger
	ctx       context.Context
	cancel    context.CancelFunc
}

func New(parent context.Context, id string, cfg game.Config, gaz *gazetteer.Index, clock clockwork.Clock, log *zap.SugaredLogger) *Room {
	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		id:        id,
		inbox:     make(chan Msg, 64),
		state:     game.NewState(cfg),
		gaz:       gaz,
		validator: match.New(gaz),
		clients:   make(map[string]chan types.ServerMessage),
		dropped:   make(map[string]bool),
		clock:     clock,
		log:       log.With("gameId", id),
		ctx:       ctx,
		cancel:    cancel,
	}
	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	for {
		// The tick channel is re-resolved every iteration: after the ticker
		// is stopped and replaced, stale fires simply have no case to land on.
		var tickCh <-chan time.Time
		if r.ticker != nil {
			tickCh = r.ticker.Chan()
		}

		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case <-tickCh:
			r.handleTick()

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.handleJoin(msg)
			case StartGame:
				r.handleStart(msg.ConnID)
			case AddLocation:
				r.handleAddLocation(msg.ConnID, msg.Raw)
			case ChangeLetter:
				r.state.CurrentLetter = msg.Letter
				r.broadcast(types.EvtUpdateCurrentLetter, msg.Letter)
			case UpdateLife:
				r.handleUpdateLife(msg.UserID, msg.NewLives)
			case Leave:
				r.handleLeave(msg.ConnID)
			case Validate:
				msg.Reply <- r.validator.Validate(msg.Raw, r.state.Guessed)
			case GetState:
				msg.Reply <- View{NumClients: len(r.clients), State: r.state.Snapshot()}
			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) handleJoin(msg Join) {
	if r.state.Started {
		sendNonBlocking(msg.Outbox, types.ServerMessage{
			Event: types.EvtGameStartedError,
			Data:  types.ErrorMessage{Message: "The game has already started."},
		})
		return
	}

	// A connection registers at most once. Re-joining after the room dropped
	// its outbox would resurrect a closed channel and panic on the next send.
	if _, ok := r.clients[msg.ConnID]; ok || r.dropped[msg.ConnID] {
		return
	}

	if _, err := r.state.AddPlayer(msg.ConnID, msg.Nickname); err != nil {
		return
	}
	r.clients[msg.ConnID] = msg.Outbox

	// Replay room history so a late joiner can render everything.
	markers := make([]types.Marker, 0, len(r.state.Locations))
	for _, name := range r.state.Locations {
		if rec, ok := r.gaz.LookupCanonical(name); ok {
			markers = append(markers, types.Marker{Latitude: rec.Latitude, Longitude: rec.Longitude, Name: rec.Name})
		}
	}
	r.sendTo(msg.ConnID, types.EvtInitializeGame, types.InitializeGame{
		Locations:     r.locations(),
		Markers:       markers,
		CurrentLetter: r.state.CurrentLetter,
		Users:         r.players(),
		CurrentTurn:   r.currentTurn(),
		TimeLimit:     r.state.TimeLimit,
		TimeLeft:      r.state.TimeLeft,
	})

	r.broadcast(types.EvtUpdateUsers, r.players())
	r.broadcast(types.EvtUpdateTurn, r.currentTurn())
	r.broadcast(types.EvtUpdateTimeLeft, r.state.TimeLeft)
	r.log.Infow("player joined", "nickname", msg.Nickname)
}

func (r *Room) handleStart(connID string) {
	if err := r.state.Start(); err != nil {
		r.sendTo(connID, types.EvtGameStartedError, types.ErrorMessage{Message: "Game has already started."})
		return
	}

	r.broadcast(types.EvtGameStarted, types.GameStarted{
		CurrentLetter: r.state.CurrentLetter,
		CurrentTurn:   r.currentTurn(),
		TimeLimit:     r.state.TimeLimit,
		TimeLeft:      r.state.TimeLeft,
		Users:         r.players(),
		Locations:     r.locations(),
		IsSolo:        r.state.IsSolo,
	})
	r.startTimer()
	r.log.Infow("game started", "players", len(r.state.Players), "solo", r.state.IsSolo)
}

// handleTick runs once per second while a turn is live. Order matters:
// timeLeft is broadcast before the decrement, and again at the bottom
// unless the game just ended.
func (r *Room) handleTick() {
	if r.state.Finished || !r.state.Started {
		return
	}

	r.broadcast(types.EvtUpdateTimeLeft, r.state.TimeLeft)
	r.state.TimeLeft--

	if r.state.TimeLeft <= 0 {
		r.stopTimer()

		if r.state.PenalizeCurrent() {
			r.broadcast(types.EvtUpdateUsers, r.players())
		}

		// End evaluation must run before any turn advance: if every other
		// player is already out, advancing would spin on dead players.
		if end := r.state.EvaluateEnd(); end != nil {
			r.finish(end)
			return
		}

		r.passTurn()
	}

	r.broadcast(types.EvtUpdateTimeLeft, r.state.TimeLeft)
}

func (r *Room) handleAddLocation(connID, raw string) {
	if r.state.Finished {
		return
	}

	res := r.validator.Validate(raw, r.state.Guessed)
	if !res.OK {
		r.sendTo(connID, types.EvtLocationError, res.Message)
		r.log.Debugw("location rejected", "input", raw, "reason", res.Message)
		return
	}

	r.state.AcceptLocation(res.Record.Name)
	r.broadcast(types.EvtUpdateCurrentLetter, r.state.CurrentLetter)
	r.broadcast(types.EvtUpdateLocations, r.locations())

	r.passTurn()

	r.broadcast(types.EvtAddMarker, types.Marker{
		Latitude:  res.Record.Latitude,
		Longitude: res.Record.Longitude,
		Name:      res.Record.Name,
	})
	r.log.Infow("location added", "input", raw, "matched", res.Record.Name)
}

func (r *Room) handleUpdateLife(userID string, lives int) {
	if r.state.Finished {
		return
	}
	if err := r.state.SetLives(userID, lives); err == nil {
		r.broadcast(types.EvtUpdateUsers, r.players())
	}
	if end := r.state.EvaluateEnd(); end != nil {
		r.finish(end)
	}
}

func (r *Room) handleLeave(connID string) {
	delete(r.clients, connID)
	delete(r.dropped, connID)
	removed, ok := r.state.RemovePlayer(connID)
	if !ok {
		return
	}
	r.log.Infow("player left", "nickname", removed.Name)

	r.broadcast(types.EvtUpdateUsers, r.players())
	if len(r.state.Players) > 0 {
		r.broadcast(types.EvtUpdateTurn, r.currentTurn())
		r.state.TimeLeft = r.state.TimeLimit
		r.broadcast(types.EvtUpdateTimeLeft, r.state.TimeLeft)
	} else {
		r.stopTimer()
	}

	// Solo rooms skip end evaluation here: when a solo game ends the socket
	// drops right after, and the now-empty room must not re-evaluate.
	if !r.state.IsSolo {
		if end := r.state.EvaluateEnd(); end != nil {
			r.finish(end)
		}
	}
}

// passTurn advances to the next live player, announces the turn and the
// reset clock, and arms a fresh ticker.
func (r *Room) passTurn() {
	if !r.state.PassTurn() {
		return
	}
	r.broadcast(types.EvtUpdateTurn, r.currentTurn())
	r.broadcast(types.EvtUpdateTimeLeft, r.state.TimeLeft)
	r.startTimer()
}

// startTimer arms the per-turn ticker. At most one ticker exists per room;
// any previous one is stopped first.
func (r *Room) startTimer() {
	r.stopTimer()
	r.state.TimeLeft = r.state.TimeLimit
	r.ticker = r.clock.NewTicker(time.Second)
}

func (r *Room) stopTimer() {
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
	}
}

// finish cancels the timer before the end-game broadcast so no tick can
// land after the result is announced.
func (r *Room) finish(end *game.EndResult) {
	r.stopTimer()
	r.broadcast(types.EvtEndGame, types.EndGame{
		Reason:         end.Reason,
		Winner:         end.Winner,
		TotalLocations: end.TotalLocations,
		IsSolo:         end.IsSolo,
	})
	r.log.Infow("game over", "reason", end.Reason, "winner", end.Winner, "locations", end.TotalLocations)
}

// Payloads are copied before they leave the actor: the writer goroutines
// marshal them concurrently with further state mutation.

func (r *Room) players() []game.Player {
	return append([]game.Player(nil), r.state.Players...)
}

func (r *Room) locations() []string {
	return append([]string(nil), r.state.Locations...)
}

func (r *Room) currentTurn() *game.Player {
	if p := r.state.CurrentPlayer(); p != nil {
		cp := *p
		return &cp
	}
	return nil
}

func (r *Room) sendTo(connID string, event string, data any) {
	ch, ok := r.clients[connID]
	if !ok {
		return
	}
	if !sendNonBlocking(ch, types.ServerMessage{Event: event, Data: data}) {
		close(ch)
		delete(r.clients, connID)
		r.dropped[connID] = true
	}
}

func (r *Room) broadcast(event string, data any) {
	msg := types.ServerMessage{Event: event, Data: data}
	for id, ch := range r.clients {
		if !sendNonBlocking(ch, msg) {
			// Client is slow/full - drop them.
			close(ch)
			delete(r.clients, id)
			r.dropped[id] = true
		}
	}
}

func sendNonBlocking(ch chan types.ServerMessage, msg types.ServerMessage) bool {
	select {
	case ch <- msg:
		return true
	default:
		return false
	}
}

func (r *Room) shutdown() {
	r.stopTimer()
	for id, ch := range r.clients {
		close(ch)
		delete(r.clients, id)
	}
	r.cancel()
}
