package game

import (
	"errors"
	"strings"
)

var ErrAlreadyStarted = errors.New("game already started")
var ErrNoSuchPlayer = errors.New("no such player")

// End reasons are part of the wire protocol; clients match on them.
const (
	ReasonLastStanding = "Last player standing"
	ReasonLostAllLives = "You lost all lives"
	ReasonDisconnects  = "Players have disconnected in multiplayer game"
)

// Winner name used for the solo loss case. There is no winner; the client
// renders a solo summary when it sees this sentinel.
const SoloWinner = "SOLO"

type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Lives int    `json:"lives"`
}

type Config struct {
	TimeLimit int // seconds per turn
	Lives     int // starting lives per player
}

type EndResult struct {
	Reason         string
	Winner         string
	TotalLocations int
	IsSolo         bool
}

// State holds everything mutable about one game session. It is pure data:
// no channels, no clocks. The room actor owns exactly one State and is the
// only goroutine that touches it.
type State struct {
	Started          bool
	Finished         bool
	IsSolo           bool
	Players          []Player
	CurrentTurnIndex int
	CurrentLetter    string
	Locations        []string        // accepted canonical names, in order
	Guessed          map[string]bool // normalized keys, grows only
	TimeLimit        int
	TimeLeft         int
	Lives            int
}

func NewState(cfg Config) *State {
	return &State{
		CurrentLetter: "A",
		Guessed:       make(map[string]bool),
		TimeLimit:     cfg.TimeLimit,
		TimeLeft:      cfg.TimeLimit,
		Lives:         cfg.Lives,
	}
}

// AddPlayer appends a player in turn order. Joining a started game is an error.
func (s *State) AddPlayer(id, name string) (Player, error) {
	if s.Started {
		return Player{}, ErrAlreadyStarted
	}
	p := Player{ID: id, Name: name, Lives: s.Lives}
	s.Players = append(s.Players, p)
	return p, nil
}

// Start marks the game started and fixes solo mode. IsSolo is never
// recomputed afterward, even if players disconnect down to one.
func (s *State) Start() error {
	if s.Started {
		return ErrAlreadyStarted
	}
	s.Started = true
	s.IsSolo = len(s.Players) == 1
	return nil
}

func (s *State) CurrentPlayer() *Player {
	if len(s.Players) == 0 || s.CurrentTurnIndex < 0 || s.CurrentTurnIndex >= len(s.Players) {
		return nil
	}
	return &s.Players[s.CurrentTurnIndex]
}

func (s *State) liveCount() int {
	n := 0
	for _, p := range s.Players {
		if p.Lives > 0 {
			n++
		}
	}
	return n
}

// PassTurn advances the turn circularly, skipping eliminated players, and
// resets the turn clock. Returns false without moving when no live player
// exists; callers must run EvaluateEnd before this, never after.
func (s *State) PassTurn() bool {
	if s.Finished || len(s.Players) == 0 || s.liveCount() == 0 {
		return false
	}
	for {
		s.CurrentTurnIndex = (s.CurrentTurnIndex + 1) % len(s.Players)
		if s.Players[s.CurrentTurnIndex].Lives > 0 {
			break
		}
	}
	s.TimeLeft = s.TimeLimit
	return true
}

// PenalizeCurrent takes one life from the player on turn, floored at zero.
// Returns false when there was nothing to take.
func (s *State) PenalizeCurrent() bool {
	p := s.CurrentPlayer()
	if p == nil || p.Lives <= 0 {
		return false
	}
	p.Lives--
	return true
}

func (s *State) SetLives(userID string, lives int) error {
	for i := range s.Players {
		if s.Players[i].ID == userID {
			s.Players[i].Lives = lives
			return nil
		}
	}
	return ErrNoSuchPlayer
}

// RemovePlayer drops the player with the given connection id and keeps
// CurrentTurnIndex pointing at a sensible successor in the shorter list.
func (s *State) RemovePlayer(id string) (Player, bool) {
	idx := -1
	for i := range s.Players {
		if s.Players[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return Player{}, false
	}
	removed := s.Players[idx]
	s.Players = append(s.Players[:idx], s.Players[idx+1:]...)
	if len(s.Players) == 0 {
		s.CurrentTurnIndex = 0
		return removed, true
	}
	if s.CurrentTurnIndex >= idx {
		s.CurrentTurnIndex = (s.CurrentTurnIndex - 1 + len(s.Players)) % len(s.Players)
	}
	return removed, true
}

// AcceptLocation records an accepted canonical name and derives the next
// required letter from its last character, uppercased.
func (s *State) AcceptLocation(canonical string) {
	s.Locations = append(s.Locations, canonical)
	runes := []rune(canonical)
	if len(runes) > 0 {
		s.CurrentLetter = strings.ToUpper(string(runes[len(runes)-1]))
	}
}

// EvaluateEnd checks the end-of-game conditions in order and, on a match,
// flips the session into its terminal state. Re-evaluating a finished game
// is a no-op, which is what makes the timeout/disconnect race safe.
func (s *State) EvaluateEnd() *EndResult {
	if s.Finished {
		return nil
	}
	if !s.IsSolo && s.liveCount() == 1 {
		var winner string
		for _, p := range s.Players {
			if p.Lives > 0 {
				winner = p.Name
				break
			}
		}
		return s.finish(ReasonLastStanding, winner)
	}
	if s.IsSolo && len(s.Players) > 0 && s.Players[0].Lives <= 0 {
		return s.finish(ReasonLostAllLives, SoloWinner)
	}
	if !s.IsSolo && len(s.Players) == 1 {
		return s.finish(ReasonDisconnects, s.Players[0].Name)
	}
	return nil
}

func (s *State) finish(reason, winner string) *EndResult {
	s.Finished = true
	return &EndResult{
		Reason:         reason,
		Winner:         winner,
		TotalLocations: len(s.Locations),
		IsSolo:         s.IsSolo,
	}
}

// Snapshot returns a copy safe to read outside the owning goroutine.
func (s *State) Snapshot() State {
	cp := *s
	cp.Players = append([]Player(nil), s.Players...)
	cp.Locations = append([]string(nil), s.Locations...)
	cp.Guessed = make(map[string]bool, len(s.Guessed))
	for k, v := range s.Guessed {
		cp.Guessed[k] = v
	}
	return cp
}
