package game

import (
	"errors"
	"testing"
)

func newTestState(lives int, names ...string) *State {
	s := NewState(Config{TimeLimit: 60, Lives: lives})
	for i, name := range names {
		s.Players = append(s.Players, Player{ID: string(rune('a' + i)), Name: name, Lives: lives})
	}
	return s
}

func TestAddPlayer_RejectedAfterStart(t *testing.T) {
	s := newTestState(3, "ana")
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := s.AddPlayer("z", "late"); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("want ErrAlreadyStarted, got %v", err)
	}
	if err := s.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("second start: want ErrAlreadyStarted, got %v", err)
	}
}

func TestStart_FixesSoloMode(t *testing.T) {
	solo := newTestState(3, "ana")
	_ = solo.Start()
	if !solo.IsSolo {
		t.Fatalf("one player: want solo")
	}

	multi := newTestState(3, "ana", "bo")
	_ = multi.Start()
	if multi.IsSolo {
		t.Fatalf("two players: want multiplayer")
	}

	// Solo is fixed at start; losing the second player does not flip it.
	multi.RemovePlayer("b")
	if multi.IsSolo {
		t.Fatalf("solo recomputed after disconnect")
	}
}

func TestPassTurn_SkipsEliminatedPlayers(t *testing.T) {
	cases := []struct {
		name      string
		lives     []int
		current   int
		wantIndex int
		wantOK    bool
	}{
		{name: "simple advance", lives: []int{3, 3, 3}, current: 0, wantIndex: 1, wantOK: true},
		{name: "wraps around", lives: []int{3, 3, 3}, current: 2, wantIndex: 0, wantOK: true},
		{name: "skips dead middle player", lives: []int{3, 0, 3}, current: 0, wantIndex: 2, wantOK: true},
		{name: "skips two dead players", lives: []int{3, 0, 0, 1}, current: 0, wantIndex: 3, wantOK: true},
		{name: "sole survivor keeps turn", lives: []int{0, 2, 0}, current: 1, wantIndex: 1, wantOK: true},
		{name: "all dead refuses to advance", lives: []int{0, 0, 0}, current: 1, wantIndex: 1, wantOK: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestState(3, "a", "b", "c", "d")
			s.Players = s.Players[:len(tc.lives)]
			for i, l := range tc.lives {
				s.Players[i].Lives = l
			}
			s.CurrentTurnIndex = tc.current
			s.TimeLeft = 0

			ok := s.PassTurn()
			if ok != tc.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tc.wantOK)
			}
			if s.CurrentTurnIndex != tc.wantIndex {
				t.Fatalf("index: got %d, want %d", s.CurrentTurnIndex, tc.wantIndex)
			}
			if ok && s.TimeLeft != s.TimeLimit {
				t.Fatalf("timeLeft not reset: got %d", s.TimeLeft)
			}
		})
	}
}

func TestPenalizeCurrent_FloorsAtZero(t *testing.T) {
	s := newTestState(1, "ana")
	if !s.PenalizeCurrent() {
		t.Fatalf("expected penalty to land")
	}
	if got := s.Players[0].Lives; got != 0 {
		t.Fatalf("lives: got %d, want 0", got)
	}
	if s.PenalizeCurrent() {
		t.Fatalf("penalty on dead player should be refused")
	}
	if got := s.Players[0].Lives; got != 0 {
		t.Fatalf("lives went negative: %d", got)
	}
}

func TestRemovePlayer_IndexFixup(t *testing.T) {
	cases := []struct {
		name      string
		remove    string
		current   int
		wantIndex int
	}{
		{name: "before current", remove: "a", current: 2, wantIndex: 1},
		{name: "at current", remove: "b", current: 1, wantIndex: 0},
		{name: "after current stays put", remove: "c", current: 0, wantIndex: 0},
		{name: "current at zero wraps", remove: "a", current: 0, wantIndex: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestState(3, "ana", "bo", "cy")
			s.CurrentTurnIndex = tc.current

			if _, ok := s.RemovePlayer(tc.remove); !ok {
				t.Fatalf("player %q not found", tc.remove)
			}
			if len(s.Players) != 2 {
				t.Fatalf("players: got %d, want 2", len(s.Players))
			}
			if s.CurrentTurnIndex != tc.wantIndex {
				t.Fatalf("index: got %d, want %d", s.CurrentTurnIndex, tc.wantIndex)
			}
		})
	}
}

func TestRemovePlayer_LastPlayerAndUnknown(t *testing.T) {
	s := newTestState(3, "ana")
	if _, ok := s.RemovePlayer("nope"); ok {
		t.Fatalf("unknown id removed something")
	}
	removed, ok := s.RemovePlayer("a")
	if !ok || removed.Name != "ana" {
		t.Fatalf("remove: got %+v ok=%v", removed, ok)
	}
	if len(s.Players) != 0 || s.CurrentTurnIndex != 0 {
		t.Fatalf("empty room: players=%d index=%d", len(s.Players), s.CurrentTurnIndex)
	}
}

func TestAcceptLocation_ChainsLastLetter(t *testing.T) {
	s := newTestState(3, "ana")
	s.AcceptLocation("Boston")
	if s.CurrentLetter != "N" {
		t.Fatalf("after Boston: got %q, want N", s.CurrentLetter)
	}
	s.AcceptLocation("Nairobi")
	if s.CurrentLetter != "I" {
		t.Fatalf("after Nairobi: got %q, want I", s.CurrentLetter)
	}
	if len(s.Locations) != 2 || s.Locations[0] != "Boston" || s.Locations[1] != "Nairobi" {
		t.Fatalf("locations: %v", s.Locations)
	}
}

func TestEvaluateEnd_ConditionsInOrder(t *testing.T) {
	cases := []struct {
		name       string
		setup      func() *State
		wantReason string
		wantWinner string
	}{
		{
			name: "multiplayer last standing",
			setup: func() *State {
				s := newTestState(3, "ana", "bo", "cy")
				_ = s.Start()
				s.Players[0].Lives = 0
				s.Players[2].Lives = 0
				return s
			},
			wantReason: ReasonLastStanding,
			wantWinner: "bo",
		},
		{
			name: "solo out of lives",
			setup: func() *State {
				s := newTestState(1, "ana")
				_ = s.Start()
				s.Players[0].Lives = 0
				return s
			},
			wantReason: ReasonLostAllLives,
			wantWinner: SoloWinner,
		},
		{
			name: "multiplayer default win after disconnects",
			setup: func() *State {
				s := newTestState(3, "ana", "bo", "cy")
				_ = s.Start()
				// Everyone out of lives, two of them gone entirely.
				for i := range s.Players {
					s.Players[i].Lives = 0
				}
				s.RemovePlayer("a")
				s.RemovePlayer("b")
				return s
			},
			wantReason: ReasonDisconnects,
			wantWinner: "cy",
		},
		{
			name: "last-standing outranks default win",
			setup: func() *State {
				s := newTestState(3, "ana", "bo", "cy")
				_ = s.Start()
				s.RemovePlayer("a")
				s.RemovePlayer("b")
				return s
			},
			wantReason: ReasonLastStanding,
			wantWinner: "cy",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := tc.setup()
			end := s.EvaluateEnd()
			if end == nil {
				t.Fatalf("expected end result")
			}
			if end.Reason != tc.wantReason {
				t.Fatalf("reason: got %q, want %q", end.Reason, tc.wantReason)
			}
			if end.Winner != tc.wantWinner {
				t.Fatalf("winner: got %q, want %q", end.Winner, tc.wantWinner)
			}
			if !s.Finished {
				t.Fatalf("state not marked finished")
			}
		})
	}
}

func TestEvaluateEnd_NoMatchWhileGameLive(t *testing.T) {
	s := newTestState(3, "ana", "bo", "cy")
	_ = s.Start()
	if end := s.EvaluateEnd(); end != nil {
		t.Fatalf("live game ended: %+v", end)
	}

	solo := newTestState(2, "ana")
	_ = solo.Start()
	if end := solo.EvaluateEnd(); end != nil {
		t.Fatalf("healthy solo game ended: %+v", end)
	}
}

func TestEvaluateEnd_IdempotentTerminalState(t *testing.T) {
	s := newTestState(1, "ana")
	_ = s.Start()
	s.Players[0].Lives = 0

	if end := s.EvaluateEnd(); end == nil {
		t.Fatalf("expected first evaluation to end the game")
	}
	if end := s.EvaluateEnd(); end != nil {
		t.Fatalf("re-evaluating a finished game fired again: %+v", end)
	}

	// Nothing moves the turn after the terminal state.
	idx := s.CurrentTurnIndex
	if s.PassTurn() {
		t.Fatalf("PassTurn succeeded on finished game")
	}
	if s.CurrentTurnIndex != idx {
		t.Fatalf("turn index changed after finish")
	}
}

func TestEvaluateEnd_CountsAcceptedLocations(t *testing.T) {
	s := newTestState(1, "ana")
	_ = s.Start()
	s.AcceptLocation("Boston")
	s.AcceptLocation("Nairobi")
	s.Players[0].Lives = 0

	end := s.EvaluateEnd()
	if end == nil || end.TotalLocations != 2 {
		t.Fatalf("total locations: got %+v, want 2", end)
	}
	if !end.IsSolo {
		t.Fatalf("expected solo flag")
	}
}

func TestSetLives(t *testing.T) {
	s := newTestState(3, "ana", "bo")
	if err := s.SetLives("b", 1); err != nil {
		t.Fatalf("set lives: %v", err)
	}
	if s.Players[1].Lives != 1 {
		t.Fatalf("lives: got %d, want 1", s.Players[1].Lives)
	}
	if err := s.SetLives("zz", 1); !errors.Is(err, ErrNoSuchPlayer) {
		t.Fatalf("want ErrNoSuchPlayer, got %v", err)
	}
}

func TestSnapshot_IsIndependentCopy(t *testing.T) {
	s := newTestState(3, "ana")
	s.Guessed["boston"] = true
	s.AcceptLocation("Boston")

	snap := s.Snapshot()
	snap.Players[0].Lives = 0
	snap.Guessed["nairobi"] = true
	snap.Locations[0] = "changed"

	if s.Players[0].Lives != 3 {
		t.Fatalf("snapshot mutation leaked into players")
	}
	if s.Guessed["nairobi"] {
		t.Fatalf("snapshot mutation leaked into guessed set")
	}
	if s.Locations[0] != "Boston" {
		t.Fatalf("snapshot mutation leaked into locations")
	}
}
