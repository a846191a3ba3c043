// Package types defines the socket protocol.
//
// Client -> Server frames are flat envelopes: {"event": "...", ...fields}.
//
//	join-room:          gameId, nickname, timeLimit?, lives?
//	start-game-pressed: gameId
//	add-location:       gameId, location
//	change-current:     gameId, letter
//	update-life:        gameId, userId, newLives
//
// Server -> Client frames are {"event": "...", "data": ...} with the
// payload shapes below.
package types

import "github.com/geochain-io/geochain-backend/internal/game"

type ClientMessage struct {
	Event     string `json:"event"`
	GameID    string `json:"gameId,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
	TimeLimit *int   `json:"timeLimit,omitempty"`
	Lives     *int   `json:"lives,omitempty"`
	Location  string `json:"location,omitempty"`
	Letter    string `json:"letter,omitempty"`
	UserID    string `json:"userId,omitempty"`
	NewLives  *int   `json:"newLives,omitempty"`
}

type ServerMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Server -> Client event names.
const (
	EvtInitializeGame      = "initialize-game"
	EvtUpdateUsers         = "update-users"
	EvtUpdateTurn          = "update-turn"
	EvtUpdateTimeLeft      = "update-timeLeft"
	EvtGameStarted         = "game-started"
	EvtUpdateCurrentLetter = "update-current-letter"
	EvtUpdateLocations     = "update-locations"
	EvtAddMarker           = "add-marker"
	EvtLocationError       = "location-error"
	EvtEndGame             = "end-game"
	EvtStartGameError      = "start-game-pressed-error"
	EvtGameStartedError    = "game-started-error"
)

type Marker struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
}

// InitializeGame is sent to a joiner only: enough history to render the
// full room, including markers for every already-accepted location.
type InitializeGame struct {
	Locations     []string      `json:"locations"`
	Markers       []Marker      `json:"markers"`
	CurrentLetter string        `json:"currentLetter"`
	Users         []game.Player `json:"users"`
	CurrentTurn   *game.Player  `json:"currentTurn"`
	TimeLimit     int           `json:"timeLimit"`
	TimeLeft      int           `json:"timeLeft"`
}

type GameStarted struct {
	CurrentLetter string        `json:"currentLetter"`
	CurrentTurn   *game.Player  `json:"currentTurn"`
	TimeLimit     int           `json:"timeLimit"`
	TimeLeft      int           `json:"timeLeft"`
	Users         []game.Player `json:"users"`
	Locations     []string      `json:"locations"`
	IsSolo        bool          `json:"isSolo"`
}

type EndGame struct {
	Reason         string `json:"reason"`
	Winner         string `json:"winner"`
	TotalLocations int    `json:"totalLocations"`
	IsSolo         bool   `json:"isSolo"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}

// LocationData mirrors the REST validate_location response body.
type LocationData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name_standard"`
}
