package room

import (
	"github.com/geochain-io/geochain-backend/internal/game"
	"github.com/geochain-io/geochain-backend/internal/match"
	"github.com/geochain-io/geochain-backend/internal/types"
)

type Msg interface{ isRoomMsg() }

// Join registers a connection as a player. The room replies on Outbox:
// either initialize-game plus the usual broadcasts, or game-started-error
// when the session is already running.
type Join struct {
	ConnID   string
	Nickname string
	Outbox   chan types.ServerMessage
}

type StartGame struct{ ConnID string }

// AddLocation submits an answer for validation. Rejections go back to the
// submitting connection only.
type AddLocation struct {
	ConnID string
	Raw    string
}

type ChangeLetter struct{ Letter string }

type UpdateLife struct {
	UserID   string
	NewLives int
}

type Leave struct{ ConnID string }

// Validate runs the location validator outside the socket flow (the REST
// validate_location endpoint). It shares the room's guessed set.
type Validate struct {
	Raw   string
	Reply chan match.Result
}

// GetState is a test hook: reflect internal state without data races.
type GetState struct{ Reply chan View }

type Shutdown struct{}

func (Join) isRoomMsg()         {}
func (StartGame) isRoomMsg()    {}
func (AddLocation) isRoomMsg()  {}
func (ChangeLetter) isRoomMsg() {}
func (UpdateLife) isRoomMsg()   {}
func (Leave) isRoomMsg()        {}
func (Validate) isRoomMsg()     {}
func (GetState) isRoomMsg()     {}
func (Shutdown) isRoomMsg()     {}

type View struct {
	NumClients int
	State      game.State
}
