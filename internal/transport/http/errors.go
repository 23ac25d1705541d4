package httptransport

import (
	"errors"
	"net/http"

	"scrap-rally/internal/game"
)

// statusFor maps the engine's sentinel errors to HTTP statuses. Unknown
// errors stay 500 so programming mistakes are loud.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrNotInRoom),
		errors.Is(err, game.ErrTargetNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrNotHost),
		errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrNotPending),
		errors.Is(err, game.ErrTargetNotIdle):
		return http.StatusForbidden
	case errors.Is(err, game.ErrRoomFull),
		errors.Is(err, game.ErrAlreadyJoined),
		errors.Is(err, game.ErrAlreadyStarted),
		errors.Is(err, game.ErrAlreadyFinished),
		errors.Is(err, game.ErrRoomAbandoned),
		errors.Is(err, game.ErrNotAllReady),
		errors.Is(err, game.ErrNoPlayers),
		errors.Is(err, game.ErrWrongPhase):
		return http.StatusConflict
	case errors.Is(err, game.ErrCardNotFound),
		errors.Is(err, game.ErrCardNotPlayable),
		errors.Is(err, game.ErrNoCardRecorded),
		errors.Is(err, game.ErrInvalidParameter),
		errors.Is(err, game.ErrInvalidSettings):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeGameErr(w http.ResponseWriter, err error) {
	writeErr(w, statusFor(err), err.Error())
}
