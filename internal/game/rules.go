package game

import "errors"

// Expected business-rule violations. Returned, never panicked, so callers
// can map them 1:1 to user-facing outcomes.
var (
	ErrAlreadyStarted   = errors.New("already_started")
	ErrAlreadyFinished  = errors.New("already_finished")
	ErrRoomAbandoned    = errors.New("room_abandoned")
	ErrRoomFull         = errors.New("room_full")
	ErrAlreadyJoined    = errors.New("already_joined")
	ErrNoPlayers        = errors.New("no_players")
	ErrNotInRoom        = errors.New("not_in_room")
	ErrNotHost          = errors.New("not_host")
	ErrNotAllReady      = errors.New("not_all_ready")
	ErrWrongPhase       = errors.New("wrong_phase")
	ErrNotYourTurn      = errors.New("not_your_turn")
	ErrCardNotFound     = errors.New("card_not_found")
	ErrCardNotPlayable  = errors.New("card_not_playable")
	ErrNoCardRecorded   = errors.New("no_card_recorded")
	ErrInvalidParameter = errors.New("invalid_parameter")
	ErrNotPending       = errors.New("not_pending")
	ErrTargetNotFound   = errors.New("target_not_found")
	ErrTargetNotIdle    = errors.New("target_not_idle")
	ErrInvalidSettings  = errors.New("invalid_settings")
)
