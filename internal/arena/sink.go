package arena

import (
	"context"
	"time"

	"scrap-rally/internal/game"
)

// RaceResult is the finished-race record handed to the archive. It is built
// from the published match_ended event, never from live engine state.
type RaceResult struct {
	RoomID    string
	RoomName  string
	Track     string
	Reason    string
	EndedAt   time.Time
	Standings []game.Standing
}

// ResultSink consumes finished races downstream of the event stream.
// Writes are best-effort; a failure is logged and never affects the room.
type ResultSink interface {
	RecordRace(ctx context.Context, res RaceResult) error
}
