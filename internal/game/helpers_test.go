package game

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
)

// noShuffle keeps piles in construction order so tests see 12 move cards,
// then 6 lane cards, then 2 repair cards.
func noShuffle(int, func(i, j int)) {}

func testEngine(t *testing.T, players int, settings Settings, track *Track) *Engine {
	t.Helper()
	if track == nil {
		track = DefaultTrack()
	}
	e := NewEngine("room-test", settings, track, DefaultTunables(), noShuffle, zerolog.Nop())
	for i := 0; i < players; i++ {
		pid := fmt.Sprintf("p%d", i)
		if err := e.Join(pid, "racer-"+pid); err != nil {
			t.Fatalf("Join(%s) error = %v", pid, err)
		}
		if err := e.ToggleReady(pid); err != nil {
			t.Fatalf("ToggleReady(%s) error = %v", pid, err)
		}
	}
	return e
}

func startedEngine(t *testing.T, players int, settings Settings, track *Track) *Engine {
	t.Helper()
	e := testEngine(t, players, settings, track)
	if err := e.StartMatch("p0"); err != nil {
		t.Fatalf("StartMatch() error = %v", err)
	}
	return e
}

func firstCardOfType(t *testing.T, p *Participant, typ CardType) Card {
	t.Helper()
	for _, c := range p.Hand {
		if c.Type == typ {
			return c
		}
	}
	t.Fatalf("no %s card in hand of %s", typ, p.ID)
	return Card{}
}
