package game

import (
	"testing"
	"time"
)

func eventsOfType(events []Event, typ EventType) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func TestCollectingPhaseNoticeIsOneShot(t *testing.T) {
	e := testEngine(t, 2, DefaultSettings(), nil)
	base := time.Unix(1_700_000_000, 0)
	cur := base
	e.SetClock(func() time.Time { return cur })
	if err := e.StartMatch("p0"); err != nil {
		t.Fatalf("StartMatch() error = %v", err)
	}
	e.Drain()

	// Deadline is the turn timeout plus the full starting bank.
	cur = base.Add(e.cfg.TurnTimeout + e.cfg.TimeBankInitial + time.Second)
	e.TimeoutSweep()

	notices := eventsOfType(e.Drain(), EventTimeoutElapsed)
	if len(notices) != 1 {
		t.Fatalf("timeout notices = %d, want 1", len(notices))
	}
	if eligible, _ := notices[0].Data["kick_eligible"].(bool); !eligible {
		t.Fatal("kick_eligible = false, want true once the bank is exhausted")
	}
	if e.CurrentTurn() != "p0" {
		t.Fatalf("current = %q, want p0; the sweep must never end a turn", e.CurrentTurn())
	}
	if e.State() != StateCollectingCards {
		t.Fatalf("state = %s, want %s", e.State(), StateCollectingCards)
	}

	// Repeated sweeps stay silent until the next prompt.
	cur = cur.Add(time.Minute)
	e.TimeoutSweep()
	e.TimeoutSweep()
	if got := eventsOfType(e.Drain(), EventTimeoutElapsed); len(got) != 0 {
		t.Fatalf("extra notices = %d, want 0", len(got))
	}
}

func TestNoticeNotDueBeforeDeadline(t *testing.T) {
	e := testEngine(t, 2, DefaultSettings(), nil)
	base := time.Unix(1_700_000_000, 0)
	cur := base
	e.SetClock(func() time.Time { return cur })
	if err := e.StartMatch("p0"); err != nil {
		t.Fatalf("StartMatch() error = %v", err)
	}
	e.Drain()

	cur = base.Add(e.cfg.TurnTimeout) // bank still buys more time
	e.TimeoutSweep()
	if got := eventsOfType(e.Drain(), EventTimeoutElapsed); len(got) != 0 {
		t.Fatalf("notices before the deadline = %d, want 0", len(got))
	}
}

func TestDiscardWindowAdvisoryThenAutoSkip(t *testing.T) {
	e := testEngine(t, 2, DefaultSettings(), nil)
	base := time.Unix(1_700_000_000, 0)
	cur := base
	e.SetClock(func() time.Time { return cur })
	if err := e.StartMatch("p0"); err != nil {
		t.Fatalf("StartMatch() error = %v", err)
	}

	// Push p0 over the hand limit and open the discard phase directly.
	p0 := e.participant("p0")
	for i := 0; i < 3; i++ {
		p0.Hand = append(p0.Hand, Card{ID: NewID(), Type: CardJunk})
	}
	e.state = StateCollectingParams
	e.enterDiscarding()
	e.Drain()

	if !e.pendingDiscard["p0"] {
		t.Fatal("p0 must be pending after exceeding the hand limit")
	}

	// First threshold: an advisory, pending seat untouched.
	cur = base.Add(e.cfg.TimeoutNoticeAt)
	e.TimeoutSweep()
	events := e.Drain()
	if got := eventsOfType(events, EventTimeoutElapsed); len(got) != 1 {
		t.Fatalf("advisories = %d, want 1", len(got))
	}
	if got := eventsOfType(events, EventTurnSkipped); len(got) != 0 {
		t.Fatal("advisory threshold must not skip the seat")
	}
	e.TimeoutSweep()
	if got := eventsOfType(e.Drain(), EventTimeoutElapsed); len(got) != 0 {
		t.Fatal("advisory must fire only once per pending seat")
	}

	// Second threshold: forced empty discard, and the round rolls over.
	cur = base.Add(e.cfg.DiscardAutoSkip)
	e.TimeoutSweep()
	events = e.Drain()
	skipped := eventsOfType(events, EventTurnSkipped)
	if len(skipped) != 1 || skipped[0].Data["reason"] != "discard_timeout" {
		t.Fatalf("skips = %+v, want one discard_timeout for p0", skipped)
	}
	if e.pendingDiscard["p0"] {
		t.Fatal("p0 must no longer be pending")
	}
	if e.State() != StateCollectingCards {
		t.Fatalf("state = %s, want %s after the last pending seat resolves", e.State(), StateCollectingCards)
	}
	if e.round != 2 {
		t.Fatalf("round = %d, want 2", e.round)
	}
}
