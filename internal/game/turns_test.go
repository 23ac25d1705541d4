package game

import (
	"errors"
	"testing"
	"time"
)

// Scenario: two racers, a single round of a single step, both playing a
// move card with effect 1. The full phase cycle runs and the match ends on
// the round limit.
func TestSingleRoundSingleStepCycle(t *testing.T) {
	settings := DefaultSettings()
	settings.Rounds = 1
	settings.Steps = 1
	e := startedEngine(t, 2, settings, nil)

	p0 := e.participant("p0")
	p1 := e.participant("p1")

	if err := e.SubmitCard("p0", firstCardOfType(t, p0, CardMove).ID); err != nil {
		t.Fatalf("SubmitCard(p0) error = %v", err)
	}
	if got := e.CurrentTurn(); got != "p1" {
		t.Fatalf("current = %s, want p1", got)
	}
	if err := e.SubmitCard("p1", firstCardOfType(t, p1, CardMove).ID); err != nil {
		t.Fatalf("SubmitCard(p1) error = %v", err)
	}
	if e.State() != StateCollectingParams {
		t.Fatalf("state = %s, want %s", e.State(), StateCollectingParams)
	}
	if got := e.CurrentTurn(); got != "p0" {
		t.Fatalf("param phase current = %s, want p0", got)
	}

	if err := e.SubmitParameter("p0", Param{Move: 1}); err != nil {
		t.Fatalf("SubmitParameter(p0) error = %v", err)
	}
	if err := e.SubmitParameter("p1", Param{Move: 1}); err != nil {
		t.Fatalf("SubmitParameter(p1) error = %v", err)
	}

	if p0.Progress != 1 || p1.Progress != 1 {
		t.Fatalf("progress = %d/%d, want 1/1", p0.Progress, p1.Progress)
	}
	if e.State() != StateFinished {
		t.Fatalf("state = %s, want %s", e.State(), StateFinished)
	}
	if e.endReason != ReasonRoundLimit {
		t.Fatalf("end reason = %s, want %s", e.endReason, ReasonRoundLimit)
	}
}

func TestExactlyOneCurrentActor(t *testing.T) {
	e := startedEngine(t, 4, DefaultSettings(), nil)

	for e.State() == StateCollectingCards {
		pid := e.CurrentTurn()
		if pid == "" {
			t.Fatal("collecting phase without a current actor")
		}
		if e.banned[pid] {
			t.Fatalf("banned id %s is on turn", pid)
		}
		for _, other := range e.turnOrder {
			if other == pid {
				continue
			}
			card := firstCardOfType(t, e.participant(other), CardMove)
			if err := e.SubmitCard(other, card.ID); !errors.Is(err, ErrNotYourTurn) {
				t.Fatalf("SubmitCard(%s) off turn error = %v, want %v", other, err, ErrNotYourTurn)
			}
		}
		card := firstCardOfType(t, e.participant(pid), CardMove)
		if err := e.SubmitCard(pid, card.ID); err != nil {
			t.Fatalf("SubmitCard(%s) error = %v", pid, err)
		}
	}
}

func TestSubmitCardValidation(t *testing.T) {
	e := startedEngine(t, 2, DefaultSettings(), nil)
	p0 := e.participant("p0")

	if err := e.SubmitCard("p0", "missing"); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("unknown card error = %v, want %v", err, ErrCardNotFound)
	}
	p0.Hand = append(p0.Hand, Card{ID: "junk1", Type: CardJunk})
	if err := e.SubmitCard("p0", "junk1"); !errors.Is(err, ErrCardNotPlayable) {
		t.Fatalf("junk card error = %v, want %v", err, ErrCardNotPlayable)
	}
	if err := e.SubmitDiscard("p0", nil); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("discard in collecting phase error = %v, want %v", err, ErrWrongPhase)
	}
}

// Draw-to-skip must never produce a parameter prompt or an executor call
// for that step.
func TestDrawAndSkipBypassesParamPhase(t *testing.T) {
	settings := DefaultSettings()
	settings.Rounds = 2
	settings.Steps = 1
	e := startedEngine(t, 2, settings, nil)

	p0 := e.participant("p0")
	handBefore := len(p0.Hand)
	if err := e.DrawAndSkip("p0"); err != nil {
		t.Fatalf("DrawAndSkip error = %v", err)
	}
	if got := len(p0.Hand); got != handBefore+e.cfg.DrawOnSkip {
		t.Fatalf("hand size = %d, want %d", got, handBefore+e.cfg.DrawOnSkip)
	}
	if err := e.SubmitCard("p1", firstCardOfType(t, e.participant("p1"), CardMove).ID); err != nil {
		t.Fatalf("SubmitCard(p1) error = %v", err)
	}

	// Parameter phase: the cursor must land on p1 directly, p0's record is
	// a skip marker.
	if e.State() != StateCollectingParams {
		t.Fatalf("state = %s, want %s", e.State(), StateCollectingParams)
	}
	if got := e.CurrentTurn(); got != "p1" {
		t.Fatalf("param phase current = %s, want p1 (p0 skipped)", got)
	}
	if err := e.SubmitParameter("p0", Param{Move: 1}); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("skipped seat param error = %v, want %v", err, ErrNotYourTurn)
	}
	if p0.Progress != 0 {
		t.Fatalf("skipped seat progress = %d, want 0 (no executor call)", p0.Progress)
	}
}

// The skipper kept 7 cards, so the discard phase must hold exactly that
// seat pending, and the re-sorted order must come up lane-change ascending.
func TestDiscardPendingAndReRanking(t *testing.T) {
	settings := DefaultSettings()
	settings.Rounds = 2
	settings.Steps = 1
	e := startedEngine(t, 2, settings, nil)

	if err := e.DrawAndSkip("p0"); err != nil {
		t.Fatalf("DrawAndSkip error = %v", err)
	}
	// p1 plays a lane card so the round's lane-change counter orders p0
	// ahead of p1 for the next cycle.
	p1 := e.participant("p1")
	p1.Hand = append(p1.Hand, Card{ID: "lane1", Type: CardLane})
	laneCard := firstCardOfType(t, p1, CardLane)
	if err := e.SubmitCard("p1", laneCard.ID); err != nil {
		t.Fatalf("SubmitCard(p1) error = %v", err)
	}
	if err := e.SubmitParameter("p1", Param{LaneDelta: 1}); err != nil {
		t.Fatalf("SubmitParameter(p1) error = %v", err)
	}

	if e.State() != StateDiscarding {
		t.Fatalf("state = %s, want %s", e.State(), StateDiscarding)
	}
	if !e.pendingDiscard["p0"] || e.pendingDiscard["p1"] {
		t.Fatalf("pending = %v, want exactly p0 (7 cards > hand limit)", e.pendingDiscard)
	}
	if e.turnOrder[0] != "p0" || e.turnOrder[1] != "p1" {
		t.Fatalf("re-sorted order = %v, want [p0 p1]", e.turnOrder)
	}

	// Junk cannot be discarded, only repaired away.
	p0 := e.participant("p0")
	p0.Hand = append(p0.Hand, Card{ID: "junkx", Type: CardJunk})
	if err := e.SubmitDiscard("p0", []string{"junkx"}); !errors.Is(err, ErrCardNotPlayable) {
		t.Fatalf("discard junk error = %v, want %v", err, ErrCardNotPlayable)
	}
	if err := e.SubmitDiscard("p1", nil); !errors.Is(err, ErrNotPending) {
		t.Fatalf("discard by non-pending error = %v, want %v", err, ErrNotPending)
	}

	drop := firstCardOfType(t, p0, CardMove)
	if err := e.SubmitDiscard("p0", []string{drop.ID}); err != nil {
		t.Fatalf("SubmitDiscard error = %v", err)
	}
	if e.State() != StateCollectingCards {
		t.Fatalf("state = %s, want %s for round 2", e.State(), StateCollectingCards)
	}
	if e.round != 2 {
		t.Fatalf("round = %d, want 2", e.round)
	}
	if got := e.CurrentTurn(); got != "p0" {
		t.Fatalf("round 2 current = %s, want p0 (fewest lane changes)", got)
	}
}

func TestEnterDiscardingReSortsByLaneChanges(t *testing.T) {
	e := startedEngine(t, 3, DefaultSettings(), nil)
	e.state = StateCollectingParams
	e.laneChanges = map[string]int{"p0": 2, "p1": 0, "p2": 1}

	e.enterDiscarding()

	want := []string{"p1", "p2", "p0"}
	for i, pid := range want {
		if e.turnOrder[i] != pid {
			t.Fatalf("re-sorted order = %v, want %v", e.turnOrder, want)
		}
	}
}

func TestEmptyRepairSelectionSkips(t *testing.T) {
	settings := DefaultSettings()
	settings.Rounds = 2
	settings.Steps = 1
	e := startedEngine(t, 2, settings, nil)

	p0 := e.participant("p0")
	p0.Hand = append(p0.Hand, Card{ID: "rep1", Type: CardRepair})
	repair := firstCardOfType(t, p0, CardRepair)
	if err := e.SubmitCard("p0", repair.ID); err != nil {
		t.Fatalf("SubmitCard(repair) error = %v", err)
	}
	if err := e.SubmitCard("p1", firstCardOfType(t, e.participant("p1"), CardMove).ID); err != nil {
		t.Fatalf("SubmitCard(p1) error = %v", err)
	}

	progressBefore := p0.Progress
	if err := e.SubmitParameter("p0", Param{}); err != nil {
		t.Fatalf("SubmitParameter(empty repair) error = %v", err)
	}
	if p0.Progress != progressBefore {
		t.Fatal("empty repair selection must not move the racer")
	}
	if got := e.CurrentTurn(); got != "p1" {
		t.Fatalf("current = %s, want p1 after automatic skip", got)
	}
}

func TestTimeBankOnlyMovedByOwnAction(t *testing.T) {
	e := startedEngine(t, 2, DefaultSettings(), nil)
	base := time.Unix(1700000000, 0)
	cur := base
	e.SetClock(func() time.Time { return cur })
	e.prompt() // re-prompt under the fake clock

	p0 := e.participant("p0")
	p1 := e.participant("p1")

	cur = cur.Add(10 * time.Second)
	if err := e.SubmitCard("p0", firstCardOfType(t, p0, CardMove).ID); err != nil {
		t.Fatalf("SubmitCard error = %v", err)
	}
	want := e.cfg.TimeBankInitial - 10*time.Second + e.cfg.TimeBankIncrement
	if p0.TimeBank != want {
		t.Fatalf("p0 bank = %v, want %v", p0.TimeBank, want)
	}
	if p1.TimeBank != e.cfg.TimeBankInitial {
		t.Fatalf("p1 bank = %v, want untouched %v", p1.TimeBank, e.cfg.TimeBankInitial)
	}
}

func TestKickMidMatchRequiresExhaustedBank(t *testing.T) {
	e := startedEngine(t, 2, DefaultSettings(), nil)
	base := time.Unix(1700000000, 0)
	cur := base
	e.SetClock(func() time.Time { return cur })
	e.prompt()

	if err := e.KickPlayer("p1", "p0"); !errors.Is(err, ErrTargetNotIdle) {
		t.Fatalf("early kick error = %v, want %v", err, ErrTargetNotIdle)
	}

	cur = cur.Add(e.cfg.TimeBankInitial + time.Second)
	if err := e.KickPlayer("p1", "p0"); err != nil {
		t.Fatalf("kick of exhausted seat error = %v", err)
	}
	if !e.banned["p0"] {
		t.Fatal("mid-match kick must ban the target")
	}
	if got := e.CurrentTurn(); got != "p1" {
		t.Fatalf("current = %s, want p1 after kick", got)
	}
}
