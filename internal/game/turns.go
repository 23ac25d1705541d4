package game

import (
	"fmt"
	"sort"
	"time"
)

func (e *Engine) currentParticipantID() string {
	if !e.state.playing() || len(e.turnOrder) == 0 {
		return ""
	}
	if e.state == StateDiscarding {
		return ""
	}
	return e.turnOrder[e.turnIdx]
}

// CurrentTurn exposes the id of the participant whose action is expected,
// empty outside the collecting phases.
func (e *Engine) CurrentTurn() string {
	return e.currentParticipantID()
}

func (e *Engine) key(pid string) recordKey {
	return recordKey{pid: pid, round: e.round, step: e.step}
}

func (e *Engine) requireCurrent(pid string, phase StateID) (*Participant, error) {
	p := e.participant(pid)
	if p == nil {
		return nil, ErrNotInRoom
	}
	if e.state != phase {
		switch e.state {
		case StateFinished:
			return nil, ErrAlreadyFinished
		case StateAbandoned:
			return nil, ErrRoomAbandoned
		}
		return nil, ErrWrongPhase
	}
	if e.currentParticipantID() != pid || e.banned[pid] {
		return nil, ErrNotYourTurn
	}
	return p, nil
}

// prompt starts the current actor's think clock. The deadline extends by
// whatever positive time bank they have left.
func (e *Engine) prompt() {
	pid := e.currentParticipantID()
	if pid == "" {
		return
	}
	p := e.participant(pid)
	bank := p.TimeBank
	if bank < 0 {
		bank = 0
	}
	e.promptedAt = e.now()
	e.promptDue = e.promptedAt.Add(e.cfg.TurnTimeout + bank)
	e.promptNotified = false
	e.emit(EventTurnStarted, pid, map[string]any{
		"deadline": e.promptDue.UnixMilli(),
	})
}

// completeAction settles the time bank for a finished action: elapsed think
// time is consumed, the fixed increment is credited. The bank may go
// negative; nothing else ever mutates it.
func (e *Engine) completeAction(p *Participant, promptedAt time.Time) {
	if !promptedAt.IsZero() {
		p.TimeBank -= e.now().Sub(promptedAt)
	}
	p.TimeBank += e.cfg.TimeBankIncrement
}

// SubmitCard commits one playable card from the current actor's hand for
// the current (round, step) and passes the turn on.
func (e *Engine) SubmitCard(pid, cardID string) error {
	p, err := e.requireCurrent(pid, StateCollectingCards)
	if err != nil {
		return err
	}
	card, ok := p.cardInHand(cardID)
	if !ok {
		return ErrCardNotFound
	}
	if !card.Playable() {
		return ErrCardNotPlayable
	}
	p.removeFromHand(cardID)
	p.DiscardPile = append(p.DiscardPile, card)
	e.records[e.key(pid)] = turnRecord{kind: recordCard, card: card}
	if card.Type == CardLane {
		e.laneChanges[pid]++
	}
	e.completeAction(p, e.promptedAt)
	e.emit(EventCardSubmitted, pid, map[string]any{"card_id": card.ID, "card_type": string(card.Type)})
	e.logf(pid, fmt.Sprintf("%s committed a %s card", p.Name, card.Type))
	e.advanceTurn()
	return nil
}

// DrawAndSkip trades the step for cards: draws a fixed count and records a
// skip marker so the parameter phase passes this seat without prompting.
func (e *Engine) DrawAndSkip(pid string) error {
	p, err := e.requireCurrent(pid, StateCollectingCards)
	if err != nil {
		return err
	}
	drawn := 0
	for i := 0; i < e.cfg.DrawOnSkip; i++ {
		if p.draw(e.shuffle) {
			drawn++
		}
	}
	e.records[e.key(pid)] = turnRecord{kind: recordSkip}
	e.completeAction(p, e.promptedAt)
	e.emit(EventTurnSkipped, pid, map[string]any{"drawn": drawn})
	e.logf(pid, fmt.Sprintf("%s skipped and drew %d cards", p.Name, drawn))
	e.advanceTurn()
	return nil
}

// Param carries the execution parameter for the card recorded at the
// current (round, step). Which field matters depends on the card type.
type Param struct {
	Move      int      `json:"move,omitempty"`
	LaneDelta int      `json:"lane_delta,omitempty"`
	RepairIDs []string `json:"repair_card_ids,omitempty"`
}

// SubmitParameter builds the instruction for the recorded card and runs the
// executor. A finish from the instruction or from the gear-driven
// auto-advance ends the match immediately.
func (e *Engine) SubmitParameter(pid string, param Param) error {
	p, err := e.requireCurrent(pid, StateCollectingParams)
	if err != nil {
		return err
	}
	rec, ok := e.records[e.key(pid)]
	if !ok || rec.kind != recordCard {
		return ErrNoCardRecorded
	}

	// Repair with nothing selected is an explicit pass: no executor call.
	if rec.card.Type == CardRepair && len(param.RepairIDs) == 0 {
		e.completeAction(p, e.promptedAt)
		e.emit(EventTurnSkipped, pid, map[string]any{"reason": "empty_repair"})
		e.logf(pid, p.Name+" skipped the repair")
		e.advanceTurn()
		return nil
	}

	instr, err := e.buildInstruction(rec.card, param)
	if err != nil {
		return err
	}
	gearBefore := p.Gear
	outcome := e.applyInstruction(p, instr)
	switch outcome {
	case OutcomeInvalid:
		// Turn is not consumed; the actor may retry with a valid parameter.
		return ErrInvalidParameter
	case OutcomeFinished:
		e.completeAction(p, e.promptedAt)
		e.logf(pid, p.Name+" crossed the finish line")
		e.endMatch(ReasonFinisher)
		return nil
	}

	// Momentum: the gear held before this instruction pushes the racer
	// forward on its own, and may finish the race by itself.
	if gearBefore > 0 {
		if e.applyMove(p, gearBefore) == OutcomeFinished {
			e.completeAction(p, e.promptedAt)
			e.logf(pid, p.Name+" coasted across the finish line")
			e.endMatch(ReasonFinisher)
			return nil
		}
	}
	if instr.Type == InstructionMove {
		gear := instr.Value / 2
		if gear > e.cfg.MaxGear {
			gear = e.cfg.MaxGear
		}
		p.Gear = gear
	}

	e.completeAction(p, e.promptedAt)
	e.advanceTurn()
	return nil
}

// SubmitDiscard resolves one pending seat of the discard phase. An empty
// list is a deliberate "keep everything".
func (e *Engine) SubmitDiscard(pid string, cardIDs []string) error {
	p := e.participant(pid)
	if p == nil {
		return ErrNotInRoom
	}
	if e.state != StateDiscarding {
		switch e.state {
		case StateFinished:
			return ErrAlreadyFinished
		case StateAbandoned:
			return ErrRoomAbandoned
		}
		return ErrWrongPhase
	}
	if !e.pendingDiscard[pid] {
		return ErrNotPending
	}
	// Validate the whole selection before mutating anything.
	for _, id := range cardIDs {
		card, ok := p.cardInHand(id)
		if !ok {
			return ErrCardNotFound
		}
		if card.Type == CardJunk {
			return ErrCardNotPlayable
		}
	}
	for _, id := range cardIDs {
		card, _ := p.removeFromHand(id)
		p.DiscardPile = append(p.DiscardPile, card)
	}
	e.completeAction(p, e.discardPromptedAt[pid])
	delete(e.pendingDiscard, pid)
	delete(e.discardPromptedAt, pid)
	delete(e.discardNotified, pid)
	e.emit(EventDiscardSubmitted, pid, map[string]any{"count": len(cardIDs)})
	e.logf(pid, fmt.Sprintf("%s discarded %d cards", p.Name, len(cardIDs)))
	if len(e.pendingDiscard) == 0 {
		e.finishDiscarding()
	}
	return nil
}

// advanceTurn moves the cursor to the next non-banned seat. Wrapping the
// order increments the step; exhausting the steps fires the phase trigger.
func (e *Engine) advanceTurn() {
	if e.activeCount() == 0 {
		e.endMatch(ReasonAbandoned)
		return
	}
	for {
		e.turnIdx++
		if e.turnIdx >= len(e.turnOrder) {
			e.turnIdx = 0
			if e.endStep() {
				// The discard phase took over the cursor (or the match
				// ended); nothing left to advance here.
				return
			}
		}
		if e.state != StateCollectingCards && e.state != StateCollectingParams {
			return
		}
		pid := e.turnOrder[e.turnIdx]
		if e.banned[pid] {
			continue
		}
		if e.state == StateCollectingParams {
			rec, ok := e.records[e.key(pid)]
			if !ok {
				continue
			}
			if rec.kind == recordSkip {
				e.emit(EventTurnSkipped, pid, map[string]any{"reason": "drew_instead"})
				continue
			}
		}
		e.prompt()
		return
	}
}

func (e *Engine) endStep() bool {
	e.step++
	if e.step <= e.settings.Steps {
		return false
	}
	e.step = 1
	switch e.state {
	case StateCollectingCards:
		e.setState(StateCollectingParams)
		return false
	case StateCollectingParams:
		e.enterDiscarding()
		return true
	}
	return false
}

// enterDiscarding re-sorts the turn order by the per-round lane-change
// count (ascending, stable over the base order) and opens the pending set:
// every non-banned seat holding more cards than the hand limit.
func (e *Engine) enterDiscarding() {
	sort.SliceStable(e.turnOrder, func(i, j int) bool {
		return e.laneChanges[e.turnOrder[i]] < e.laneChanges[e.turnOrder[j]]
	})
	e.setState(StateDiscarding)
	now := e.now()
	for _, pid := range e.turnOrder {
		if e.banned[pid] {
			continue
		}
		p := e.participant(pid)
		if len(p.Hand) > e.cfg.HandSize {
			e.pendingDiscard[pid] = true
			e.discardPromptedAt[pid] = now
			e.discardNotified[pid] = false
		}
	}
	if len(e.pendingDiscard) == 0 {
		e.finishDiscarding()
	}
}

// finishDiscarding runs the round bookkeeping: next round or round-limit
// end, replenished hands, reset per-round counters.
func (e *Engine) finishDiscarding() {
	e.round++
	e.laneChanges = map[string]int{}
	if e.round > e.settings.Rounds {
		e.endMatch(ReasonRoundLimit)
		return
	}
	e.step = 1
	for _, p := range e.participants {
		if e.banned[p.ID] {
			continue
		}
		for len(p.Hand) < e.cfg.HandSize {
			if !p.draw(e.shuffle) {
				break
			}
		}
	}
	e.setState(StateCollectingCards)
	e.logf("", fmt.Sprintf("round %d begins", e.round))
	e.beginCycle()
}

// beginCycle points the cursor at the first non-banned seat of a fresh
// cycle without touching the step counter.
func (e *Engine) beginCycle() {
	e.turnIdx = 0
	for e.turnIdx < len(e.turnOrder) && e.banned[e.turnOrder[e.turnIdx]] {
		e.turnIdx++
	}
	if e.turnIdx >= len(e.turnOrder) {
		e.endMatch(ReasonAbandoned)
		return
	}
	e.prompt()
}

// TimeoutSweep is the pump's entry point, called on every tick while the
// caller holds the room's gate. It only detects idle overruns; time banks
// are settled exclusively by the participant's own actions.
func (e *Engine) TimeoutSweep() {
	now := e.now()
	switch e.state {
	case StateDiscarding:
		for _, pid := range e.turnOrder {
			if !e.pendingDiscard[pid] {
				continue
			}
			idle := now.Sub(e.discardPromptedAt[pid])
			switch {
			case idle >= e.cfg.DiscardAutoSkip:
				delete(e.pendingDiscard, pid)
				delete(e.discardPromptedAt, pid)
				delete(e.discardNotified, pid)
				e.emit(EventTurnSkipped, pid, map[string]any{"reason": "discard_timeout"})
				e.logf(pid, "discard window expired")
				if len(e.pendingDiscard) == 0 {
					e.finishDiscarding()
					return
				}
			case idle >= e.cfg.TimeoutNoticeAt && !e.discardNotified[pid]:
				e.discardNotified[pid] = true
				e.emit(EventTimeoutElapsed, pid, map[string]any{
					"phase":         string(StateDiscarding),
					"kick_eligible": e.effectiveBank(pid) <= 0,
				})
			}
		}
	case StateCollectingCards, StateCollectingParams:
		pid := e.currentParticipantID()
		if pid == "" || e.promptNotified || e.promptedAt.IsZero() {
			return
		}
		if now.After(e.promptDue) {
			e.promptNotified = true
			e.emit(EventTimeoutElapsed, pid, map[string]any{
				"phase":         string(e.state),
				"kick_eligible": e.effectiveBank(pid) <= 0,
			})
			e.logf(pid, "turn timer elapsed")
		}
	}
}
