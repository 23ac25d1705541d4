package game

import "fmt"

type InstructionType string

const (
	InstructionMove   InstructionType = "move"
	InstructionLane   InstructionType = "lane"
	InstructionRepair InstructionType = "repair"
)

// Instruction is a validated (type, parameter) pair built from a submitted
// card. It is consumed exactly once.
type Instruction struct {
	Type    InstructionType
	Value   int
	CardIDs []string
}

type Outcome int

const (
	OutcomeContinue Outcome = iota
	OutcomeFinished
	OutcomeInvalid
)

// maxPushDepth bounds chained collision pushes. Past it, motion silently
// halts; correctness needs bounded chains, not unlimited ones.
const maxPushDepth = 5

func (e *Engine) buildInstruction(card Card, param Param) (Instruction, error) {
	switch card.Type {
	case CardMove:
		if param.Move < 1 || param.Move > e.cfg.MaxMoveEffect {
			return Instruction{}, ErrInvalidParameter
		}
		return Instruction{Type: InstructionMove, Value: param.Move}, nil
	case CardLane:
		if param.LaneDelta == 0 || abs(param.LaneDelta) > e.cfg.MaxLaneShift {
			return Instruction{}, ErrInvalidParameter
		}
		return Instruction{Type: InstructionLane, Value: param.LaneDelta}, nil
	case CardRepair:
		if len(param.RepairIDs) > 2 {
			return Instruction{}, ErrInvalidParameter
		}
		return Instruction{Type: InstructionRepair, CardIDs: param.RepairIDs}, nil
	default:
		return Instruction{}, ErrCardNotPlayable
	}
}

// applyInstruction resolves one instruction against the track and the other
// participants. It mutates positions and hands but never turn order or
// phase; that orchestration stays with the caller.
func (e *Engine) applyInstruction(p *Participant, instr Instruction) Outcome {
	switch instr.Type {
	case InstructionMove:
		return e.applyMove(p, instr.Value)
	case InstructionLane:
		return e.applyLaneChange(p, instr.Value)
	case InstructionRepair:
		return e.applyRepair(p, instr.CardIDs)
	}
	return OutcomeInvalid
}

// advanceCell moves one cell forward, remapping the lane proportionally at
// segment boundaries. Returns false when there is no next cell.
func (e *Engine) advanceCell(p *Participant) bool {
	seg := e.track.Segments[p.Pos.Segment]
	if p.Pos.Cell+1 >= seg.Cells {
		if p.Pos.Segment+1 > e.track.finalSegment() {
			return false
		}
		next := e.track.Segments[p.Pos.Segment+1]
		p.Pos.Lane = remapLane(seg.Lanes, next.Lanes, p.Pos.Lane)
		p.Pos.Segment++
		p.Pos.Cell = 0
	} else {
		p.Pos.Cell++
	}
	p.Progress++
	return true
}

func (e *Engine) applyMove(p *Participant, cells int) Outcome {
	for i := 0; i < cells; i++ {
		if e.track.atFinish(p.Pos) {
			break
		}
		if !e.advanceCell(p) {
			break
		}
		if e.track.atFinish(p.Pos) {
			// Exact landing on the final cell finishes the race; no
			// collision scan on the finish line.
			break
		}
		e.resolveCollisions(p)
	}
	e.emit(EventMoveResolved, p.ID, map[string]any{
		"segment": p.Pos.Segment, "lane": p.Pos.Lane, "cell": p.Pos.Cell,
		"progress": p.Progress,
	})
	if e.track.atFinish(p.Pos) {
		return OutcomeFinished
	}
	return OutcomeContinue
}

type pushItem struct {
	p     *Participant
	depth int
}

// resolveCollisions handles overlap at the mover's cell with an explicit
// work list carrying the chain depth: both sides take a junk card, the
// occupant is shoved one cell forward and may collide again.
func (e *Engine) resolveCollisions(mover *Participant) {
	work := []pushItem{{p: mover, depth: 0}}
	for len(work) > 0 {
		item := work[len(work)-1]
		work = work[:len(work)-1]

		occ := e.occupantAt(item.p.Pos, item.p)
		if occ == nil {
			continue
		}
		e.issueJunk(item.p)
		e.issueJunk(occ)
		e.emit(EventCollision, item.p.ID, map[string]any{
			"other":   occ.ID,
			"segment": item.p.Pos.Segment, "lane": item.p.Pos.Lane, "cell": item.p.Pos.Cell,
		})
		e.logf(item.p.ID, fmt.Sprintf("%s rammed into %s", item.p.Name, occ.Name))
		if item.depth+1 > maxPushDepth {
			e.log.Warn().Str("participant", occ.ID).Int("depth", item.depth+1).
				Msg("collision push chain exceeded depth bound, halting motion")
			continue
		}
		// A pushed racer stuck at the end of the track simply stays put; a
		// push never finishes a race.
		if e.track.atFinish(occ.Pos) || !e.advanceCell(occ) {
			continue
		}
		work = append(work, pushItem{p: occ, depth: item.depth + 1})
	}
}

func (e *Engine) applyLaneChange(p *Participant, delta int) Outcome {
	dir := 1
	if delta < 0 {
		dir = -1
	}
	for i := 0; i < abs(delta); i++ {
		seg := e.track.Segments[p.Pos.Segment]
		next := p.Pos.Lane + dir
		if next < 0 || next >= seg.Lanes {
			// Off the track edge: penalty, and the rest of the shift is
			// abandoned.
			e.issueJunk(p)
			e.emit(EventPenaltyIssued, p.ID, map[string]any{"reason": "track_edge"})
			e.logf(p.ID, p.Name+" scraped the track edge")
			break
		}
		p.Pos.Lane = next
		e.resolveLaneCollisions(p, dir)
	}
	e.emit(EventLaneChanged, p.ID, map[string]any{
		"segment": p.Pos.Segment, "lane": p.Pos.Lane, "cell": p.Pos.Cell,
	})
	return OutcomeContinue
}

// resolveLaneCollisions shoves the occupant of the entered cell sideways in
// the same direction, bounded the same way as forward pushes.
func (e *Engine) resolveLaneCollisions(mover *Participant, dir int) {
	work := []pushItem{{p: mover, depth: 0}}
	for len(work) > 0 {
		item := work[len(work)-1]
		work = work[:len(work)-1]

		occ := e.occupantAt(item.p.Pos, item.p)
		if occ == nil {
			continue
		}
		e.issueJunk(item.p)
		e.issueJunk(occ)
		e.emit(EventCollision, item.p.ID, map[string]any{
			"other":   occ.ID,
			"segment": item.p.Pos.Segment, "lane": item.p.Pos.Lane, "cell": item.p.Pos.Cell,
		})
		e.logf(item.p.ID, fmt.Sprintf("%s sideswiped %s", item.p.Name, occ.Name))
		if item.depth+1 > maxPushDepth {
			e.log.Warn().Str("participant", occ.ID).Int("depth", item.depth+1).
				Msg("lane push chain exceeded depth bound, halting motion")
			continue
		}
		seg := e.track.Segments[occ.Pos.Segment]
		next := occ.Pos.Lane + dir
		if next < 0 || next >= seg.Lanes {
			// Pinned against the edge; everyone stays where they are.
			continue
		}
		occ.Pos.Lane = next
		work = append(work, pushItem{p: occ, depth: item.depth + 1})
	}
}

// applyRepair removes up to two junk cards, all-or-nothing: any id missing
// from the hand or not junk-typed leaves the hand untouched.
func (e *Engine) applyRepair(p *Participant, cardIDs []string) Outcome {
	for _, id := range cardIDs {
		card, ok := p.cardInHand(id)
		if !ok || card.Type != CardJunk {
			return OutcomeInvalid
		}
	}
	for _, id := range cardIDs {
		p.removeFromHand(id) // removed outright, not discarded
	}
	e.emit(EventRepairApplied, p.ID, map[string]any{"repaired": len(cardIDs)})
	e.logf(p.ID, fmt.Sprintf("%s repaired %d junk cards", p.Name, len(cardIDs)))
	return OutcomeContinue
}

func (e *Engine) occupantAt(pos Position, exclude *Participant) *Participant {
	for _, other := range e.participants {
		if other == exclude || e.banned[other.ID] {
			continue
		}
		if other.Pos == pos {
			return other
		}
	}
	return nil
}

func (e *Engine) issueJunk(p *Participant) {
	p.Hand = append(p.Hand, Card{ID: NewID(), Type: CardJunk})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
