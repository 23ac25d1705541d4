package game

import (
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Engine holds all mutable state of one room and drives its transitions.
// It is not goroutine-safe: the arena runtime serializes every call through
// the room's gate and publishes drained events after releasing it.
type Engine struct {
	log     zerolog.Logger
	cfg     Tunables
	shuffle Shuffler
	now     func() time.Time

	id       string
	settings Settings
	track    *Track

	participants []*Participant
	state        StateID
	round        int
	step         int

	turnOrder []string
	turnIdx   int
	banned    map[string]bool

	records        map[recordKey]turnRecord
	pendingDiscard map[string]bool
	laneChanges    map[string]int

	// Prompt bookkeeping for the current actor (collecting phases) and for
	// each pending participant (discarding phase).
	promptedAt        time.Time
	promptDue         time.Time
	promptNotified    bool
	discardPromptedAt map[string]time.Time
	discardNotified   map[string]bool

	results   []Standing
	endReason EndReason

	turnLog       []LogEntry
	pendingEvents []Event
}

func NewEngine(id string, settings Settings, track *Track, cfg Tunables, shuffle Shuffler, log zerolog.Logger) *Engine {
	return &Engine{
		log:               log.With().Str("room_id", id).Logger(),
		cfg:               cfg,
		shuffle:           shuffle,
		now:               time.Now,
		id:                id,
		settings:          settings,
		track:             track,
		state:             StateWaiting,
		banned:            map[string]bool{},
		records:           map[recordKey]turnRecord{},
		pendingDiscard:    map[string]bool{},
		laneChanges:       map[string]int{},
		discardPromptedAt: map[string]time.Time{},
		discardNotified:   map[string]bool{},
	}
}

// SetClock overrides the engine's time source. Used by the timeout tests.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

func (e *Engine) ID() string         { return e.id }
func (e *Engine) State() StateID     { return e.state }
func (e *Engine) Settings() Settings { return e.settings }
func (e *Engine) Track() *Track      { return e.track }

func (e *Engine) setState(to StateID) {
	if !canTransition(e.state, to) {
		// Transition table violations are programming errors, not player
		// input errors. Log and refuse rather than corrupt the machine.
		e.log.Error().Str("from", string(e.state)).Str("to", string(to)).Msg("illegal state transition")
		return
	}
	from := e.state
	e.state = to
	e.emit(EventStateChanged, "", map[string]any{"from": string(from), "to": string(to)})
}

func (e *Engine) participant(pid string) *Participant {
	for _, p := range e.participants {
		if p.ID == pid {
			return p
		}
	}
	return nil
}

func (e *Engine) activeCount() int {
	n := 0
	for _, p := range e.participants {
		if !e.banned[p.ID] {
			n++
		}
	}
	return n
}

// Join adds a seat while the room is still waiting.
func (e *Engine) Join(pid, name string) error {
	switch e.state {
	case StateAbandoned:
		return ErrRoomAbandoned
	case StateFinished:
		return ErrAlreadyFinished
	case StateWaiting:
	default:
		return ErrAlreadyStarted
	}
	if e.participant(pid) != nil {
		return ErrAlreadyJoined
	}
	if len(e.participants) >= e.settings.Capacity {
		return ErrRoomFull
	}
	p := &Participant{ID: pid, Name: name}
	if len(e.participants) == 0 {
		p.Host = true
	}
	e.participants = append(e.participants, p)
	e.emit(EventParticipantJoined, pid, map[string]any{"name": name, "host": p.Host})
	e.logf(pid, name+" joined the room")
	return nil
}

// Leave removes the seat pre-match; mid-match it bans the id in place
// because turn order and logs still reference it.
func (e *Engine) Leave(pid string) error {
	p := e.participant(pid)
	if p == nil {
		return ErrNotInRoom
	}
	switch {
	case e.state == StateWaiting:
		e.removeParticipant(pid)
		e.emit(EventParticipantLeft, pid, nil)
		e.logf(pid, p.Name+" left the room")
		if len(e.participants) == 0 {
			e.setState(StateAbandoned)
			e.emit(EventRoomAbandoned, "", nil)
		}
		return nil
	case e.state.playing():
		if e.banned[pid] {
			return ErrNotInRoom
		}
		e.banParticipant(pid, "left")
		e.emit(EventParticipantLeft, pid, nil)
		e.logf(pid, p.Name+" left mid-race")
		return nil
	case e.state == StateAbandoned:
		return ErrRoomAbandoned
	default:
		return ErrAlreadyFinished
	}
}

func (e *Engine) removeParticipant(pid string) {
	wasHost := false
	for i, p := range e.participants {
		if p.ID == pid {
			wasHost = p.Host
			e.participants = append(e.participants[:i], e.participants[i+1:]...)
			break
		}
	}
	if wasHost && len(e.participants) > 0 {
		e.participants[0].Host = true
		e.emit(EventHostChanged, e.participants[0].ID, nil)
		e.logf(e.participants[0].ID, e.participants[0].Name+" is the new host")
	}
}

// banParticipant marks the id banned and repairs the turn machinery around
// the hole it leaves.
func (e *Engine) banParticipant(pid, reason string) {
	e.banned[pid] = true
	e.emit(EventParticipantBanned, pid, map[string]any{"reason": reason})

	if e.activeCount() == 0 {
		e.endMatch(ReasonAbandoned)
		return
	}
	switch e.state {
	case StateCollectingCards, StateCollectingParams:
		if e.currentParticipantID() == pid {
			e.advanceTurn()
		}
	case StateDiscarding:
		if e.pendingDiscard[pid] {
			delete(e.pendingDiscard, pid)
			if len(e.pendingDiscard) == 0 {
				e.finishDiscarding()
			}
		}
	}
}

func (e *Engine) ToggleReady(pid string) error {
	if e.state != StateWaiting {
		if e.state == StateFinished {
			return ErrAlreadyFinished
		}
		return ErrAlreadyStarted
	}
	p := e.participant(pid)
	if p == nil {
		return ErrNotInRoom
	}
	p.Ready = !p.Ready
	e.emit(EventReadyChanged, pid, map[string]any{"ready": p.Ready})
	return nil
}

func (e *Engine) UpdateSettings(pid string, s Settings) error {
	if e.state != StateWaiting {
		if e.state == StateFinished {
			return ErrAlreadyFinished
		}
		return ErrAlreadyStarted
	}
	p := e.participant(pid)
	if p == nil {
		return ErrNotInRoom
	}
	if !p.Host {
		return ErrNotHost
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if s.Capacity < len(e.participants) {
		return ErrInvalidSettings
	}
	if s.Track == "" {
		s.Track = e.settings.Track
	}
	if s.Track != e.settings.Track {
		track, ok := TrackByName(s.Track)
		if !ok {
			return ErrInvalidSettings
		}
		e.track = track
	}
	e.settings = s
	e.emit(EventSettingsUpdated, pid, map[string]any{
		"name": s.Name, "capacity": s.Capacity, "private": s.Private,
		"rounds": s.Rounds, "steps": s.Steps, "track": s.Track,
	})
	return nil
}

// StartMatch seeds decks, hands, the starting grid and time banks, captures
// the turn order from membership and moves the room into the first phase.
func (e *Engine) StartMatch(pid string) error {
	switch e.state {
	case StateFinished:
		return ErrAlreadyFinished
	case StateAbandoned:
		return ErrRoomAbandoned
	case StateWaiting:
	default:
		return ErrAlreadyStarted
	}
	requester := e.participant(pid)
	if requester == nil {
		return ErrNotInRoom
	}
	if !requester.Host {
		return ErrNotHost
	}
	if len(e.participants) == 0 {
		return ErrNoPlayers
	}
	for _, p := range e.participants {
		if !p.Ready {
			return ErrNotAllReady
		}
	}

	grid := e.track.Segments[0]
	e.turnOrder = e.turnOrder[:0]
	for i, p := range e.participants {
		e.turnOrder = append(e.turnOrder, p.ID)
		p.Deck = newRacingDeck(e.shuffle)
		p.Hand = nil
		p.DiscardPile = nil
		for j := 0; j < e.cfg.HandSize; j++ {
			p.draw(e.shuffle)
		}
		p.Pos = Position{Segment: 0, Lane: i % grid.Lanes, Cell: i / grid.Lanes}
		p.Progress = 0
		p.Gear = 0
		p.TimeBank = e.cfg.TimeBankInitial
	}
	e.round = 1
	e.step = 1
	e.emit(EventMatchStarted, pid, map[string]any{"turn_order": append([]string(nil), e.turnOrder...)})
	e.logf(pid, "race started")
	e.setState(StateCollectingCards)
	e.beginCycle()
	return nil
}

// KickPlayer removes a seat pre-match (host privilege) or bans a stalled
// participant mid-match once their time bank is exhausted.
func (e *Engine) KickPlayer(requesterID, targetID string) error {
	requester := e.participant(requesterID)
	if requester == nil {
		return ErrNotInRoom
	}
	target := e.participant(targetID)
	if target == nil {
		return ErrTargetNotFound
	}
	switch {
	case e.state == StateWaiting:
		if !requester.Host {
			return ErrNotHost
		}
		e.removeParticipant(targetID)
		e.emit(EventParticipantKicked, targetID, map[string]any{"by": requesterID})
		e.logf(targetID, target.Name+" was kicked from the room")
		if len(e.participants) == 0 {
			e.setState(StateAbandoned)
			e.emit(EventRoomAbandoned, "", nil)
		}
		return nil
	case e.state.playing():
		if e.banned[targetID] {
			return ErrTargetNotFound
		}
		if e.effectiveBank(targetID) > 0 {
			return ErrTargetNotIdle
		}
		e.emit(EventParticipantKicked, targetID, map[string]any{"by": requesterID})
		e.logf(targetID, target.Name+" was kicked for stalling")
		e.banParticipant(targetID, "kicked")
		return nil
	case e.state == StateAbandoned:
		return ErrRoomAbandoned
	default:
		return ErrAlreadyFinished
	}
}

// effectiveBank is the target's time bank minus any in-progress think time.
// It is the sole input to kick-eligibility.
func (e *Engine) effectiveBank(pid string) time.Duration {
	p := e.participant(pid)
	if p == nil {
		return 0
	}
	bank := p.TimeBank
	switch e.state {
	case StateCollectingCards, StateCollectingParams:
		if e.currentParticipantID() == pid && !e.promptedAt.IsZero() {
			bank -= e.now().Sub(e.promptedAt)
		}
	case StateDiscarding:
		if at, ok := e.discardPromptedAt[pid]; ok && e.pendingDiscard[pid] {
			bank -= e.now().Sub(at)
		}
	}
	return bank
}

// EndMatch is idempotent: the first call computes and caches the final
// ranking, later calls return with the cache untouched.
func (e *Engine) EndMatch(reason EndReason) []Standing {
	if e.state == StateFinished {
		return e.results
	}
	e.endMatch(reason)
	return e.results
}

func (e *Engine) endMatch(reason EndReason) {
	if e.state == StateFinished {
		return
	}
	e.endReason = reason

	ranked := make([]*Participant, len(e.participants))
	copy(ranked, e.participants)
	sort.SliceStable(ranked, func(i, j int) bool {
		fi, fj := e.track.atFinish(ranked[i].Pos), e.track.atFinish(ranked[j].Pos)
		if fi != fj {
			return fi
		}
		return ranked[i].Progress > ranked[j].Progress
	})
	e.results = e.results[:0]
	for i, p := range ranked {
		rank := i + 1
		if i > 0 {
			prev := e.results[i-1]
			if prev.Progress == p.Progress && prev.Finished == e.track.atFinish(p.Pos) {
				rank = prev.Rank
			}
		}
		e.results = append(e.results, Standing{
			Rank:          rank,
			ParticipantID: p.ID,
			Name:          p.Name,
			Progress:      p.Progress,
			Finished:      e.track.atFinish(p.Pos),
		})
	}
	e.setState(StateFinished)
	e.emit(EventMatchEnded, "", map[string]any{
		"reason":    string(reason),
		"standings": append([]Standing(nil), e.results...),
	})
	e.logf("", "race ended: "+string(reason))
}

// Results returns the cached final ranking, nil until the match ends.
func (e *Engine) Results() []Standing {
	return e.results
}
