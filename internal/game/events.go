package game

import "time"

type EventType string

const (
	EventParticipantJoined EventType = "participant_joined"
	EventParticipantLeft   EventType = "participant_left"
	EventHostChanged       EventType = "host_changed"
	EventRoomAbandoned     EventType = "room_abandoned"
	EventReadyChanged      EventType = "ready_changed"
	EventSettingsUpdated   EventType = "settings_updated"
	EventMatchStarted      EventType = "match_started"
	EventStateChanged      EventType = "state_changed"
	EventCardSubmitted     EventType = "card_submitted"
	EventTurnSkipped       EventType = "turn_skipped"
	EventMoveResolved      EventType = "move_resolved"
	EventLaneChanged       EventType = "lane_changed"
	EventRepairApplied     EventType = "repair_applied"
	EventCollision         EventType = "collision"
	EventPenaltyIssued     EventType = "penalty_issued"
	EventDiscardSubmitted  EventType = "discard_submitted"
	EventTurnStarted       EventType = "turn_started"
	EventTimeoutElapsed    EventType = "timeout_elapsed"
	EventParticipantKicked EventType = "participant_kicked"
	EventParticipantBanned EventType = "participant_banned"
	EventMatchEnded        EventType = "match_ended"
)

// Event is an immutable record of a state change. Events are buffered while
// the room's gate is held and published only after release.
type Event struct {
	Type          EventType      `json:"type"`
	RoomID        string         `json:"room_id"`
	ParticipantID string         `json:"participant_id,omitempty"`
	Round         int            `json:"round,omitempty"`
	Step          int            `json:"step,omitempty"`
	At            time.Time      `json:"at"`
	Data          map[string]any `json:"data,omitempty"`
}

// LogEntry is one line of the capped narration log.
type LogEntry struct {
	ParticipantID string    `json:"participant_id,omitempty"`
	Round         int       `json:"round"`
	Step          int       `json:"step"`
	Text          string    `json:"text"`
	At            time.Time `json:"at"`
}

func (e *Engine) emit(typ EventType, pid string, data map[string]any) {
	e.pendingEvents = append(e.pendingEvents, Event{
		Type:          typ,
		RoomID:        e.id,
		ParticipantID: pid,
		Round:         e.round,
		Step:          e.step,
		At:            e.now(),
		Data:          data,
	})
}

// Drain returns the buffered events and clears the buffer. Callers invoke
// it while still holding the room's gate and publish after release.
func (e *Engine) Drain() []Event {
	events := e.pendingEvents
	e.pendingEvents = nil
	return events
}

func (e *Engine) logf(pid, text string) {
	e.turnLog = append(e.turnLog, LogEntry{
		ParticipantID: pid,
		Round:         e.round,
		Step:          e.step,
		Text:          text,
		At:            e.now(),
	})
	if len(e.turnLog) > e.cfg.TurnLogCap {
		e.turnLog = e.turnLog[len(e.turnLog)-e.cfg.TurnLogCap:]
	}
}
