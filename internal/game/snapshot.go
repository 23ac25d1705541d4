package game

// Snapshot is a read-consistent projection of the room, built under the
// same gate used for mutation so observers never see torn state.
type Snapshot struct {
	RoomID    string            `json:"room_id"`
	Name      string            `json:"name"`
	State     StateID           `json:"state"`
	Round     int               `json:"round"`
	Step      int               `json:"step"`
	Settings  Settings          `json:"settings"`
	Track     string            `json:"track"`
	TurnOrder []string          `json:"turn_order,omitempty"`
	Current   string            `json:"current,omitempty"`
	Pending   []string          `json:"pending_discard,omitempty"`
	Racers    []ParticipantView `json:"racers"`
	Hand      []Card            `json:"hand,omitempty"`
	RecentLog []LogEntry        `json:"recent_log,omitempty"`
	Results   []Standing        `json:"results,omitempty"`
	EndReason string            `json:"end_reason,omitempty"`
}

type ParticipantView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Host         bool   `json:"host"`
	Ready        bool   `json:"ready"`
	Banned       bool   `json:"banned,omitempty"`
	Segment      int    `json:"segment"`
	Lane         int    `json:"lane"`
	Cell         int    `json:"cell"`
	Progress     int    `json:"progress"`
	Gear         int    `json:"gear"`
	HandCount    int    `json:"hand_count"`
	JunkCount    int    `json:"junk_count"`
	TimeBankMS   int64  `json:"time_bank_ms"`
	KickEligible bool   `json:"kick_eligible,omitempty"`
}

const snapshotLogTail = 20

// SnapshotFor builds the projection. When forPID names a participant their
// hand is included; everyone else only sees hand counts.
func (e *Engine) SnapshotFor(forPID string) Snapshot {
	snap := Snapshot{
		RoomID:    e.id,
		Name:      e.settings.Name,
		State:     e.state,
		Round:     e.round,
		Step:      e.step,
		Settings:  e.settings,
		Track:     e.track.Name,
		Current:   e.currentParticipantID(),
		EndReason: string(e.endReason),
	}
	if e.state.playing() || e.state == StateFinished {
		snap.TurnOrder = append([]string(nil), e.turnOrder...)
	}
	if e.state == StateDiscarding {
		for _, pid := range e.turnOrder {
			if e.pendingDiscard[pid] {
				snap.Pending = append(snap.Pending, pid)
			}
		}
	}
	for _, p := range e.participants {
		view := ParticipantView{
			ID:         p.ID,
			Name:       p.Name,
			Host:       p.Host,
			Ready:      p.Ready,
			Banned:     e.banned[p.ID],
			Segment:    p.Pos.Segment,
			Lane:       p.Pos.Lane,
			Cell:       p.Pos.Cell,
			Progress:   p.Progress,
			Gear:       p.Gear,
			HandCount:  len(p.Hand),
			JunkCount:  p.junkCount(),
			TimeBankMS: p.TimeBank.Milliseconds(),
		}
		if e.state.playing() && !e.banned[p.ID] {
			view.KickEligible = e.effectiveBank(p.ID) <= 0
		}
		snap.Racers = append(snap.Racers, view)
		if p.ID == forPID {
			snap.Hand = append([]Card(nil), p.Hand...)
		}
	}
	if n := len(e.turnLog); n > 0 {
		tail := snapshotLogTail
		if tail > n {
			tail = n
		}
		snap.RecentLog = append([]LogEntry(nil), e.turnLog[n-tail:]...)
	}
	if e.state == StateFinished {
		snap.Results = append([]Standing(nil), e.results...)
	}
	return snap
}

// Snapshot is the spectator projection: no hand contents.
func (e *Engine) Snapshot() Snapshot {
	return e.SnapshotFor("")
}
