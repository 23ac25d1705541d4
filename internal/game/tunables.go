package game

import "time"

// Tunables are the process-wide gameplay constants. Per-room knobs live in
// Settings instead.
type Tunables struct {
	HandSize          int
	DrawOnSkip        int
	MaxMoveEffect     int
	MaxLaneShift      int
	MaxGear           int
	TimeBankInitial   time.Duration
	TimeBankIncrement time.Duration
	TurnTimeout       time.Duration
	DiscardAutoSkip   time.Duration
	TimeoutNoticeAt   time.Duration
	TurnLogCap        int
}

func DefaultTunables() Tunables {
	return Tunables{
		HandSize:          5,
		DrawOnSkip:        2,
		MaxMoveEffect:     6,
		MaxLaneShift:      2,
		MaxGear:           3,
		TimeBankInitial:   60 * time.Second,
		TimeBankIncrement: 5 * time.Second,
		TurnTimeout:       20 * time.Second,
		DiscardAutoSkip:   30 * time.Second,
		TimeoutNoticeAt:   15 * time.Second,
		TurnLogCap:        100,
	}
}

// Settings are the per-room options the host controls before the match.
type Settings struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Private  bool   `json:"private"`
	Rounds   int    `json:"rounds"`
	Steps    int    `json:"steps"`
	Track    string `json:"track"`
}

const maxCapacity = 8

// Validate rejects settings a room could not run with. A blank track name
// is allowed and means the default track.
func (s Settings) Validate() error {
	if s.Capacity < 1 || s.Capacity > maxCapacity {
		return ErrInvalidSettings
	}
	if s.Rounds < 1 || s.Steps < 1 {
		return ErrInvalidSettings
	}
	if s.Track != "" {
		if _, ok := TrackByName(s.Track); !ok {
			return ErrInvalidSettings
		}
	}
	return nil
}

func DefaultSettings() Settings {
	return Settings{
		Name:     "scrap rally",
		Capacity: maxCapacity,
		Rounds:   3,
		Steps:    3,
		Track:    DefaultTrack().Name,
	}
}
