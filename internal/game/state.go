package game

// StateID is the single tagged state of a room, collapsing match status and
// turn phase into one value so every legal transition is enumerable.
type StateID string

const (
	StateWaiting          StateID = "waiting"
	StateCollectingCards  StateID = "collecting_cards"
	StateCollectingParams StateID = "collecting_params"
	StateDiscarding       StateID = "discarding"
	StateFinished         StateID = "finished"
	StateAbandoned        StateID = "abandoned"
)

// transitions enumerates the legal edges of the room state machine. The
// collecting/discarding cycle is the only loop; everything else is
// one-directional.
var transitions = map[StateID][]StateID{
	StateWaiting:          {StateCollectingCards, StateAbandoned},
	StateCollectingCards:  {StateCollectingParams, StateFinished},
	StateCollectingParams: {StateDiscarding, StateFinished},
	StateDiscarding:       {StateCollectingCards, StateFinished},
	StateFinished:         {},
	StateAbandoned:        {},
}

func canTransition(from, to StateID) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s StateID) playing() bool {
	switch s {
	case StateCollectingCards, StateCollectingParams, StateDiscarding:
		return true
	}
	return false
}

// EndReason tags why a match ended.
type EndReason string

const (
	ReasonFinisher   EndReason = "finisher"
	ReasonRoundLimit EndReason = "round_limit"
	ReasonAbandoned  EndReason = "abandoned"
)

// recordKind distinguishes a played card from a draw-to-skip marker in the
// per-turn record. A skip is a first-class variant, not a sentinel card id.
type recordKind int

const (
	recordCard recordKind = iota
	recordSkip
)

type turnRecord struct {
	kind recordKind
	card Card
}

type recordKey struct {
	pid   string
	round int
	step  int
}

// Standing is one row of the cached final results.
type Standing struct {
	Rank          int    `json:"rank"`
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
	Progress      int    `json:"progress"`
	Finished      bool   `json:"finished"`
}
