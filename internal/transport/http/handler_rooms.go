package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"scrap-rally/internal/arena"
	"scrap-rally/internal/game"
)

type RoomHandlers struct {
	coord *arena.Coordinator
}

func NewRoomHandlers(coord *arena.Coordinator) *RoomHandlers {
	return &RoomHandlers{coord: coord}
}

func defaultName(pid string) string {
	if len(pid) > 8 {
		pid = pid[:8]
	}
	return "racer-" + pid
}

func (h *RoomHandlers) lookup(w http.ResponseWriter, r *http.Request) (*arena.Room, bool) {
	room, ok := h.coord.Room(chi.URLParam(r, "room_id"))
	if !ok {
		writeErr(w, http.StatusNotFound, "room_not_found")
		return nil, false
	}
	return room, true
}

type createRoomRequest struct {
	Name            string `json:"name"`
	Capacity        int    `json:"capacity"`
	Private         bool   `json:"private"`
	Rounds          int    `json:"rounds"`
	Steps           int    `json:"steps"`
	Track           string `json:"track"`
	ParticipantID   string `json:"participant_id"`
	ParticipantName string `json:"participant_name"`
}

func (h *RoomHandlers) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRoomRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		settings := game.DefaultSettings()
		if req.Name != "" {
			settings.Name = req.Name
		}
		if req.Capacity != 0 {
			settings.Capacity = req.Capacity
		}
		if req.Rounds != 0 {
			settings.Rounds = req.Rounds
		}
		if req.Steps != 0 {
			settings.Steps = req.Steps
		}
		if req.Track != "" {
			settings.Track = req.Track
		}
		settings.Private = req.Private

		hostID := req.ParticipantID
		if hostID == "" {
			hostID = game.NewID()
		}
		hostName := req.ParticipantName
		if hostName == "" {
			hostName = defaultName(hostID)
		}

		room, err := h.coord.CreateRoom(settings, hostID, hostName)
		if err != nil {
			writeGameErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"participant_id": hostID,
			"stream_url":     "/api/rooms/" + room.ID() + "/events",
			"room":           room.SnapshotFor(hostID),
		})
	}
}

func (h *RoomHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"rooms": h.coord.List()})
	}
}

func (h *RoomHandlers) Tracks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"tracks": game.TrackNames()})
	}
}

// Snapshot serves the room projection; ?participant_id= reveals that
// participant's hand, anything else is the spectator view.
func (h *RoomHandlers) Snapshot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, ok := h.lookup(w, r)
		if !ok {
			return
		}
		pid := r.URL.Query().Get("participant_id")
		writeJSON(w, http.StatusOK, room.SnapshotFor(pid))
	}
}

type participantRequest struct {
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
}

func (h *RoomHandlers) Join() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, ok := h.lookup(w, r)
		if !ok {
			return
		}
		var req participantRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.ParticipantID == "" {
			req.ParticipantID = game.NewID()
		}
		if req.Name == "" {
			req.Name = defaultName(req.ParticipantID)
		}
		err := room.Do(func(e *game.Engine) error {
			return e.Join(req.ParticipantID, req.Name)
		})
		if err != nil {
			writeGameErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"participant_id": req.ParticipantID,
			"room":           room.SnapshotFor(req.ParticipantID),
		})
	}
}

func (h *RoomHandlers) Leave() http.HandlerFunc {
	return h.simpleAction(func(e *game.Engine, req participantRequest) error {
		return e.Leave(req.ParticipantID)
	})
}

func (h *RoomHandlers) Ready() http.HandlerFunc {
	return h.simpleAction(func(e *game.Engine, req participantRequest) error {
		return e.ToggleReady(req.ParticipantID)
	})
}

func (h *RoomHandlers) Start() http.HandlerFunc {
	return h.simpleAction(func(e *game.Engine, req participantRequest) error {
		return e.StartMatch(req.ParticipantID)
	})
}

type settingsRequest struct {
	ParticipantID string `json:"participant_id"`
	game.Settings
}

func (h *RoomHandlers) UpdateSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, ok := h.lookup(w, r)
		if !ok {
			return
		}
		var req settingsRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		err := room.Do(func(e *game.Engine) error {
			return e.UpdateSettings(req.ParticipantID, req.Settings)
		})
		if err != nil {
			writeGameErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, room.SnapshotFor(req.ParticipantID))
	}
}

type cardRequest struct {
	ParticipantID string `json:"participant_id"`
	CardID        string `json:"card_id"`
}

func (h *RoomHandlers) SubmitCard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, ok := h.lookup(w, r)
		if !ok {
			return
		}
		var req cardRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		metricActionSubmitTotal.Add(1)
		err := room.Do(func(e *game.Engine) error {
			return e.SubmitCard(req.ParticipantID, req.CardID)
		})
		if err != nil {
			metricActionSubmitErrors.Add(1)
			writeGameErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, room.SnapshotFor(req.ParticipantID))
	}
}

func (h *RoomHandlers) DrawAndSkip() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, ok := h.lookup(w, r)
		if !ok {
			return
		}
		var req participantRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		metricActionSubmitTotal.Add(1)
		err := room.Do(func(e *game.Engine) error {
			return e.DrawAndSkip(req.ParticipantID)
		})
		if err != nil {
			metricActionSubmitErrors.Add(1)
			writeGameErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, room.SnapshotFor(req.ParticipantID))
	}
}

type paramRequest struct {
	ParticipantID string `json:"participant_id"`
	game.Param
}

func (h *RoomHandlers) SubmitParameter() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, ok := h.lookup(w, r)
		if !ok {
			return
		}
		var req paramRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		metricActionSubmitTotal.Add(1)
		err := room.Do(func(e *game.Engine) error {
			return e.SubmitParameter(req.ParticipantID, req.Param)
		})
		if err != nil {
			metricActionSubmitErrors.Add(1)
			writeGameErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, room.SnapshotFor(req.ParticipantID))
	}
}

type discardRequest struct {
	ParticipantID string   `json:"participant_id"`
	CardIDs       []string `json:"card_ids"`
}

func (h *RoomHandlers) SubmitDiscard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, ok := h.lookup(w, r)
		if !ok {
			return
		}
		var req discardRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		metricActionSubmitTotal.Add(1)
		err := room.Do(func(e *game.Engine) error {
			return e.SubmitDiscard(req.ParticipantID, req.CardIDs)
		})
		if err != nil {
			metricActionSubmitErrors.Add(1)
			writeGameErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, room.SnapshotFor(req.ParticipantID))
	}
}

type kickRequest struct {
	ParticipantID string `json:"participant_id"`
	TargetID      string `json:"target_id"`
}

func (h *RoomHandlers) Kick() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, ok := h.lookup(w, r)
		if !ok {
			return
		}
		var req kickRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		err := room.Do(func(e *game.Engine) error {
			return e.KickPlayer(req.ParticipantID, req.TargetID)
		})
		if err != nil {
			writeGameErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, room.SnapshotFor(req.ParticipantID))
	}
}

func (h *RoomHandlers) simpleAction(op func(e *game.Engine, req participantRequest) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, ok := h.lookup(w, r)
		if !ok {
			return
		}
		var req participantRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := room.Do(func(e *game.Engine) error { return op(e, req) }); err != nil {
			writeGameErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, room.SnapshotFor(req.ParticipantID))
	}
}
