package httptransport

import (
	"context"
	"net/http"
	"strconv"

	"scrap-rally/internal/archive"
)

// Leaderboarder is what the leaderboard route needs from the archive. Nil
// means the archive is disabled and the route answers 503.
type Leaderboarder interface {
	Leaderboard(ctx context.Context, limit int) ([]archive.LeaderboardRow, error)
}

func LeaderboardHandler(lb Leaderboarder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if lb == nil {
			writeErr(w, http.StatusServiceUnavailable, "archive_disabled")
			return
		}
		limit := 20
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}
		rows, err := lb.Leaderboard(r.Context(), limit)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, "leaderboard_unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"leaderboard": rows})
	}
}

func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}
