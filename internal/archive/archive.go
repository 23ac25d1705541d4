package archive

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"scrap-rally/internal/arena"
)

// Store archives finished races in Postgres. It sits strictly downstream
// of the event stream: live room state is never persisted, and a write
// failure never reaches the room that produced the result.
type Store struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

func New(ctx context.Context, dsn string, log zerolog.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool, log: log}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

const schema = `
CREATE TABLE IF NOT EXISTS races (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	track    TEXT NOT NULL,
	reason   TEXT NOT NULL,
	ended_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS race_standings (
	race_id        TEXT NOT NULL REFERENCES races(id) ON DELETE CASCADE,
	rank           INT NOT NULL,
	participant_id TEXT NOT NULL,
	name           TEXT NOT NULL,
	progress       INT NOT NULL,
	finished       BOOLEAN NOT NULL,
	PRIMARY KEY (race_id, participant_id)
);
CREATE INDEX IF NOT EXISTS race_standings_name_idx ON race_standings (name);
`

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// RecordRace writes one finished race and its standings atomically. It is
// the arena.ResultSink implementation.
func (s *Store) RecordRace(ctx context.Context, res arena.RaceResult) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO races (id, name, track, reason, ended_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO NOTHING`,
		res.RoomID, res.RoomName, res.Track, res.Reason, res.EndedAt)
	if err != nil {
		return err
	}
	for _, st := range res.Standings {
		_, err = tx.Exec(ctx,
			`INSERT INTO race_standings (race_id, rank, participant_id, name, progress, finished)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (race_id, participant_id) DO NOTHING`,
			res.RoomID, st.Rank, st.ParticipantID, st.Name, st.Progress, st.Finished)
		if err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	s.log.Info().Str("room_id", res.RoomID).Str("reason", res.Reason).
		Int("standings", len(res.Standings)).Msg("race archived")
	return nil
}

// LeaderboardRow aggregates a racer's archived results by display name.
type LeaderboardRow struct {
	Name   string `json:"name"`
	Wins   int64  `json:"wins"`
	Races  int64  `json:"races"`
	Best   int    `json:"best_progress"`
	Podium int64  `json:"podiums"`
}

func (s *Store) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT name,
		        COUNT(*) FILTER (WHERE rank = 1)  AS wins,
		        COUNT(*)                          AS races,
		        MAX(progress)                     AS best,
		        COUNT(*) FILTER (WHERE rank <= 3) AS podiums
		 FROM race_standings
		 GROUP BY name
		 ORDER BY wins DESC, podiums DESC, races DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderboardRow
	for rows.Next() {
		var row LeaderboardRow
		if err := rows.Scan(&row.Name, &row.Wins, &row.Races, &row.Best, &row.Podium); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
