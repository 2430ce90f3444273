package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS round_history (
	id UUID PRIMARY KEY,
	played_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	game_id UUID NOT NULL,
	round_num INT NOT NULL,
	judge_id TEXT NOT NULL,
	judge_name TEXT NOT NULL,
	winner_id TEXT NOT NULL DEFAULT '',
	winner_name TEXT NOT NULL DEFAULT '',
	prompt_text TEXT NOT NULL,
	submission_count INT NOT NULL,
	auto_resolved BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_round_history_game_id ON round_history(game_id);
CREATE TABLE IF NOT EXISTS game_history (
	id UUID PRIMARY KEY,
	finished_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	game_id UUID NOT NULL,
	winner_id TEXT NOT NULL,
	winner_name TEXT NOT NULL,
	winner_score INT NOT NULL,
	rounds INT NOT NULL,
	player_count INT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_game_history_winner ON game_history(winner_name);
`

// Store persists round and game history to Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres and ensures the history tables exist.
// If databaseURL is empty, NewStore returns (nil, nil) and no persistence
// occurs; a nil *Store is safe to call.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating history tables: %w", err)
	}
	slog.Info("history store connected", "tag", "storage")
	return &Store{pool: pool}, nil
}

// InsertRoundResult records one resolved round.
func (s *Store) InsertRoundResult(ctx context.Context, rec RoundRecord) error {
	if s == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO round_history
			(id, game_id, round_num, judge_id, judge_name, winner_id, winner_name, prompt_text, submission_count, auto_resolved)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.NewString(), rec.GameID, rec.RoundNum, rec.JudgeID, rec.JudgeName,
		rec.WinnerID, rec.WinnerName, rec.PromptText, rec.SubmissionCount, rec.AutoResolved)
	if err != nil {
		return fmt.Errorf("inserting round result: %w", err)
	}
	return nil
}

// InsertGameResult records a finished game.
func (s *Store) InsertGameResult(ctx context.Context, rec GameRecord) error {
	if s == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO game_history
			(id, game_id, winner_id, winner_name, winner_score, rounds, player_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.NewString(), rec.GameID, rec.WinnerID, rec.WinnerName,
		rec.WinnerScore, rec.Rounds, rec.PlayerCount)
	if err != nil {
		return fmt.Errorf("inserting game result: %w", err)
	}
	return nil
}

// ListLeaderboard returns all-time winners ordered by games won.
func (s *Store) ListLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if s == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT g.winner_name,
			COUNT(*) AS games_won,
			COALESCE((SELECT COUNT(*) FROM round_history r WHERE r.winner_name = g.winner_name), 0) AS rounds_won
		 FROM game_history g
		 GROUP BY g.winner_name
		 ORDER BY games_won DESC, rounds_won DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.PlayerName, &e.GamesWon, &e.RoundsWon); err != nil {
			return nil, fmt.Errorf("scanning leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}
