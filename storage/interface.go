package storage

import "context"

// RoundRecord describes one resolved round for history purposes.
type RoundRecord struct {
	GameID          string
	RoundNum        int
	JudgeID         string
	JudgeName       string
	WinnerID        string
	WinnerName      string
	PromptText      string
	SubmissionCount int
	AutoResolved    bool
}

// GameRecord describes one finished game.
type GameRecord struct {
	GameID      string
	WinnerID    string
	WinnerName  string
	WinnerScore int
	Rounds      int
	PlayerCount int
}

// LeaderboardEntry is one row of the all-time winners query.
type LeaderboardEntry struct {
	PlayerName string
	GamesWon   int
	RoundsWon  int
}

// HistoryStore abstracts persistence for round and game history.
// Implementations can be swapped for testing or different backends.
// All writes are fire-and-forget relative to in-memory game state.
type HistoryStore interface {
	InsertRoundResult(ctx context.Context, rec RoundRecord) error
	InsertGameResult(ctx context.Context, rec GameRecord) error
	ListLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	Close()
}

// Ensure *Store implements HistoryStore at compile time.
var _ HistoryStore = (*Store)(nil)
