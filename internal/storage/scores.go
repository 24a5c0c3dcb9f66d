package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ScoreEntry represents a single finished run.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Player    string
	RunID     string
	Score     int
	CreatedAt time.Time
}

// HighScoreEntry is the best score recorded for a game.
type HighScoreEntry struct {
	GameID    string
	Score     int
	Player    string
	UpdatedAt time.Time
}

// SaveScore records the final score of a run.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(gameID, player, runID string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (game_id, player, run_id, score) VALUES (?, ?, ?, ?)",
		gameID, player, runID, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N scores for the given game.
// Results are ordered by score descending.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, player, run_id, score, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	return scanScores(rows)
}

// PlayerScores retrieves the most recent scores of one player across all games.
func (s *Store) PlayerScores(player string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, player, run_id, score, created_at
		 FROM scores
		 WHERE player = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player scores: %w", err)
	}
	defer rows.Close()

	return scanScores(rows)
}

func scanScores(rows *sql.Rows) ([]ScoreEntry, error) {
	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Player, &e.RunID, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// RecordHighScore stores score as the game's high score if it beats the
// current one. Reports whether the stored value changed.
func (s *Store) RecordHighScore(gameID, player string, score int) (bool, error) {
	res, err := s.db.Exec(
		`INSERT INTO high_scores (game_id, score, player) VALUES (?, ?, ?)
		 ON CONFLICT(game_id) DO UPDATE
		 SET score = excluded.score, player = excluded.player, updated_at = CURRENT_TIMESTAMP
		 WHERE excluded.score > high_scores.score`,
		gameID, score, player,
	)
	if err != nil {
		return false, fmt.Errorf("storage: cannot record high score: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot read affected rows: %w", err)
	}
	return n > 0, nil
}

// HighScoreEntry returns the stored high score for a game, or ErrNotFound.
func (s *Store) HighScoreEntry(gameID string) (HighScoreEntry, error) {
	e := HighScoreEntry{GameID: gameID}
	var updatedAt any
	err := s.db.QueryRow(
		"SELECT score, player, updated_at FROM high_scores WHERE game_id = ?",
		gameID,
	).Scan(&e.Score, &e.Player, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return HighScoreEntry{}, fmt.Errorf("%w: high score for %q", ErrNotFound, gameID)
	}
	if err != nil {
		return HighScoreEntry{}, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	e.UpdatedAt = parseTime(updatedAt)
	return e, nil
}

// HighScore returns the highest score for the given game.
// Returns 0 if none has been recorded.
func (s *Store) HighScore(gameID string) (int, error) {
	e, err := s.HighScoreEntry(gameID)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return e.Score, nil
}

// ClearScores deletes all scores and the high score for the given game.
func (s *Store) ClearScores(gameID string) error {
	if _, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM high_scores WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear high score: %w", err)
	}
	return nil
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0), MAX(created_at)
		 FROM scores WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	// The persisted high score can be above every finished run when a run
	// was abandoned mid-way.
	if best, err := s.HighScore(gameID); err == nil && best > stats.HighScore {
		stats.HighScore = best
	}

	return stats, nil
}
