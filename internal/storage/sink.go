package storage

import "github.com/charmbracelet/log"

// HighScoreSink returns a callback that persists every new high score of
// gameID as soon as the run reaches it. Failures are logged and never
// interrupt the run.
func (s *Store) HighScoreSink(gameID string, player func() string, logger *log.Logger) func(score int) {
	return func(score int) {
		name := ""
		if player != nil {
			name = player()
		}
		if _, err := s.RecordHighScore(gameID, name, score); err != nil && logger != nil {
			logger.Warn("high score not saved", "game", gameID, "score", score, "err", err)
		}
	}
}
