package storage

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// timeLayout is fixed width so recorded_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Reading is a blood glucose value logged at a checkpoint.
type Reading struct {
	ID           int64
	Player       string
	RunID        string
	GameID       string
	BloodGlucose decimal.Decimal // mg/dL
	Category     string
	GameScore    int
	RecordedAt   time.Time
}

// SaveReading stores a reading. A zero RecordedAt is stamped with the current time.
// Returns the ID of the inserted record.
func (s *Store) SaveReading(r Reading) (int64, error) {
	if r.RecordedAt.IsZero() {
		r.RecordedAt = time.Now()
	}
	res, err := s.db.Exec(
		`INSERT INTO glucose_readings
		 (player, run_id, game_id, blood_glucose, category, game_score, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Player,
		r.RunID,
		r.GameID,
		r.BloodGlucose.String(),
		r.Category,
		r.GameScore,
		r.RecordedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save reading: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// Readings returns the most recent readings, newest first. An empty player
// returns readings of every player.
func (s *Store) Readings(player string, limit int) ([]Reading, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, player, run_id, game_id, blood_glucose, category, game_score, recorded_at
		 FROM glucose_readings
		 WHERE ? = '' OR player = ?
		 ORDER BY recorded_at DESC, id DESC
		 LIMIT ?`,
		player, player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query readings: %w", err)
	}
	defer rows.Close()

	var readings []Reading
	for rows.Next() {
		var r Reading
		var value string
		var recordedAt any
		if err := rows.Scan(&r.ID, &r.Player, &r.RunID, &r.GameID, &value, &r.Category, &r.GameScore, &recordedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if r.BloodGlucose, err = decimal.NewFromString(value); err != nil {
			return nil, fmt.Errorf("storage: bad glucose value %q: %w", value, err)
		}
		r.RecordedAt = parseTime(recordedAt)
		readings = append(readings, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return readings, nil
}
