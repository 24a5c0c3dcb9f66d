package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MinNameLength is the shortest accepted player name.
const MinNameLength = 2

// ErrInvalidName is returned for player names that are too short.
var ErrInvalidName = errors.New("storage: invalid player name")

// NormalizeName trims name and checks its length.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < MinNameLength {
		return "", fmt.Errorf("%w: need at least %d characters", ErrInvalidName, MinNameLength)
	}
	return name, nil
}

// Player is a registered player name.
type Player struct {
	Name      string
	CreatedAt time.Time
	LastSeen  time.Time
}

// RegisterPlayer creates the player, or refreshes last_seen when the name is
// already known. Returns the normalized name.
func (s *Store) RegisterPlayer(name string) (string, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return "", err
	}
	_, err = s.db.Exec(
		`INSERT INTO players (name) VALUES (?)
		 ON CONFLICT(name) DO UPDATE SET last_seen = CURRENT_TIMESTAMP`,
		name,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot register player: %w", err)
	}
	return name, nil
}

// Player returns a registered player, or ErrNotFound.
func (s *Store) Player(name string) (Player, error) {
	p := Player{Name: name}
	var created, seen any
	err := s.db.QueryRow(
		"SELECT created_at, last_seen FROM players WHERE name = ?",
		name,
	).Scan(&created, &seen)
	if errors.Is(err, sql.ErrNoRows) {
		return Player{}, fmt.Errorf("%w: player %q", ErrNotFound, name)
	}
	if err != nil {
		return Player{}, fmt.Errorf("storage: cannot query player: %w", err)
	}
	p.CreatedAt = parseTime(created)
	p.LastSeen = parseTime(seen)
	return p, nil
}
