package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/vovakirdan/chocodash/internal/glucose"
	"github.com/vovakirdan/chocodash/internal/registry"
	"github.com/vovakirdan/chocodash/internal/storage"
)

const maxLimit = 100

// ReadingRequest is the body of POST /api/v1/readings. BloodGlucose is a
// JSON number (mg/dL) or a string with an optional unit, e.g. "5.4 mmol/L".
type ReadingRequest struct {
	Username     string          `json:"username"`
	BloodGlucose json.RawMessage `json:"bloodGlucose"`
	GameScore    int             `json:"gameScore"`
	Timestamp    time.Time       `json:"timestamp"`
	RunID        string          `json:"runId,omitempty"`
	Game         string          `json:"game,omitempty"`
}

// parseGlucose turns the raw bloodGlucose field into mg/dL.
func parseGlucose(raw json.RawMessage) (decimal.Decimal, error) {
	var text string
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Zero, fmt.Errorf("%w: %v", glucose.ErrInvalidReading, err)
		}
	} else {
		text = string(raw)
	}
	return glucose.Parse(text)
}

// ReadingResponse describes a stored reading.
type ReadingResponse struct {
	ID           int64           `json:"id"`
	Username     string          `json:"username"`
	BloodGlucose decimal.Decimal `json:"bloodGlucose"`
	Mmol         decimal.Decimal `json:"mmol"`
	Category     string          `json:"category"`
	Message      string          `json:"message"`
	GameScore    int             `json:"gameScore"`
	Timestamp    time.Time       `json:"timestamp"`
	RunID        string          `json:"runId,omitempty"`
	Game         string          `json:"game,omitempty"`
}

// ScoreResponse is one row of a leaderboard.
type ScoreResponse struct {
	Rank      int       `json:"rank"`
	Username  string    `json:"username"`
	Score     int       `json:"score"`
	RunID     string    `json:"runId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// PlayerResponse is a player profile with their most recent runs.
type PlayerResponse struct {
	Username   string           `json:"username"`
	CreatedAt  time.Time        `json:"createdAt"`
	LastSeen   time.Time        `json:"lastSeen"`
	RecentRuns []RunResponse    `json:"recentRuns"`
	Latest     *ReadingResponse `json:"latestReading,omitempty"`
}

// RunResponse is one finished run of a player.
type RunResponse struct {
	Game      string    `json:"game"`
	Score     int       `json:"score"`
	RunID     string    `json:"runId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateReading(w http.ResponseWriter, r *http.Request) {
	var req ReadingRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if _, err := storage.NormalizeName(req.Username); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mgdl, err := parseGlucose(req.BloodGlucose)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Game != "" && !registry.Exists(req.Game) {
		s.writeError(w, http.StatusBadRequest, "unknown game")
		return
	}
	if req.Timestamp.IsZero() {
		req.Timestamp = s.now()
	}

	name, err := s.store.RegisterPlayer(req.Username)
	if err != nil {
		s.logger.Error("cannot register player", "err", err)
		s.writeError(w, http.StatusInternalServerError, "cannot store reading")
		return
	}

	category := glucose.Classify(mgdl)
	reading := storage.Reading{
		Player:       name,
		RunID:        req.RunID,
		GameID:       req.Game,
		BloodGlucose: mgdl,
		Category:     string(category),
		GameScore:    req.GameScore,
		RecordedAt:   req.Timestamp,
	}
	id, err := s.store.SaveReading(reading)
	if err != nil {
		s.logger.Error("cannot save reading", "err", err)
		s.writeError(w, http.StatusInternalServerError, "cannot store reading")
		return
	}
	reading.ID = id

	s.logger.Info("reading logged", "player", name, "category", category, "score", req.GameScore)
	s.writeJSON(w, http.StatusCreated, toReadingResponse(reading))
}

func (s *Server) handleListReadings(w http.ResponseWriter, r *http.Request) {
	limit, ok := s.limit(w, r, 20)
	if !ok {
		return
	}
	readings, err := s.store.Readings(r.URL.Query().Get("username"), limit)
	if err != nil {
		s.logger.Error("cannot list readings", "err", err)
		s.writeError(w, http.StatusInternalServerError, "cannot list readings")
		return
	}

	out := make([]ReadingResponse, 0, len(readings))
	for _, rd := range readings {
		out = append(out, toReadingResponse(rd))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	name, err := storage.NormalizeName(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, ok := s.limit(w, r, 10)
	if !ok {
		return
	}

	p, err := s.store.Player(name)
	if errors.Is(err, storage.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "unknown player")
		return
	}
	if err != nil {
		s.logger.Error("cannot read player", "player", name, "err", err)
		s.writeError(w, http.StatusInternalServerError, "cannot read player")
		return
	}
	scores, err := s.store.PlayerScores(p.Name, limit)
	if err != nil {
		s.logger.Error("cannot list player scores", "player", name, "err", err)
		s.writeError(w, http.StatusInternalServerError, "cannot read player")
		return
	}

	out := PlayerResponse{
		Username:   p.Name,
		CreatedAt:  p.CreatedAt,
		LastSeen:   p.LastSeen,
		RecentRuns: make([]RunResponse, 0, len(scores)),
	}
	for _, e := range scores {
		out.RecentRuns = append(out.RecentRuns, RunResponse{
			Game:      e.GameID,
			Score:     e.Score,
			RunID:     e.RunID,
			CreatedAt: e.CreatedAt,
		})
	}
	if rs, err := s.store.Readings(p.Name, 1); err == nil && len(rs) == 1 {
		latest := toReadingResponse(rs[0])
		out.Latest = &latest
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTopScores(w http.ResponseWriter, r *http.Request) {
	game, ok := s.game(w, r)
	if !ok {
		return
	}
	limit, ok := s.limit(w, r, 10)
	if !ok {
		return
	}
	scores, err := s.store.TopScores(game, limit)
	if err != nil {
		s.logger.Error("cannot list scores", "game", game, "err", err)
		s.writeError(w, http.StatusInternalServerError, "cannot list scores")
		return
	}

	out := make([]ScoreResponse, 0, len(scores))
	for i, e := range scores {
		out = append(out, ScoreResponse{
			Rank:      i + 1,
			Username:  e.Player,
			Score:     e.Score,
			RunID:     e.RunID,
			CreatedAt: e.CreatedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHighScore(w http.ResponseWriter, r *http.Request) {
	game, ok := s.game(w, r)
	if !ok {
		return
	}
	e, err := s.store.HighScoreEntry(game)
	if errors.Is(err, storage.ErrNotFound) {
		s.writeJSON(w, http.StatusOK, map[string]any{"game": game, "score": 0})
		return
	}
	if err != nil {
		s.logger.Error("cannot read high score", "game", game, "err", err)
		s.writeError(w, http.StatusInternalServerError, "cannot read high score")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"game":      game,
		"score":     e.Score,
		"username":  e.Player,
		"updatedAt": e.UpdatedAt,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	game, ok := s.game(w, r)
	if !ok {
		return
	}
	st, err := s.store.GetGameStats(game)
	if err != nil {
		s.logger.Error("cannot read stats", "game", game, "err", err)
		s.writeError(w, http.StatusInternalServerError, "cannot read stats")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"game":       game,
		"runs":       st.GamesCount,
		"highScore":  st.HighScore,
		"avgScore":   st.AvgScore,
		"totalScore": st.TotalScore,
		"lastPlayed": st.LastPlayed,
	})
}

// game reads and checks the {game} URL parameter.
func (s *Server) game(w http.ResponseWriter, r *http.Request) (string, bool) {
	game := chi.URLParam(r, "game")
	if !registry.Exists(game) {
		s.writeError(w, http.StatusNotFound, "unknown game")
		return "", false
	}
	return game, true
}

// limit reads the optional ?limit= query parameter.
func (s *Server) limit(w http.ResponseWriter, r *http.Request, def int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > maxLimit {
		s.writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
		return 0, false
	}
	return n, true
}

func toReadingResponse(rd storage.Reading) ReadingResponse {
	c := glucose.Category(rd.Category)
	return ReadingResponse{
		ID:           rd.ID,
		Username:     rd.Player,
		BloodGlucose: rd.BloodGlucose,
		Mmol:         glucose.ToMmol(rd.BloodGlucose),
		Category:     rd.Category,
		Message:      glucose.Message(c),
		GameScore:    rd.GameScore,
		Timestamp:    rd.RecordedAt,
		RunID:        rd.RunID,
		Game:         rd.GameID,
	}
}
