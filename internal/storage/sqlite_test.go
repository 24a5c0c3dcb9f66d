package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.RecordHighScore("runner", "alice", 42); err != nil {
		t.Fatalf("RecordHighScore() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	best, err := store.HighScore("runner")
	if err != nil || best != 42 {
		t.Errorf("HighScore() = %d, %v; want 42", best, err)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, sc := range []int{100, -5, 200} {
		if _, err := store.SaveScore("runner", "alice", "run-1", sc); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("runner_lives", "bob", "run-2", 500); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("runner", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	want := []int{200, 100, -5}
	for i, w := range want {
		if scores[i].Score != w {
			t.Errorf("scores[%d] = %d, want %d", i, scores[i].Score, w)
		}
	}
	if scores[0].Player != "alice" || scores[0].RunID != "run-1" {
		t.Errorf("player/run not stored: %+v", scores[0])
	}

	limited, err := store.TopScores("runner", 2)
	if err != nil || len(limited) != 2 {
		t.Errorf("TopScores(limit 2) = %d entries, %v", len(limited), err)
	}

	bobs, err := store.PlayerScores("bob", 10)
	if err != nil || len(bobs) != 1 || bobs[0].GameID != "runner_lives" {
		t.Errorf("PlayerScores(bob) = %+v, %v", bobs, err)
	}
}

func TestHighScoreOnlyImproves(t *testing.T) {
	store := openTestStore(t)

	best, err := store.HighScore("runner")
	if err != nil || best != 0 {
		t.Fatalf("empty HighScore() = %d, %v", best, err)
	}
	if _, err := store.HighScoreEntry("runner"); !errors.Is(err, ErrNotFound) {
		t.Errorf("HighScoreEntry() error = %v, want ErrNotFound", err)
	}

	steps := []struct {
		score   int
		changed bool
		best    int
	}{
		{30, true, 30},
		{20, false, 30},
		{30, false, 30},
		{45, true, 45},
	}
	for _, st := range steps {
		changed, err := store.RecordHighScore("runner", "alice", st.score)
		if err != nil {
			t.Fatalf("RecordHighScore(%d) failed: %v", st.score, err)
		}
		if changed != st.changed {
			t.Errorf("RecordHighScore(%d) changed = %v, want %v", st.score, changed, st.changed)
		}
		best, _ := store.HighScore("runner")
		if best != st.best {
			t.Errorf("after %d: best = %d, want %d", st.score, best, st.best)
		}
	}

	e, err := store.HighScoreEntry("runner")
	if err != nil || e.Player != "alice" {
		t.Errorf("HighScoreEntry() = %+v, %v", e, err)
	}
}

func TestHighScoreSink(t *testing.T) {
	store := openTestStore(t)
	sink := store.HighScoreSink("runner", func() string { return "carol" }, nil)

	sink(10)
	sink(35)
	sink(12)

	e, err := store.HighScoreEntry("runner")
	if err != nil {
		t.Fatalf("HighScoreEntry() failed: %v", err)
	}
	if e.Score != 35 || e.Player != "carol" {
		t.Errorf("entry = %+v", e)
	}
}

func TestClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("runner", "a", "r1", 100)
	store.RecordHighScore("runner", "a", 100)
	store.SaveScore("runner_lives", "a", "r2", 50)

	if err := store.ClearScores("runner"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	scores, _ := store.TopScores("runner", 10)
	if len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	if best, _ := store.HighScore("runner"); best != 0 {
		t.Errorf("high score survived clear: %d", best)
	}
	other, _ := store.TopScores("runner_lives", 10)
	if len(other) != 1 {
		t.Errorf("other game affected by clear: %d scores", len(other))
	}
}

func TestGameStats(t *testing.T) {
	store := openTestStore(t)

	for _, sc := range []int{10, 20, 30} {
		store.SaveScore("runner", "a", "r", sc)
	}
	store.RecordHighScore("runner", "a", 55)

	stats, err := store.GetGameStats("runner")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 3 || stats.TotalScore != 60 || stats.AvgScore != 20 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.HighScore != 55 {
		t.Errorf("HighScore = %d, want the persisted 55", stats.HighScore)
	}

	empty, err := store.GetGameStats("nothing")
	if err != nil || empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v, %v", empty, err)
	}
}

func TestPlayers(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.Player("dave"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Player() error = %v, want ErrNotFound", err)
	}
	name, err := store.RegisterPlayer("  dave ")
	if err != nil || name != "dave" {
		t.Fatalf("RegisterPlayer() = %q, %v", name, err)
	}
	if _, err := store.RegisterPlayer("dave"); err != nil {
		t.Fatalf("second RegisterPlayer() failed: %v", err)
	}
	if _, err := store.RegisterPlayer(" x "); !errors.Is(err, ErrInvalidName) {
		t.Errorf("short name error = %v, want ErrInvalidName", err)
	}
	p, err := store.Player("dave")
	if err != nil || p.Name != "dave" {
		t.Errorf("Player() = %+v, %v", p, err)
	}
}

func TestReadings(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	in := []Reading{
		{Player: "erin", RunID: "r1", GameID: "runner", BloodGlucose: decimal.RequireFromString("95.5"), Category: "normal", GameScore: 40, RecordedAt: base},
		{Player: "erin", RunID: "r1", GameID: "runner", BloodGlucose: decimal.NewFromInt(70), Category: "low", GameScore: 85, RecordedAt: base.Add(time.Minute)},
		{Player: "frank", RunID: "r2", GameID: "runner", BloodGlucose: decimal.NewFromInt(130), Category: "high", GameScore: 5, RecordedAt: base.Add(2 * time.Minute)},
	}
	for _, r := range in {
		if _, err := store.SaveReading(r); err != nil {
			t.Fatalf("SaveReading() failed: %v", err)
		}
	}

	erin, err := store.Readings("erin", 10)
	if err != nil {
		t.Fatalf("Readings() failed: %v", err)
	}
	if len(erin) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(erin))
	}
	if erin[0].Category != "low" || erin[0].GameScore != 85 {
		t.Errorf("newest reading first, got %+v", erin[0])
	}
	if !erin[1].BloodGlucose.Equal(decimal.RequireFromString("95.5")) {
		t.Errorf("value = %s", erin[1].BloodGlucose)
	}
	if !erin[1].RecordedAt.Equal(base) {
		t.Errorf("RecordedAt = %v, want %v", erin[1].RecordedAt, base)
	}

	all, err := store.Readings("", 10)
	if err != nil || len(all) != 3 || all[0].Player != "frank" {
		t.Errorf("Readings(all) = %d entries, %v", len(all), err)
	}
}

func TestSaveReadingStampsTime(t *testing.T) {
	store := openTestStore(t)
	before := time.Now().Add(-time.Second)

	if _, err := store.SaveReading(Reading{Player: "gina", BloodGlucose: decimal.NewFromInt(100), Category: "normal"}); err != nil {
		t.Fatalf("SaveReading() failed: %v", err)
	}
	rs, err := store.Readings("gina", 1)
	if err != nil || len(rs) != 1 {
		t.Fatalf("Readings() = %v, %v", rs, err)
	}
	if rs[0].RecordedAt.Before(before) {
		t.Errorf("RecordedAt = %v, want about now", rs[0].RecordedAt)
	}
}
