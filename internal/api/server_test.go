package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	_ "github.com/vovakirdan/chocodash/internal/runner"
	"github.com/vovakirdan/chocodash/internal/storage"
)

func newTestServer(t *testing.T) (*httptest.Server, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	srv := NewServer(store, log.New(io.Discard))
	srv.now = func() time.Time { return time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC) }

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts, store
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	var body map[string]string
	if code := getJSON(t, ts.URL+"/health", &body); code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("health = %d %v", code, body)
	}
}

func TestCreateReading(t *testing.T) {
	ts, store := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/readings",
		`{"username":" alice ","bloodGlucose":72.5,"gameScore":40,"timestamp":"2026-05-04T09:30:00Z","game":"runner"}`)
	if resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, b)
	}
	if id := resp.Header.Get("Content-Type"); id != "application/json" {
		t.Errorf("Content-Type = %q", id)
	}

	var got ReadingResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Username != "alice" || got.Category != "low" || got.GameScore != 40 {
		t.Errorf("response = %+v", got)
	}
	if got.Message != "Low blood sugar – please eat something and retest." {
		t.Errorf("message = %q", got.Message)
	}
	if !got.BloodGlucose.Equal(decimal.RequireFromString("72.5")) {
		t.Errorf("bloodGlucose = %s", got.BloodGlucose)
	}

	rs, err := store.Readings("alice", 10)
	if err != nil || len(rs) != 1 {
		t.Fatalf("stored readings = %v, %v", rs, err)
	}
	if want := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC); !rs[0].RecordedAt.Equal(want) {
		t.Errorf("RecordedAt = %v, want %v", rs[0].RecordedAt, want)
	}
	if _, err := store.Player("alice"); err != nil {
		t.Errorf("player not registered: %v", err)
	}
}

func TestCreateReadingDefaultsTimestamp(t *testing.T) {
	ts, store := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/readings", `{"username":"bob","bloodGlucose":"130","gameScore":5}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	rs, _ := store.Readings("bob", 1)
	if len(rs) != 1 || !rs[0].RecordedAt.Equal(time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("readings = %+v", rs)
	}
	if rs[0].Category != "high" {
		t.Errorf("category = %s", rs[0].Category)
	}
}

func TestCreateReadingUnits(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name     string
		glucose  string
		mgdl     string
		category string
	}{
		{"mmol string", `"5.4 mmol/L"`, "97", "normal"},
		{"mmol lower case", `"7.2mmol/l"`, "130", "high"},
		{"mg string", `"75 mg/dL"`, "75", "low"},
		{"bare number", `101.5`, "101.5", "normal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/api/v1/readings",
				`{"username":"dana","bloodGlucose":`+tt.glucose+`,"gameScore":10}`)
			if resp.StatusCode != http.StatusCreated {
				b, _ := io.ReadAll(resp.Body)
				t.Fatalf("status = %d: %s", resp.StatusCode, b)
			}
			var got ReadingResponse
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !got.BloodGlucose.Equal(decimal.RequireFromString(tt.mgdl)) {
				t.Errorf("bloodGlucose = %s, want %s", got.BloodGlucose, tt.mgdl)
			}
			if got.Category != tt.category {
				t.Errorf("category = %s, want %s", got.Category, tt.category)
			}
		})
	}
}

func TestCreateReadingRejects(t *testing.T) {
	ts, store := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", `nope`},
		{"short name", `{"username":"a","bloodGlucose":100}`},
		{"missing glucose", `{"username":"carol"}`},
		{"negative glucose", `{"username":"carol","bloodGlucose":-3}`},
		{"absurd glucose", `{"username":"carol","bloodGlucose":5000}`},
		{"text glucose", `{"username":"carol","bloodGlucose":"lots"}`},
		{"null glucose", `{"username":"carol","bloodGlucose":null}`},
		{"object glucose", `{"username":"carol","bloodGlucose":{"v":1}}`},
		{"unknown field", `{"username":"carol","bloodGlucose":100,"extra":1}`},
		{"unknown game", `{"username":"carol","bloodGlucose":100,"game":"pong"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/api/v1/readings", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}

	if _, err := store.Player("carol"); err == nil {
		t.Error("rejected requests must not register the player")
	}
}

func TestListReadings(t *testing.T) {
	ts, _ := newTestServer(t)
	postJSON(t, ts.URL+"/api/v1/readings", `{"username":"dave","bloodGlucose":90,"timestamp":"2026-05-01T10:00:00Z"}`)
	postJSON(t, ts.URL+"/api/v1/readings", `{"username":"dave","bloodGlucose":150,"timestamp":"2026-05-02T10:00:00Z"}`)
	postJSON(t, ts.URL+"/api/v1/readings", `{"username":"erin","bloodGlucose":60,"timestamp":"2026-05-03T10:00:00Z"}`)

	var dave []ReadingResponse
	if code := getJSON(t, ts.URL+"/api/v1/readings?username=dave", &dave); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(dave) != 2 || dave[0].Category != "high" || dave[1].Category != "normal" {
		t.Errorf("dave = %+v", dave)
	}

	var all []ReadingResponse
	getJSON(t, ts.URL+"/api/v1/readings?limit=2", &all)
	if len(all) != 2 || all[0].Username != "erin" {
		t.Errorf("all = %+v", all)
	}

	if code := getJSON(t, ts.URL+"/api/v1/readings?limit=0", nil); code != http.StatusBadRequest {
		t.Errorf("limit=0 status = %d", code)
	}
}

func TestScoresAndHighScore(t *testing.T) {
	ts, store := newTestServer(t)

	var empty map[string]any
	if code := getJSON(t, ts.URL+"/api/v1/highscore/runner", &empty); code != http.StatusOK || empty["score"] != float64(0) {
		t.Errorf("empty high score = %d %v", code, empty)
	}

	store.SaveScore("runner", "frank", "run-a", 30)
	store.SaveScore("runner", "gina", "run-b", 70)
	store.RecordHighScore("runner", "gina", 75)

	var scores []ScoreResponse
	if code := getJSON(t, ts.URL+"/api/v1/scores/runner?limit=5", &scores); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(scores) != 2 || scores[0].Username != "gina" || scores[0].Rank != 1 || scores[1].Score != 30 {
		t.Errorf("scores = %+v", scores)
	}

	var hs map[string]any
	getJSON(t, ts.URL+"/api/v1/highscore/runner", &hs)
	if hs["score"] != float64(75) || hs["username"] != "gina" {
		t.Errorf("high score = %v", hs)
	}

	var stats map[string]any
	getJSON(t, ts.URL+"/api/v1/stats/runner", &stats)
	if stats["runs"] != float64(2) || stats["highScore"] != float64(75) {
		t.Errorf("stats = %v", stats)
	}

	if code := getJSON(t, ts.URL+"/api/v1/scores/tetris", nil); code != http.StatusNotFound {
		t.Errorf("unknown game status = %d", code)
	}
}

func TestPlayerProfile(t *testing.T) {
	ts, store := newTestServer(t)
	postJSON(t, ts.URL+"/api/v1/readings", `{"username":" hana ","bloodGlucose":"6.1 mmol/L"}`)
	store.SaveScore("runner", "hana", "run-a", 40)
	store.SaveScore("runner_lives", "hana", "run-b", 12)
	store.SaveScore("runner", "ivan", "run-c", 99)

	var p PlayerResponse
	if code := getJSON(t, ts.URL+"/api/v1/players/hana", &p); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if p.Username != "hana" || p.CreatedAt.IsZero() {
		t.Errorf("player = %+v", p)
	}
	if len(p.RecentRuns) != 2 || p.RecentRuns[0].Game != "runner_lives" || p.RecentRuns[1].Score != 40 {
		t.Errorf("recent runs = %+v", p.RecentRuns)
	}
	if p.Latest == nil || p.Latest.Category != "normal" {
		t.Errorf("latest reading = %+v", p.Latest)
	}

	var limited PlayerResponse
	getJSON(t, ts.URL+"/api/v1/players/hana?limit=1", &limited)
	if len(limited.RecentRuns) != 1 {
		t.Errorf("limit=1 runs = %d", len(limited.RecentRuns))
	}

	if code := getJSON(t, ts.URL+"/api/v1/players/nobody", nil); code != http.StatusNotFound {
		t.Errorf("unknown player status = %d", code)
	}
	if code := getJSON(t, ts.URL+"/api/v1/players/x", nil); code != http.StatusBadRequest {
		t.Errorf("short name status = %d", code)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts, _ := newTestServer(t)
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/v1/readings", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent || resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("preflight = %d %v", resp.StatusCode, resp.Header)
	}
}
