package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/chocodash/internal/core"
	"github.com/vovakirdan/chocodash/internal/registry"
	"github.com/vovakirdan/chocodash/internal/runner"
	"github.com/vovakirdan/chocodash/internal/storage"
)

func newTestModel(t *testing.T, store *storage.Store, opts Options) Model {
	t.Helper()
	game, err := registry.Create(runner.IDScore)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7}
	m := NewModel(game, store, cfg, opts)
	m.Init()
	return m
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

func tick(t *testing.T, m Model) Model {
	return send(t, m, TickMsg{Time: time.Now(), Source: m.id})
}

func runOf(t *testing.T, m Model) *runner.Run {
	t.Helper()
	g, ok := m.game.(*runner.Game)
	if !ok {
		t.Fatalf("game is %T", m.game)
	}
	return g.Run()
}

// startedModel returns a registered model with a run in progress.
func startedModel(t *testing.T, opts Options) Model {
	t.Helper()
	opts.Player, opts.Registered = "carol", true
	m := newTestModel(t, nil, opts)
	m = tick(t, m)
	m = send(t, m, enterKey)
	for i := 0; i < 5; i++ {
		m = tick(t, m)
	}
	if m.gameState.Phase != core.PhaseRunning {
		t.Fatalf("Phase = %v, expected running", m.gameState.Phase)
	}
	return m
}

func TestModelRegistersPlayer(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	m := newTestModel(t, store, Options{})
	if m.stage != stageRegister {
		t.Fatalf("stage = %v, expected registration first", m.stage)
	}

	m = send(t, m, typeText("alice"))
	m = send(t, m, enterKey)

	if m.stage != stagePlay {
		t.Fatalf("stage = %v, expected play after registration", m.stage)
	}
	if m.Player() != "alice" {
		t.Errorf("Player() = %q, expected alice", m.Player())
	}
	if _, err := store.Player("alice"); err != nil {
		t.Errorf("player not stored: %v", err)
	}
}

func TestModelRegisteredSkipsPrompt(t *testing.T) {
	m := newTestModel(t, nil, Options{Player: "carol", Registered: true})
	m = tick(t, m)

	if m.stage != stagePlay {
		t.Fatalf("stage = %v, expected play", m.stage)
	}
	if m.gameState.Phase != core.PhaseIdle {
		t.Errorf("Phase = %v, expected idle", m.gameState.Phase)
	}
}

func TestModelStartAndEndRun(t *testing.T) {
	m := newTestModel(t, nil, Options{Player: "carol", Registered: true})
	m = tick(t, m)

	m = send(t, m, enterKey)
	m = tick(t, m)
	if m.gameState.Phase != core.PhaseRunning {
		t.Fatalf("Phase = %v, expected running", m.gameState.Phase)
	}

	m = send(t, m, runeKey('e'))
	m = tick(t, m)
	if !m.gameState.GameOver {
		t.Fatalf("Phase = %v, expected ended", m.gameState.Phase)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("esc after game over should return to the menu")
	}
}

func TestModelBackIgnoredWhileRunning(t *testing.T) {
	m := newTestModel(t, nil, Options{Player: "carol", Registered: true})
	m = tick(t, m)
	m = send(t, m, enterKey)
	m = tick(t, m)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.BackToMenu() || m.IsQuitting() {
		t.Error("back must not leave a running game")
	}
}

func TestModelStandaloneBackQuits(t *testing.T) {
	m := newTestModel(t, nil, Options{Player: "carol", Registered: true, Standalone: true})
	m = tick(t, m)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.IsQuitting() {
		t.Error("back in standalone mode should quit")
	}
}

func TestModelResizeKeepsRun(t *testing.T) {
	m := newTestModel(t, nil, Options{Player: "carol", Registered: true})
	m = tick(t, m)
	m = send(t, m, enterKey)
	m = tick(t, m)

	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.gameState.Phase != core.PhaseRunning {
		t.Errorf("Phase = %v, expected the run to continue", m.gameState.Phase)
	}
	if m.screen.Width() != 120 || m.screen.Height() != 39 {
		t.Errorf("screen = %dx%d, expected 120x39", m.screen.Width(), m.screen.Height())
	}
}

func TestModelBackTearsDownRun(t *testing.T) {
	m := startedModel(t, Options{})
	m = send(t, m, runeKey('e'))
	m = tick(t, m)
	if len(runOf(t, m).Snapshot().Objects) == 0 {
		t.Fatal("expected live objects on the final frame")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Fatal("esc after game over should return to the menu")
	}

	s := runOf(t, m).Snapshot()
	if len(s.Objects) != 0 || s.Phase != runner.PhaseIdle {
		t.Errorf("after back: %d objects, phase %v; expected none and Idle", len(s.Objects), s.Phase)
	}

	next, cmd := m.Update(TickMsg{Time: time.Now(), Source: m.id})
	if cmd != nil {
		t.Error("ticks must stop after leaving the game")
	}
	if got := runOf(t, next.(Model)).Snapshot().Ticks; got != s.Ticks {
		t.Errorf("Ticks = %d, expected %d", got, s.Ticks)
	}
}

func TestModelQuitTearsDownRun(t *testing.T) {
	m := startedModel(t, Options{})
	if len(runOf(t, m).Snapshot().Objects) == 0 {
		t.Fatal("expected live objects while running")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.IsQuitting() {
		t.Fatal("ctrl+c should quit")
	}
	s := runOf(t, m).Snapshot()
	if len(s.Objects) != 0 || s.Phase != runner.PhaseIdle {
		t.Errorf("after quit: %d objects, phase %v; expected none and Idle", len(s.Objects), s.Phase)
	}
}

func TestModelIgnoresForeignTicks(t *testing.T) {
	m := startedModel(t, Options{})
	before := runOf(t, m).Snapshot().Ticks

	next, cmd := m.Update(TickMsg{Time: time.Now(), Source: m.id + 1000})
	if cmd != nil {
		t.Error("a tick from another model must not schedule more ticks")
	}
	if got := runOf(t, next.(Model)).Snapshot().Ticks; got != before {
		t.Errorf("Ticks = %d, expected %d", got, before)
	}
}
