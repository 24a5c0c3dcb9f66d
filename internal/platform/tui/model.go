package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/chocodash/internal/core"
	"github.com/vovakirdan/chocodash/internal/registry"
	"github.com/vovakirdan/chocodash/internal/storage"
)

// stage is which screen the model is showing.
type stage int

const (
	stageRegister stage = iota
	stagePlay
	stageCheckpoint
	stageScores
)

// Options tune a Model beyond the game and runtime config.
type Options struct {
	// Player pre-fills the registration prompt.
	Player string
	// Registered skips the prompt and uses Player as is.
	Registered bool
	// Logger receives persistence failures and logged readings. Nil discards.
	Logger *log.Logger
	// Standalone makes back quit the program instead of returning to a menu.
	Standalone bool
}

// Model is the Bubble Tea model for one player's game session.
type Model struct {
	id         int64
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	stage      stage
	register   RegistrationModel
	checkpoint CheckpointModel
	scoreboard ScoreboardModel
	standalone bool
	quitting   bool
	backToMenu bool
	scoreSaved bool // Whether score has been saved for the current game over
}

// NewModel creates a new Bubble Tea model for the given game. The persisted
// high score is attached here, so the game must not have been Reset yet.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	if store != nil {
		best, err := store.HighScore(game.ID())
		if err != nil {
			logger.Warn("cannot load high score", "game", game.ID(), "err", err)
		}
		game.AttachHighScore(best, store.HighScoreSink(game.ID(), game.Player, logger))
	}

	m := Model{
		id:         nextModelID(),
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, gameRows(cfg.ScreenH)),
		store:      store,
		logger:     logger,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
		standalone: opts.Standalone,
		register:   NewRegistrationModel(opts.Player, cfg.ScreenW, cfg.ScreenH),
	}
	if opts.Registered {
		if name, err := storage.NormalizeName(opts.Player); err == nil {
			m.register.name = name
			m.register.done = true
		}
	}
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	// Note: gameState and stage are settled on the first tick (value receiver limitation)
	return tea.Batch(tickCmd(m.config.TickRate, m.id), textinput.Blink)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if msg.Source != m.id {
			return m, nil
		}
		return m.handleTick()

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quit()
			return m, tea.Quit
		}
	}

	switch m.stage {
	case stageRegister:
		return m.updateRegister(msg)
	case stageCheckpoint:
		return m.updateCheckpoint(msg)
	case stageScores:
		return m.updateScores(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) updateRegister(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.register, cmd = m.register.Update(msg)
	if m.register.Done() {
		m.completeRegistration()
	}
	return m, cmd
}

func (m *Model) completeRegistration() {
	name := m.register.Name()
	if m.store != nil {
		if _, err := m.store.RegisterPlayer(name); err != nil {
			m.logger.Warn("cannot register player", "player", name, "err", err)
		}
	}
	m.game.CompleteRegistration(name)
	m.gameState = m.game.State()
	m.stage = stagePlay
	m.logger.Info("player registered", "player", name, "game", m.game.ID())
}

func (m Model) updateCheckpoint(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.checkpoint, cmd = m.checkpoint.Update(msg)
	if !m.checkpoint.Done() {
		return m, cmd
	}

	if res := m.checkpoint.Result(); res != nil {
		reading := storage.Reading{
			Player:       m.game.Player(),
			RunID:        m.game.RunID(),
			GameID:       m.game.ID(),
			BloodGlucose: res.Value,
			Category:     string(res.Category),
			GameScore:    m.gameState.Score,
			RecordedAt:   time.Now(),
		}
		m.logger.Info("glucose reading",
			"player", reading.Player,
			"run", reading.RunID,
			"mg_dl", reading.BloodGlucose.String(),
			"category", reading.Category,
			"score", reading.GameScore,
		)
		if m.store != nil {
			if _, err := m.store.SaveReading(reading); err != nil {
				m.logger.Warn("cannot save reading", "err", err)
			}
		}
	}

	m.game.ResolveCheckpoint()
	m.gameState = m.game.State()
	m.stage = stagePlay
	return m, cmd
}

func (m Model) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scoreboard.Update(msg)
	if sb, ok := next.(ScoreboardModel); ok {
		m.scoreboard = sb
	}
	if m.scoreboard.IsQuitting() {
		m.quit()
		return m, tea.Quit
	}
	if m.scoreboard.IsGoingBack() {
		m.stage = stagePlay
		return m, nil
	}
	return m, cmd
}

// handleKey processes keyboard input while the game is on screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keyMapper.Keys()
	between := m.gameState.GameOver || m.gameState.Phase == core.PhaseIdle

	switch {
	case key.Matches(msg, keys.Screenshot):
		m.saveScreenshot()
		return m, nil

	case key.Matches(msg, keys.Scores) && between:
		m.scoreboard = NewScoreboardModel(m.store, m.game.Player(), m.config.ScreenW, m.config.ScreenH)
		m.scoreboard.selectGame(m.game.ID())
		m.stage = stageScores
		return m, nil

	case key.Matches(msg, keys.Back) && between:
		if m.standalone {
			m.quit()
			return m, tea.Quit
		}
		m.game.Teardown()
		m.backToMenu = true
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quit()
		return m, tea.Quit
	}
	return m, nil
}

// quit tears the run down before the program exits.
func (m *Model) quit() {
	m.game.Teardown()
	m.quitting = true
}

// handleResize processes window resize events. The game draws to whatever
// size the screen has, so the run is not reset.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, gameRows(msg.Height))
	m.help.Width = msg.Width

	m.register, _ = m.register.Update(msg)
	m.checkpoint, _ = m.checkpoint.Update(msg)
	if m.stage == stageScores {
		next, _ := m.scoreboard.Update(msg)
		if sb, ok := next.(ScoreboardModel); ok {
			m.scoreboard = sb
		}
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}
	if m.stage == stageRegister && m.register.Done() {
		m.completeRegistration()
	}
	if m.stage != stagePlay {
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate, m.id)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	switch m.gameState.Phase {
	case core.PhaseRunning:
		m.scoreSaved = false
	case core.PhaseCheckpoint:
		m.checkpoint = NewCheckpointModel(m.gameState.Score, m.config.ScreenW, m.config.ScreenH)
		m.stage = stageCheckpoint
		return m, tea.Batch(tickCmd(m.config.TickRate, m.id), textinput.Blink)
	case core.PhaseEnded:
		m.saveScore()
	}

	return m, tickCmd(m.config.TickRate, m.id)
}

// saveScore records the finished run once.
func (m *Model) saveScore() {
	if m.scoreSaved {
		return
	}
	m.scoreSaved = true
	if m.gameState.Score == 0 || m.store == nil {
		return
	}
	if _, err := m.store.SaveScore(m.game.ID(), m.game.Player(), m.game.RunID(), m.gameState.Score); err != nil {
		m.logger.Warn("cannot save score", "game", m.game.ID(), "err", err)
		return
	}
	m.logger.Info("run finished", "player", m.game.Player(), "run", m.game.RunID(), "score", m.gameState.Score)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".chocodash", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.stage {
	case stageRegister:
		return m.register.View()
	case stageCheckpoint:
		return m.checkpoint.View()
	case stageScores:
		return m.scoreboard.View()
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keyMapper.Keys()))
}

// gameRows leaves the bottom terminal row for the key help.
func gameRows(height int) int {
	return max(height-1, 0)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Player returns the registered player name, or "" before registration.
func (m Model) Player() string {
	return m.game.Player()
}

// Run starts the Bubble Tea program for a single game. It returns the
// registered player name so a caller can skip registration next time.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) (string, error) {
	opts.Standalone = true
	model := NewModel(game, store, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return opts.Player, err
	}
	if fm, ok := final.(Model); ok && fm.Player() != "" {
		return fm.Player(), nil
	}
	return opts.Player, nil
}
