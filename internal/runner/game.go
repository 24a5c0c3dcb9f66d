package runner

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/chocodash/internal/config"
	"github.com/vovakirdan/chocodash/internal/core"
	"github.com/vovakirdan/chocodash/internal/registry"
)

// Variant IDs registered with the game registry.
const (
	IDScore = "runner"
	IDLives = "runner_lives"
)

// configPath stores the custom config path set via CLI
var configPath string
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// Game adapts a Run to the registry.Game interface. It maps input actions
// onto run operations and stamps every new run with an id.
type Game struct {
	id      string
	title   string
	mode    string
	runtime core.RuntimeConfig
	cfg     config.RunnerConfig
	run     *Run
	player  string
	runID   string
	best    int
	sink    func(score int)
}

// New creates a runner variant. mode is config.ModeScore or config.ModeLives.
func New(id, title, mode string) *Game {
	return &Game{id: id, title: title, mode: mode}
}

// ID returns the unique identifier for this variant.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name for this variant.
func (g *Game) Title() string {
	return g.title
}

// Description summarizes the variant's terminal rule with default scoring.
func (g *Game) Description() string {
	cfg := config.DefaultRunnerConfig()
	cfg.Rules.Mode = g.mode
	return DescribeRule(NewRule(cfg.Rules), cfg.Scoring)
}

// Reset loads config and builds a fresh run. A player that already
// registered skips straight to Idle.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	cfg, err := config.LoadRunner(configPath)
	if err != nil {
		log.Warn("runner: falling back to default config", "err", err)
		cfg = config.DefaultRunnerConfig()
	}
	if difficultyPreset != "" {
		config.ApplyRunnerPreset(&cfg, difficultyPreset)
	}
	cfg.Rules.Mode = g.mode
	if g.mode == config.ModeLives && cfg.Rules.Lives <= 0 {
		cfg.Rules.Lives = config.DefaultRunnerConfig().Rules.Lives
	}
	g.cfg = cfg

	seed := runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	if g.run != nil {
		g.best = max(g.best, g.run.Snapshot().HighScore)
	}
	g.run = NewRun(cfg, rand.New(rand.NewSource(seed)), g.best, HighScoreFunc(g.recordHighScore))
	g.runID = ""
	if g.player != "" {
		g.run.CompleteRegistration()
	}
}

func (g *Game) recordHighScore(score int) {
	g.best = score
	if g.sink != nil {
		g.sink(score)
	}
}

// AttachHighScore seeds the persisted best score and the sink that receives
// every improvement. Takes effect at the next Reset.
func (g *Game) AttachHighScore(best int, sink func(score int)) {
	g.best = best
	g.sink = sink
}

// CompleteRegistration records the player name and moves to Idle.
func (g *Game) CompleteRegistration(player string) {
	g.player = player
	if g.run != nil {
		g.run.CompleteRegistration()
	}
}

// Player returns the registered player name.
func (g *Game) Player() string {
	return g.player
}

// RunID returns the id of the current run, or "" before the first run starts.
func (g *Game) RunID() string {
	return g.runID
}

// Run exposes the underlying run.
func (g *Game) Run() *Run {
	return g.run
}

// Config returns the config the current run was built from.
func (g *Game) Config() config.RunnerConfig {
	return g.cfg
}

// ResolveCheckpoint resumes after a checkpoint pause.
func (g *Game) ResolveCheckpoint() {
	g.run.ResolveCheckpoint()
}

// EndRun ends the current run.
func (g *Game) EndRun() {
	g.run.EndRun()
}

// Teardown clears the live objects and parks the run in Idle.
func (g *Game) Teardown() {
	if g.run != nil {
		g.run.Teardown()
	}
}

// Step applies input and advances the run by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	switch g.run.Phase() {
	case PhaseIdle:
		if in.Has(core.ActionConfirm) {
			g.start()
		}
	case PhaseRunning:
		if in.Has(core.ActionLeft) {
			g.run.MoveLeft()
		}
		if in.Has(core.ActionRight) {
			g.run.MoveRight()
		}
		if in.Has(core.ActionEnd) {
			g.run.EndRun()
		}
	case PhasePausedForCheckpoint:
		if in.Has(core.ActionConfirm) {
			g.run.ResolveCheckpoint()
		}
	case PhaseEnded:
		if in.Has(core.ActionRestart) || in.Has(core.ActionConfirm) {
			g.start()
		}
	}

	res := core.StepResult{}
	for _, ev := range g.run.Tick(g.runtime.TickSeconds()) {
		if _, ok := ev.(ObstacleHit); ok {
			res.Hits++
		} else {
			res.Picks++
		}
	}
	res.State = g.State()
	return res
}

func (g *Game) start() {
	g.run.StartRun()
	if g.run.Phase() == PhaseRunning {
		g.runID = uuid.NewString()
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	s := g.run.Snapshot()
	return core.GameState{
		Phase:     corePhase(s.Phase),
		Score:     s.Score,
		HighScore: s.HighScore,
		Lives:     s.Lives,
		GameOver:  s.Phase == PhaseEnded,
		Paused:    s.Phase == PhasePausedForCheckpoint,
	}
}

func corePhase(p Phase) core.Phase {
	switch p {
	case PhaseRegistering:
		return core.PhaseRegistering
	case PhaseRunning:
		return core.PhaseRunning
	case PhasePausedForCheckpoint:
		return core.PhaseCheckpoint
	case PhaseEnded:
		return core.PhaseEnded
	default:
		return core.PhaseIdle
	}
}

// Register the variants with the registry
func init() {
	registry.Register(IDScore, func() registry.Game {
		return New(IDScore, "Choco Dash", config.ModeScore)
	})
	registry.Register(IDLives, func() registry.Game {
		return New(IDLives, "Choco Dash (3 lives)", config.ModeLives)
	})
}
