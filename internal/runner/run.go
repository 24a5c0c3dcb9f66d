// Package runner implements the lane runner simulation: lane changes,
// procedural spawn waves, kinematics, collision resolution and the run
// lifecycle. It is driven one tick at a time by the platform and never
// touches timers, terminals or storage itself.
package runner

import "github.com/vovakirdan/chocodash/internal/config"

// Phase is the lifecycle stage of a run.
type Phase int

const (
	PhaseRegistering Phase = iota
	PhaseIdle
	PhaseRunning
	PhasePausedForCheckpoint
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseRegistering:
		return "Registering"
	case PhaseIdle:
		return "Idle"
	case PhaseRunning:
		return "Running"
	case PhasePausedForCheckpoint:
		return "PausedForCheckpoint"
	case PhaseEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// HighScoreSink receives every new high score as soon as it is reached.
type HighScoreSink interface {
	RecordHighScore(score int)
}

// HighScoreFunc adapts a function to HighScoreSink.
type HighScoreFunc func(score int)

// RecordHighScore calls f(score).
func (f HighScoreFunc) RecordHighScore(score int) { f(score) }

// RunState is the single source of truth for one run.
//
// Writers: Integrator owns Speed and Player.X; the LaneModel owns
// Player.Lane. Player.Transitioning is set by LaneModel.RequestMove and
// cleared by Integrator.MovePlayer on arrival. Objects is replaced, never
// edited, once per tick; Run owns everything else.
type RunState struct {
	Phase           Phase
	Score           int
	HighScore       int
	Lives           int // -1 when the terminal rule has no lives
	Speed           float64
	SinceCheckpoint float64 // Running seconds since the checkpoint timer was armed
	Player          Player
	Objects         []Object
	Ticks           int
}

// Run wires the five components together and owns the phase machine.
// Every method is total: calls that make no sense in the current phase are no-ops.
type Run struct {
	cfg        config.RunnerConfig
	lanes      LaneModel
	integrator Integrator
	spawner    *Spawner
	resolver   Resolver
	rule       TerminalRule
	sink       HighScoreSink
	state      RunState
}

// NewRun creates a run in the Registering phase. highScore is the persisted
// best score; sink may be nil.
func NewRun(cfg config.RunnerConfig, rng Rand, highScore int, sink HighScoreSink) *Run {
	lanes := NewLaneModel(cfg.Lanes.Positions)
	r := &Run{
		cfg:        cfg,
		lanes:      lanes,
		integrator: NewIntegrator(cfg.Kinematics, cfg.Player, lanes),
		spawner:    NewSpawner(cfg.Spawner, lanes, rng),
		resolver:   NewResolver(cfg.Collision),
		rule:       NewRule(cfg.Rules),
		sink:       sink,
	}
	r.state = RunState{
		Phase:     PhaseRegistering,
		HighScore: highScore,
		Lives:     r.rule.StartLives(),
		Speed:     cfg.Kinematics.BaseSpeed,
		Player:    r.startPlayer(),
	}
	return r
}

// Rule returns the active terminal rule.
func (r *Run) Rule() TerminalRule {
	return r.rule
}

// Lanes returns the lane model.
func (r *Run) Lanes() LaneModel {
	return r.lanes
}

func (r *Run) startPlayer() Player {
	start := r.cfg.Lanes.Start
	return Player{
		Lane: start,
		X:    r.lanes.Position(start),
		Z:    r.cfg.Player.Longitudinal,
	}
}

// Phase returns the current phase.
func (r *Run) Phase() Phase {
	return r.state.Phase
}

// Snapshot returns a copy of the run state for renderers. The Objects slice
// is shared but never written again once published.
func (r *Run) Snapshot() RunState {
	return r.state
}

// CompleteRegistration moves Registering to Idle.
func (r *Run) CompleteRegistration() {
	if r.state.Phase == PhaseRegistering {
		r.state.Phase = PhaseIdle
	}
}

// StartRun begins a fresh run from Idle or Ended.
func (r *Run) StartRun() {
	if r.state.Phase != PhaseIdle && r.state.Phase != PhaseEnded {
		return
	}
	r.reset()
	r.state.Phase = PhaseRunning
}

// RestartRun begins a fresh run after the previous one ended.
func (r *Run) RestartRun() {
	if r.state.Phase != PhaseEnded {
		return
	}
	r.reset()
	r.state.Phase = PhaseRunning
}

// ResolveCheckpoint resumes a run paused for a checkpoint and re-arms the timer.
// Objects continue from exactly where they were frozen.
func (r *Run) ResolveCheckpoint() {
	if r.state.Phase != PhasePausedForCheckpoint {
		return
	}
	r.state.SinceCheckpoint = 0
	r.state.Phase = PhaseRunning
}

// EndRun ends a running or paused run. The final frame stays visible.
func (r *Run) EndRun() {
	if r.state.Phase != PhaseRunning && r.state.Phase != PhasePausedForCheckpoint {
		return
	}
	r.state.Phase = PhaseEnded
}

// Teardown drops every live object and returns to Idle. Ticks are no-ops
// afterwards until the next StartRun.
func (r *Run) Teardown() {
	if r.state.Phase == PhaseRegistering {
		return
	}
	r.state.Objects = nil
	r.state.Phase = PhaseIdle
}

// MoveLeft requests a lane change to the left.
func (r *Run) MoveLeft() {
	r.move(Left)
}

// MoveRight requests a lane change to the right.
func (r *Run) MoveRight() {
	r.move(Right)
}

func (r *Run) move(dir Direction) {
	if r.state.Phase != PhaseRunning {
		return
	}
	r.lanes.RequestMove(&r.state.Player, dir)
}

func (r *Run) reset() {
	r.state.Score = 0
	r.state.Lives = r.rule.StartLives()
	r.state.Speed = r.cfg.Kinematics.BaseSpeed
	r.state.SinceCheckpoint = 0
	r.state.Player = r.startPlayer()
	r.state.Objects = nil
	r.state.Ticks = 0
	r.spawner.Reset()
}

// Tick advances the run by dt seconds and returns the outcome events of this
// tick. Outside the Running phase it does nothing.
//
// Order: kinematics, spawner, collision, then score/phase updates.
func (r *Run) Tick(dt float64) []Event {
	if r.state.Phase != PhaseRunning || dt <= 0 {
		return nil
	}
	s := &r.state
	s.Ticks++

	s.Speed = r.integrator.Speed(s.Speed, dt)
	s.Player = r.integrator.MovePlayer(s.Player, dt)
	objects := r.integrator.AdvanceObjects(s.Objects, s.Speed, dt)

	if wave := r.spawner.Update(dt, objects); len(wave) > 0 {
		objects = append(objects, wave...)
	}

	survivors, events := r.resolver.Resolve(s.Player, objects)
	s.Objects = survivors

	r.apply(events)

	if r.rule.Ended(*s) {
		s.Phase = PhaseEnded
		return events
	}

	s.SinceCheckpoint += dt
	if r.cfg.Checkpoint.Interval > 0 && s.SinceCheckpoint >= r.cfg.Checkpoint.Interval {
		s.Phase = PhasePausedForCheckpoint
	}
	return events
}

// apply folds one collision pass into score, lives and high score. Only the
// pass total matters, so the order events were discovered in does not.
func (r *Run) apply(events []Event) {
	if len(events) == 0 {
		return
	}
	s := &r.state
	for _, ev := range events {
		s.Score += ScoreDelta(r.cfg.Scoring, ev)
		if s.Lives >= 0 {
			s.Lives -= r.rule.LifeCost(ev)
			if s.Lives < 0 {
				s.Lives = 0
			}
		}
	}
	if s.Score > s.HighScore {
		s.HighScore = s.Score
		if r.sink != nil {
			r.sink.RecordHighScore(s.Score)
		}
	}
}
