package runner

import (
	"fmt"

	"github.com/vovakirdan/chocodash/internal/config"
)

// TerminalRule decides when a run ends on its own. It is evaluated once after
// each collision pass, after every event of that pass has been applied.
type TerminalRule interface {
	Name() string
	StartLives() int // -1 when the rule has no lives
	LifeCost(ev Event) int
	Ended(s RunState) bool
}

// ScoreOnly never ends a run; hits only cost points.
type ScoreOnly struct{}

func (ScoreOnly) Name() string        { return config.ModeScore }
func (ScoreOnly) StartLives() int     { return -1 }
func (ScoreOnly) LifeCost(Event) int  { return 0 }
func (ScoreOnly) Ended(RunState) bool { return false }

// LivesDepleted costs one life per obstacle hit and ends the run at zero lives.
type LivesDepleted struct {
	Lives int
}

func (r LivesDepleted) Name() string    { return config.ModeLives }
func (r LivesDepleted) StartLives() int { return r.Lives }

func (LivesDepleted) LifeCost(ev Event) int {
	if _, ok := ev.(ObstacleHit); ok {
		return 1
	}
	return 0
}

func (LivesDepleted) Ended(s RunState) bool {
	return s.Lives <= 0
}

// NewRule builds the terminal rule a config asks for.
func NewRule(cfg config.RulesConfig) TerminalRule {
	if cfg.Mode == config.ModeLives {
		return LivesDepleted{Lives: cfg.Lives}
	}
	return ScoreOnly{}
}

// DescribeRule returns a one-line summary of rule for menus.
func DescribeRule(rule TerminalRule, scoring config.ScoringConfig) string {
	if r, ok := rule.(LivesDepleted); ok {
		return fmt.Sprintf("%d lives, each obstacle costs one", r.Lives)
	}
	return fmt.Sprintf("Endless, obstacles cost %d points", -scoring.ObstacleHit)
}
