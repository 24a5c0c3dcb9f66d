// Package config provides YAML-based runner configuration loading,
// validation and difficulty presets.
package config

// RunnerConfig contains all tunables for the lane runner.
type RunnerConfig struct {
	Lanes      LanesConfig      `yaml:"lanes"`
	Player     PlayerConfig     `yaml:"player"`
	Kinematics KinematicsConfig `yaml:"kinematics"`
	Spawner    SpawnerConfig    `yaml:"spawner"`
	Collision  CollisionConfig  `yaml:"collision"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Checkpoint CheckpointConfig `yaml:"checkpoint"`
	Rules      RulesConfig      `yaml:"rules"`
}

// LanesConfig defines the fixed lateral tracks.
type LanesConfig struct {
	Positions []float64 `yaml:"positions"` // Lateral coordinate per lane, left to right
	Start     int       `yaml:"start"`     // Lane index the player starts in
}

// PlayerConfig defines lateral movement of the player.
type PlayerConfig struct {
	Longitudinal   float64 `yaml:"longitudinal"`     // Fixed forward-axis coordinate
	LaneChangeRate float64 `yaml:"lane_change_rate"` // Interpolation rate per second
	ArriveEpsilon  float64 `yaml:"arrive_epsilon"`   // Distance at which a lane change is complete
}

// KinematicsConfig defines the speed curve.
type KinematicsConfig struct {
	BaseSpeed    float64 `yaml:"base_speed"`   // Units per second at run start
	Acceleration float64 `yaml:"acceleration"` // Units per second, per second
	MaxSpeed     float64 `yaml:"max_speed"`
}

// SpawnerConfig defines wave generation.
type SpawnerConfig struct {
	SpawnDistance   float64     `yaml:"spawn_distance"`   // Longitudinal spawn line (negative = ahead)
	WaveBand        float64     `yaml:"wave_band"`        // Half-width of the band counted as the spawn row
	MinInterval     float64     `yaml:"min_interval"`     // Seconds
	IntervalJitter  float64     `yaml:"interval_jitter"`  // Seconds added uniformly on top of MinInterval
	PairProbability float64     `yaml:"pair_probability"` // Chance a wave grows to two objects
	FillProbability float64     `yaml:"fill_probability"` // Chance a wave fills every lane
	StreakLimit     int         `yaml:"streak_limit"`     // Count at which a kind is excluded from a row
	Weights         KindWeights `yaml:"weights"`
	Heights         KindHeights `yaml:"heights"`
}

// KindWeights is the base kind distribution.
type KindWeights struct {
	Obstacle    float64 `yaml:"obstacle"`
	Collectible float64 `yaml:"collectible"`
	Bonus       float64 `yaml:"bonus"`
}

// KindHeights is the vertical offset per kind.
type KindHeights struct {
	Obstacle float64 `yaml:"obstacle"`
	Pickup   float64 `yaml:"pickup"`
}

// CollisionConfig defines the testable band and hit distance.
type CollisionConfig struct {
	HitRadius float64 `yaml:"hit_radius"`
	BandNear  float64 `yaml:"band_near"`  // Objects with z below this are not yet testable
	PassLimit float64 `yaml:"pass_limit"` // Objects with z above this are missed
}

// ScoringConfig defines score deltas per outcome.
type ScoringConfig struct {
	ObstacleHit int `yaml:"obstacle_hit"`
	Collectible int `yaml:"collectible"`
	Bonus       int `yaml:"bonus"`
}

// CheckpointConfig defines the periodic pause.
type CheckpointConfig struct {
	Interval float64 `yaml:"interval"` // Seconds of running time; <= 0 disables
}

// RulesConfig selects the terminal condition.
type RulesConfig struct {
	Mode  string `yaml:"mode"`  // "score" or "lives"
	Lives int    `yaml:"lives"` // Starting lives in "lives" mode
}

// Rule modes.
const (
	ModeScore = "score"
	ModeLives = "lives"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI string to a preset. Unknown values yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// InitialLevelForPreset returns how far along the speed curve a preset starts (0.0 to 1.0).
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	if preset == DifficultyHard {
		return 0.3
	}
	return 0.0
}

// ApplyRunnerPreset modifies the speed curve based on a difficulty preset.
// Fixed keeps the base speed for the whole run.
func ApplyRunnerPreset(cfg *RunnerConfig, preset DifficultyPreset) {
	k := &cfg.Kinematics
	switch preset {
	case DifficultyEasy:
		k.Acceleration *= 0.5
	case DifficultyHard:
		k.BaseSpeed += InitialLevelForPreset(preset) * (k.MaxSpeed - k.BaseSpeed)
		k.Acceleration *= 1.5
	case DifficultyFixed:
		k.Acceleration = 0
	}
}
