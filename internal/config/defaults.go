package config

import (
	_ "embed"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerConfig returns the built-in runner configuration.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Lanes: LanesConfig{
			Positions: []float64{-3, 0, 3},
			Start:     1,
		},
		Player: PlayerConfig{
			Longitudinal:   0,
			LaneChangeRate: 5,
			ArriveEpsilon:  0.1,
		},
		Kinematics: KinematicsConfig{
			BaseSpeed:    15,
			Acceleration: 0.25,
			MaxSpeed:     60,
		},
		Spawner: SpawnerConfig{
			SpawnDistance:   -100,
			WaveBand:        5,
			MinInterval:     0.3,
			IntervalJitter:  1.0,
			PairProbability: 0.75,
			FillProbability: 0.2,
			StreakLimit:     2,
			Weights: KindWeights{
				Obstacle:    0.65,
				Collectible: 0.25,
				Bonus:       0.10,
			},
			Heights: KindHeights{
				Obstacle: 0.75,
				Pickup:   1.2,
			},
		},
		Collision: CollisionConfig{
			HitRadius: 1.5,
			BandNear:  0,
			PassLimit: 2,
		},
		Scoring: ScoringConfig{
			ObstacleHit: -5,
			Collectible: 10,
			Bonus:       20,
		},
		Checkpoint: CheckpointConfig{
			Interval: 60,
		},
		Rules: RulesConfig{
			Mode:  ModeScore,
			Lives: 3,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultRunnerYAML
}
