package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid runner config")

const runnerFile = "runner.yaml"

// LoadRunner loads the runner configuration.
// Search order: customPath -> ~/.chocodash/configs/runner.yaml -> ./configs/runner.yaml -> embedded default.
// Files only need to list the fields they change; everything else keeps its default.
func LoadRunner(customPath string) (RunnerConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return RunnerConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parseRunner(data)
		if err != nil {
			return RunnerConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then local configs directory
	for _, path := range []string{userConfigPath(runnerFile), filepath.Join("configs", runnerFile)} {
		if path == "" {
			continue
		}
		if data, err := os.ReadFile(path); err == nil {
			if cfg, err := parseRunner(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Use embedded default YAML
	cfg, err := parseRunner(defaultRunnerYAML)
	if err != nil {
		return DefaultRunnerConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parseRunner overlays YAML onto the built-in defaults and validates the result.
func parseRunner(data []byte) (RunnerConfig, error) {
	cfg := DefaultRunnerConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RunnerConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return RunnerConfig{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the simulation cannot run with.
func (c RunnerConfig) Validate() error {
	if len(c.Lanes.Positions) == 0 {
		return fmt.Errorf("%w: at least one lane is required", ErrInvalid)
	}
	if c.Lanes.Start < 0 || c.Lanes.Start >= len(c.Lanes.Positions) {
		return fmt.Errorf("%w: start lane %d out of range [0, %d]", ErrInvalid, c.Lanes.Start, len(c.Lanes.Positions)-1)
	}
	if c.Player.LaneChangeRate <= 0 {
		return fmt.Errorf("%w: lane_change_rate must be positive", ErrInvalid)
	}
	if c.Kinematics.BaseSpeed < 0 || c.Kinematics.Acceleration < 0 {
		return fmt.Errorf("%w: speed and acceleration must not be negative", ErrInvalid)
	}
	if c.Kinematics.MaxSpeed < c.Kinematics.BaseSpeed {
		return fmt.Errorf("%w: max_speed %.2f below base_speed %.2f", ErrInvalid, c.Kinematics.MaxSpeed, c.Kinematics.BaseSpeed)
	}
	for name, p := range map[string]float64{
		"pair_probability": c.Spawner.PairProbability,
		"fill_probability": c.Spawner.FillProbability,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: %s %.2f outside [0, 1]", ErrInvalid, name, p)
		}
	}
	w := c.Spawner.Weights
	if w.Obstacle < 0 || w.Collectible < 0 || w.Bonus < 0 || w.Obstacle+w.Collectible+w.Bonus <= 0 {
		return fmt.Errorf("%w: kind weights must be non-negative and not all zero", ErrInvalid)
	}
	if c.Spawner.StreakLimit < 1 {
		return fmt.Errorf("%w: streak_limit must be at least 1", ErrInvalid)
	}
	if c.Spawner.MinInterval <= 0 {
		return fmt.Errorf("%w: min_interval must be positive", ErrInvalid)
	}
	if c.Collision.PassLimit < c.Collision.BandNear {
		return fmt.Errorf("%w: pass_limit below band_near", ErrInvalid)
	}
	switch c.Rules.Mode {
	case ModeScore:
	case ModeLives:
		if c.Rules.Lives < 1 {
			return fmt.Errorf("%w: lives mode needs at least one life", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown rules mode %q", ErrInvalid, c.Rules.Mode)
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".chocodash", "configs", filename)
}

// Environment keys read by the CLI.
const (
	EnvDBPath   = "CHOCODASH_DB"
	EnvSSHAddr  = "CHOCODASH_SSH_ADDR"
	EnvHTTPAddr = "CHOCODASH_HTTP_ADDR"
)

// LoadEnv loads a .env file from the working directory if one exists.
// A missing file is not an error.
func LoadEnv() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("config: cannot load .env: %w", err)
	}
	return nil
}

// EnvOr returns the environment value for key, or fallback when unset.
func EnvOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
