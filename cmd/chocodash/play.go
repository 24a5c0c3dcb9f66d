package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/chocodash/internal/core"
	"github.com/vovakirdan/chocodash/internal/platform/tui"
	"github.com/vovakirdan/chocodash/internal/registry"
	"github.com/vovakirdan/chocodash/internal/runner"
	"github.com/vovakirdan/chocodash/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagPlayer     string
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play Choco Dash",
	Long: `Start a run. Without a variant a menu lets you pick one and
returns to it after each game.

Controls:
  Left/Right, A/D  - Change lane
  Enter/Space      - Start
  R                - Restart after game over
  E                - End the run
  Tab              - Scores (between runs)
  Esc/B            - Back
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Start slow, accelerate to max
  normal - Start at 30% of the speed range
  hard   - Start at 70% of the speed range
  fixed  - No acceleration

Examples:
  chocodash play
  chocodash play runner
  chocodash play runner_lives --difficulty hard
  chocodash play --player alice --config ./runner.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom runner config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagPlayer, "player", "", "Player name (skips registration when valid)")
}

func runPlay(_ *cobra.Command, args []string) {
	runner.SetConfigPath(flagConfig)
	runner.SetDifficultyPreset(flagDifficulty)

	if len(args) == 1 && !registry.Exists(args[0]) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", args[0])
		fmt.Fprintln(os.Stderr, "Run 'chocodash list' to see available variants.")
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		// Continue without storage - the game still works
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	cfg := runtimeConfig()
	opts := tui.Options{
		Player:     flagPlayer,
		Registered: flagPlayer != "",
	}

	if len(args) == 1 {
		if _, err := playOnce(args[0], store, cfg, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			os.Exit(1)
		}
		return
	}

	for {
		menuResult, err := tui.RunMenu(store, cfg, registeredPlayer(opts))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			return
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, registeredPlayer(opts), cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			return
		}

		if menuResult.GameID == "" {
			return
		}

		cfg.Seed = flagSeed
		player, err := playOnce(menuResult.GameID, store, cfg, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			continue
		}
		if player != "" {
			opts.Player = player
			opts.Registered = true
		}
	}
}

func playOnce(gameID string, store *storage.Store, cfg core.RuntimeConfig, opts tui.Options) (string, error) {
	game, err := registry.Create(gameID)
	if err != nil {
		return "", err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return tui.Run(game, store, cfg, opts)
}

// registeredPlayer is the name menus greet, or "" before registration.
func registeredPlayer(opts tui.Options) string {
	if !opts.Registered {
		return ""
	}
	//nolint:errcheck // An invalid --player falls back to the prompt
	name, _ := storage.NormalizeName(opts.Player)
	return name
}

// runtimeConfig sizes the simulation to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}
