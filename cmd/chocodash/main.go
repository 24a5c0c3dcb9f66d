// chocodash is a three-lane endless runner for the terminal that pauses at
// checkpoints so the player can log a blood glucose reading.
//
// Usage:
//
//	chocodash list               - List game variants
//	chocodash play [variant]     - Play (menu when no variant is given)
//	chocodash serve              - Start SSH server for remote play
//	chocodash api                - Start the HTTP readings API
//	chocodash scores <variant>   - Show high scores
//	chocodash readings [player]  - Show logged glucose readings
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible runs
//	--db <path>     - Set database path (default: ~/.chocodash/chocodash.db)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vovakirdan/chocodash/internal/config"
	// Register runner variants
	_ "github.com/vovakirdan/chocodash/internal/runner"
)

const defaultDBPath = "~/.chocodash/chocodash.db"

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

// envFlags maps flags to the environment keys that override their defaults.
var envFlags = map[string]string{
	"db":   config.EnvDBPath,
	"ssh":  config.EnvSSHAddr,
	"http": config.EnvHTTPAddr,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chocodash",
	Short: "Choco Dash - a lane runner with blood sugar checkpoints",
	Long: `Choco Dash is a three-lane endless runner played in the terminal.
Dodge obstacles, collect sweets and stop at checkpoints to log your
blood glucose.

Available commands:
  list      - Show game variants
  play      - Play a variant (or pick one from the menu)
  serve     - Start SSH server for remote play
  api       - Start the HTTP readings API
  scores    - View high scores
  readings  - View logged glucose readings

Examples:
  chocodash play
  chocodash play runner_lives --difficulty hard
  chocodash serve --ssh :2222
  chocodash api --http :8080
  chocodash scores runner`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return applyEnvDefaults(cmd.Flags())
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", defaultDBPath, "Path to the database (env CHOCODASH_DB)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(readingsCmd)
}

// newLogger returns the logger used by long-running commands.
func newLogger(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
}

// applyEnvDefaults loads .env and fills every flag the user did not set
// from its environment key. Explicit flags always win.
func applyEnvDefaults(flags *pflag.FlagSet) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}
	for name, key := range envFlags {
		f := flags.Lookup(name)
		if f == nil || f.Changed {
			continue
		}
		v := config.EnvOr(key, "")
		if v == "" {
			continue
		}
		if err := flags.Set(name, v); err != nil {
			return fmt.Errorf("cannot apply %s to --%s: %w", key, name, err)
		}
	}
	return nil
}
