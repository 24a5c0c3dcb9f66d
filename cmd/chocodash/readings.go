package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chocodash/internal/glucose"
	"github.com/vovakirdan/chocodash/internal/storage"
)

var flagReadingsLimit int

var readingsCmd = &cobra.Command{
	Use:   "readings [player]",
	Short: "Show logged glucose readings",
	Long: `List blood glucose readings taken at checkpoints, newest first.
Without a player every reading is listed.

Examples:
  chocodash readings
  chocodash readings alice --limit 5`,
	Args: cobra.MaximumNArgs(1),
	Run:  runReadings,
}

func init() {
	readingsCmd.Flags().IntVar(&flagReadingsLimit, "limit", 20, "Number of readings to show")
}

func runReadings(_ *cobra.Command, args []string) {
	player := ""
	if len(args) == 1 {
		name, err := storage.NormalizeName(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		player = name
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	readings, err := store.Readings(player, flagReadingsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving readings: %v\n", err)
		return
	}

	if len(readings) == 0 {
		fmt.Println("No readings logged yet.")
		return
	}

	fmt.Printf("  %-16s  %-8s  %-8s  %-7s  %-6s  %s\n", "Player", "mg/dL", "mmol/L", "Range", "Score", "Date")
	fmt.Printf("  %-16s  %-8s  %-8s  %-7s  %-6s  %s\n", "------", "-----", "------", "-----", "-----", "----")
	for _, r := range readings {
		fmt.Printf("  %-16s  %-8s  %-8s  %-7s  %-6d  %s\n",
			r.Player,
			r.BloodGlucose.StringFixed(0),
			glucose.ToMmol(r.BloodGlucose).StringFixed(1),
			r.Category,
			r.GameScore,
			r.RecordedAt.Local().Format("2006-01-02 15:04"),
		)
	}
}
