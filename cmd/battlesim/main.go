// battlesim watches two tabletop-style agents fight it out in the terminal.
//
// Usage:
//
//	battlesim list                 - List built-in scenarios
//	battlesim run [scenario]       - Watch a battle in the terminal
//	battlesim sim [scenario]       - Run a battle headless and log every event
//	battlesim history [scenario]   - Browse recorded battles
//	battlesim serve                - Start SSH server for remote viewers
//
// Global flags (environment variable in brackets):
//
//	--fps <rate>         - Rounds shown per second [BATTLESIM_FPS] (default: 10)
//	--seed <value>       - Dice seed for reproducible battles [BATTLESIM_SEED]
//	--db <path>          - Battle history database [BATTLESIM_DB] (default: ~/.battlesim/battles.db)
//	--log-level <level>  - debug, info, warn or error [BATTLESIM_LOG_LEVEL]
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/battlesim/internal/config"

	// Import scenarios to register them
	_ "github.com/vovakirdan/battlesim/internal/games/battle"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string

	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "battlesim",
	Short: "Battle Sim - watch dice-driven duels in your terminal",
	Long: `Battle Sim runs turn-based duels between two agents. Each round both
agents act in turn: they close the distance, then attack with a three-step
sequence of decreasing bonuses rolled against armor class.

Available commands:
  list     - Show built-in scenarios
  run      - Watch a battle in the terminal
  sim      - Run a battle headless and print the result
  history  - Browse recorded battles
  serve    - Start SSH server for remote viewers

Examples:
  battlesim list
  battlesim run duel
  battlesim run --config ./my-duel.yaml
  battlesim sim skirmish --seed 42 --log-level debug
  battlesim history duel --plain
  battlesim serve --ssh :2222`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 10, "Rounds shown per second")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Dice seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.battlesim/battles.db", "Path to battle history database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup merges environment settings into flags that were not set explicitly
// and builds the shared logger.
func setup(cmd *cobra.Command, _ []string) error {
	rt, err := config.LoadRuntime()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("fps") {
		flagFPS = rt.FPS
	}
	if !flags.Changed("seed") {
		flagSeed = rt.Seed
	}
	if !flags.Changed("db") {
		flagDBPath = rt.DBPath
	}
	if !flags.Changed("log-level") {
		flagLogLevel = rt.LogLevel
	}

	if flagFPS < 1 {
		return fmt.Errorf("--fps must be positive, got %d", flagFPS)
	}

	logger, err = newLogger(flagLogLevel)
	return err
}

// newLogger creates the stderr logger used by every command.
func newLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}

	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "battlesim",
		Level:           lvl,
	}), nil
}
