package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/battlesim/internal/config"
	"github.com/vovakirdan/battlesim/internal/core"
	"github.com/vovakirdan/battlesim/internal/games/battle"
	"github.com/vovakirdan/battlesim/internal/platform/tui"
	"github.com/vovakirdan/battlesim/internal/registry"
	"github.com/vovakirdan/battlesim/internal/storage"
)

var flagConfig string

var runCmd = &cobra.Command{
	Use:   "run [scenario]",
	Short: "Watch a battle",
	Long: `Watch a battle unfold round by round. Without a scenario the duel
between the Fighter and the Rogue is shown.

Controls:
  P/Esc      - Pause / resume
  Space      - Advance one round while paused
  R          - Restart with a new seed (after the battle ends)
  ?          - Show all keys
  Q/Ctrl+C   - Quit

Examples:
  battlesim run
  battlesim run skirmish --fps 20
  battlesim run duel --seed 7
  battlesim run --config ./my-duel.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom scenario YAML")
}

// scenarioArg returns the scenario named on the command line or the default.
func scenarioArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return config.DefaultScenario
}

// createGame builds a battle from a custom file, the registry or a
// user scenario file.
func createGame(id string) (registry.Game, error) {
	game, err := battle.Open(id, flagConfig)
	if errors.Is(err, config.ErrUnknownScenario) {
		return nil, fmt.Errorf("unknown scenario %q (run 'battlesim list' to see available scenarios)", id)
	}
	return game, err
}

func runRun(cmd *cobra.Command, args []string) {
	game, err := createGame(scenarioArg(args))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open battle database", "error", err)
		// Continue without history - the battle still runs
		store = nil
	}

	runErr := tui.Run(game, store, cfg)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running battle: %v\n", runErr)
		os.Exit(1)
	}
}
