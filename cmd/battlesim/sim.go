package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/battlesim/internal/combat"
	"github.com/vovakirdan/battlesim/internal/config"
	"github.com/vovakirdan/battlesim/internal/dice"
	"github.com/vovakirdan/battlesim/internal/storage"
)

// defaultRoundCap stops headless battles whose agents can never finish
// each other and whose scenario sets no round limit.
const defaultRoundCap = 10000

var (
	flagRounds int
	flagNoSave bool
)

var simCmd = &cobra.Command{
	Use:   "sim [scenario]",
	Short: "Run a battle headless",
	Long: `Run a battle to its conclusion without the terminal viewer. Hits,
deaths and the outcome are logged at info level; misses and movement at
debug level. The battle is recorded in the history database.

Examples:
  battlesim sim
  battlesim sim skirmish --seed 42
  battlesim sim duel --log-level debug
  battlesim sim --config ./my-duel.yaml --rounds 500 --no-save`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSim,
}

func init() {
	simCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom scenario YAML")
	simCmd.Flags().IntVar(&flagRounds, "rounds", defaultRoundCap, "Stop after this many rounds (0 = no cap)")
	simCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the battle in history")
}

func runSim(cmd *cobra.Command, args []string) {
	id := scenarioArg(args)

	scenario, err := config.Load(id, flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sink := combat.NewLogSink(logger.WithPrefix(scenario.ID))
	b, err := scenario.NewBattle(dice.NewSource(seed), sink)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("battle started", "scenario", scenario.ID, "seed", seed)
	res := b.Run(flagRounds)

	printSummary(os.Stdout, scenario, b, seed)

	if !b.Concluded() {
		logger.Warn("round cap reached before the battle concluded", "rounds", flagRounds)
		return
	}
	if flagNoSave {
		return
	}
	saveResult(scenario.ID, seed, res)
}

// printSummary writes the outcome and final agent states.
func printSummary(w io.Writer, s config.Scenario, b *combat.Battle, seed int64) {
	res := b.Result()

	fmt.Fprintf(w, "%s (%s), seed %d\n", s.Title(), s.ID, seed)
	if b.Concluded() {
		fmt.Fprintf(w, "Result: %s\n", res)
	} else {
		fmt.Fprintf(w, "Result: unfinished after %d rounds\n", b.Tick())
	}

	for _, a := range b.Agents() {
		fmt.Fprintf(w, "  %-12s %4d/%-4d hp  standing\n", a.Name, a.HP, a.MaxHP)
	}
	for _, a := range b.Fallen() {
		fmt.Fprintf(w, "  %-12s %4d/%-4d hp  fallen\n", a.Name, a.HP, a.MaxHP)
	}
}

func saveResult(scenario string, seed int64, res combat.Result) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open battle database", "error", err)
		return
	}
	defer store.Close()

	id, err := store.SaveBattle(storage.BattleRecord{
		Scenario: scenario,
		Seed:     seed,
		Winner:   res.Winner,
		Reason:   res.Reason.String(),
		Rounds:   res.Ticks,
	})
	if err != nil {
		logger.Warn("could not record battle", "error", err)
		return
	}
	logger.Debug("battle recorded", "id", id)
}
