package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/battlesim/internal/platform/tui"
	"github.com/vovakirdan/battlesim/internal/storage"
)

var (
	flagPlain bool
	flagLimit int
	flagClear bool
	flagShow  string
)

var historyCmd = &cobra.Command{
	Use:   "history [scenario]",
	Short: "Browse recorded battles",
	Long: `Show recorded battles and per-scenario statistics. In a terminal an
interactive table is shown; with --plain, or when output is piped, the
most recent battles are printed as text.

Examples:
  battlesim history
  battlesim history skirmish
  battlesim history duel --plain --limit 20
  battlesim history --show 3f1c2a9e-...     # one battle by ID
  battlesim history duel --clear            # forget duel battles`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print text instead of the interactive table")
	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of battles to print with --plain")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete recorded battles of the scenario (all without one)")
	historyCmd.Flags().StringVar(&flagShow, "show", "", "Print a single battle by ID")
}

func runHistory(cmd *cobra.Command, args []string) {
	scenario := ""
	if len(args) > 0 {
		scenario = args[0]
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening battle database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var actionErr error
	switch {
	case flagClear:
		actionErr = clearHistory(os.Stdout, store, scenario)
	case flagShow != "":
		actionErr = printBattle(os.Stdout, store, flagShow)
	}
	if flagClear || flagShow != "" {
		if actionErr != nil {
			store.Close()
			fmt.Fprintf(os.Stderr, "Error: %v\n", actionErr)
			os.Exit(1)
		}
		return
	}

	if flagPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		if err := printHistory(os.Stdout, store, scenario, flagLimit); err != nil {
			store.Close()
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	if err := tui.RunHistory(store, scenario, width, height); err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// printHistory writes recent battles and statistics as plain text.
// An empty scenario prints every scenario with history.
func printHistory(w io.Writer, store *storage.Store, scenario string, limit int) error {
	battles, err := store.RecentBattles(scenario, limit)
	if err != nil {
		return err
	}

	if scenario == "" {
		fmt.Fprintln(w, "Battle History")
	} else {
		fmt.Fprintf(w, "Battle History - %s\n", scenario)
	}
	fmt.Fprintln(w)

	if len(battles) == 0 {
		fmt.Fprintln(w, "  No battles recorded yet.")
		return nil
	}

	fmt.Fprintf(w, "  %-36s  %-14s  %-10s  %-12s  %-11s  %6s\n", "ID", "When", "Scenario", "Winner", "Result", "Rounds")
	fmt.Fprintf(w, "  %-36s  %-14s  %-10s  %-12s  %-11s  %6s\n", "--", "----", "--------", "------", "------", "------")
	for _, b := range battles {
		winner := b.Winner
		if winner == "" {
			winner = "-"
		}
		fmt.Fprintf(w, "  %-36s  %-14s  %-10s  %-12s  %-11s  %6s\n",
			b.ID, humanize.Time(b.CreatedAt), b.Scenario, winner, b.Reason, humanize.Comma(int64(b.Rounds)))
	}
	fmt.Fprintln(w)

	stats, err := store.GetAllScenarioStats()
	if err != nil {
		return err
	}
	for _, id := range sortedKeys(stats) {
		if scenario != "" && id != scenario {
			continue
		}
		fmt.Fprintf(w, "  %s: %s\n", id, tui.FormatStats(stats[id]))
	}
	return nil
}

// printBattle writes one recorded battle, including the seed needed to
// replay it with --seed.
func printBattle(w io.Writer, store *storage.Store, id string) error {
	b, err := store.BattleByID(id)
	if err != nil {
		return err
	}
	if b == nil {
		return fmt.Errorf("no battle with ID %q", id)
	}

	winner := b.Winner
	if winner == "" {
		winner = "-"
	}
	fmt.Fprintf(w, "Battle %s\n", b.ID)
	fmt.Fprintf(w, "  Scenario: %s\n", b.Scenario)
	fmt.Fprintf(w, "  Played:   %s (%s)\n", b.CreatedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(b.CreatedAt))
	fmt.Fprintf(w, "  Winner:   %s\n", winner)
	fmt.Fprintf(w, "  Result:   %s after %s rounds\n", b.Reason, humanize.Comma(int64(b.Rounds)))
	fmt.Fprintf(w, "  Replay:   battlesim run %s --seed %d\n", b.Scenario, b.Seed)
	return nil
}

// clearHistory deletes recorded battles of scenario, or all of them.
func clearHistory(w io.Writer, store *storage.Store, scenario string) error {
	if err := store.ClearBattles(scenario); err != nil {
		return err
	}
	if scenario == "" {
		fmt.Fprintln(w, "Cleared all battle history.")
	} else {
		fmt.Fprintf(w, "Cleared battle history for %s.\n", scenario)
	}
	return nil
}

func sortedKeys(m map[string]*storage.ScenarioStats) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
