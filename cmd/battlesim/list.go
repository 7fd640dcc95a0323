package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/battlesim/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in scenarios",
	Long:  `Shows every scenario registered with the simulator.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	scenarios := registry.List()

	if len(scenarios) == 0 {
		fmt.Println("No scenarios available.")
		return
	}

	fmt.Println("Available scenarios:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, s := range scenarios {
		maxIDLen = max(maxIDLen, len(s.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")

	for _, s := range scenarios {
		fmt.Printf("  %-*s  %s\n", maxIDLen, s.ID, s.Title)
	}

	fmt.Println()
	fmt.Println("Run 'battlesim run <id>' to watch a battle.")
}
