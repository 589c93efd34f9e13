package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	flagResetProgress bool
	flagUnlockAll     bool
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List campaign levels and your progress",
	Long: `Shows every campaign level with its target, whether it is unlocked,
and your best score and stars.

Examples:
  mergcrush levels
  mergcrush levels --levels ./my-pack
  mergcrush levels --unlock-all
  mergcrush levels --reset`,
	Args: cobra.NoArgs,
	Run:  runLevels,
}

func init() {
	levelsCmd.Flags().BoolVar(&flagResetProgress, "reset", false, "Forget all campaign progress")
	levelsCmd.Flags().BoolVar(&flagUnlockAll, "unlock-all", false, "Unlock every level")
}

func runLevels(_ *cobra.Command, _ []string) {
	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	tracker, err := newTracker(store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch {
	case flagResetProgress:
		if err := tracker.ResetAll(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Campaign progress reset.")
		fmt.Println()
	case flagUnlockAll:
		if err := tracker.UnlockAll(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("All levels unlocked.")
		fmt.Println()
	}

	summary, err := tracker.Summary()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading progress: %v\n", err)
		os.Exit(1)
	}

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, l := range campaign {
		maxNameLen = max(maxNameLen, len(l.Name))
	}

	fmt.Printf("Campaign - %d levels\n", len(campaign))
	fmt.Println()
	fmt.Printf("  %-3s  %-*s  %-8s  %-8s  %-5s  %s\n", "#", maxNameLen, "Name", "Target", "Best", "Stars", "Status")
	fmt.Printf("  %-3s  %-*s  %-8s  %-8s  %-5s  %s\n", "-", maxNameLen, "----", "------", "----", "-----", "------")

	for i, l := range campaign {
		p := summary[i]
		status := "locked"
		switch {
		case p.Completed():
			status = "cleared"
		case p.Unlocked:
			status = "open"
		}
		best := "-"
		if p.BestScore > 0 {
			best = fmt.Sprint(p.BestScore)
		}
		fmt.Printf("  %-3d  %-*s  %-8d  %-8s  %-5s  %s\n",
			i+1, maxNameLen, l.Name, l.Target, best, starMarks(p.BestStars), status)
	}

	fmt.Println()
	fmt.Println("Run 'mergcrush play campaign --level <n>' to play an unlocked level.")
}

func starMarks(n int) string {
	n = min(max(n, 0), 3)
	return strings.Repeat("*", n) + strings.Repeat(".", 3-n)
}
