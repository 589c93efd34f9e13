package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush"
	"github.com/jfxdev02-arch/mergcrush/internal/registry"
	"github.com/jfxdev02-arch/mergcrush/internal/storage"
)

var (
	flagShowRuns bool
	flagLimit    int
)

var scoresCmd = &cobra.Command{
	Use:   "scores [campaign|endless|sim]",
	Short: "Show high scores and recent runs",
	Long: `Display the top scores of a mode, or of every mode when none is given.
With --runs, shows the most recent runs instead.

Examples:
  mergcrush scores
  mergcrush scores endless
  mergcrush scores --runs
  mergcrush scores sim --runs --limit 50`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"campaign", "endless", "sim"},
	Run:       runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagShowRuns, "runs", false, "Show recent runs instead of high scores")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of entries to show")
}

// gameIDForMode maps a CLI mode name to a registered game ID.
func gameIDForMode(mode string) (string, bool) {
	switch mode {
	case "campaign":
		return mergcrush.IDCampaign, true
	case "endless":
		return mergcrush.IDEndless, true
	}
	return "", false
}

func runScores(_ *cobra.Command, args []string) {
	mode := ""
	if len(args) == 1 {
		mode = args[0]
	}

	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagShowRuns {
		printRuns(store, mode)
		return
	}

	if mode == "" {
		for _, g := range registry.List() {
			printTopScores(store, g.ID, g.Title)
		}
		return
	}
	gameID, ok := gameIDForMode(mode)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: mode %q has no leaderboard (try --runs)\n", mode)
		os.Exit(1)
	}
	info, _ := registry.Info(gameID)
	printTopScores(store, gameID, info.Title)
}

func printTopScores(store *storage.Store, gameID, title string) {
	scores, err := store.TopScores(gameID, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("  No scores recorded yet.")
		fmt.Println()
		return
	}

	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.GetGameStats(gameID); err == nil {
		fmt.Println()
		fmt.Printf("  Best: %d  Games: %d\n", stats.HighScore, stats.GamesCount)
	}
	fmt.Println()
}

func printRuns(store *storage.Store, mode string) {
	runs, err := store.RecentRuns(mode, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	if mode == "" {
		fmt.Println("Recent Runs")
	} else {
		fmt.Printf("Recent Runs - %s\n", mode)
	}
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("  No runs recorded yet.")
		return
	}

	fmt.Printf("  %-16s  %-8s  %-12s  %-8s  %-5s  %-6s  %s\n", "Date", "Mode", "Level", "Score", "Stars", "Merges", "Result")
	fmt.Printf("  %-16s  %-8s  %-12s  %-8s  %-5s  %-6s  %s\n", "----", "----", "-----", "-----", "-----", "------", "------")
	for _, r := range runs {
		level := r.LevelID
		if level == "" {
			level = "-"
		}
		fmt.Printf("  %-16s  %-8s  %-12s  %-8d  %-5s  %-6d  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Mode, level, r.Score, starMarks(r.Stars), r.Merges, r.Outcome)
	}
}
