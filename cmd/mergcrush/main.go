// mergcrush is a drop-and-merge puzzle game for the terminal.
//
// Usage:
//
//	mergcrush play [campaign|endless]  - Play (no argument opens the menu)
//	mergcrush levels                   - List campaign levels and progress
//	mergcrush scores [campaign|endless] - Show high scores and recent runs
//	mergcrush serve                    - Start SSH server for remote play
//	mergcrush sim                      - Run a headless simulation
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.mergcrush/scores.db)
//	--config <path>       - Custom config YAML
//	--difficulty <preset> - easy, normal, hard or fixed
//	--levels <dir>        - Directory of level pack YAML files
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLevelsDir  string
	flagLogLevel   string
	flagLogFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mergcrush",
	Short: "MergCrush - drop, merge and crush in your terminal",
	Long: `MergCrush is a drop-and-merge puzzle game. Drop numbered items into
the grid; two equal neighbours fuse into one of the next rank and score
points. Chain merges quickly for a combo multiplier.

Available commands:
  play     - Play the campaign or endless mode
  levels   - Show campaign levels and your progress
  scores   - View high scores and run history
  serve    - Start SSH server for remote play
  sim      - Run a headless simulation

Examples:
  mergcrush play
  mergcrush play endless --difficulty hard
  mergcrush play campaign --level 3
  mergcrush serve --ssh :2222
  mergcrush sim --turns 500 --ws :8080`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup()
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.mergcrush/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels", "", "Directory of level pack YAML files (replaces the campaign)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to a file (the game screen hides stderr)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simCmd)
}
