package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jfxdev02-arch/mergcrush/internal/core"
	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush"
	"github.com/jfxdev02-arch/mergcrush/internal/platform/tui"
	"github.com/jfxdev02-arch/mergcrush/internal/progress"
	"github.com/jfxdev02-arch/mergcrush/internal/storage"
)

var flagStartLevel int

var playCmd = &cobra.Command{
	Use:   "play [campaign|endless]",
	Short: "Play MergCrush",
	Long: `Start playing. Without an argument the mode menu opens and you return
to it after every game.

Controls:
  Left/Right/A/D  - Move the drop cursor
  Space           - Drop the next item
  P               - Pause
  R               - Restart
  B/Esc           - Back to the menu
  Q/Ctrl+C        - Quit
  Ctrl+S          - Save a screenshot

Difficulty options:
  easy   - Slower spawns and a wider combo window
  normal - Start at 30% difficulty, progresses to max
  hard   - Faster spawns with an extra item per wave
  fixed  - No progression, stays at config's initial level

Examples:
  mergcrush play
  mergcrush play campaign --level 4
  mergcrush play endless --difficulty hard
  mergcrush play --config ./my-mergcrush.yaml`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"campaign", "endless"},
	Run:       runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagStartLevel, "level", 0, "Campaign level to start at (1-indexed)")
}

func runPlay(_ *cobra.Command, args []string) {
	defer closeLogFile()

	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	tracker, err := newTracker(store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Get terminal size
	width, height := 80, 24
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

	if len(args) == 0 {
		runMenuLoop(store, tracker, cfg)
		return
	}

	sel, err := parseSelection(args[0], flagStartLevel, tracker)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	game := sel.NewGame(mergcrush.WithLogger(quietLogger()))
	if _, err := tui.Run(game, store, cfg, tui.WithTracker(tracker), tui.WithLogger(quietLogger())); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}

// parseSelection turns the play argument into a selection. Locked
// campaign levels are refused.
func parseSelection(mode string, level int, tracker *progress.Tracker) (tui.Selection, error) {
	switch mode {
	case "endless":
		if level != 0 {
			return tui.Selection{}, fmt.Errorf("--level only applies to the campaign")
		}
		return tui.Selection{Mode: mergcrush.ModeEndless}, nil
	case "campaign":
	default:
		return tui.Selection{}, fmt.Errorf("unknown mode %q (use campaign or endless)", mode)
	}

	if level == 0 {
		return tui.Selection{Mode: mergcrush.ModeCampaign}, nil
	}
	if level < 1 || level > len(campaign) {
		return tui.Selection{}, fmt.Errorf("level %d out of range 1-%d", level, len(campaign))
	}
	if tracker != nil && !tracker.IsUnlocked(level-1) {
		return tui.Selection{}, fmt.Errorf("level %d is locked (run 'mergcrush levels --unlock-all' to open every level)", level)
	}
	return tui.Selection{Mode: mergcrush.ModeCampaign, Level: level}, nil
}

// runMenuLoop alternates between the menu, the scoreboard and games until
// the player quits.
func runMenuLoop(store *storage.Store, tracker *progress.Tracker, cfg core.RuntimeConfig) {
	for {
		menuResult, err := tui.RunMenu(tracker, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			return
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			return
		}

		sel := menuResult.Selection
		if sel == nil {
			return
		}

		// Fresh seed for each game unless one was pinned
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		game := sel.NewGame(mergcrush.WithLogger(quietLogger()))
		backToMenu, err := tui.Run(game, store, cfg, tui.WithTracker(tracker), tui.WithLogger(quietLogger()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			continue
		}
		if !backToMenu {
			return
		}
	}
}

func closeLogFile() {
	if logFile != nil {
		logFile.Close()
	}
}
