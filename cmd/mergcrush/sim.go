package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush/core"
	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush/levels"
	"github.com/jfxdev02-arch/mergcrush/internal/games/mergcrush/sim"
	"github.com/jfxdev02-arch/mergcrush/internal/storage"
	ws "github.com/jfxdev02-arch/mergcrush/internal/transport/websocket"
)

// ModeSim tags runs recorded by the simulator.
const ModeSim = "sim"

var (
	flagSimTurns      int
	flagSimLevel      string
	flagSimSpawnEvery int
	flagSimWSAddr     string
	flagSimWSWait     int
	flagSimDelay      time.Duration
	flagSimNoSave     bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a headless simulation",
	Long: `Play a board with a greedy bot and print the result. The run is
recorded in the scores database under the "sim" mode.

With --ws, every simulation event is streamed as JSON to WebSocket
spectators connected to ws://<addr>/ws.

Examples:
  mergcrush sim --turns 500
  mergcrush sim --level 3 --seed 42
  mergcrush sim --level cafe --spawn-every 2
  mergcrush sim --ws :8080 --ws-wait 1 --delay 100ms`,
	Args: cobra.NoArgs,
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimTurns, "turns", 200, "Maximum number of drops")
	simCmd.Flags().StringVar(&flagSimLevel, "level", "", "Campaign level number (1-indexed) or ID; empty plays endless")
	simCmd.Flags().IntVar(&flagSimSpawnEvery, "spawn-every", 0, "Drop a random item every N turns (0 = never)")
	simCmd.Flags().StringVar(&flagSimWSAddr, "ws", "", "Stream events to WebSocket spectators on this address")
	simCmd.Flags().IntVar(&flagSimWSWait, "ws-wait", 0, "Wait for this many spectators before starting")
	simCmd.Flags().DurationVar(&flagSimDelay, "delay", 0, "Pause between turns")
	simCmd.Flags().BoolVar(&flagSimNoSave, "no-save", false, "Do not record the run")
}

// findLevel resolves a 1-indexed level number or a level ID.
func findLevel(lvls []levels.Level, ref string) (*levels.Level, error) {
	if ref == "" {
		return nil, nil
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(lvls) {
			return nil, fmt.Errorf("level %d out of range 1-%d", n, len(lvls))
		}
		return &lvls[n-1], nil
	}
	lvl, ok := levels.Find(lvls, ref)
	if !ok {
		return nil, fmt.Errorf("unknown level %q", ref)
	}
	return &lvl, nil
}

func runSim(_ *cobra.Command, _ []string) {
	defer closeLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lvl, err := findLevel(campaign, flagSimLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	opts := sim.Options{
		Config:       gameCfg.Core(),
		Level:        lvl,
		Difficulty:   gameCfg.Spawn.Difficulty,
		MaxSpawnRank: gameCfg.Spawn.MaxSpawnRank,
		InitialItems: gameCfg.Spawn.InitialItems,
		Turns:        flagSimTurns,
		Seed:         uint64(seed),
		SpawnEvery:   flagSimSpawnEvery,
		Logger:       logger,
		Delay:        flagSimDelay,
	}

	var (
		streamer *ws.Streamer
		shutdown func()
	)
	if flagSimWSAddr != "" {
		streamer, shutdown, err = startSpectators(ctx, flagSimWSAddr, flagSimWSWait)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer shutdown()
		opts.Listeners = append(opts.Listeners, streamer)
	}

	res, err := sim.Run(ctx, opts)
	if errors.Is(err, context.Canceled) {
		fmt.Printf("Simulation interrupted after %d turns.\n", res.Turns)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	levelID := ""
	if lvl != nil {
		levelID = lvl.ID
	}
	if streamer != nil {
		streamer.Send("summary", map[string]any{
			"level":   levelID,
			"turns":   res.Turns,
			"outcome": string(res.Outcome),
			"score":   res.Stats.Total,
			"stars":   res.Stars,
			"merges":  res.Stats.Merges,
		})
	}

	printSimResult(lvl, seed, res)

	if flagSimNoSave {
		return
	}
	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return
	}
	defer store.Close()

	id, err := store.SaveRun(storage.Run{
		Mode:        ModeSim,
		LevelID:     levelID,
		Score:       res.Stats.Total,
		Stars:       res.Stars,
		Merges:      res.Stats.Merges,
		MaxCombo:    res.Stats.MaxCombo,
		HighestRank: res.Stats.HighestRank,
		Spawned:     res.Stats.Spawned,
		Outcome:     string(res.Outcome),
		Seed:        seed,
		Duration:    int(res.Elapsed),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save run: %v\n", err)
		return
	}
	fmt.Printf("Run saved: %s\n", id)
}

// startSpectators serves the WebSocket hub on addr and optionally blocks
// until wait clients joined. The returned func stops the server.
func startSpectators(ctx context.Context, addr string, wait int) (*ws.Streamer, func(), error) {
	hubCtx, cancel := context.WithCancel(ctx)
	hub := ws.NewHub(logger)
	go hub.Run(hubCtx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("spectator server failed", "addr", addr, "err", err)
		}
	}()
	logger.Info("streaming simulation", "url", "ws://"+displayAddr(addr)+"/ws")

	shutdown := func() {
		// Writers need a moment to flush the final messages
		time.Sleep(250 * time.Millisecond)
		cancel()
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		srv.Shutdown(sctx)
	}

	if wait > 0 {
		fmt.Printf("Waiting for %d spectator(s) on ws://%s/ws\n", wait, displayAddr(addr))
		if err := hub.WaitForClients(ctx, wait); err != nil {
			shutdown()
			return nil, nil, err
		}
	}
	return ws.NewStreamer(hub, ws.DefaultStream), shutdown, nil
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

func printSimResult(lvl *levels.Level, seed int64, res sim.Result) {
	if lvl != nil {
		fmt.Printf("Simulation - %s (%s)\n", lvl.Name, lvl.ID)
	} else {
		fmt.Println("Simulation - endless")
	}
	fmt.Println()
	fmt.Println(formatBoard(res.Ranks))
	fmt.Println()
	fmt.Printf("  Seed:     %d\n", seed)
	fmt.Printf("  Turns:    %d\n", res.Turns)
	fmt.Printf("  Outcome:  %s\n", res.Outcome)
	fmt.Printf("  Score:    %d\n", res.Stats.Total)
	if lvl != nil {
		fmt.Printf("  Stars:    %s (target %d)\n", starMarks(res.Stars), lvl.Target)
	}
	fmt.Printf("  Merges:   %d (max combo %d)\n", res.Stats.Merges, res.Stats.MaxCombo)
	fmt.Printf("  Best:     %d\n", core.RankValue(res.Stats.HighestRank))
	fmt.Printf("  Occupied: %d/%d\n", res.Stats.Occupied, res.Stats.Occupied+res.Stats.Empty)
}

// formatBoard renders ranks with the floor at the bottom.
func formatBoard(ranks [][]int) string {
	var b strings.Builder
	for y := len(ranks) - 1; y >= 0; y-- {
		b.WriteString("  |")
		for _, rank := range ranks[y] {
			if rank <= 0 {
				fmt.Fprintf(&b, "%5s", ".")
				continue
			}
			fmt.Fprintf(&b, "%5d", core.RankValue(rank))
		}
		b.WriteString(" |")
		if y > 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
