// Command chessnova plays chess against the computer in the terminal and
// offers a few analysis tools.
//
// Usage:
//
//	chessnova [flags] [play]
//	chessnova [flags] analyse [-fen FEN] [-depth N] [-oracle native|dragontooth]
//	chessnova [flags] perft [-fen FEN] [-depth N]
//	chessnova [flags] puzzles [list|verify]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	dragon "github.com/dylhunn/dragontoothmg"
	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	"github.com/hailam/chessnova/internal/board"
	"github.com/hailam/chessnova/internal/config"
	"github.com/hailam/chessnova/internal/console"
	"github.com/hailam/chessnova/internal/engine"
	"github.com/hailam/chessnova/internal/oracle/dragontooth"
	"github.com/hailam/chessnova/internal/puzzle"
	"github.com/hailam/chessnova/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "chessnova:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("chessnova", flag.ContinueOnError)
	difficulty := fs.String("difficulty", cfg.Difficulty, "computer strength: easy, medium or hard")
	thinking := fs.Duration("think", cfg.ThinkingTime, "minimum time the computer takes per move")
	seed := fs.Int64("seed", cfg.Seed, "random seed for move choice, 0 for time based")
	dataDir := fs.String("data-dir", cfg.DataDir, "directory for saved preferences and statistics")
	cpuprofile := fs.String("cpuprofile", "", "write a CPU profile to this directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	log := cfg.NewLogger(os.Stderr)

	if *cpuprofile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*cpuprofile), profile.Quiet).Stop()
		log.Info().Str("dir", *cpuprofile).Msg("CPU profiling enabled")
	}

	p, ok := engine.ProfileByName(*difficulty)
	if !ok {
		return fmt.Errorf("unknown difficulty %q", *difficulty)
	}
	opts := engine.Options{Profile: p, ThinkingTime: *thinking, Seed: *seed, Logger: log}

	cmd, rest := "play", []string(nil)
	if fs.NArg() > 0 {
		cmd, rest = fs.Arg(0), fs.Args()[1:]
	}
	switch cmd {
	case "play":
		return play(ctx, stdin, stdout, opts, *dataDir, explicit, log)
	case "analyse", "analyze":
		return analyse(stdout, rest, opts)
	case "perft":
		return perft(stdout, rest)
	case "puzzles":
		return puzzles(ctx, stdout, rest, opts)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// play runs the interactive console. Saved preferences apply unless a flag
// or environment variable sets the same thing.
func play(ctx context.Context, stdin io.Reader, stdout io.Writer, opts engine.Options, dataDir string, explicit map[string]bool, log zerolog.Logger) error {
	store, err := storage.OpenDefault(dataDir, log)
	if err != nil {
		return err
	}
	defer store.Close()

	prefs, err := store.LoadPreferences()
	if err != nil {
		return err
	}
	first, err := store.IsFirstLaunch()
	if err != nil {
		return err
	}
	if first {
		fmt.Fprintln(stdout, "Welcome to ChessNova! Your games and puzzle progress are saved between runs.")
		if err := store.MarkFirstLaunchComplete(); err != nil {
			return err
		}
	}

	if !explicit["difficulty"] && os.Getenv(config.EnvDifficulty) == "" {
		if p, ok := engine.ProfileByName(prefs.Difficulty); ok {
			opts.Profile = p
		}
	}
	if !explicit["think"] && os.Getenv(config.EnvThinkingTime) == "" && prefs.ThinkingTime > 0 {
		opts.ThinkingTime = prefs.ThinkingTime
	}
	prefs.Difficulty = opts.Profile.Name
	prefs.ThinkingTime = opts.ThinkingTime

	eng := engine.New[board.Move](opts)
	c := console.New(stdin, stdout, console.Options{
		Engine:      eng,
		Store:       store,
		Preferences: prefs,
		Logger:      log,
	})
	err = c.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func analyse(w io.Writer, args []string, opts engine.Options) error {
	fs := flag.NewFlagSet("analyse", flag.ContinueOnError)
	fen := fs.String("fen", board.StartFEN, "position to analyse")
	depth := fs.Int("depth", opts.Profile.Depth, "search depth in plies")
	oracle := fs.String("oracle", "native", "rules implementation: native or dragontooth")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p := engine.Profile{Name: "analysis", Depth: *depth}

	switch *oracle {
	case "native":
		g, err := board.NewGameFromFEN(*fen)
		if err != nil {
			return err
		}
		return report(w, engine.New[board.Move](opts), g, p, func(m board.Move) string {
			return g.Describe(m).SAN
		})
	case "dragontooth":
		g, err := dragontooth.NewGame(*fen)
		if err != nil {
			return err
		}
		return report(w, engine.New[dragon.Move](opts), g, p, func(m dragon.Move) string {
			return m.String()
		})
	default:
		return fmt.Errorf("unknown oracle %q", *oracle)
	}
}

// report prints every root move of pos with its score, best first.
func report[M comparable](w io.Writer, eng *engine.Engine[M], pos engine.Oracle[M], p engine.Profile, name func(M) string) error {
	fmt.Fprintf(w, "Static evaluation: %s\n", engine.ScoreToString(engine.Evaluate(pos)))

	start := time.Now()
	scored, err := eng.AnalyseWith(pos, p)
	if err != nil {
		return err
	}
	if len(scored) == 0 {
		fmt.Fprintln(w, "No legal moves.")
		return nil
	}
	for i, sm := range scored {
		fmt.Fprintf(w, "%3d. %-8s %s\n", i+1, name(sm.Move), engine.ScoreToString(sm.Score))
	}
	fmt.Fprintf(w, "Depth %d, %s moves in %v\n", p.Depth, humanize.Comma(int64(len(scored))), time.Since(start).Round(time.Millisecond))
	return nil
}

func perft(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("perft", flag.ContinueOnError)
	fen := fs.String("fen", board.StartFEN, "position to count from")
	depth := fs.Int("depth", 4, "depth in plies")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *depth < 1 {
		return fmt.Errorf("perft depth must be at least 1")
	}
	pos, err := board.ParseFEN(*fen)
	if err != nil {
		return err
	}

	start := time.Now()
	divide := pos.Divide(*depth)
	elapsed := time.Since(start)

	moves := make([]board.Move, 0, len(divide))
	var nodes uint64
	for m, n := range divide {
		moves = append(moves, m)
		nodes += n
	}
	slices.SortFunc(moves, func(a, b board.Move) int { return strings.Compare(a.String(), b.String()) })
	for _, m := range moves {
		fmt.Fprintf(w, "%s: %s\n", m, humanize.Comma(int64(divide[m])))
	}

	fmt.Fprintf(w, "\nNodes: %s\n", humanize.Comma(int64(nodes)))
	fmt.Fprintf(w, "Time: %v\n", elapsed.Round(time.Millisecond))
	if elapsed > 0 {
		fmt.Fprintf(w, "NPS: %s\n", humanize.Comma(int64(float64(nodes)/elapsed.Seconds())))
	}
	return nil
}

func puzzles(ctx context.Context, w io.Writer, args []string, opts engine.Options) error {
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
	}
	switch sub {
	case "list":
		for _, p := range puzzle.All() {
			fmt.Fprintf(w, "%-16s %-7s %-8s %4d  %s\n", p.ID, p.Kind, p.Difficulty, p.Rating, p.Name)
		}
		return nil
	case "verify":
		opts.Profile = engine.Hard
		all := puzzle.All()
		if err := puzzle.Verify(ctx, engine.New[board.Move](opts), all); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s puzzles verified\n", humanize.Comma(int64(len(all))))
		return nil
	default:
		return fmt.Errorf("unknown puzzles command %q, want list or verify", sub)
	}
}
