package console

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hailam/chessnova/internal/board"
	"github.com/hailam/chessnova/internal/engine"
	"github.com/hailam/chessnova/internal/storage"
)

func newStore(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// run feeds script to a fresh console and returns everything it printed.
func run(t *testing.T, store *storage.Storage, prefs *storage.UserPreferences, script ...string) string {
	t.Helper()
	eng := engine.New[board.Move](engine.Options{
		Profile:      engine.Easy,
		ThinkingTime: time.Millisecond,
		MinDelay:     time.Millisecond,
		Seed:         1,
	})
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(script, "\n") + "\n")
	c := New(in, &out, Options{Engine: eng, Store: store, Preferences: prefs})
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v\n%s", err, out.String())
	}
	return out.String()
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestScriptedGame(t *testing.T) {
	store := newStore(t)
	out := run(t, store, nil,
		"level hard",
		"think 1",
		"moves e2",
		"e4",
		"undo",
		"fen",
		"bogus",
		"move Nf3",
		"pgn",
		"resign",
		"e4",
		"stats",
		"quit",
		"hint",
	)

	assertContains(t, out,
		"New game against the computer (easy). You play White.",
		"Level set to hard",
		"Thinking time set to 1ms",
		"2 moves:",
		"You play e4",
		"Computer plays",
		"Took back 2 plies.",
		board.StartFEN,
		"error:",
		"You play Nf3",
		`[Event "ChessNova game"]`,
		`[Black "ChessNova (hard)"]`,
		"1. Nf3",
		"You resign. 0-1 (resignation)",
		"the game is over",
		"Games: 1 (won 0, lost 1, drawn 0), win rate 0%",
		"Goodbye.",
	)
	if strings.Contains(out, "Hint:") {
		t.Error("commands after quit were executed")
	}

	prefs, err := store.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if prefs.Difficulty != "hard" || prefs.ThinkingTime != time.Millisecond {
		t.Errorf("saved preferences = %+v", prefs)
	}
}

func TestPlayAsBlack(t *testing.T) {
	store := newStore(t)
	out := run(t, store, nil, "new black", "hint", "quit")
	assertContains(t, out, "You play Black.", "Computer plays", "Hint:")

	prefs, _ := store.LoadPreferences()
	if prefs.PlayerColor != "black" {
		t.Errorf("PlayerColor = %q, want black", prefs.PlayerColor)
	}

	// The saved colour is used for the opening game of the next run.
	out = run(t, store, prefs, "quit")
	assertContains(t, out, "You play Black.", "Computer plays")
}

func TestPuzzleFlow(t *testing.T) {
	store := newStore(t)
	out := run(t, store, nil,
		"puzzle back-rank",
		"hint",
		"Re2",
		"Re3",
		"Re8",
		"stats",
	)
	assertContains(t, out,
		"Puzzle back-rank: Back Rank Mate (rating 800)",
		"Checkmate in one move. White to move.",
		"Hint: Look for a back rank checkmate!",
		"Not the move.",
		"Solved!",
		"Puzzle rating: 1,205",
		"Puzzles solved: 1",
	)
	// Only the first wrong attempt costs rating.
	if n := strings.Count(out, "Puzzle rating: 1,190"); n != 1 {
		t.Errorf("failure recorded %d times, want 1:\n%s", n, out)
	}

	progress, err := store.LoadPuzzleProgress()
	if err != nil {
		t.Fatal(err)
	}
	if !progress.IsSolved("back-rank") {
		t.Errorf("progress = %+v", progress)
	}

	// With back-rank solved, the next puzzle is the following one.
	out = run(t, store, nil, "puzzle", "puzzle list")
	assertContains(t, out, "Puzzle scholars-mate:", "[x] back-rank", "[ ] scholars-mate")
}

func TestPuzzleWithReply(t *testing.T) {
	out := run(t, nil, nil, "puzzle royal-fork", "Nc7", "board", "Nxa8")
	assertContains(t, out, "Correct! Opponent replies Kd8.", "Solved!")
	if strings.Contains(out, "Puzzle rating") {
		t.Error("puzzle recorded without storage")
	}
}

func TestBadInputIsReported(t *testing.T) {
	lines := []string{
		"move",
		"moves z9",
		"think abc",
		"think -5",
		"level grandmaster",
		"puzzle nope",
		"new purple",
		"e9e10",
		"Ke2",
		"O-O-O",
		"stats",
		"pgn extra args",
		"draw",
		"undo",
		"undo",
		"resign",
		"resign",
		"draw",
		"hint",
	}
	out := run(t, nil, nil, lines...)
	if n := strings.Count(out, "error:"); n < 12 {
		t.Errorf("only %d errors reported:\n%s", n, out)
	}
	assertContains(t, out,
		"error: unknown level \"grandmaster\"",
		"error: statistics are disabled",
		"The computer declines the draw.",
		"error: session: nothing to undo",
		"error: session: game is over",
	)
}

func TestExportImport(t *testing.T) {
	src := newStore(t)
	file := filepath.Join(t.TempDir(), "backup.json")
	out := run(t, src, nil, "level hard", "e4", "resign", "export", "export "+file)
	assertContains(t, out, `"version": 1`, `"games_played": 1`, "Saved data exported to "+file)

	dst := newStore(t)
	out = run(t, dst, nil, "import "+file, "stats", "import", "import /nonexistent/backup.json")
	assertContains(t, out,
		"Level set to hard",
		"Saved data imported from "+file,
		"Games: 1 (won 0, lost 1, drawn 0)",
		"error: usage: import <file>",
	)
	if n := strings.Count(out, "error:"); n != 2 {
		t.Errorf("%d errors, want 2:\n%s", n, out)
	}
}
