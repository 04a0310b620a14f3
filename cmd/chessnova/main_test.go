package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &out)
	return out.String(), err
}

func TestPerft(t *testing.T) {
	out, err := runCLI(t, "", "perft", "-depth", "3")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Nodes: 8,902") || !strings.Contains(out, "e2e4: 600") {
		t.Errorf("perft output:\n%s", out)
	}
}

func TestAnalyseBothOracles(t *testing.T) {
	const fen = "6k1/5ppp/8/8/8/8/5PPP/4R1K1 w - - 0 1"
	for _, tc := range []struct{ oracle, best string }{
		{"native", "Re8#"},
		{"dragontooth", "e1e8"},
	} {
		out, err := runCLI(t, "", "-seed", "1", "analyse", "-oracle", tc.oracle, "-fen", fen, "-depth", "2")
		if err != nil {
			t.Fatalf("%s: %v", tc.oracle, err)
		}
		if !strings.Contains(out, "  1. "+tc.best) || !strings.Contains(out, "mate in 1") {
			t.Errorf("%s output:\n%s", tc.oracle, out)
		}
	}
}

func TestPuzzlesCommand(t *testing.T) {
	out, err := runCLI(t, "", "puzzles", "list")
	if err != nil || !strings.Contains(out, "back-rank") {
		t.Errorf("puzzles list = %q, %v", out, err)
	}
	out, err = runCLI(t, "", "puzzles", "verify")
	if err != nil || !strings.Contains(out, "puzzles verified") {
		t.Errorf("puzzles verify = %q, %v", out, err)
	}
}

func TestPlayFirstLaunch(t *testing.T) {
	dir := t.TempDir()
	args := []string{"-data-dir", dir, "-think", "1ms", "-difficulty", "easy", "play"}

	out, err := runCLI(t, "level hard\nquit\n", args...)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Welcome to ChessNova!") || !strings.Contains(out, "(easy)") {
		t.Errorf("first run output:\n%s", out)
	}

	// The flag still wins over the saved level on the next run.
	out, err = runCLI(t, "quit\n", args...)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "Welcome") || !strings.Contains(out, "(easy)") {
		t.Errorf("second run output:\n%s", out)
	}

	// Without the flag the saved level is used.
	out, err = runCLI(t, "quit\n", "-data-dir", dir, "-think", "1ms")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "(hard)") {
		t.Errorf("third run output:\n%s", out)
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, err := runCLI(t, "", "fly"); err == nil {
		t.Error("unknown command accepted")
	}
	if _, err := runCLI(t, "", "-difficulty", "godlike", "perft"); err == nil {
		t.Error("unknown difficulty accepted")
	}
	if _, err := runCLI(t, "", "analyse", "-oracle", "magic"); err == nil {
		t.Error("unknown oracle accepted")
	}
	for _, oracle := range []string{"native", "dragontooth"} {
		if _, err := runCLI(t, "", "analyse", "-oracle", oracle, "-fen", "x y z w"); err == nil {
			t.Errorf("%s: malformed FEN accepted", oracle)
		}
	}
}
