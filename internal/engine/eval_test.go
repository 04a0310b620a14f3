package engine_test

import (
	"testing"

	"github.com/hailam/chessnova/internal/board"
	"github.com/hailam/chessnova/internal/engine"
)

func mustGame(t testing.TB, fen string) *board.Game {
	t.Helper()
	g, err := board.NewGameFromFEN(fen)
	if err != nil {
		t.Fatalf("NewGameFromFEN(%q): %v", fen, err)
	}
	return g
}

func play(t testing.TB, g *board.Game, moves ...string) {
	t.Helper()
	for _, s := range moves {
		m, err := g.ParseMoveText(s)
		if err != nil {
			t.Fatalf("ParseMoveText(%q): %v", s, err)
		}
		g.Apply(m)
	}
}

func TestEvaluateCheckmate(t *testing.T) {
	blackMated := mustGame(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if got := engine.Evaluate[board.Move](blackMated); got != engine.MateScore {
		t.Errorf("black mated: Evaluate = %d, want %d", got, engine.MateScore)
	}

	whiteMated := mustGame(t, "k7/8/8/8/8/8/6PP/r6K w - - 0 1")
	if got := engine.Evaluate[board.Move](whiteMated); got != -engine.MateScore {
		t.Errorf("white mated: Evaluate = %d, want %d", got, -engine.MateScore)
	}
}

func TestEvaluateDraws(t *testing.T) {
	stalemate := mustGame(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if got := engine.Evaluate[board.Move](stalemate); got != 0 {
		t.Errorf("stalemate: Evaluate = %d, want 0", got)
	}

	insufficient := mustGame(t, "8/8/8/4k3/8/8/8/4KB2 w - - 0 1")
	if got := engine.Evaluate[board.Move](insufficient); got != 0 {
		t.Errorf("insufficient material: Evaluate = %d, want 0", got)
	}

	repeated := board.NewGame()
	play(t, repeated, "Nf3", "Nf6", "Ng1", "Ng8", "Nf3", "Nf6", "Ng1", "Ng8")
	if !repeated.IsThreefoldRepetition() {
		t.Fatal("expected threefold repetition")
	}
	if got := engine.Evaluate[board.Move](repeated); got != 0 {
		t.Errorf("threefold repetition: Evaluate = %d, want 0", got)
	}
}

func TestEvaluateStartPosition(t *testing.T) {
	// Material and tables cancel out; only White's 20 moves count.
	g := board.NewGame()
	if got := engine.Evaluate[board.Move](g); got != 100 {
		t.Errorf("Evaluate(start) = %d, want 100", got)
	}
}

func TestEvaluateIsSymmetric(t *testing.T) {
	// The same structure with colours swapped and the board flipped must
	// evaluate to the negated score.
	white := mustGame(t, "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3")
	black := mustGame(t, "rnbqkb1r/pppp1ppp/5n2/4p3/4P3/2N5/PPPP1PPP/R1BQKBNR b KQkq - 2 3")
	w := engine.Evaluate[board.Move](white)
	b := engine.Evaluate[board.Move](black)
	if w != -b {
		t.Errorf("Evaluate = %d and %d, want negations of each other", w, b)
	}
}

func TestEvaluateCheckPenalty(t *testing.T) {
	// Black to move and in check from the queen.
	g := mustGame(t, "4k3/8/8/8/8/8/8/4QK2 b - - 0 1")
	checked := engine.Evaluate[board.Move](g)
	if !g.InCheck() {
		t.Fatal("expected check")
	}

	// Same material, no check: move the queen off the e-file.
	quiet := mustGame(t, "4k3/8/8/8/8/8/8/3Q1K2 b - - 0 1")
	if q := engine.Evaluate[board.Move](quiet); q >= checked {
		t.Errorf("check bonus not applied: %d (check) vs %d (quiet)", checked, q)
	}
}

func TestEvaluateDoesNotMutate(t *testing.T) {
	g := mustGame(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	before, snap := g.FEN(), g.Snapshot()
	first := engine.Evaluate[board.Move](g)
	second := engine.Evaluate[board.Move](g)
	if first != second {
		t.Errorf("Evaluate not deterministic: %d then %d", first, second)
	}
	if g.FEN() != before || g.Snapshot() != snap {
		t.Error("Evaluate changed the position")
	}
}

func TestScoreToString(t *testing.T) {
	tests := []struct {
		score engine.Score
		want  string
	}{
		{0, "0.00"},
		{125, "1.25"},
		{-305, "-3.05"},
		{engine.MateScore - 1, "mate in 1"},
		{engine.MateScore - 3, "mate in 2"},
		{-(engine.MateScore - 2), "mated in 1"},
	}
	for _, tc := range tests {
		if got := engine.ScoreToString(tc.score); got != tc.want {
			t.Errorf("ScoreToString(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}
