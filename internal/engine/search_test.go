package engine_test

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/hailam/chessnova/internal/board"
	"github.com/hailam/chessnova/internal/engine"
)

// minimax is an unpruned reference search with the same leaf scoring as the
// engine.
func minimax(pos engine.Oracle[board.Move], depth, ply int, maximizing bool, nodes *int) engine.Score {
	*nodes++
	over := pos.IsCheckmate() || pos.IsStalemate() || pos.IsDraw() ||
		pos.IsInsufficientMaterial() || pos.IsThreefoldRepetition()
	if depth <= 0 || over {
		score := engine.Evaluate(pos)
		switch score {
		case engine.MateScore:
			score -= ply
		case -engine.MateScore:
			score += ply
		}
		return score
	}

	best := engine.Infinity
	if maximizing {
		best = -engine.Infinity
	}
	for _, m := range pos.LegalMoves() {
		pos.Apply(m)
		score := minimax(pos, depth-1, ply+1, !maximizing, nodes)
		pos.Undo()
		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}
	return best
}

var searchPositions = []struct {
	name  string
	fen   string
	depth int
}{
	{"start", board.StartFEN, 3},
	{"position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3},
	{"back rank", "6k1/5ppp/8/8/8/8/5PPP/4R1K1 w - - 0 1", 3},
	{"black to move", "4r1k1/5ppp/8/8/8/8/5PPP/6K1 b - - 0 1", 3},
	{"capture", "4k3/8/8/3q4/8/8/8/3RK3 w - - 0 1", 2},
}

func TestSearchMatchesMinimax(t *testing.T) {
	for _, tc := range searchPositions {
		t.Run(tc.name, func(t *testing.T) {
			g := mustGame(t, tc.fen)
			maximizing := g.SideToMove() == engine.White

			for depth := 1; depth <= tc.depth; depth++ {
				var refNodes int
				want := minimax(g, depth, 0, maximizing, &refNodes)

				s := engine.NewSearcher[board.Move](nil)
				got, err := s.Search(g, depth, -engine.Infinity, engine.Infinity, maximizing)
				if err != nil {
					t.Fatalf("depth %d: %v", depth, err)
				}
				if got != want {
					t.Errorf("depth %d: Search = %d, minimax = %d", depth, got, want)
				}
				if s.Nodes() > uint64(refNodes) {
					t.Errorf("depth %d: alpha-beta visited %d nodes, minimax %d", depth, s.Nodes(), refNodes)
				}
			}
			if g.FEN() != tc.fen {
				t.Errorf("position changed by search: %s", g.FEN())
			}
		})
	}
}

func TestAnalyseMatchesMinimax(t *testing.T) {
	for _, tc := range searchPositions {
		t.Run(tc.name, func(t *testing.T) {
			g := mustGame(t, tc.fen)
			eng := engine.New[board.Move](engine.Options{Seed: 1})
			p := engine.Profile{Name: "test", Depth: tc.depth}

			scored, err := eng.AnalyseWith(g, p)
			if err != nil {
				t.Fatal(err)
			}
			if len(scored) != len(g.LegalMoves()) {
				t.Fatalf("Analyse returned %d moves, want %d", len(scored), len(g.LegalMoves()))
			}

			maximizing := g.SideToMove() == engine.White
			for i, sm := range scored {
				var nodes int
				g.Apply(sm.Move)
				want := minimax(g, tc.depth-1, 1, !maximizing, &nodes)
				g.Undo()
				if sm.Score != want {
					t.Errorf("%s: score %d, minimax %d", sm.Move, sm.Score, want)
				}
				if i > 0 {
					prev := scored[i-1].Score
					if maximizing && sm.Score > prev || !maximizing && sm.Score < prev {
						t.Errorf("Analyse not sorted best first at %d: %d after %d", i, sm.Score, prev)
					}
				}
			}
		})
	}
}

func TestSearchPrefersShorterMate(t *testing.T) {
	// Re8 mates at once; the search must not wander into a longer mate.
	g := mustGame(t, "6k1/5ppp/8/8/8/8/5PPP/4R1K1 w - - 0 1")
	s := engine.NewSearcher[board.Move](nil)
	score, err := s.Search(g, 4, -engine.Infinity, engine.Infinity, true)
	if err != nil {
		t.Fatal(err)
	}
	if score != engine.MateScore-1 {
		t.Errorf("Search = %d (%s), want %d", score, engine.ScoreToString(score), engine.MateScore-1)
	}
	if !engine.IsMateScore(score) || engine.MateDistance(score) != 1 {
		t.Errorf("mate helpers disagree: IsMateScore=%v MateDistance=%d", engine.IsMateScore(score), engine.MateDistance(score))
	}
}

func TestSearchTerminalPositions(t *testing.T) {
	tests := []struct {
		fen        string
		maximizing bool
		want       engine.Score
	}{
		{"R6k/6pp/8/8/8/8/8/K7 b - - 0 1", false, engine.MateScore},
		{"k7/8/8/8/8/8/6PP/r6K w - - 0 1", true, -engine.MateScore},
		{"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", false, 0},
	}
	for _, tc := range tests {
		g := mustGame(t, tc.fen)
		got, err := engine.NewSearcher[board.Move](nil).Search(g, 3, -engine.Infinity, engine.Infinity, tc.maximizing)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Errorf("%s: Search = %d, want %d", tc.fen, got, tc.want)
		}
	}
}

func TestSearchStopped(t *testing.T) {
	var stop atomic.Bool
	stop.Store(true)

	g := board.NewGame()
	s := engine.NewSearcher[board.Move](&stop)
	if _, err := s.Search(g, 4, -engine.Infinity, engine.Infinity, true); !errors.Is(err, engine.ErrStopped) {
		t.Errorf("Search error = %v, want ErrStopped", err)
	}
	if g.Plies() != 0 {
		t.Errorf("stopped search left %d plies applied", g.Plies())
	}
}
