package puzzle

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/chessnova/internal/board"
	"github.com/hailam/chessnova/internal/engine"
)

// Verify checks puzzles concurrently: every solution line must be legal,
// mate-in-one puzzles must end in checkmate, and the engine's hint must find
// the mating move. The first problem found is returned.
func Verify(ctx context.Context, eng *engine.Engine[board.Move], puzzles []Puzzle) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, p := range puzzles {
		p := p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return verify(eng, p)
		})
	}
	return g.Wait()
}

func verify(eng *engine.Engine[board.Move], p Puzzle) error {
	game, err := board.NewGameFromFEN(p.FEN)
	if err != nil {
		return fmt.Errorf("puzzle %s: %w", p.ID, err)
	}

	if p.Kind == MateInOne {
		hint, ok := eng.Hint(game)
		if !ok {
			return fmt.Errorf("puzzle %s: no legal move in the start position", p.ID)
		}
		if san := game.Describe(hint).SAN; !sameMove(san, p.Solution[0]) {
			return fmt.Errorf("puzzle %s: engine plays %s, solution is %s", p.ID, san, p.Solution[0])
		}
	}

	for i, san := range p.Solution {
		m, err := game.ParseMoveText(san)
		if err != nil {
			return fmt.Errorf("puzzle %s: move %d %q: %w", p.ID, i+1, san, err)
		}
		if got := game.Describe(m).SAN; got != san {
			return fmt.Errorf("puzzle %s: move %d written %q, should be %q", p.ID, i+1, san, got)
		}
		game.Apply(m)
	}

	if p.Kind == MateInOne && (len(p.Solution) != 1 || !game.IsCheckmate()) {
		return fmt.Errorf("puzzle %s: solution does not mate in one", p.ID)
	}
	return nil
}
