// Package dragontooth adapts the dragontoothmg move generator to the engine's
// rules oracle, so the same search can run over a second, independent
// implementation of the rules.
package dragontooth

import (
	"fmt"
	"math/bits"

	dragon "github.com/dylhunn/dragontoothmg"

	"github.com/hailam/chessnova/internal/board"
	"github.com/hailam/chessnova/internal/engine"
)

const fiftyMoveLimit = 100

// lightSquares has a bit set for every light square, a1 being bit 0.
const lightSquares uint64 = 0x55AA55AA55AA55AA

type ply struct {
	unapply func()
	hash    uint64
}

// Game is a dragontoothmg board with the history the oracle needs for undo
// and repetition. It is not safe for concurrent use.
type Game struct {
	board dragon.Board
	plies []ply
}

var _ engine.Oracle[dragon.Move] = (*Game)(nil)

// NewGame starts a game from a FEN string. dragontoothmg does not validate
// its input, so the FEN is checked by the native board first and the
// normalized form is handed over.
func NewGame(fen string) (*Game, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, fmt.Errorf("dragontooth: %w", err)
	}
	return &Game{board: dragon.ParseFen(pos.ToFEN())}, nil
}

// FEN returns the current position.
func (g *Game) FEN() string {
	return g.board.ToFen()
}

// ParseMove resolves a UCI move string against the legal moves.
func (g *Game) ParseMove(s string) (dragon.Move, error) {
	for _, m := range g.board.GenerateLegalMoves() {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("dragontooth: illegal move %q in %s", s, g.FEN())
}

// LegalMoves returns the legal moves in the library's generation order.
func (g *Game) LegalMoves() []dragon.Move {
	return g.board.GenerateLegalMoves()
}

// IsCapture reports whether m takes a piece, en passant included.
func (g *Game) IsCapture(m dragon.Move) bool {
	ours, theirs := g.sides()
	to := uint64(1) << m.To()
	if theirs.All&to != 0 {
		return true
	}
	from := m.From()
	return ours.Pawns&(uint64(1)<<from) != 0 && from%8 != m.To()%8
}

// Apply plays m, which must come from LegalMoves, and remembers how to take
// it back.
func (g *Game) Apply(m dragon.Move) {
	hash := g.board.Hash()
	g.plies = append(g.plies, ply{unapply: g.board.Apply(m), hash: hash})
}

// Undo takes back the last move. It panics when there is nothing to undo.
func (g *Game) Undo() {
	n := len(g.plies)
	if n == 0 {
		panic("dragontooth: undo with empty history")
	}
	g.plies[n-1].unapply()
	g.plies = g.plies[:n-1]
}

// Plies returns the number of moves applied.
func (g *Game) Plies() int {
	return len(g.plies)
}

// Snapshot copies the board into the engine's 8x8 layout.
func (g *Game) Snapshot() engine.Snapshot {
	var snap engine.Snapshot
	fill := func(bb *dragon.Bitboards, side engine.Side) {
		for _, set := range []struct {
			bits uint64
			kind engine.Kind
		}{
			{bb.Pawns, engine.Pawn},
			{bb.Knights, engine.Knight},
			{bb.Bishops, engine.Bishop},
			{bb.Rooks, engine.Rook},
			{bb.Queens, engine.Queen},
			{bb.Kings, engine.King},
		} {
			for b := set.bits; b != 0; b &= b - 1 {
				sq := bits.TrailingZeros64(b)
				snap[sq/8][sq%8] = engine.Cell{Kind: set.kind, Side: side}
			}
		}
	}
	fill(&g.board.White, engine.White)
	fill(&g.board.Black, engine.Black)
	return snap
}

// SideToMove returns the side whose turn it is.
func (g *Game) SideToMove() engine.Side {
	if g.board.Wtomove {
		return engine.White
	}
	return engine.Black
}

// InCheck reports whether the side to move is in check.
func (g *Game) InCheck() bool {
	return g.board.OurKingInCheck()
}

// IsCheckmate reports whether the side to move is checkmated.
func (g *Game) IsCheckmate() bool {
	return g.InCheck() && len(g.LegalMoves()) == 0
}

// IsStalemate reports whether the side to move has no legal move and is not
// in check.
func (g *Game) IsStalemate() bool {
	return !g.InCheck() && len(g.LegalMoves()) == 0
}

// IsInsufficientMaterial uses the same rule as the native board: at most one
// minor piece, or bishops only and all on one square colour.
func (g *Game) IsInsufficientMaterial() bool {
	w, b := &g.board.White, &g.board.Black
	if w.Pawns|b.Pawns|w.Rooks|b.Rooks|w.Queens|b.Queens != 0 {
		return false
	}
	knights := w.Knights | b.Knights
	bishops := w.Bishops | b.Bishops
	switch {
	case bits.OnesCount64(knights|bishops) <= 1:
		return true
	case knights == 0:
		return bishops&lightSquares == 0 || bishops&^lightSquares == 0
	}
	return false
}

// IsThreefoldRepetition reports whether the current position has occurred
// three times since the last irreversible move.
func (g *Game) IsThreefoldRepetition() bool {
	current := g.board.Hash()
	seen := 1
	window := min(int(g.board.Halfmoveclock), len(g.plies))
	for _, p := range g.plies[len(g.plies)-window:] {
		if p.hash == current {
			seen++
		}
	}
	return seen >= 3
}

// IsDraw reports stalemate, insufficient material, threefold repetition or
// the fifty-move rule.
func (g *Game) IsDraw() bool {
	return g.IsStalemate() || g.IsInsufficientMaterial() || g.IsThreefoldRepetition() ||
		int(g.board.Halfmoveclock) >= fiftyMoveLimit
}

// sides returns the bitboards of the side to move and of its opponent.
func (g *Game) sides() (ours, theirs *dragon.Bitboards) {
	if g.board.Wtomove {
		return &g.board.White, &g.board.Black
	}
	return &g.board.Black, &g.board.White
}
