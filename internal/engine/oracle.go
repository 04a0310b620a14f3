// Package engine implements the computer opponent: a static evaluator, a
// depth-limited alpha-beta search and the move selection built on top of it.
//
// The engine never implements chess rules itself. Everything it knows about a
// position comes through an Oracle, so any rules implementation with an
// apply/undo interface can be searched.
package engine

// Side identifies one of the two players.
type Side uint8

const (
	White Side = iota
	Black
)

// Other returns the opposing side.
func (s Side) Other() Side {
	return s ^ 1
}

// String returns the side name.
func (s Side) String() string {
	if s == White {
		return "white"
	}
	return "black"
}

// Kind is a piece type as seen by the evaluator.
type Kind uint8

const (
	None Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// String returns the lowercase piece name.
func (k Kind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "none"
	}
}

// Cell is one square of a Snapshot. Side is meaningless when Kind is None.
type Cell struct {
	Kind Kind
	Side Side
}

// Empty returns true if no piece stands on the cell.
func (c Cell) Empty() bool {
	return c.Kind == None
}

// Snapshot is an 8x8 copy of the board indexed [rank][file], rank 0 being
// White's back rank and file 0 the a-file.
type Snapshot [8][8]Cell

// Pieces returns the number of occupied cells.
func (s *Snapshot) Pieces() int {
	n := 0
	for rank := range s {
		for file := range s[rank] {
			if !s[rank][file].Empty() {
				n++
			}
		}
	}
	return n
}

// Score is an evaluation in centipawns, positive when White stands better.
type Score = int

// Oracle is the rules collaborator the engine searches over. Implementations
// mutate in place: Apply pushes a move and Undo pops the most recent one.
//
// Apply is only ever called with a move returned by LegalMoves on the same
// position. Passing anything else is a contract violation and implementations
// are expected to panic.
type Oracle[M comparable] interface {
	LegalMoves() []M
	IsCapture(m M) bool
	Apply(m M)
	Undo()

	Snapshot() Snapshot
	SideToMove() Side

	InCheck() bool
	IsCheckmate() bool
	IsStalemate() bool
	IsInsufficientMaterial() bool
	IsThreefoldRepetition() bool
	IsDraw() bool
}

// gameOver mirrors the terminal test used by the search.
func gameOver[M comparable](pos Oracle[M]) bool {
	return pos.IsCheckmate() || pos.IsStalemate() || pos.IsDraw() ||
		pos.IsInsufficientMaterial() || pos.IsThreefoldRepetition()
}
