package board

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hailam/chessnova/internal/engine"
)

// fiftyMoveLimit is the half-move clock value that ends the game.
const fiftyMoveLimit = 100

// Termination says why a game ended.
type Termination int

const (
	Ongoing Termination = iota
	Checkmate
	Stalemate
	InsufficientMaterial
	ThreefoldRepetition
	FiftyMoveRule
)

// String returns a human-readable reason.
func (t Termination) String() string {
	switch t {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case InsufficientMaterial:
		return "insufficient material"
	case ThreefoldRepetition:
		return "threefold repetition"
	case FiftyMoveRule:
		return "fifty-move rule"
	default:
		return "ongoing"
	}
}

// Outcome is the state of a game according to the rules alone.
type Outcome struct {
	Termination Termination
	Winner      Color // NoColor unless Termination is Checkmate
}

// Result returns the PGN result token: "1-0", "0-1", "1/2-1/2" or "*".
func (o Outcome) Result() string {
	switch {
	case o.Termination == Ongoing:
		return "*"
	case o.Winner == White:
		return "1-0"
	case o.Winner == Black:
		return "0-1"
	default:
		return "1/2-1/2"
	}
}

// MoveInfo describes a legal move for display.
type MoveInfo struct {
	Move      Move
	From, To  Square
	Piece     PieceType
	Promotion PieceType // NoPieceType unless promoting
	Captured  PieceType // NoPieceType unless capturing
	IsCapture bool
	IsCheck   bool
	SAN       string
}

type ply struct {
	move Move
	undo UndoInfo
}

// Game is a position with its move history. It implements
// engine.Oracle[Move]: Apply and Undo push and pop moves, and the status
// queries take the history into account for repetition.
//
// A Game is not safe for concurrent use.
type Game struct {
	pos      *Position
	startFEN string
	plies    []ply
	hashes   []uint64 // hash of every position reached, the current one last

	// legal caches the legal moves of the current position.
	legal      []Move
	legalValid bool
}

var _ engine.Oracle[Move] = (*Game)(nil)

// NewGame starts a game from the initial position.
func NewGame() *Game {
	g, err := NewGameFromFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return g
}

// NewGameFromFEN starts a game from an arbitrary position.
func NewGameFromFEN(fen string) (*Game, error) {
	pos, err := ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return &Game{
		pos:      pos,
		startFEN: pos.ToFEN(),
		hashes:   []uint64{pos.Hash},
	}, nil
}

// Position returns a copy of the current position.
func (g *Game) Position() *Position {
	return g.pos.Copy()
}

// legalMoves returns the cached legal moves. Callers must not modify the
// returned slice.
func (g *Game) legalMoves() []Move {
	if !g.legalValid {
		g.legal = append(g.legal[:0], g.pos.GenerateLegalMoves().Slice()...)
		g.legalValid = true
	}
	return g.legal
}

// LegalMoves returns the legal moves in the current position. The slice is
// owned by the caller.
func (g *Game) LegalMoves() []Move {
	return slices.Clone(g.legalMoves())
}

// LegalMovesFrom returns the legal moves of the piece standing on sq.
func (g *Game) LegalMovesFrom(sq Square) []Move {
	var out []Move
	for _, m := range g.legalMoves() {
		if m.From() == sq {
			out = append(out, m)
		}
	}
	return out
}

// IsLegal returns true if m can be played now.
func (g *Game) IsLegal(m Move) bool {
	return slices.Contains(g.legalMoves(), m)
}

// IsCapture returns true if m takes a piece.
func (g *Game) IsCapture(m Move) bool {
	return m.IsEnPassant() || (!m.IsCastling() && !g.pos.IsEmpty(m.To()))
}

// Describe returns display details for a legal move.
func (g *Game) Describe(m Move) MoveInfo {
	info := MoveInfo{
		Move:      m,
		From:      m.From(),
		To:        m.To(),
		Piece:     g.pos.PieceAt(m.From()).Type(),
		Promotion: m.Promotion(),
		Captured:  NoPieceType,
		IsCapture: g.IsCapture(m),
		SAN:       m.ToSAN(g.pos),
	}
	if m.IsEnPassant() {
		info.Captured = Pawn
	} else if info.IsCapture {
		info.Captured = g.pos.PieceAt(m.To()).Type()
	}
	info.IsCheck = strings.ContainsAny(info.SAN, "+#")
	return info
}

// Apply plays m, which must come from LegalMoves. A move that is not even
// playable for the side to move panics.
func (g *Game) Apply(m Move) {
	undo := g.pos.MakeMove(m)
	if !undo.Valid {
		g.pos.UnmakeMove(m, undo)
		panic(fmt.Sprintf("board: illegal move %s in %s", m, g.pos.ToFEN()))
	}
	g.plies = append(g.plies, ply{move: m, undo: undo})
	g.hashes = append(g.hashes, g.pos.Hash)
	g.legalValid = false
}

// Push plays m after checking that it is legal.
func (g *Game) Push(m Move) error {
	if !g.IsLegal(m) {
		return fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}
	g.Apply(m)
	return nil
}

// Undo takes back the last move. It panics when there is nothing to undo.
func (g *Game) Undo() {
	n := len(g.plies)
	if n == 0 {
		panic("board: undo with empty history")
	}
	last := g.plies[n-1]
	g.pos.UnmakeMove(last.move, last.undo)
	g.plies = g.plies[:n-1]
	g.hashes = g.hashes[:len(g.hashes)-1]
	g.legalValid = false
}

// Plies returns the number of moves played since the game started.
func (g *Game) Plies() int {
	return len(g.plies)
}

// History returns the moves played since the game started.
func (g *Game) History() []Move {
	out := make([]Move, len(g.plies))
	for i, p := range g.plies {
		out[i] = p.move
	}
	return out
}

// SANHistory returns the moves played in SAN.
func (g *Game) SANHistory() []string {
	start, err := ParseFEN(g.startFEN)
	if err != nil {
		panic(err)
	}
	return MovesToSAN(start, g.History())
}

// StartFEN returns the FEN the game started from.
func (g *Game) StartFEN() string {
	return g.startFEN
}

// FEN returns the FEN of the current position.
func (g *Game) FEN() string {
	return g.pos.ToFEN()
}

// Turn returns the colour to move.
func (g *Game) Turn() Color {
	return g.pos.SideToMove
}

// SideToMove returns the side to move in engine terms.
func (g *Game) SideToMove() engine.Side {
	if g.pos.SideToMove == White {
		return engine.White
	}
	return engine.Black
}

var engineKinds = [...]engine.Kind{
	Pawn:   engine.Pawn,
	Knight: engine.Knight,
	Bishop: engine.Bishop,
	Rook:   engine.Rook,
	Queen:  engine.Queen,
	King:   engine.King,
}

// Snapshot returns the board as an 8x8 grid indexed [rank][file].
func (g *Game) Snapshot() engine.Snapshot {
	var snap engine.Snapshot
	for c := White; c <= Black; c++ {
		side := engine.Side(c)
		for pt := Pawn; pt <= King; pt++ {
			bb := g.pos.Pieces[c][pt]
			for bb != 0 {
				sq := bb.PopLSB()
				snap[sq.Rank()][sq.File()] = engine.Cell{Kind: engineKinds[pt], Side: side}
			}
		}
	}
	return snap
}

// InCheck returns true if the side to move is in check.
func (g *Game) InCheck() bool {
	return g.pos.InCheck()
}

// IsCheckmate returns true if the side to move is checkmated.
func (g *Game) IsCheckmate() bool {
	return g.pos.InCheck() && len(g.legalMoves()) == 0
}

// IsStalemate returns true if the side to move has no legal move and is not
// in check.
func (g *Game) IsStalemate() bool {
	return !g.pos.InCheck() && len(g.legalMoves()) == 0
}

// IsInsufficientMaterial returns true if neither side can force mate.
func (g *Game) IsInsufficientMaterial() bool {
	return g.pos.IsInsufficientMaterial()
}

// IsThreefoldRepetition returns true if the current position has occurred at
// least three times.
func (g *Game) IsThreefoldRepetition() bool {
	current := g.pos.Hash
	seen := 0
	// Positions before the last capture or pawn move can not repeat.
	window := min(g.pos.HalfMoveClock, len(g.hashes)-1)
	for _, h := range g.hashes[len(g.hashes)-1-window:] {
		if h == current {
			seen++
		}
	}
	return seen >= 3
}

// IsFiftyMoveRule returns true if fifty moves passed by each side without a
// capture or pawn move.
func (g *Game) IsFiftyMoveRule() bool {
	return g.pos.HalfMoveClock >= fiftyMoveLimit
}

// IsDraw returns true if the game is drawn by rule.
func (g *Game) IsDraw() bool {
	return g.IsStalemate() || g.IsInsufficientMaterial() || g.IsThreefoldRepetition() || g.IsFiftyMoveRule()
}

// IsGameOver returns true if the game ended by mate or by a drawing rule.
func (g *Game) IsGameOver() bool {
	return g.Outcome().Termination != Ongoing
}

// Outcome reports whether and how the game has ended.
func (g *Game) Outcome() Outcome {
	switch {
	case g.IsCheckmate():
		return Outcome{Termination: Checkmate, Winner: g.pos.SideToMove.Other()}
	case g.IsStalemate():
		return Outcome{Termination: Stalemate, Winner: NoColor}
	case g.IsInsufficientMaterial():
		return Outcome{Termination: InsufficientMaterial, Winner: NoColor}
	case g.IsThreefoldRepetition():
		return Outcome{Termination: ThreefoldRepetition, Winner: NoColor}
	case g.IsFiftyMoveRule():
		return Outcome{Termination: FiftyMoveRule, Winner: NoColor}
	}
	return Outcome{Termination: Ongoing, Winner: NoColor}
}

// ParseMoveText resolves a move typed as UCI coordinates ("e2e4", "e7e8q")
// or SAN ("Nf3", "exd5", "O-O", "e8=Q+").
func (g *Game) ParseMoveText(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoMove, fmt.Errorf("empty move")
	}
	if looksLikeUCI(s) {
		if m, err := ParseMove(strings.ToLower(s), g.pos); err == nil {
			return m, nil
		}
	}
	return ParseSAN(s, g.pos)
}

func looksLikeUCI(s string) bool {
	if len(s) != 4 && len(s) != 5 {
		return false
	}
	_, err1 := ParseSquare(strings.ToLower(s[0:2]))
	_, err2 := ParseSquare(strings.ToLower(s[2:4]))
	return err1 == nil && err2 == nil
}

// String draws the current position.
func (g *Game) String() string {
	return g.pos.String()
}
