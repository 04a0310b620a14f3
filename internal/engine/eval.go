package engine

// Evaluation constants
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 20000
)

// Search bounds. MateScore saturates every checkmate evaluation and Infinity
// stays strictly outside any reachable score.
const (
	MateScore Score = 1_000_000
	Infinity  Score = 2 * MateScore
)

const (
	mobilityWeight = 5
	checkPenalty   = 50

	// endgamePieces is the total piece count, kings included, at or below
	// which the king switches to its endgame table.
	endgamePieces = 10
)

// pieceValues is indexed by Kind.
var pieceValues = [7]int{0, PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue}

// Piece-square tables are written from White's point of view with row 0 being
// the eighth rank, so a white piece on rank r reads row 7-r and a black piece
// reads row r.
type pieceSquareTable [8][8]int

var pawnTable = pieceSquareTable{
	{0, 0, 0, 0, 0, 0, 0, 0},
	{50, 50, 50, 50, 50, 50, 50, 50},
	{10, 10, 20, 30, 30, 20, 10, 10},
	{5, 5, 10, 25, 25, 10, 5, 5},
	{0, 0, 0, 20, 20, 0, 0, 0},
	{5, -5, -10, 0, 0, -10, -5, 5},
	{5, 10, 10, -20, -20, 10, 10, 5},
	{0, 0, 0, 0, 0, 0, 0, 0},
}

var knightTable = pieceSquareTable{
	{-50, -40, -30, -30, -30, -30, -40, -50},
	{-40, -20, 0, 0, 0, 0, -20, -40},
	{-30, 0, 10, 15, 15, 10, 0, -30},
	{-30, 5, 15, 20, 20, 15, 5, -30},
	{-30, 0, 15, 20, 20, 15, 0, -30},
	{-30, 5, 10, 15, 15, 10, 5, -30},
	{-40, -20, 0, 5, 5, 0, -20, -40},
	{-50, -40, -30, -30, -30, -30, -40, -50},
}

var bishopTable = pieceSquareTable{
	{-20, -10, -10, -10, -10, -10, -10, -20},
	{-10, 0, 0, 0, 0, 0, 0, -10},
	{-10, 0, 5, 10, 10, 5, 0, -10},
	{-10, 5, 5, 10, 10, 5, 5, -10},
	{-10, 0, 10, 10, 10, 10, 0, -10},
	{-10, 10, 10, 10, 10, 10, 10, -10},
	{-10, 5, 0, 0, 0, 0, 5, -10},
	{-20, -10, -10, -10, -10, -10, -10, -20},
}

var rookTable = pieceSquareTable{
	{0, 0, 0, 0, 0, 0, 0, 0},
	{5, 10, 10, 10, 10, 10, 10, 5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{0, 0, 0, 5, 5, 0, 0, 0},
}

var queenTable = pieceSquareTable{
	{-20, -10, -10, -5, -5, -10, -10, -20},
	{-10, 0, 0, 0, 0, 0, 0, -10},
	{-10, 0, 5, 5, 5, 5, 0, -10},
	{-5, 0, 5, 5, 5, 5, 0, -5},
	{0, 0, 5, 5, 5, 5, 0, -5},
	{-10, 5, 5, 5, 5, 5, 0, -10},
	{-10, 0, 5, 0, 0, 0, 0, -10},
	{-20, -10, -10, -5, -5, -10, -10, -20},
}

var kingTable = pieceSquareTable{
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-20, -30, -30, -40, -40, -30, -30, -20},
	{-10, -20, -20, -20, -20, -20, -20, -10},
	{20, 20, 0, 0, 0, 0, 20, 20},
	{20, 30, 10, 0, 0, 10, 30, 20},
}

var kingEndgameTable = pieceSquareTable{
	{-50, -40, -30, -20, -20, -30, -40, -50},
	{-30, -20, -10, 0, 0, -10, -20, -30},
	{-30, -10, 20, 30, 30, 20, -10, -30},
	{-30, -10, 30, 40, 40, 30, -10, -30},
	{-30, -10, 30, 40, 40, 30, -10, -30},
	{-30, -10, 20, 30, 30, 20, -10, -30},
	{-30, -30, 0, 0, 0, 0, -30, -30},
	{-50, -30, -30, -30, -30, -30, -30, -50},
}

// middlegameTables is indexed by Kind.
var middlegameTables = [7]*pieceSquareTable{
	nil, &pawnTable, &knightTable, &bishopTable, &rookTable, &queenTable, &kingTable,
}

// bonus returns the piece-square bonus for a piece of side s on (rank, file).
func (t *pieceSquareTable) bonus(s Side, rank, file int) int {
	if s == White {
		return t[7-rank][file]
	}
	return t[rank][file]
}

// Evaluate returns the static evaluation of pos from White's point of view.
// Checkmate saturates at -MateScore when White is mated and +MateScore when
// Black is; every drawn position is exactly 0. Evaluate does not mutate pos.
func Evaluate[M comparable](pos Oracle[M]) Score {
	if pos.IsCheckmate() {
		if pos.SideToMove() == White {
			return -MateScore
		}
		return MateScore
	}
	if pos.IsDraw() || pos.IsStalemate() || pos.IsThreefoldRepetition() || pos.IsInsufficientMaterial() {
		return 0
	}

	snap := pos.Snapshot()
	score := material(&snap)

	mobility := len(pos.LegalMoves()) * mobilityWeight
	if pos.SideToMove() == White {
		score += mobility
	} else {
		score -= mobility
	}

	if pos.InCheck() {
		if pos.SideToMove() == White {
			score -= checkPenalty
		} else {
			score += checkPenalty
		}
	}

	return score
}

// material sums piece values and piece-square bonuses over the board.
func material(snap *Snapshot) Score {
	kings := &kingTable
	if snap.Pieces() <= endgamePieces {
		kings = &kingEndgameTable
	}

	score := 0
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			c := snap[rank][file]
			if c.Empty() {
				continue
			}
			table := middlegameTables[c.Kind]
			if c.Kind == King {
				table = kings
			}
			v := pieceValues[c.Kind] + table.bonus(c.Side, rank, file)
			if c.Side == White {
				score += v
			} else {
				score -= v
			}
		}
	}
	return score
}

// IsMateScore returns true if s encodes a forced mate rather than a
// positional evaluation.
func IsMateScore(s Score) bool {
	return s >= MateScore-maxPly || s <= -MateScore+maxPly
}

// MateDistance returns the number of plies to the mate encoded in s, or 0 if
// s is not a mate score.
func MateDistance(s Score) int {
	switch {
	case s >= MateScore-maxPly:
		return MateScore - s
	case s <= -MateScore+maxPly:
		return MateScore + s
	}
	return 0
}
