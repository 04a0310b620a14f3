package board

// Pre-computed attack tables
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [Color][Square]

	// rays[d][sq] holds every square from sq outward in direction d,
	// excluding sq itself.
	rays [8][64]Bitboard

	betweenBB [64][64]Bitboard // squares strictly between two aligned squares
)

// Ray directions. The first four increase the square index, the last four
// decrease it, which decides whether the nearest blocker is the LSB or MSB.
const (
	dirNorth = iota
	dirEast
	dirNorthEast
	dirNorthWest
	dirSouth
	dirWest
	dirSouthWest
	dirSouthEast
)

var rayStep = [8][2]int{ // {file, rank}
	dirNorth:     {0, 1},
	dirEast:      {1, 0},
	dirNorthEast: {1, 1},
	dirNorthWest: {-1, 1},
	dirSouth:     {0, -1},
	dirWest:      {-1, 0},
	dirSouthWest: {-1, -1},
	dirSouthEast: {1, -1},
}

func init() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		knightAttacks[sq] = stepAttacks(sq, [][2]int{
			{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
		})
		kingAttacks[sq] = bb.North() | bb.South() | bb.East() | bb.West() |
			bb.NorthEast() | bb.NorthWest() | bb.SouthEast() | bb.SouthWest()
		pawnAttacks[White][sq] = bb.NorthEast() | bb.NorthWest()
		pawnAttacks[Black][sq] = bb.SouthEast() | bb.SouthWest()

		for d, step := range rayStep {
			f, r := sq.File()+step[0], sq.Rank()+step[1]
			for onBoard(f, r) {
				rays[d][sq] |= SquareBB(NewSquare(f, r))
				f += step[0]
				r += step[1]
			}
		}
	}

	for from := A1; from <= H8; from++ {
		for d := range rays {
			ray := rays[d][from]
			for ray != 0 {
				to := ray.PopLSB()
				betweenBB[from][to] = rays[d][from] &^ rays[d][to] &^ SquareBB(to)
			}
		}
	}
}

func onBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

func stepAttacks(sq Square, steps [][2]int) Bitboard {
	var bb Bitboard
	for _, s := range steps {
		f, r := sq.File()+s[0], sq.Rank()+s[1]
		if onBoard(f, r) {
			bb |= SquareBB(NewSquare(f, r))
		}
	}
	return bb
}

// rayAttacks returns the squares a slider on sq reaches in direction d,
// stopping at and including the first occupied square.
func rayAttacks(d int, sq Square, occupied Bitboard) Bitboard {
	ray := rays[d][sq]
	blockers := ray & occupied
	if blockers == 0 {
		return ray
	}
	var first Square
	if d < dirSouth {
		first = blockers.LSB()
	} else {
		first = blockers.MSB()
	}
	return ray &^ rays[d][first]
}

// KnightAttacks returns the knight attack set for a square.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack set for a square.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the squares a pawn of colour c on sq attacks.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c][sq]
}

// BishopAttacks returns the bishop attack set for a square and occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(dirNorthEast, sq, occupied) | rayAttacks(dirNorthWest, sq, occupied) |
		rayAttacks(dirSouthEast, sq, occupied) | rayAttacks(dirSouthWest, sq, occupied)
}

// RookAttacks returns the rook attack set for a square and occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(dirNorth, sq, occupied) | rayAttacks(dirEast, sq, occupied) |
		rayAttacks(dirSouth, sq, occupied) | rayAttacks(dirWest, sq, occupied)
}

// QueenAttacks returns the queen attack set for a square and occupancy.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}

// Between returns the squares strictly between two squares on a shared line,
// or an empty set if they are not aligned.
func Between(a, b Square) Bitboard {
	return betweenBB[a][b]
}

// AttackersByColor returns the pieces of colour c attacking sq given the
// occupancy.
func (p *Position) AttackersByColor(sq Square, c Color, occupied Bitboard) Bitboard {
	pieces := &p.Pieces[c]
	return (pawnAttacks[c.Other()][sq] & pieces[Pawn]) |
		(knightAttacks[sq] & pieces[Knight]) |
		(kingAttacks[sq] & pieces[King]) |
		(BishopAttacks(sq, occupied) & (pieces[Bishop] | pieces[Queen])) |
		(RookAttacks(sq, occupied) & (pieces[Rook] | pieces[Queen]))
}

// IsSquareAttacked returns true if colour c attacks sq.
func (p *Position) IsSquareAttacked(sq Square, c Color) bool {
	return p.AttackersByColor(sq, c, p.AllOccupied) != 0
}

// updateCheckers recomputes the pieces checking the side to move.
func (p *Position) updateCheckers() {
	us := p.SideToMove
	if p.Pieces[us][King] == 0 {
		p.Checkers = 0
		return
	}
	p.Checkers = p.AttackersByColor(p.KingSquare[us], us.Other(), p.AllOccupied)
}
