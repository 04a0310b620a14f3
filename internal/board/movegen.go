package board

// GenerateLegalMoves generates every legal move for the side to move.
func (p *Position) GenerateLegalMoves() *MoveList {
	var pseudo MoveList
	p.generatePseudoLegal(&pseudo)

	legal := &MoveList{}
	for _, m := range pseudo.Slice() {
		if p.IsLegal(m) {
			legal.Add(m)
		}
	}
	return legal
}

// IsLegal returns true if the pseudo-legal move m does not leave the mover's
// king attacked.
func (p *Position) IsLegal(m Move) bool {
	us := p.SideToMove
	if m.From() == p.KingSquare[us] && !m.IsCastling() {
		occ := p.AllOccupied &^ SquareBB(m.From())
		return p.AttackersByColor(m.To(), us.Other(), occ) == 0
	}
	undo := p.MakeMove(m)
	legal := undo.Valid
	p.UnmakeMove(m, undo)
	return legal
}

// HasLegalMoves returns true if the side to move has at least one legal move.
func (p *Position) HasLegalMoves() bool {
	var pseudo MoveList
	p.generatePseudoLegal(&pseudo)
	for _, m := range pseudo.Slice() {
		if p.IsLegal(m) {
			return true
		}
	}
	return false
}

// IsCheckmate returns true if the side to move is checkmated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the side to move has no legal move but is not
// in check.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// IsInsufficientMaterial returns true if no sequence of legal moves can end
// in checkmate: bare kings, a single minor piece, or only bishops all on
// squares of one colour.
func (p *Position) IsInsufficientMaterial() bool {
	heavy := p.Pieces[White][Pawn] | p.Pieces[Black][Pawn] |
		p.Pieces[White][Rook] | p.Pieces[Black][Rook] |
		p.Pieces[White][Queen] | p.Pieces[Black][Queen]
	if heavy != 0 {
		return false
	}

	knights := p.Pieces[White][Knight] | p.Pieces[Black][Knight]
	bishops := p.Pieces[White][Bishop] | p.Pieces[Black][Bishop]
	minors := (knights | bishops).PopCount()

	switch {
	case minors <= 1:
		return true
	case knights == 0:
		return bishops&LightSquares == 0 || bishops&^LightSquares == 0
	}
	return false
}

// generatePseudoLegal adds every move that obeys piece movement rules,
// whether or not it leaves the king in check.
func (p *Position) generatePseudoLegal(ml *MoveList) {
	us := p.SideToMove
	own := p.Occupied[us]
	occupied := p.AllOccupied

	p.generatePawnMoves(ml, us)

	for pt := Knight; pt <= King; pt++ {
		pieces := p.Pieces[us][pt]
		for pieces != 0 {
			from := pieces.PopLSB()
			var targets Bitboard
			switch pt {
			case Knight:
				targets = KnightAttacks(from)
			case Bishop:
				targets = BishopAttacks(from, occupied)
			case Rook:
				targets = RookAttacks(from, occupied)
			case Queen:
				targets = QueenAttacks(from, occupied)
			case King:
				targets = KingAttacks(from)
			}
			targets &^= own
			for targets != 0 {
				ml.Add(NewMove(from, targets.PopLSB()))
			}
		}
	}

	p.generateCastlingMoves(ml, us)
}

// generatePawnMoves adds pushes, captures, promotions and en passant.
func (p *Position) generatePawnMoves(ml *MoveList, us Color) {
	pawns := p.Pieces[us][Pawn]
	empty := ^p.AllOccupied
	enemies := p.Occupied[us.Other()]

	var push1, push2, attackW, attackE, promoRank Bitboard
	var fwd int
	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		attackW = pawns.NorthWest() & enemies
		attackE = pawns.NorthEast() & enemies
		promoRank = Rank8
		fwd = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		attackW = pawns.SouthWest() & enemies
		attackE = pawns.SouthEast() & enemies
		promoRank = Rank1
		fwd = -8
	}

	addPawnTargets(ml, push1, fwd, promoRank)
	addPawnTargets(ml, attackW, fwd-1, promoRank)
	addPawnTargets(ml, attackE, fwd+1, promoRank)
	for push2 != 0 {
		to := push2.PopLSB()
		ml.Add(NewMove(Square(int(to)-2*fwd), to))
	}

	if p.EnPassant != NoSquare {
		attackers := pawnAttacks[us.Other()][p.EnPassant] & pawns
		for attackers != 0 {
			ml.Add(NewEnPassant(attackers.PopLSB(), p.EnPassant))
		}
	}
}

// addPawnTargets adds a move for every target, reached by a pawn that moved
// by delta squares, expanding moves onto promoRank into the four promotions.
func addPawnTargets(ml *MoveList, targets Bitboard, delta int, promoRank Bitboard) {
	for targets != 0 {
		to := targets.PopLSB()
		from := Square(int(to) - delta)
		if SquareBB(to)&promoRank == 0 {
			ml.Add(NewMove(from, to))
			continue
		}
		for pt := Queen; pt >= Knight; pt-- {
			ml.Add(NewPromotion(from, to, pt))
		}
	}
}

// generateCastlingMoves adds castling moves whose path is empty and not
// attacked. The king must not be in check.
func (p *Position) generateCastlingMoves(ml *MoveList, us Color) {
	if p.Checkers != 0 {
		return
	}
	them := us.Other()

	type castle struct {
		right            CastlingRights
		king, rook, step Square // step is the square the king crosses
		to               Square
	}
	options := [2][2]castle{
		White: {
			{WhiteKingSideCastle, E1, H1, F1, G1},
			{WhiteQueenSideCastle, E1, A1, D1, C1},
		},
		Black: {
			{BlackKingSideCastle, E8, H8, F8, G8},
			{BlackQueenSideCastle, E8, A8, D8, C8},
		},
	}

	for _, c := range options[us] {
		if p.CastlingRights&c.right == 0 {
			continue
		}
		if p.Pieces[us][Rook]&SquareBB(c.rook) == 0 || p.AllOccupied&Between(c.king, c.rook) != 0 {
			continue
		}
		if p.IsSquareAttacked(c.step, them) || p.IsSquareAttacked(c.to, them) {
			continue
		}
		ml.Add(NewCastling(c.king, c.to))
	}
}
