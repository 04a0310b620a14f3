package board

// MakeMove plays a pseudo-legal move and returns what UnmakeMove needs to
// restore the position. undo.Valid is false when the move left the mover's
// own king attacked; the move is applied either way and must be unmade.
func (p *Position) MakeMove(m Move) UndoInfo {
	undo := UndoInfo{
		Captured:       NoPiece,
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		Hash:           p.Hash,
		Checkers:       p.Checkers,
		KingSquare:     p.KingSquare,
		Pieces:         p.Pieces,
		Occupied:       p.Occupied,
		AllOccupied:    p.AllOccupied,
	}

	us := p.SideToMove
	them := us.Other()
	from, to := m.From(), m.To()
	piece := p.PieceAt(from)
	if piece == NoPiece || piece.Color() != us {
		return undo
	}
	pt := piece.Type()
	undo.applied = true

	p.Hash ^= zobristCastling[p.CastlingRights]
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}
	p.EnPassant = NoSquare

	switch {
	case m.IsEnPassant():
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		undo.Captured = p.removePiece(capSq)
	case !p.IsEmpty(to):
		undo.Captured = p.removePiece(to)
	}

	p.movePiece(from, to)

	if m.IsPromotion() {
		p.removePiece(to)
		p.setPiece(NewPiece(m.Promotion(), us), to)
	}

	if m.IsCastling() {
		rank := from.Rank()
		if to > from {
			p.movePiece(NewSquare(7, rank), NewSquare(5, rank))
		} else {
			p.movePiece(NewSquare(0, rank), NewSquare(3, rank))
		}
	}

	p.CastlingRights &^= castlingLoss[from] | castlingLoss[to]
	p.Hash ^= zobristCastling[p.CastlingRights]

	// The en passant target is only recorded when an enemy pawn could take
	// it, so positions that differ only by an unusable target hash equally.
	if pt == Pawn && (int(to)-int(from) == 16 || int(from)-int(to) == 16) {
		ep := Square((int(from) + int(to)) / 2)
		if pawnAttacks[us][ep]&p.Pieces[them][Pawn] != 0 {
			p.EnPassant = ep
			p.Hash ^= zobristEnPassant[ep.File()]
		}
	}

	if pt == Pawn || undo.Captured != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = them
	p.Hash ^= zobristSideToMove
	p.updateCheckers()

	undo.Valid = !p.IsSquareAttacked(p.KingSquare[us], them)
	return undo
}

// UnmakeMove takes back m using the information MakeMove returned.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	if !undo.applied {
		return
	}
	p.CastlingRights = undo.CastlingRights
	p.EnPassant = undo.EnPassant
	p.HalfMoveClock = undo.HalfMoveClock
	p.Hash = undo.Hash
	p.Checkers = undo.Checkers
	p.KingSquare = undo.KingSquare
	p.Pieces = undo.Pieces
	p.Occupied = undo.Occupied
	p.AllOccupied = undo.AllOccupied

	p.SideToMove = p.SideToMove.Other()
	if p.SideToMove == Black {
		p.FullMoveNumber--
	}
}
