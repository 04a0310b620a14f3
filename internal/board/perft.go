package board

// Perft counts the leaf nodes of the legal move tree depth plies deep. It is
// the standard check of move generation against published counts.
func (p *Position) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for _, m := range moves.Slice() {
		undo := p.MakeMove(m)
		nodes += p.Perft(depth - 1)
		p.UnmakeMove(m, undo)
	}
	return nodes
}

// Divide returns the perft count below each legal root move.
func (p *Position) Divide(depth int) map[Move]uint64 {
	out := make(map[Move]uint64)
	for _, m := range p.GenerateLegalMoves().Slice() {
		undo := p.MakeMove(m)
		out[m] = p.Perft(depth - 1)
		p.UnmakeMove(m, undo)
	}
	return out
}
