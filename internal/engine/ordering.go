package engine

// orderMoves moves captures ahead of quiet moves, keeping the oracle's order
// inside each group. The input slice is reordered in place and returned.
func orderMoves[M comparable](pos Oracle[M], moves []M) []M {
	// Captures are copied forward while quiets are buffered, which keeps
	// the partition stable without a sort.
	var quiets []M
	n := 0
	for _, m := range moves {
		if pos.IsCapture(m) {
			moves[n] = m
			n++
		} else {
			quiets = append(quiets, m)
		}
	}
	copy(moves[n:], quiets)
	return moves
}
