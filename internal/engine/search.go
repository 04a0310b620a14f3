package engine

import (
	"errors"
	"strconv"
	"sync/atomic"
)

// maxPly bounds the search depth and the window in which a score is read as a
// mate distance.
const maxPly = 64

// ErrStopped is returned when a search was interrupted before it finished.
var ErrStopped = errors.New("engine: search stopped")

// Searcher performs the alpha-beta search over an oracle. A Searcher is not
// safe for concurrent use but may be stopped from another goroutine.
type Searcher[M comparable] struct {
	stopFlag *atomic.Bool
	nodes    uint64
}

// NewSearcher creates a searcher. A nil stop flag means the search can not be
// interrupted.
func NewSearcher[M comparable](stop *atomic.Bool) *Searcher[M] {
	return &Searcher[M]{stopFlag: stop}
}

// Nodes returns the number of positions visited since the searcher was created.
func (s *Searcher[M]) Nodes() uint64 {
	return s.nodes
}

// Stopped returns true if the stop flag has been raised.
func (s *Searcher[M]) Stopped() bool {
	return s.stopFlag != nil && s.stopFlag.Load()
}

// Search returns the minimax value of pos searched depth plies deep inside the
// (alpha, beta) window. maximizing is true when the side to move is trying to
// raise the score. Every move applied to pos is undone before Search returns.
//
// A checkmate found ply moves below the call is scored MateScore-ply, so a
// shorter mate always outranks a longer one.
func (s *Searcher[M]) Search(pos Oracle[M], depth int, alpha, beta Score, maximizing bool) (Score, error) {
	score := s.search(pos, depth, 0, alpha, beta, maximizing)
	if s.Stopped() {
		return 0, ErrStopped
	}
	return score, nil
}

func (s *Searcher[M]) search(pos Oracle[M], depth, ply int, alpha, beta Score, maximizing bool) Score {
	s.nodes++

	if depth <= 0 || ply >= maxPly || gameOver(pos) {
		return leafScore(pos, ply)
	}
	if s.Stopped() {
		return 0
	}

	moves := orderMoves(pos, pos.LegalMoves())

	if maximizing {
		best := -Infinity
		for _, m := range moves {
			pos.Apply(m)
			score := s.search(pos, depth-1, ply+1, alpha, beta, false)
			pos.Undo()

			best = max(best, score)
			alpha = max(alpha, score)
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := Infinity
	for _, m := range moves {
		pos.Apply(m)
		score := s.search(pos, depth-1, ply+1, alpha, beta, true)
		pos.Undo()

		best = min(best, score)
		beta = min(beta, score)
		if beta <= alpha {
			break
		}
	}
	return best
}

// leafScore evaluates pos and pulls mate scores toward zero by the distance
// from the search root.
func leafScore[M comparable](pos Oracle[M], ply int) Score {
	score := Evaluate(pos)
	switch score {
	case MateScore:
		return score - ply
	case -MateScore:
		return score + ply
	}
	return score
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score Score) string {
	if d := MateDistance(score); d > 0 || score == MateScore || score == -MateScore {
		moves := strconv.Itoa((d + 1) / 2)
		if score > 0 {
			return "mate in " + moves
		}
		return "mated in " + moves
	}

	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	return sign + strconv.Itoa(score/100) + "." + twoDigits(score%100)
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
