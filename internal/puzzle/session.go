package puzzle

import (
	"fmt"

	"github.com/hailam/chessnova/internal/board"
)

// Verdict is the result of one attempt.
type Verdict int

const (
	Wrong   Verdict = iota // not the solution move; it has been taken back
	Correct                // right move, the line continues
	Solved                 // right move, the line is complete
)

// String returns the lowercase verdict name.
func (v Verdict) String() string {
	switch v {
	case Correct:
		return "correct"
	case Solved:
		return "solved"
	default:
		return "wrong"
	}
}

// Session tracks a player working through one puzzle.
type Session struct {
	puzzle Puzzle
	game   *board.Game
	next   int // index into the solution of the solver's next move
	reply  string
}

// NewSession loads p.
func NewSession(p Puzzle) (*Session, error) {
	g, err := board.NewGameFromFEN(p.FEN)
	if err != nil {
		return nil, fmt.Errorf("puzzle %s: %w", p.ID, err)
	}
	return &Session{puzzle: p, game: g}, nil
}

// Puzzle returns the puzzle being solved.
func (s *Session) Puzzle() Puzzle { return s.puzzle }

// Game returns the puzzle position. Callers must not apply moves to it.
func (s *Session) Game() *board.Game { return s.game }

// Done returns true once the whole line has been played.
func (s *Session) Done() bool { return s.next >= len(s.puzzle.Solution) }

// LastReply returns the opponent move played after the last correct
// attempt, in SAN, or "" if there was none.
func (s *Session) LastReply() string { return s.reply }

// Try plays text, a move in SAN or UCI. An unreadable or illegal move is an
// error and does not count as an attempt. A legal move that is not the
// solution leaves the position unchanged and is reported Wrong.
func (s *Session) Try(text string) (Verdict, error) {
	if s.Done() {
		return Solved, nil
	}
	m, err := s.game.ParseMoveText(text)
	if err != nil {
		return Wrong, err
	}

	s.reply = ""
	played := s.game.Describe(m).SAN
	if !sameMove(played, s.puzzle.Solution[s.next]) {
		return Wrong, nil
	}
	s.game.Apply(m)
	s.next++

	if s.Done() {
		return Solved, nil
	}

	reply, err := s.game.ParseMoveText(s.puzzle.Solution[s.next])
	if err != nil {
		return Wrong, fmt.Errorf("puzzle %s: bad reply %q: %w", s.puzzle.ID, s.puzzle.Solution[s.next], err)
	}
	s.reply = s.game.Describe(reply).SAN
	s.game.Apply(reply)
	s.next++

	if s.Done() {
		return Solved, nil
	}
	return Correct, nil
}

// Reset returns to the starting position.
func (s *Session) Reset() {
	for s.game.Plies() > 0 {
		s.game.Undo()
	}
	s.next = 0
	s.reply = ""
}
