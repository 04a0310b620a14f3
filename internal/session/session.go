// Package session runs one game between a human and the computer, or
// between two humans, on top of the board and engine packages.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chessnova/internal/board"
	"github.com/hailam/chessnova/internal/engine"
	"github.com/hailam/chessnova/internal/storage"
)

var (
	ErrGameOver      = errors.New("session: game is over")
	ErrNotYourTurn   = errors.New("session: not your turn")
	ErrNothingToUndo = errors.New("session: nothing to undo")
)

// Reasons a game ended, beyond the board terminations.
const (
	ReasonResignation = "resignation"
	ReasonAgreement   = "agreement"
)

// Result describes a finished game.
type Result struct {
	Winner board.Color // NoColor for a draw
	Reason string      // board termination name, ReasonResignation or ReasonAgreement
}

// Score returns the PGN result string.
func (r Result) Score() string {
	switch r.Winner {
	case board.White:
		return "1-0"
	case board.Black:
		return "0-1"
	}
	return "1/2-1/2"
}

func (r Result) String() string {
	return r.Score() + " (" + r.Reason + ")"
}

// Turn reports what happened when the player moved.
type Turn struct {
	Move     board.MoveInfo
	Quality  engine.Quality
	Reply    *board.MoveInfo // the computer's answer, nil when it did not move
	Over     bool
	Result   Result
	Unlocked []string // achievements unlocked by the game ending
}

// Options configures a new session.
type Options struct {
	Engine     *engine.Engine[board.Move]
	Store      *storage.Storage // nil disables statistics
	FEN        string           // empty means the standard start position
	Human      board.Color      // the side the player controls against the computer
	VsComputer bool
	Username   string
	Logger     zerolog.Logger
}

// Session is one game. It is not safe for concurrent use.
type Session struct {
	opts    Options
	game    *board.Game
	started time.Time
	result  *Result
}

// New starts a game.
func New(opts Options) (*Session, error) {
	if opts.Engine == nil {
		return nil, errors.New("session: no engine")
	}
	if opts.FEN == "" {
		opts.FEN = board.StartFEN
	}
	if opts.Human == board.NoColor {
		opts.Human = board.White
	}
	if opts.Username == "" {
		opts.Username = "Player"
	}

	game, err := board.NewGameFromFEN(opts.FEN)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	s := &Session{opts: opts, game: game, started: time.Now()}
	s.checkOver()
	return s, nil
}

// Game returns the game being played. Callers must not apply moves to it.
func (s *Session) Game() *board.Game { return s.game }

// Human returns the colour the player controls.
func (s *Session) Human() board.Color { return s.opts.Human }

// VsComputer reports whether the engine plays one side.
func (s *Session) VsComputer() bool { return s.opts.VsComputer }

// Result returns the result once the game is over.
func (s *Session) Result() (Result, bool) {
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

// ComputerToMove reports whether it is the engine's turn.
func (s *Session) ComputerToMove() bool {
	return s.opts.VsComputer && s.result == nil && s.game.Turn() != s.opts.Human
}

// Play makes the player's move, given in SAN or UCI, and lets the computer
// answer when it is its turn.
func (s *Session) Play(ctx context.Context, text string) (Turn, error) {
	if s.result != nil {
		return Turn{}, ErrGameOver
	}
	if s.ComputerToMove() {
		return Turn{}, ErrNotYourTurn
	}

	m, err := s.game.ParseMoveText(text)
	if err != nil {
		return Turn{}, err
	}

	turn := Turn{
		Move:    s.game.Describe(m),
		Quality: s.opts.Engine.ClassifyMove(s.game, m),
	}
	s.game.Apply(m)
	s.opts.Logger.Debug().Str("move", turn.Move.SAN).Stringer("quality", turn.Quality).Msg("player moved")

	if unlocked, over := s.checkOver(); over {
		turn.Over, turn.Result, turn.Unlocked = true, *s.result, unlocked
		return turn, nil
	}

	if s.ComputerToMove() {
		reply, unlocked, err := s.computerMove(ctx)
		if err != nil {
			return turn, err
		}
		turn.Reply = &reply
		turn.Unlocked = unlocked
		if s.result != nil {
			turn.Over, turn.Result = true, *s.result
		}
	}
	return turn, nil
}

// ComputerMove asks the engine for its move, used when the computer has the
// first move of the game.
func (s *Session) ComputerMove(ctx context.Context) (board.MoveInfo, []string, error) {
	if s.result != nil {
		return board.MoveInfo{}, nil, ErrGameOver
	}
	if !s.ComputerToMove() {
		return board.MoveInfo{}, nil, ErrNotYourTurn
	}
	return s.computerMove(ctx)
}

func (s *Session) computerMove(ctx context.Context) (board.MoveInfo, []string, error) {
	reply := <-s.opts.Engine.RequestMove(ctx, s.game)
	switch reply.Outcome {
	case engine.Cancelled:
		return board.MoveInfo{}, nil, reply.Err
	case engine.NoLegalMoves:
		unlocked, _ := s.checkOver()
		return board.MoveInfo{}, unlocked, ErrGameOver
	}

	info := s.lastMove()
	s.opts.Logger.Debug().Str("move", info.SAN).Dur("elapsed", reply.Elapsed).Msg("computer moved")
	unlocked, _ := s.checkOver()
	return info, unlocked, nil
}

// lastMove describes the move that reached the current position.
func (s *Session) lastMove() board.MoveInfo {
	hist := s.game.History()
	m := hist[len(hist)-1]
	s.game.Undo()
	info := s.game.Describe(m)
	s.game.Apply(m)
	return info
}

// Undo takes back the player's last move: two plies against the computer
// when it has answered, one otherwise. It returns the number of plies taken
// back.
func (s *Session) Undo() (int, error) {
	if s.result != nil {
		return 0, ErrGameOver
	}

	n := 1
	if s.opts.VsComputer && s.game.Turn() == s.opts.Human {
		n = 2
	}
	if s.game.Plies() < n {
		return 0, ErrNothingToUndo
	}
	for i := 0; i < n; i++ {
		s.game.Undo()
	}
	return n, nil
}

// Hint returns the move the engine suggests for the player.
func (s *Session) Hint() (board.MoveInfo, bool) {
	if s.result != nil || s.ComputerToMove() {
		return board.MoveInfo{}, false
	}
	m, ok := s.opts.Engine.Hint(s.game)
	if !ok {
		return board.MoveInfo{}, false
	}
	return s.game.Describe(m), true
}

// Resign ends the game as a loss for the side to move, or for the player
// against the computer.
func (s *Session) Resign() (Result, []string, error) {
	if s.result != nil {
		return Result{}, nil, ErrGameOver
	}
	loser := s.game.Turn()
	if s.opts.VsComputer {
		loser = s.opts.Human
	}
	unlocked := s.finish(Result{Winner: loser.Other(), Reason: ReasonResignation})
	return *s.result, unlocked, nil
}

// OfferDraw offers a draw. The computer accepts when its draw policy agrees;
// between humans the offer is taken as accepted.
func (s *Session) OfferDraw() (bool, []string, error) {
	if s.result != nil {
		return false, nil, ErrGameOver
	}
	if s.opts.VsComputer && !s.opts.Engine.AcceptsDraw(s.game) {
		return false, nil, nil
	}
	unlocked := s.finish(Result{Winner: board.NoColor, Reason: ReasonAgreement})
	return true, unlocked, nil
}

// Evaluate returns the static evaluation of the current position from
// White's point of view.
func (s *Session) Evaluate() engine.Score {
	return engine.Evaluate[board.Move](s.game)
}

// checkOver finishes the game when the board says it has ended.
func (s *Session) checkOver() ([]string, bool) {
	if s.result != nil {
		return nil, true
	}
	o := s.game.Outcome()
	if o.Termination == board.Ongoing {
		return nil, false
	}
	return s.finish(Result{Winner: o.Winner, Reason: o.Termination.String()}), true
}

// finish records r once and returns any achievements it unlocked.
func (s *Session) finish(r Result) []string {
	s.result = &r
	elapsed := time.Since(s.started)
	s.opts.Logger.Info().Str("result", r.Score()).Str("reason", r.Reason).Dur("elapsed", elapsed).Msg("game over")

	if s.opts.Store == nil || !s.opts.VsComputer || s.game.Plies() == 0 {
		return nil
	}

	outcome := storage.Draw
	switch r.Winner {
	case s.opts.Human:
		outcome = storage.Win
	case s.opts.Human.Other():
		outcome = storage.Loss
	}
	_, unlocked, err := s.opts.Store.RecordGame(storage.GameResult{
		Result:     outcome,
		Difficulty: s.opts.Engine.Profile().Name,
		Duration:   elapsed,
	})
	if err != nil {
		s.opts.Logger.Error().Err(err).Msg("record game")
		return nil
	}
	return unlocked
}
