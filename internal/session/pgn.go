package session

import (
	"fmt"
	"strconv"

	"github.com/notnil/chess"

	"github.com/hailam/chessnova/internal/board"
)

// PGN exports the game played so far.
func (s *Session) PGN() (string, error) {
	var opts []func(*chess.Game)
	if s.game.StartFEN() != board.StartFEN {
		fen, err := chess.FEN(s.game.StartFEN())
		if err != nil {
			return "", fmt.Errorf("session: pgn: %w", err)
		}
		opts = append(opts, fen)
	}
	g := chess.NewGame(opts...)

	white, black := s.players()
	g.AddTagPair("Event", "ChessNova game")
	g.AddTagPair("Site", "ChessNova")
	g.AddTagPair("Date", s.started.Format("2006.01.02"))
	g.AddTagPair("White", white)
	g.AddTagPair("Black", black)
	if s.game.StartFEN() != board.StartFEN {
		g.AddTagPair("SetUp", "1")
		g.AddTagPair("FEN", s.game.StartFEN())
	}

	for i, m := range s.game.History() {
		cm, err := chess.UCINotation{}.Decode(g.Position(), m.String())
		if err != nil {
			return "", fmt.Errorf("session: pgn: move %d %s: %w", i+1, m, err)
		}
		if err := g.Move(cm); err != nil {
			return "", fmt.Errorf("session: pgn: move %d %s: %w", i+1, m, err)
		}
	}

	if s.result != nil && g.Outcome() == chess.NoOutcome {
		switch {
		case s.result.Reason == ReasonResignation:
			loser := chess.White
			if s.result.Winner == board.White {
				loser = chess.Black
			}
			g.Resign(loser)
		case s.result.Winner == board.NoColor:
			if err := g.Draw(chess.DrawOffer); err != nil {
				return "", fmt.Errorf("session: pgn: %w", err)
			}
		}
	}
	g.AddTagPair("Result", g.Outcome().String())
	g.AddTagPair("PlyCount", strconv.Itoa(s.game.Plies()))
	return g.String(), nil
}

func (s *Session) players() (white, black string) {
	if !s.opts.VsComputer {
		return s.opts.Username, s.opts.Username
	}
	computer := "ChessNova (" + s.opts.Engine.Profile().Name + ")"
	if s.opts.Human == board.White {
		return s.opts.Username, computer
	}
	return computer, s.opts.Username
}
