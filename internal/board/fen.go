package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string. The move counters may be omitted.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return nil, fmt.Errorf("invalid FEN %q: need 4 to 6 fields, got %d", fen, len(fields))
	}

	pos := &Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
		KingSquare:     [2]Square{NoSquare, NoSquare},
	}

	if err := parsePlacement(pos, fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fmt.Errorf("invalid side to move %q", fields[1])
	}

	if fields[2] != "-" {
		for _, c := range fields[2] {
			i := strings.IndexRune("KQkq", c)
			if i < 0 {
				return nil, fmt.Errorf("invalid castling rights %q", fields[2])
			}
			pos.CastlingRights |= 1 << i
		}
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square: %w", err)
		}
		if err := pos.checkEnPassant(sq); err != nil {
			return nil, fmt.Errorf("invalid en passant square %s: %w", sq, err)
		}
		// Keep the target only when it can actually be captured, matching
		// what MakeMove records.
		if pawnAttacks[pos.SideToMove.Other()][sq]&pos.Pieces[pos.SideToMove][Pawn] != 0 {
			pos.EnPassant = sq
		}
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid half-move clock %q", fields[4])
		}
		pos.HalfMoveClock = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid full-move number %q", fields[5])
		}
		pos.FullMoveNumber = n
	}

	if err := pos.Validate(); err != nil {
		return nil, fmt.Errorf("invalid FEN %q: %w", fen, err)
	}
	pos.dropStaleCastlingRights()
	pos.Hash = pos.ComputeHash()
	pos.updateCheckers()
	return pos, nil
}

func parsePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			c := row[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			piece := PieceFromChar(c)
			if piece == NoPiece {
				return fmt.Errorf("invalid piece character %q", c)
			}
			if file > 7 {
				return fmt.Errorf("too many squares in rank %d", rank+1)
			}
			pos.setPiece(piece, NewSquare(file, rank))
			file++
		}
		if file != 8 {
			return fmt.Errorf("rank %d has %d squares", rank+1, file)
		}
	}
	return nil
}

// checkEnPassant verifies that sq is the square skipped by a double pawn
// push of the side that just moved.
func (p *Position) checkEnPassant(sq Square) error {
	rank, pushed, origin := 5, sq-8, sq+8
	if p.SideToMove == Black {
		rank, pushed, origin = 2, sq+8, sq-8
	}
	switch {
	case sq.Rank() != rank:
		return fmt.Errorf("not on rank %d", rank+1)
	case !p.IsEmpty(sq) || !p.IsEmpty(origin):
		return fmt.Errorf("the pawn's path is occupied")
	case p.PieceAt(pushed) != NewPiece(Pawn, p.SideToMove.Other()):
		return fmt.Errorf("no pawn on %s", pushed)
	}
	return nil
}

// dropStaleCastlingRights removes rights whose king or rook is not at home.
func (p *Position) dropStaleCastlingRights() {
	home := [4]struct {
		c          Color
		king, rook Square
	}{
		{White, E1, H1}, {White, E1, A1}, {Black, E8, H8}, {Black, E8, A8},
	}
	for i, h := range home {
		if p.Pieces[h.c][King]&SquareBB(h.king) == 0 || p.Pieces[h.c][Rook]&SquareBB(h.rook) == 0 {
			p.CastlingRights &^= 1 << i
		}
	}
}

// ToFEN returns the FEN representation of the position.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	side := "w"
	if p.SideToMove == Black {
		side = "b"
	}
	fmt.Fprintf(&sb, " %s %s %s %d %d", side, p.CastlingRights, p.EnPassant, p.HalfMoveClock, p.FullMoveNumber)
	return sb.String()
}
