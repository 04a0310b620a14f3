package board

import (
	"fmt"
	"strings"
)

// ToSAN converts a legal move in pos to Standard Algebraic Notation,
// including the check or mate suffix.
func (m Move) ToSAN(pos *Position) string {
	piece := pos.PieceAt(m.From())
	if m == NoMove || piece == NoPiece {
		return m.String()
	}

	var sb strings.Builder
	from, to := m.From(), m.To()
	pt := piece.Type()

	switch {
	case m.IsCastling() && to > from:
		sb.WriteString("O-O")
	case m.IsCastling():
		sb.WriteString("O-O-O")
	default:
		capture := m.IsEnPassant() || !pos.IsEmpty(to)
		if pt == Pawn {
			if capture {
				sb.WriteByte(byte('a' + from.File()))
			}
		} else {
			sb.WriteString(pt.Letter())
			sb.WriteString(disambiguation(pos, m, pt))
		}
		if capture {
			sb.WriteByte('x')
		}
		sb.WriteString(to.String())
		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteString(m.Promotion().Letter())
		}
	}

	after := pos.Copy()
	after.MakeMove(m)
	if after.InCheck() {
		if after.HasLegalMoves() {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}
	return sb.String()
}

// disambiguation returns the origin file, rank or square needed to tell m
// apart from other legal moves of the same piece type to the same square.
func disambiguation(pos *Position, m Move, pt PieceType) string {
	from, to := m.From(), m.To()
	ambiguous, sameFile, sameRank := false, false, false

	for _, other := range pos.GenerateLegalMoves().Slice() {
		o := other.From()
		if other.To() != to || o == from || pos.PieceAt(o).Type() != pt {
			continue
		}
		ambiguous = true
		sameFile = sameFile || o.File() == from.File()
		sameRank = sameRank || o.Rank() == from.Rank()
	}

	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string(rune('a' + from.File()))
	case !sameRank:
		return string(rune('1' + from.Rank()))
	default:
		return from.String()
	}
}

// ParseSAN resolves a SAN string against the legal moves of pos. Check and
// annotation suffixes are ignored; "0-0" is accepted for castling.
func ParseSAN(s string, pos *Position) (Move, error) {
	san := strings.TrimRight(strings.TrimSpace(s), "+#!?")
	legal := pos.GenerateLegalMoves().Slice()

	switch san {
	case "O-O", "0-0", "O-O-O", "0-0-0":
		kingSide := len(san) == 3
		for _, m := range legal {
			if m.IsCastling() && (m.To() > m.From()) == kingSide {
				return m, nil
			}
		}
		return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, s)
	}

	promo := NoPieceType
	if i := strings.IndexByte(san, '='); i >= 0 {
		if i+1 < len(san) {
			promo = pieceTypeFromLetter(san[i+1])
		}
		if promo < Knight || promo > Queen {
			return NoMove, fmt.Errorf("invalid promotion in %q", s)
		}
		san = san[:i]
	}

	capture := strings.Contains(san, "x")
	san = strings.ReplaceAll(san, "x", "")

	pt := Pawn
	if san != "" && san[0] >= 'A' && san[0] <= 'Z' {
		pt = pieceTypeFromLetter(san[0])
		if pt == NoPieceType || pt == Pawn {
			return NoMove, fmt.Errorf("invalid piece in %q", s)
		}
		san = san[1:]
	}

	if len(san) < 2 {
		return NoMove, fmt.Errorf("invalid SAN %q", s)
	}
	to, err := ParseSquare(san[len(san)-2:])
	if err != nil {
		return NoMove, fmt.Errorf("invalid SAN %q: %w", s, err)
	}

	file, rank := -1, -1
	for _, c := range san[:len(san)-2] {
		switch {
		case c >= 'a' && c <= 'h':
			file = int(c - 'a')
		case c >= '1' && c <= '8':
			rank = int(c - '1')
		default:
			return NoMove, fmt.Errorf("invalid SAN %q", s)
		}
	}

	match := NoMove
	for _, m := range legal {
		from := m.From()
		switch {
		case m.To() != to || m.IsCastling():
			continue
		case pos.PieceAt(from).Type() != pt:
			continue
		case file >= 0 && from.File() != file, rank >= 0 && from.Rank() != rank:
			continue
		case capture && !m.IsEnPassant() && pos.IsEmpty(to):
			continue
		case m.Promotion() != promo:
			continue
		}
		if match != NoMove {
			return NoMove, fmt.Errorf("ambiguous move %q", s)
		}
		match = m
	}
	if match == NoMove {
		return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, s)
	}
	return match, nil
}

// MovesToSAN converts a sequence of moves played from pos to SAN.
// pos is not modified.
func MovesToSAN(pos *Position, moves []Move) []string {
	p := pos.Copy()
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.ToSAN(p)
		p.MakeMove(m)
	}
	return out
}
