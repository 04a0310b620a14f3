package board

import (
	"errors"
	"testing"
)

func TestToSAN(t *testing.T) {
	tests := []struct {
		fen  string
		uci  string
		want string
	}{
		{StartFEN, "g1f3", "Nf3"},
		{StartFEN, "e2e4", "e4"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1c1", "O-O-O"},
		{"4k3/8/8/8/8/8/4K3/R6R w - - 0 1", "a1d1", "Rad1"},
		{"4k3/8/8/8/8/8/4K3/R6R w - - 0 1", "h1f1", "Rhf1"},
		{"4k3/R7/8/8/8/8/8/R3K3 w - - 0 1", "a1a4", "R1a4"},
		{"4k3/1P6/8/8/8/8/8/4K3 w - - 0 1", "b7b8q", "b8=Q+"},
		{"6k1/5ppp/8/8/8/8/5PPP/4R1K1 w - - 0 1", "e1e8", "Re8#"},
		{"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2", "e5d6", "exd6"},
		{"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2", "e4d5", "exd5"},
	}
	for _, tc := range tests {
		pos, err := ParseFEN(tc.fen)
		if err != nil {
			t.Fatalf("%s: %v", tc.fen, err)
		}
		m, err := ParseMove(tc.uci, pos)
		if err != nil {
			t.Fatalf("%s %s: %v", tc.fen, tc.uci, err)
		}
		if got := m.ToSAN(pos); got != tc.want {
			t.Errorf("%s %s: ToSAN = %q, want %q", tc.fen, tc.uci, got, tc.want)
		}

		back, err := ParseSAN(tc.want, pos)
		if err != nil {
			t.Errorf("ParseSAN(%q): %v", tc.want, err)
		} else if back != m {
			t.Errorf("ParseSAN(%q) = %s, want %s", tc.want, back, m)
		}
	}
}

func TestParseSANErrors(t *testing.T) {
	pos := NewPosition()
	for _, s := range []string{"Ke2", "e5", "Qh5", "O-O", "Zf3", "e8=K", ""} {
		if m, err := ParseSAN(s, pos); err == nil {
			t.Errorf("ParseSAN(%q) = %s, want error", s, m)
		}
	}
	if _, err := ParseSAN("Nd2", pos); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("ParseSAN(Nd2) error = %v, want ErrIllegalMove", err)
	}
}

func TestFENRoundTrip(t *testing.T) {
	for _, tc := range perftCases {
		pos, err := ParseFEN(tc.fen)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got := pos.ToFEN(); got != tc.fen {
			t.Errorf("%s: ToFEN = %q, want %q", tc.name, got, tc.fen)
		}
	}
}

func TestParseFENErrors(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQ1BNR w KQkq - 0 1",
		"4k3/8/8/8/8/8/8/4K2R w Z - 0 1",
		"4k3/4R3/8/8/8/8/8/4K3 w - - 0 1", // side not to move is in check
		"4k3/8/8/8/8/8/3PP3/4K3 w - e3 0 1",   // en passant square on the wrong rank
		"4k3/8/8/4P3/8/8/8/4K3 w - d6 0 1",    // no pawn to capture
		"4k3/8/3p4/3pP3/8/8/8/4K3 w - d6 0 1", // en passant square occupied
		"4k3/3n4/8/3pP3/8/8/8/4K3 w - d6 0 1", // pawn could not have come from d7
		"4k3/8/8/8/3pP3/8/8/4K3 b - e6 0 1",   // white pushed, so the square is on rank 3
	}
	for _, fen := range bad {
		if _, err := ParseFEN(fen); err == nil {
			t.Errorf("ParseFEN(%q) succeeded, want error", fen)
		}
	}
}
