package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hailam/chessnova/internal/board"
	"github.com/hailam/chessnova/internal/engine"
)

func quickEngine(thinking time.Duration) *engine.Engine[board.Move] {
	return engine.New[board.Move](engine.Options{
		Profile:      engine.Easy,
		ThinkingTime: thinking,
		MinDelay:     time.Millisecond,
		Seed:         1,
	})
}

func receive(t *testing.T, replies <-chan engine.Reply[board.Move]) engine.Reply[board.Move] {
	t.Helper()
	select {
	case r, ok := <-replies:
		if !ok {
			t.Fatal("reply channel closed without a reply")
		}
		if _, more := <-replies; more {
			t.Error("more than one reply delivered")
		}
		return r
	case <-time.After(10 * time.Second):
		t.Fatal("no reply within 10s")
	}
	panic("unreachable")
}

func TestRequestMoveAppliesMove(t *testing.T) {
	const thinking = 80 * time.Millisecond
	g := board.NewGame()
	eng := quickEngine(thinking)

	start := time.Now()
	r := receive(t, eng.RequestMove(context.Background(), g))
	if r.Outcome != engine.Moved || r.Err != nil {
		t.Fatalf("reply = %+v, want a move", r)
	}
	if since := time.Since(start); since < thinking {
		t.Errorf("reply after %v, want at least %v", since, thinking)
	}
	if r.Elapsed < thinking {
		t.Errorf("Elapsed = %v, want at least %v", r.Elapsed, thinking)
	}
	hist := g.History()
	if len(hist) != 1 || hist[0] != r.Move {
		t.Errorf("history = %v, want [%s]", hist, r.Move)
	}
}

func TestRequestMoveNoLegalMoves(t *testing.T) {
	const fen = "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"
	g := mustGame(t, fen)
	r := receive(t, quickEngine(0).RequestMove(context.Background(), g))
	if r.Outcome != engine.NoLegalMoves {
		t.Errorf("Outcome = %v, want %v", r.Outcome, engine.NoLegalMoves)
	}
	if g.FEN() != fen {
		t.Errorf("position changed: %s", g.FEN())
	}
}

func TestRequestMoveCancelledBeforeStart(t *testing.T) {
	g := board.NewGame()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := receive(t, quickEngine(time.Second).RequestMove(ctx, g))
	if r.Outcome != engine.Cancelled || !errors.Is(r.Err, context.Canceled) {
		t.Errorf("reply = %+v, want cancelled", r)
	}
	if g.Plies() != 0 {
		t.Errorf("cancelled request applied %d plies", g.Plies())
	}
}

func TestRequestMoveCancelledWhileWaiting(t *testing.T) {
	g := board.NewGame()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng := quickEngine(5 * time.Second)
	replies := eng.RequestMove(ctx, g)
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	r := receive(t, replies)
	if r.Outcome != engine.Cancelled {
		t.Fatalf("Outcome = %v, want %v", r.Outcome, engine.Cancelled)
	}
	if waited := time.Since(start); waited > 4*time.Second {
		t.Errorf("cancel took %v to take effect", waited)
	}
	if g.Plies() != 0 {
		t.Errorf("cancelled request applied %d plies", g.Plies())
	}
}

func TestRequestMoveDeadline(t *testing.T) {
	g := board.NewGame()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	r := receive(t, quickEngine(time.Second).RequestMove(ctx, g))
	if r.Outcome != engine.Cancelled || !errors.Is(r.Err, context.DeadlineExceeded) {
		t.Errorf("reply = %+v, want deadline exceeded", r)
	}
}
