package engine

import (
	"context"
	"sync/atomic"
	"time"
)

// Outcome tells how a RequestMove call ended.
type Outcome int

const (
	Moved        Outcome = iota // a move was chosen and applied
	NoLegalMoves                // the side to move is mated or stalemated
	Cancelled                   // the context ended before the move was applied
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case NoLegalMoves:
		return "no legal moves"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Reply is delivered once per RequestMove call.
type Reply[M comparable] struct {
	Move    M // valid only when Outcome is Moved
	Outcome Outcome
	Elapsed time.Duration
	Err     error // the context error when Outcome is Cancelled
}

// RequestMove searches pos in the background with the active profile, waits
// until at least the thinking time has passed since the call (and never less
// than the minimum delay after the search), applies the chosen move to pos and
// then delivers a Reply on the returned channel. The channel is closed after
// the single reply.
//
// The caller must not touch pos until the reply has been received. If ctx ends
// first the search is stopped, pos is left unchanged and the reply carries
// Cancelled.
func (e *Engine[M]) RequestMove(ctx context.Context, pos Oracle[M]) <-chan Reply[M] {
	replies := make(chan Reply[M], 1)
	p := e.Profile()
	thinking := e.ThinkingTime()

	go func() {
		defer close(replies)
		start := time.Now()

		var stop atomic.Bool
		release := context.AfterFunc(ctx, func() { stop.Store(true) })
		m, ok, err := e.findBestMove(pos, p, &stop)
		release()

		if err != nil {
			replies <- Reply[M]{Outcome: Cancelled, Elapsed: time.Since(start), Err: ctx.Err()}
			return
		}
		if !ok {
			replies <- Reply[M]{Outcome: NoLegalMoves, Elapsed: time.Since(start)}
			return
		}

		delay := max(thinking-time.Since(start), e.minDelay)
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			replies <- Reply[M]{Outcome: Cancelled, Elapsed: time.Since(start), Err: ctx.Err()}
			return
		case <-timer.C:
		}

		pos.Apply(m)
		e.log.Debug().Dur("elapsed", time.Since(start)).Msg("move delivered")
		replies <- Reply[M]{Move: m, Outcome: Moved, Elapsed: time.Since(start)}
	}()

	return replies
}
