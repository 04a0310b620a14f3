package engine

import (
	"math/rand"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Default delivery timings.
const (
	DefaultThinkingTime = 500 * time.Millisecond
	DefaultMinDelay     = 100 * time.Millisecond
)

// topChoices is how many root moves the randomized pick chooses from.
const topChoices = 3

// Options configures a new Engine. The zero value is usable.
type Options struct {
	Profile      Profile       // zero value means DefaultProfile
	ThinkingTime time.Duration // floor on the perceived latency of RequestMove
	MinDelay     time.Duration // minimum wait after the search, even when slow
	Seed         int64         // 0 seeds from the clock
	Logger       zerolog.Logger
}

// ScoredMove is a root move with its search score from White's point of view.
type ScoredMove[M comparable] struct {
	Move  M
	Score Score
}

// Engine picks moves for one side of a game. All methods are safe for
// concurrent use, though a single position must never be searched by two
// calls at once.
type Engine[M comparable] struct {
	profile      atomic.Pointer[Profile]
	thinkingTime atomic.Int64
	minDelay     time.Duration

	mu  sync.Mutex // guards rng
	rng *rand.Rand

	log zerolog.Logger
}

// New creates an engine.
func New[M comparable](opts Options) *Engine[M] {
	p := opts.Profile
	if p.Depth == 0 {
		p = DefaultProfile
	}
	if opts.ThinkingTime == 0 {
		opts.ThinkingTime = DefaultThinkingTime
	}
	if opts.MinDelay == 0 {
		opts.MinDelay = DefaultMinDelay
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e := &Engine[M]{
		minDelay: opts.MinDelay,
		rng:      rand.New(rand.NewSource(seed)),
		log:      opts.Logger,
	}
	e.SetProfile(p)
	e.SetThinkingTime(opts.ThinkingTime)
	return e
}

// Profile returns the active profile.
func (e *Engine[M]) Profile() Profile {
	return *e.profile.Load()
}

// SetProfile replaces the active profile. Searches already running keep the
// profile they started with.
func (e *Engine[M]) SetProfile(p Profile) {
	p = p.normalize()
	e.profile.Store(&p)
}

// SetDifficulty activates a preset by name. Unknown names activate
// DefaultProfile and return false.
func (e *Engine[M]) SetDifficulty(name string) bool {
	p, ok := ProfileByName(name)
	e.SetProfile(p)
	return ok
}

// ThinkingTime returns the delivery floor used by RequestMove.
func (e *Engine[M]) ThinkingTime() time.Duration {
	return time.Duration(e.thinkingTime.Load())
}

// SetThinkingTime sets the delivery floor used by RequestMove.
func (e *Engine[M]) SetThinkingTime(d time.Duration) {
	if d < 0 {
		d = 0
	}
	e.thinkingTime.Store(int64(d))
}

// FindBestMove searches pos with the active profile. It returns false when
// the side to move has no legal move. pos is left as it was found.
func (e *Engine[M]) FindBestMove(pos Oracle[M]) (M, bool) {
	return e.FindBestMoveWith(pos, e.Profile())
}

// FindBestMoveWith is FindBestMove with an explicit profile.
func (e *Engine[M]) FindBestMoveWith(pos Oracle[M], p Profile) (M, bool) {
	m, ok, _ := e.findBestMove(pos, p.normalize(), nil)
	return m, ok
}

// Hint returns the move the strongest preset would play, without randomness.
// The active profile is not touched.
func (e *Engine[M]) Hint(pos Oracle[M]) (M, bool) {
	return e.FindBestMoveWith(pos, hintProfile())
}

// Analyse scores every root move with the active profile, best first for the
// side to move.
func (e *Engine[M]) Analyse(pos Oracle[M]) ([]ScoredMove[M], error) {
	return e.AnalyseWith(pos, e.Profile())
}

// AnalyseWith is Analyse with an explicit profile.
func (e *Engine[M]) AnalyseWith(pos Oracle[M], p Profile) ([]ScoredMove[M], error) {
	scored, err := e.scoreRoot(pos, p.normalize(), nil)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(scored, byPreference[M](pos.SideToMove() == White))
	return scored, nil
}

// AcceptsDraw reports whether the engine agrees to a draw offered in pos:
// the position is roughly level, already drawn, or nearly out of moves.
func (e *Engine[M]) AcceptsDraw(pos Oracle[M]) bool {
	if pos.IsDraw() || len(pos.LegalMoves()) < 10 {
		return true
	}
	score := Evaluate(pos)
	return score > -100 && score < 100
}

func (e *Engine[M]) findBestMove(pos Oracle[M], p Profile, stop *atomic.Bool) (M, bool, error) {
	var zero M

	moves := pos.LegalMoves()
	switch len(moves) {
	case 0:
		return zero, false, nil
	case 1:
		return moves[0], true, nil
	}

	scored, err := e.scoreRoot(pos, p, stop)
	if err != nil {
		return zero, false, err
	}
	return e.choose(scored, pos.SideToMove() == White, p), true, nil
}

// scoreRoot searches every legal move of pos in oracle order.
func (e *Engine[M]) scoreRoot(pos Oracle[M], p Profile, stop *atomic.Bool) ([]ScoredMove[M], error) {
	start := time.Now()
	maximizing := pos.SideToMove() == White
	s := NewSearcher[M](stop)

	moves := pos.LegalMoves()
	scored := make([]ScoredMove[M], 0, len(moves))
	for _, m := range moves {
		pos.Apply(m)
		score := s.search(pos, p.Depth-1, 1, -Infinity, Infinity, !maximizing)
		pos.Undo()
		if s.Stopped() {
			e.log.Debug().Str("profile", p.Name).Uint64("nodes", s.Nodes()).Msg("search stopped")
			return nil, ErrStopped
		}
		scored = append(scored, ScoredMove[M]{Move: m, Score: score})
	}

	e.log.Debug().
		Str("profile", p.Name).
		Int("depth", p.Depth).
		Int("moves", len(scored)).
		Uint64("nodes", s.Nodes()).
		Dur("elapsed", time.Since(start)).
		Msg("root searched")
	return scored, nil
}

// choose returns the strictly best root move, ties going to the earliest. With
// probability p.Randomness it instead picks uniformly among the top three.
func (e *Engine[M]) choose(scored []ScoredMove[M], maximizing bool, p Profile) M {
	best := 0
	for i := 1; i < len(scored); i++ {
		if maximizing && scored[i].Score > scored[best].Score ||
			!maximizing && scored[i].Score < scored[best].Score {
			best = i
		}
	}

	if p.Randomness <= 0 || e.float64() >= p.Randomness {
		return scored[best].Move
	}

	ranked := slices.Clone(scored)
	slices.SortStableFunc(ranked, byPreference[M](maximizing))
	top := ranked[:min(topChoices, len(ranked))]
	return top[e.intn(len(top))].Move
}

// byPreference orders scored moves best first for the given side.
func byPreference[M comparable](maximizing bool) func(a, b ScoredMove[M]) int {
	return func(a, b ScoredMove[M]) int {
		if maximizing {
			return b.Score - a.Score
		}
		return a.Score - b.Score
	}
}

func (e *Engine[M]) float64() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Float64()
}

func (e *Engine[M]) intn(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Intn(n)
}
