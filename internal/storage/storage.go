// Package storage provides persistent storage for user preferences, game
// statistics, puzzle progress and achievements.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// Storage keys
const (
	keyPreferences    = "preferences"
	keyStats          = "stats"
	keyPuzzleProgress = "puzzle_progress"
	keyAchievements   = "achievements"
	keyFirstLaunch    = "first_launch"
)

// Puzzle rating bounds and steps.
const (
	DefaultPuzzleRating = 1200
	MaxPuzzleRating     = 3000
	MinPuzzleRating     = 400
	puzzleSolveGain     = 15
	puzzleFailLoss      = 10
)

// Achievement ids
const (
	AchievementFirstWin      = "first_win"
	AchievementWinningStreak = "winning_streak"
	AchievementPuzzleMaster  = "puzzle_master"
	AchievementVeteran       = "veteran"
)

// Achievement thresholds
const (
	winningStreakLength = 5
	puzzleMasterSolved  = 10
	veteranGames        = 50
)

// UserPreferences stores user settings
type UserPreferences struct {
	Username     string        `json:"username"`
	Difficulty   string        `json:"difficulty"`
	ThinkingTime time.Duration `json:"thinking_time"`
	PlayerColor  string        `json:"player_color"`
	SoundEnabled bool          `json:"sound_enabled"`
	LastPlayed   time.Time     `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:     "Player",
		Difficulty:   "medium",
		ThinkingTime: 500 * time.Millisecond,
		PlayerColor:  "white",
		SoundEnabled: true,
	}
}

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed   int            `json:"games_played"`
	Wins          int            `json:"wins"`
	Losses        int            `json:"losses"`
	Draws         int            `json:"draws"`
	WinRate       int            `json:"win_rate"` // rounded percentage
	WinsByDiff    map[string]int `json:"wins_by_difficulty"`
	TotalPlayTime time.Duration  `json:"total_play_time"`
	BestStreak    int            `json:"best_streak"`
	CurrentStreak int            `json:"current_streak"`
	PuzzlesSolved int            `json:"puzzles_solved"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{WinsByDiff: make(map[string]int)}
}

// Result is the outcome of a finished game from the player's side.
type Result int

const (
	Loss Result = iota
	Draw
	Win
)

func (r Result) String() string {
	switch r {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "loss"
	}
}

// GameResult represents the result of a completed game
type GameResult struct {
	Result     Result
	Difficulty string
	Duration   time.Duration
}

// PuzzleProgress tracks puzzle solving.
type PuzzleProgress struct {
	Solved []string `json:"solved"`
	Rating int      `json:"rating"`
	Streak int      `json:"streak"`
}

// DefaultPuzzleProgress returns the progress of a player who has not tried a
// puzzle yet.
func DefaultPuzzleProgress() *PuzzleProgress {
	return &PuzzleProgress{Solved: []string{}, Rating: DefaultPuzzleRating}
}

// IsSolved reports whether the puzzle id has been solved before.
func (p *PuzzleProgress) IsSolved(id string) bool {
	return slices.Contains(p.Solved, id)
}

// Achievements maps achievement ids to their unlocked state.
type Achievements map[string]bool

// AllAchievements lists every achievement id in display order.
var AllAchievements = []string{
	AchievementFirstWin,
	AchievementWinningStreak,
	AchievementPuzzleMaster,
	AchievementVeteran,
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// Open opens, or creates, the database in dir. Badger's own log lines go to
// logger.
func Open(dir string, logger zerolog.Logger) (*Storage, error) {
	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{logger})
	return open(opts)
}

// OpenDefault opens the database in the platform data directory, or below
// dataDir when it is not empty.
func OpenDefault(dataDir string, logger zerolog.Logger) (*Storage, error) {
	dbDir, err := DatabaseDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("storage: data dir: %w", err)
	}
	return Open(dbDir, logger)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.db.Update(func(txn *badger.Txn) error {
		return put(txn, keyPreferences, prefs)
	})
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	err := s.db.View(func(txn *badger.Txn) error {
		return get(txn, keyPreferences, prefs)
	})
	return prefs, err
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	err := s.db.View(func(txn *badger.Txn) error {
		return get(txn, keyStats, stats)
	})
	return stats, err
}

// LoadPuzzleProgress loads puzzle progress, returns defaults if not found
func (s *Storage) LoadPuzzleProgress() (*PuzzleProgress, error) {
	progress := DefaultPuzzleProgress()
	err := s.db.View(func(txn *badger.Txn) error {
		return get(txn, keyPuzzleProgress, progress)
	})
	return progress, err
}

// LoadAchievements returns the unlocked state of every achievement.
func (s *Storage) LoadAchievements() (Achievements, error) {
	a := make(Achievements, len(AllAchievements))
	for _, id := range AllAchievements {
		a[id] = false
	}
	err := s.db.View(func(txn *badger.Txn) error {
		return get(txn, keyAchievements, &a)
	})
	return a, err
}

// RecordGame records a completed game, updates statistics and returns the
// updated statistics with any achievements it unlocked.
func (s *Storage) RecordGame(result GameResult) (*GameStats, []string, error) {
	stats := NewGameStats()
	var unlocked []string

	err := s.db.Update(func(txn *badger.Txn) error {
		if err := get(txn, keyStats, stats); err != nil {
			return err
		}

		stats.GamesPlayed++
		stats.TotalPlayTime += result.Duration

		switch result.Result {
		case Win:
			stats.Wins++
			stats.CurrentStreak++
			stats.BestStreak = max(stats.BestStreak, stats.CurrentStreak)
			if result.Difficulty != "" {
				if stats.WinsByDiff == nil {
					stats.WinsByDiff = make(map[string]int)
				}
				stats.WinsByDiff[result.Difficulty]++
			}
		case Loss:
			stats.Losses++
			stats.CurrentStreak = 0
		case Draw:
			stats.Draws++
		}
		stats.WinRate = winRate(stats.Wins, stats.GamesPlayed)

		if err := put(txn, keyStats, stats); err != nil {
			return err
		}
		var err error
		unlocked, err = unlockAchievements(txn, stats)
		return err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("storage: record game: %w", err)
	}
	return stats, unlocked, nil
}

// RecordPuzzle records an attempt at puzzle id. A solve raises the puzzle
// rating and streak, a failure lowers the rating and resets the streak.
func (s *Storage) RecordPuzzle(id string, solved bool) (*PuzzleProgress, []string, error) {
	progress := DefaultPuzzleProgress()
	var unlocked []string

	err := s.db.Update(func(txn *badger.Txn) error {
		if err := get(txn, keyPuzzleProgress, progress); err != nil {
			return err
		}

		if !solved {
			progress.Streak = 0
			progress.Rating = max(MinPuzzleRating, progress.Rating-puzzleFailLoss)
			return put(txn, keyPuzzleProgress, progress)
		}

		progress.Streak++
		progress.Rating = min(MaxPuzzleRating, progress.Rating+puzzleSolveGain)
		if !progress.IsSolved(id) {
			progress.Solved = append(progress.Solved, id)
		}
		if err := put(txn, keyPuzzleProgress, progress); err != nil {
			return err
		}

		stats := NewGameStats()
		if err := get(txn, keyStats, stats); err != nil {
			return err
		}
		stats.PuzzlesSolved++
		if err := put(txn, keyStats, stats); err != nil {
			return err
		}

		var err error
		unlocked, err = unlockAchievements(txn, stats)
		return err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("storage: record puzzle: %w", err)
	}
	return progress, unlocked, nil
}

// unlockAchievements marks every achievement stats qualifies for and returns
// the ids that were not unlocked before.
func unlockAchievements(txn *badger.Txn, stats *GameStats) ([]string, error) {
	a := make(Achievements)
	if err := get(txn, keyAchievements, &a); err != nil {
		return nil, err
	}

	earned := map[string]bool{
		AchievementFirstWin:      stats.Wins >= 1,
		AchievementWinningStreak: stats.BestStreak >= winningStreakLength,
		AchievementPuzzleMaster:  stats.PuzzlesSolved >= puzzleMasterSolved,
		AchievementVeteran:       stats.GamesPlayed >= veteranGames,
	}

	var unlocked []string
	for _, id := range AllAchievements {
		if earned[id] && !a[id] {
			a[id] = true
			unlocked = append(unlocked, id)
		}
	}
	if len(unlocked) == 0 {
		return nil, nil
	}
	return unlocked, put(txn, keyAchievements, a)
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *GameStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

func winRate(wins, games int) int {
	if games == 0 {
		return 0
	}
	return (wins*100 + games/2) / games
}

// get decodes the JSON value under key into v. A missing key leaves v as it
// was, so callers pass in their defaults.
func get(txn *badger.Txn, key string, v any) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func put(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), data)
}

// badgerLogger sends badger's log lines to zerolog. Badger is chatty at info
// level, so its info lines are logged at debug.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.log.Error().Str("component", "badger").Msgf(trimNewline(format), args...)
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.log.Warn().Str("component", "badger").Msgf(trimNewline(format), args...)
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.log.Debug().Str("component", "badger").Msgf(trimNewline(format), args...)
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.log.Trace().Str("component", "badger").Msgf(trimNewline(format), args...)
}

func trimNewline(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		return s[:n-1]
	}
	return s
}
