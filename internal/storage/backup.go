package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// backupVersion is the format version written by Export.
const backupVersion = 1

// Backup is the portable form of everything the store keeps.
type Backup struct {
	Version        int              `json:"version"`
	ExportedAt     time.Time        `json:"exported_at"`
	Preferences    *UserPreferences `json:"preferences"`
	Stats          *GameStats       `json:"stats"`
	PuzzleProgress *PuzzleProgress  `json:"puzzle_progress"`
	Achievements   Achievements     `json:"achievements"`
}

// Export writes the whole store as indented JSON, read in one transaction.
func (s *Storage) Export(w io.Writer) error {
	b := Backup{
		Version:        backupVersion,
		ExportedAt:     time.Now().UTC(),
		Preferences:    DefaultPreferences(),
		Stats:          NewGameStats(),
		PuzzleProgress: DefaultPuzzleProgress(),
		Achievements:   make(Achievements, len(AllAchievements)),
	}
	for _, id := range AllAchievements {
		b.Achievements[id] = false
	}

	err := s.db.View(func(txn *badger.Txn) error {
		for key, v := range map[string]any{
			keyPreferences:    b.Preferences,
			keyStats:          b.Stats,
			keyPuzzleProgress: b.PuzzleProgress,
			keyAchievements:   &b.Achievements,
		} {
			if err := get(txn, key, v); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("storage: export: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}

// Import replaces the stored data with a backup written by Export. Sections
// missing from the backup are left untouched.
func (s *Storage) Import(r io.Reader) error {
	var b Backup
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return fmt.Errorf("storage: import: %w", err)
	}
	if b.Version != backupVersion {
		return fmt.Errorf("storage: import: unsupported backup version %d", b.Version)
	}
	if p := b.PuzzleProgress; p != nil && (p.Rating < MinPuzzleRating || p.Rating > MaxPuzzleRating) {
		return fmt.Errorf("storage: import: puzzle rating %d out of range", p.Rating)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if b.Preferences != nil {
			if err := put(txn, keyPreferences, b.Preferences); err != nil {
				return err
			}
		}
		if b.Stats != nil {
			if err := put(txn, keyStats, b.Stats); err != nil {
				return err
			}
		}
		if b.PuzzleProgress != nil {
			if err := put(txn, keyPuzzleProgress, b.PuzzleProgress); err != nil {
				return err
			}
		}
		if b.Achievements != nil {
			return put(txn, keyAchievements, b.Achievements)
		}
		return nil
	})
}
