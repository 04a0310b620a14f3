package console

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hailam/chessnova/internal/puzzle"
	"github.com/hailam/chessnova/internal/storage"
)

func (c *Console) handleStats() {
	if c.store == nil {
		c.errorf("statistics are disabled")
		return
	}
	stats, err := c.store.LoadStats()
	if err != nil {
		c.errorf("%v", err)
		return
	}
	progress, err := c.store.LoadPuzzleProgress()
	if err != nil {
		c.errorf("%v", err)
		return
	}
	achievements, err := c.store.LoadAchievements()
	if err != nil {
		c.errorf("%v", err)
		return
	}

	c.printf("Games: %s (won %s, lost %s, drawn %s), win rate %d%%\n",
		humanize.Comma(int64(stats.GamesPlayed)), humanize.Comma(int64(stats.Wins)),
		humanize.Comma(int64(stats.Losses)), humanize.Comma(int64(stats.Draws)), stats.WinRate)
	c.printf("Streak: %d (best %d)\n", stats.CurrentStreak, stats.BestStreak)
	if len(stats.WinsByDiff) > 0 {
		levels := make([]string, 0, len(stats.WinsByDiff))
		for level := range stats.WinsByDiff {
			levels = append(levels, level)
		}
		slices.Sort(levels)
		for i, level := range levels {
			levels[i] = fmt.Sprintf("%s %d", level, stats.WinsByDiff[level])
		}
		c.printf("Wins by level: %s\n", strings.Join(levels, ", "))
	}
	c.printf("Play time: %s\n", duration(stats.TotalPlayTime))
	c.printf("Puzzles solved: %s, rating %s, streak %d\n",
		humanize.Comma(int64(stats.PuzzlesSolved)), humanize.Comma(int64(progress.Rating)), progress.Streak)

	marks := make([]string, len(storage.AllAchievements))
	for i, id := range storage.AllAchievements {
		mark := " "
		if achievements[id] {
			mark = "x"
		}
		marks[i] = fmt.Sprintf("[%s] %s", mark, id)
	}
	c.printf("Achievements: %s\n", strings.Join(marks, " "))
	if !c.prefs.LastPlayed.IsZero() {
		c.printf("Last played: %s\n", humanize.Time(c.prefs.LastPlayed))
	}
}

func (c *Console) handleExport(args []string) {
	if c.store == nil {
		c.errorf("statistics are disabled")
		return
	}
	if len(args) == 0 {
		if err := c.store.Export(c.out); err != nil {
			c.errorf("%v", err)
		}
		return
	}

	f, err := os.Create(args[0])
	if err != nil {
		c.errorf("%v", err)
		return
	}
	err = c.store.Export(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		c.errorf("%v", err)
		return
	}
	c.printf("Saved data exported to %s\n", args[0])
}

func (c *Console) handleImport(args []string) {
	if c.store == nil {
		c.errorf("statistics are disabled")
		return
	}
	if len(args) == 0 {
		c.errorf("usage: import <file>")
		return
	}
	f, err := os.Open(args[0])
	if err != nil {
		c.errorf("%v", err)
		return
	}
	defer f.Close()
	if err := c.store.Import(f); err != nil {
		c.errorf("%v", err)
		return
	}

	prefs, err := c.store.LoadPreferences()
	if err != nil {
		c.errorf("%v", err)
		return
	}
	c.prefs = prefs
	if c.eng.SetDifficulty(prefs.Difficulty) {
		c.printf("Level set to %s\n", c.eng.Profile())
	}
	c.printf("Saved data imported from %s\n", args[0])
}

// duration renders d as a rounded amount such as "3 minutes".
func duration(d time.Duration) string {
	if d < time.Second {
		return "none"
	}
	now := time.Now()
	return strings.TrimSpace(humanize.RelTime(now.Add(-d), now, "", ""))
}

func (c *Console) handlePuzzle(args []string) {
	if len(args) > 0 && args[0] == "list" {
		progress := c.puzzleProgress()
		for _, p := range puzzle.All() {
			mark := " "
			if progress.IsSolved(p.ID) {
				mark = "x"
			}
			c.printf("[%s] %-16s %-8s %4d  %s\n", mark, p.ID, p.Difficulty, p.Rating, p.Name)
		}
		return
	}

	var p puzzle.Puzzle
	if len(args) > 0 {
		var err error
		if p, err = puzzle.ByID(args[0]); err != nil {
			c.errorf("%v", err)
			return
		}
	} else {
		p = puzzle.Next(c.puzzleProgress().IsSolved)
	}

	s, err := puzzle.NewSession(p)
	if err != nil {
		c.errorf("%v", err)
		return
	}
	c.puzzle, c.failed = s, false
	c.printf("Puzzle %s: %s (rating %d)\n%s. %s to move.\n", p.ID, p.Name, p.Rating, p.Objective(), s.Game().Turn())
	c.printf("%s", s.Game())
}

func (c *Console) tryPuzzle(text string) {
	id := c.puzzle.Puzzle().ID
	verdict, err := c.puzzle.Try(text)
	if err != nil {
		c.errorf("%v", err)
		return
	}

	switch verdict {
	case puzzle.Wrong:
		c.printf("Not the move. Try again, or type \"hint\".\n")
		if !c.failed {
			c.failed = true
			c.recordPuzzle(id, false)
		}
	case puzzle.Correct:
		c.printf("Correct! Opponent replies %s. Keep going.\n", c.puzzle.LastReply())
	case puzzle.Solved:
		if reply := c.puzzle.LastReply(); reply != "" {
			c.printf("Opponent replies %s.\n", reply)
		}
		c.printf("Solved! Type \"puzzle\" for the next one or \"new\" for a game.\n")
		c.puzzle = nil
		c.recordPuzzle(id, true)
	}
}

func (c *Console) recordPuzzle(id string, solved bool) {
	if c.store == nil {
		return
	}
	progress, unlocked, err := c.store.RecordPuzzle(id, solved)
	if err != nil {
		c.log.Error().Err(err).Str("puzzle", id).Msg("record puzzle")
		return
	}
	c.printf("Puzzle rating: %s\n", humanize.Comma(int64(progress.Rating)))
	c.reportAchievements(unlocked)
}

func (c *Console) puzzleProgress() *storage.PuzzleProgress {
	if c.store == nil {
		return storage.DefaultPuzzleProgress()
	}
	progress, err := c.store.LoadPuzzleProgress()
	if err != nil {
		c.log.Error().Err(err).Msg("load puzzle progress")
		return storage.DefaultPuzzleProgress()
	}
	return progress
}
