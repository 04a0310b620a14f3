package storage

import (
	"bytes"
	"os"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorage(t *testing.T) {
	t.Run("DefaultPreferences", func(t *testing.T) {
		prefs := DefaultPreferences()
		if prefs.Username != "Player" {
			t.Errorf("Expected username 'Player', got '%s'", prefs.Username)
		}
		if prefs.Difficulty != "medium" {
			t.Errorf("Expected medium difficulty, got %q", prefs.Difficulty)
		}
		if !prefs.SoundEnabled {
			t.Errorf("Expected sound enabled by default")
		}
	})

	t.Run("NewGameStats", func(t *testing.T) {
		stats := NewGameStats()
		if stats.GamesPlayed != 0 {
			t.Errorf("Expected 0 games played")
		}
		if stats.GetWinRate() != 0 {
			t.Errorf("Expected 0 win rate")
		}
	})

	t.Run("WinRate", func(t *testing.T) {
		stats := &GameStats{
			GamesPlayed: 10,
			Wins:        5,
			Losses:      3,
			Draws:       2,
		}
		rate := stats.GetWinRate()
		if rate != 50 {
			t.Errorf("Expected 50%% win rate, got %.2f%%", rate)
		}
	})
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := openTest(t)

	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if *prefs != *DefaultPreferences() {
		t.Errorf("fresh database preferences = %+v, want defaults", prefs)
	}

	prefs.Username = "ada"
	prefs.Difficulty = "hard"
	prefs.ThinkingTime = 2 * time.Second
	prefs.PlayerColor = "black"
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if got.Username != "ada" || got.Difficulty != "hard" || got.ThinkingTime != 2*time.Second || got.PlayerColor != "black" {
		t.Errorf("LoadPreferences = %+v", got)
	}
	if got.LastPlayed.IsZero() {
		t.Error("LastPlayed not set on save")
	}
}

func TestFirstLaunch(t *testing.T) {
	s := openTest(t)
	first, err := s.IsFirstLaunch()
	if err != nil || !first {
		t.Fatalf("IsFirstLaunch = %v, %v; want true", first, err)
	}
	if err := s.MarkFirstLaunchComplete(); err != nil {
		t.Fatal(err)
	}
	if first, _ := s.IsFirstLaunch(); first {
		t.Error("IsFirstLaunch still true after marking")
	}
}

func TestRecordGame(t *testing.T) {
	s := openTest(t)

	results := []GameResult{
		{Result: Win, Difficulty: "easy", Duration: time.Minute},
		{Result: Win, Difficulty: "hard", Duration: time.Minute},
		{Result: Draw, Difficulty: "hard", Duration: time.Minute},
		{Result: Win, Difficulty: "hard", Duration: time.Minute},
		{Result: Loss, Difficulty: "medium", Duration: time.Minute},
	}
	var stats *GameStats
	for _, r := range results {
		var err error
		if stats, _, err = s.RecordGame(r); err != nil {
			t.Fatal(err)
		}
	}

	if stats.GamesPlayed != 5 || stats.Wins != 3 || stats.Draws != 1 || stats.Losses != 1 {
		t.Errorf("counts = %+v", stats)
	}
	// A draw keeps the streak going; the loss ends it.
	if stats.BestStreak != 3 || stats.CurrentStreak != 0 {
		t.Errorf("streaks best=%d current=%d, want 3 and 0", stats.BestStreak, stats.CurrentStreak)
	}
	if stats.WinRate != 60 {
		t.Errorf("WinRate = %d, want 60", stats.WinRate)
	}
	if stats.WinsByDiff["hard"] != 2 || stats.WinsByDiff["easy"] != 1 {
		t.Errorf("WinsByDiff = %v", stats.WinsByDiff)
	}
	if stats.TotalPlayTime != 5*time.Minute {
		t.Errorf("TotalPlayTime = %v", stats.TotalPlayTime)
	}

	loaded, err := s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.GamesPlayed != stats.GamesPlayed || loaded.WinRate != stats.WinRate {
		t.Errorf("LoadStats = %+v, want %+v", loaded, stats)
	}
}

func TestAchievements(t *testing.T) {
	s := openTest(t)

	_, unlocked, err := s.RecordGame(GameResult{Result: Win})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(unlocked, []string{AchievementFirstWin}) {
		t.Errorf("first win unlocked %v", unlocked)
	}
	if _, unlocked, _ = s.RecordGame(GameResult{Result: Win}); len(unlocked) != 0 {
		t.Errorf("second win unlocked %v again", unlocked)
	}

	for i := 0; i < 3; i++ {
		if _, unlocked, err = s.RecordGame(GameResult{Result: Win}); err != nil {
			t.Fatal(err)
		}
	}
	if !slices.Equal(unlocked, []string{AchievementWinningStreak}) {
		t.Errorf("fifth straight win unlocked %v", unlocked)
	}

	for i := 0; i < 10; i++ {
		if _, unlocked, err = s.RecordPuzzle("p1", true); err != nil {
			t.Fatal(err)
		}
	}
	if !slices.Equal(unlocked, []string{AchievementPuzzleMaster}) {
		t.Errorf("tenth puzzle unlocked %v", unlocked)
	}

	a, err := s.LoadAchievements()
	if err != nil {
		t.Fatal(err)
	}
	want := Achievements{
		AchievementFirstWin:      true,
		AchievementWinningStreak: true,
		AchievementPuzzleMaster:  true,
		AchievementVeteran:       false,
	}
	for id, v := range want {
		if a[id] != v {
			t.Errorf("achievement %s = %v, want %v", id, a[id], v)
		}
	}
}

func TestRecordPuzzle(t *testing.T) {
	s := openTest(t)

	progress, _, err := s.RecordPuzzle("back-rank", true)
	if err != nil {
		t.Fatal(err)
	}
	if progress.Rating != DefaultPuzzleRating+15 || progress.Streak != 1 || !progress.IsSolved("back-rank") {
		t.Errorf("after solve: %+v", progress)
	}

	progress, _, _ = s.RecordPuzzle("back-rank", true)
	if len(progress.Solved) != 1 {
		t.Errorf("solved ids duplicated: %v", progress.Solved)
	}

	progress, _, _ = s.RecordPuzzle("fork", false)
	if progress.Streak != 0 || progress.Rating != DefaultPuzzleRating+20 || progress.IsSolved("fork") {
		t.Errorf("after fail: %+v", progress)
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.PuzzlesSolved != 2 {
		t.Errorf("PuzzlesSolved = %d, want 2", stats.PuzzlesSolved)
	}
}

func TestPuzzleRatingBounds(t *testing.T) {
	s := openTest(t)
	for i := 0; i < 100; i++ {
		s.RecordPuzzle("x", false)
	}
	progress, err := s.LoadPuzzleProgress()
	if err != nil {
		t.Fatal(err)
	}
	if progress.Rating != MinPuzzleRating {
		t.Errorf("rating after many fails = %d, want %d", progress.Rating, MinPuzzleRating)
	}

	for i := 0; i < 200; i++ {
		s.RecordPuzzle("x", true)
	}
	progress, _ = s.LoadPuzzleProgress()
	if progress.Rating != MaxPuzzleRating {
		t.Errorf("rating after many solves = %d, want %d", progress.Rating, MaxPuzzleRating)
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenDefault(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenDefault: %v", err)
	}
	if _, _, err := s.RecordGame(GameResult{Result: Loss}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = OpenDefault(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	stats, err := s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Losses != 1 {
		t.Errorf("Losses after reopen = %d, want 1", stats.Losses)
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	dataDir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("DataDir returned empty path")
	}

	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	t.Logf("Data directory: %s", dataDir)
}

func TestExportImport(t *testing.T) {
	src := openTest(t)
	if _, _, err := src.RecordGame(GameResult{Result: Win, Difficulty: "hard", Duration: time.Minute}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := src.RecordPuzzle("back-rank", true); err != nil {
		t.Fatal(err)
	}
	prefs := DefaultPreferences()
	prefs.Username = "ada"
	if err := src.SavePreferences(prefs); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := src.Export(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"username": "ada"`) {
		t.Errorf("export missing preferences:\n%s", buf.String())
	}

	dst := openTest(t)
	if err := dst.Import(&buf); err != nil {
		t.Fatal(err)
	}
	stats, _ := dst.LoadStats()
	if stats.Wins != 1 || stats.WinsByDiff["hard"] != 1 || stats.PuzzlesSolved != 1 {
		t.Errorf("imported stats = %+v", stats)
	}
	progress, _ := dst.LoadPuzzleProgress()
	if !progress.IsSolved("back-rank") || progress.Rating != DefaultPuzzleRating+puzzleSolveGain {
		t.Errorf("imported progress = %+v", progress)
	}
	a, _ := dst.LoadAchievements()
	if !a[AchievementFirstWin] {
		t.Errorf("imported achievements = %v", a)
	}
	if p, _ := dst.LoadPreferences(); p.Username != "ada" {
		t.Errorf("imported username = %q", p.Username)
	}
}

func TestImportRejectsBadBackups(t *testing.T) {
	s := openTest(t)
	for _, data := range []string{
		"not json",
		`{"version": 2}`,
		`{"version": 1, "puzzle_progress": {"rating": 9000}}`,
	} {
		if err := s.Import(strings.NewReader(data)); err == nil {
			t.Errorf("Import(%s) succeeded, want error", data)
		}
	}
	if stats, _ := s.LoadStats(); stats.GamesPlayed != 0 {
		t.Error("rejected backup changed the store")
	}
}
