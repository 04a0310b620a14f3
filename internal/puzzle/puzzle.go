// Package puzzle holds the tactical puzzle catalogue and the state of a
// player working through one puzzle.
package puzzle

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Kinds of puzzle
const (
	MateInOne = "mate1"
	Tactic    = "tactic"
)

// ErrUnknownPuzzle is returned when no catalogue entry has the requested id.
var ErrUnknownPuzzle = errors.New("puzzle: unknown puzzle")

// Puzzle is one catalogue entry. Solution alternates the solver's moves with
// the opponent's replies, starting with the solver, in SAN.
type Puzzle struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Difficulty string   `json:"difficulty"`
	Rating     int      `json:"rating"`
	FEN        string   `json:"fen"`
	Solution   []string `json:"solution"`
	Hint       string   `json:"hint"`
}

// Objective describes what the solver has to achieve.
func (p Puzzle) Objective() string {
	if p.Kind == MateInOne {
		return "Checkmate in one move"
	}
	return "Find the best move"
}

//go:embed puzzles.json
var catalogueJSON []byte

var catalogue = mustParse(catalogueJSON)

func mustParse(data []byte) []Puzzle {
	puzzles, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return puzzles
}

// Parse decodes a JSON catalogue and checks that ids are unique and every
// entry has a position and a solution.
func Parse(data []byte) ([]Puzzle, error) {
	var puzzles []Puzzle
	if err := json.Unmarshal(data, &puzzles); err != nil {
		return nil, fmt.Errorf("puzzle: decode catalogue: %w", err)
	}
	seen := make(map[string]bool, len(puzzles))
	for _, p := range puzzles {
		switch {
		case p.ID == "":
			return nil, fmt.Errorf("puzzle: entry %q has no id", p.Name)
		case seen[p.ID]:
			return nil, fmt.Errorf("puzzle: duplicate id %q", p.ID)
		case p.FEN == "" || len(p.Solution) == 0:
			return nil, fmt.Errorf("puzzle: %s needs a FEN and a solution", p.ID)
		case p.Kind != MateInOne && p.Kind != Tactic:
			return nil, fmt.Errorf("puzzle: %s has unknown kind %q", p.ID, p.Kind)
		}
		seen[p.ID] = true
	}
	return puzzles, nil
}

// All returns the catalogue in order.
func All() []Puzzle {
	return slices.Clone(catalogue)
}

// ByID returns the catalogue entry with the given id.
func ByID(id string) (Puzzle, error) {
	for _, p := range catalogue {
		if p.ID == id {
			return p, nil
		}
	}
	return Puzzle{}, fmt.Errorf("%w: %q", ErrUnknownPuzzle, id)
}

// Next returns the first puzzle not yet solved, or the first puzzle when
// every one has been solved.
func Next(solved func(id string) bool) Puzzle {
	for _, p := range catalogue {
		if !solved(p.ID) {
			return p
		}
	}
	return catalogue[0]
}

// sameMove compares two SAN strings, ignoring check and mate marks.
func sameMove(a, b string) bool {
	return strings.TrimRight(a, "+#") == strings.TrimRight(b, "+#")
}
