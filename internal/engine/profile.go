package engine

import (
	"fmt"
	"strings"
)

// Profile selects engine strength: how deep the search looks and how often
// the root choice is loosened to one of the best few moves.
type Profile struct {
	Name       string
	Depth      int     // plies searched from the root
	Randomness float64 // probability in [0, 1] of picking among the top moves
}

// String returns the profile name with its parameters.
func (p Profile) String() string {
	return fmt.Sprintf("%s (depth %d, randomness %.2f)", p.Name, p.Depth, p.Randomness)
}

// Difficulty presets
var (
	Easy   = Profile{Name: "easy", Depth: 2, Randomness: 0.3}
	Medium = Profile{Name: "medium", Depth: 3, Randomness: 0.1}
	Hard   = Profile{Name: "hard", Depth: 4, Randomness: 0}
)

// DefaultProfile is used when no profile, or an unknown one, is requested.
var DefaultProfile = Medium

// Profiles lists the presets from weakest to strongest.
var Profiles = []Profile{Easy, Medium, Hard}

// hintProfile is the deepest preset with randomness removed.
func hintProfile() Profile {
	p := Profiles[len(Profiles)-1]
	p.Randomness = 0
	return p
}

// ProfileByName looks up a preset by name, ignoring case. Unknown names return
// DefaultProfile and false.
func ProfileByName(name string) (Profile, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return DefaultProfile, false
}

// normalize clamps a profile into the range the search accepts.
func (p Profile) normalize() Profile {
	if p.Depth < 1 {
		p.Depth = 1
	}
	if p.Depth > maxPly {
		p.Depth = maxPly
	}
	p.Randomness = min(max(p.Randomness, 0), 1)
	if p.Name == "" {
		p.Name = "custom"
	}
	return p
}
