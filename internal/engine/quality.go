package engine

// Quality grades a played move by how much it changed the static evaluation
// for the side that made it.
type Quality int

const (
	Mistake Quality = iota
	Inaccurate
	Good
	Excellent
)

// Classification thresholds in centipawns.
const (
	excellentGain  = 200
	goodGain       = 100
	inaccurateGain = -50
)

// String returns the lowercase quality name.
func (q Quality) String() string {
	switch q {
	case Excellent:
		return "excellent"
	case Good:
		return "good"
	case Inaccurate:
		return "inaccurate"
	default:
		return "mistake"
	}
}

// ClassifyMove grades m, a legal move in pos, by comparing the evaluation
// before and after it. pos is restored before returning.
func (e *Engine[M]) ClassifyMove(pos Oracle[M], m M) Quality {
	return ClassifyMove(pos, m)
}

// ClassifyMove grades m, a legal move in pos. See Engine.ClassifyMove.
func ClassifyMove[M comparable](pos Oracle[M], m M) Quality {
	mover := pos.SideToMove()
	before := Evaluate(pos)
	pos.Apply(m)
	after := Evaluate(pos)
	pos.Undo()

	diff := after - before
	if mover == Black {
		diff = -diff
	}

	switch {
	case diff > excellentGain:
		return Excellent
	case diff > goodGain:
		return Good
	case diff > inaccurateGain:
		return Inaccurate
	default:
		return Mistake
	}
}
