package golf

// StablefordPoints awards points for a hole by strokes relative to par:
// 3 points at par, one more per stroke under, one less per stroke over,
// floored at 0 and capped at 6. The same table serves both the
// handicap-adjusted variant (net strokes) and the scratch variant
// (gross strokes).
func StablefordPoints(strokes, par int) int {
	diff := strokes - par
	switch {
	case diff >= 3:
		return 0
	case diff == 2:
		return 1
	case diff == 1:
		return 2
	case diff == 0:
		return 3
	case diff == -1:
		return 4
	case diff == -2:
		return 5
	default: // diff <= -3
		return 6
	}
}

// ResultCategory classifies a hole by its gross score.
type ResultCategory string

const (
	HoleInOne   ResultCategory = "hole_in_one"
	Albatross   ResultCategory = "albatross"
	Eagle       ResultCategory = "eagle"
	Birdie      ResultCategory = "birdie"
	Par         ResultCategory = "par"
	Bogey       ResultCategory = "bogey"
	DoubleBogey ResultCategory = "double_bogey"
	OverDouble  ResultCategory = "over_double"
)

// ClassifyHole maps gross strokes against par to a result category.
// A gross 1 is always a hole-in-one, even where the par difference
// would also qualify as albatross.
func ClassifyHole(gross, par int) ResultCategory {
	if gross == 1 {
		return HoleInOne
	}
	switch diff := gross - par; {
	case diff <= -3:
		return Albatross
	case diff == -2:
		return Eagle
	case diff == -1:
		return Birdie
	case diff == 0:
		return Par
	case diff == 1:
		return Bogey
	case diff == 2:
		return DoubleBogey
	default:
		return OverDouble
	}
}
