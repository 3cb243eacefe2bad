package golf

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Fermalla/golf-league-system/models"
)

const (
	// NeutralSlope is the reference slope rating of the WHS formula.
	NeutralSlope = 113

	// HolesPerRound is the number of holes a scorable course must have configured.
	HolesPerRound = 18
)

var ErrHoleCountInvalid = errors.New("course must have exactly 18 holes configured")

// CourseHandicap converts a player's exact handicap index into the integer
// number of strokes allowed at a course with the given slope rating.
// Rounding is half away from zero, which for the usual positive indexes
// means half-up. Negative indexes (better-than-scratch players) produce a
// negative course handicap under the same formula.
func CourseHandicap(hcpExact float64, slope int) int {
	return int(math.Round(hcpExact * float64(slope) / NeutralSlope))
}

// StrokesReceived distributes a course handicap across the 18 holes by
// stroke index. Every hole receives courseHandicap/18 strokes and the
// courseHandicap%18 hardest holes (lowest stroke index) one extra.
//
// A negative course handicap mirrors the rule: strokes are taken away
// starting from the easiest holes (highest stroke index), so the sum of
// the returned map always equals courseHandicap.
func StrokesReceived(courseHandicap int, holes []models.Hole) (map[int]int, error) {
	if len(holes) != HolesPerRound {
		return nil, fmt.Errorf("%w: got %d", ErrHoleCountInvalid, len(holes))
	}

	ordered := make([]models.Hole, len(holes))
	copy(ordered, holes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StrokeIndex < ordered[j].StrokeIndex
	})

	received := make(map[int]int, len(holes))

	if courseHandicap >= 0 {
		base := courseHandicap / HolesPerRound
		extra := courseHandicap % HolesPerRound

		for _, h := range holes {
			received[h.Number] = base
		}
		for i := 0; i < extra; i++ {
			received[ordered[i].Number]++
		}
		return received, nil
	}

	// Plus handicap: give back strokes on the easiest holes first.
	give := -courseHandicap
	base := give / HolesPerRound
	extra := give % HolesPerRound

	for _, h := range holes {
		received[h.Number] = -base
	}
	for i := 0; i < extra; i++ {
		received[ordered[len(ordered)-1-i].Number]--
	}
	return received, nil
}
