package golf

import (
	"errors"
	"fmt"

	"github.com/Fermalla/golf-league-system/models"
)

var (
	ErrCardIncomplete   = errors.New("card must contain gross strokes for all 18 holes")
	ErrGrossInvalid     = errors.New("gross strokes must be a positive number")
	ErrPuttsInvalid     = errors.New("putts must not be negative")
	ErrHoleUnknown      = errors.New("card references a hole the course does not have")
	ErrCourseHandicapNA = errors.New("course handicap is required to aggregate a card")
)

// ScoreCard is the raw 18-hole input of one player's round: gross strokes
// per hole (all 18 required), optional putts and optional fairway hits.
// Fairway entries for par-3 holes are ignored.
type ScoreCard struct {
	Gross    map[int]int
	Putts    map[int]*int
	Fairways map[int]bool
}

// CardTotals is the aggregate of a full card: round totals, the scoring
// result distribution and the regulation counters. Averages are nil when
// the corresponding hole count is zero.
type CardTotals struct {
	GrossTotal             int `json:"gross_total"`
	NetTotal               int `json:"net_total"`
	StablefordHcpTotal     int `json:"stableford_hcp_total"`
	StablefordScratchTotal int `json:"stableford_scratch_total"`
	PuttsTotal             int `json:"putts_total"`

	HolesInOne    int `json:"holes_in_one"`
	Albatrosses   int `json:"albatrosses"`
	Eagles        int `json:"eagles"`
	Birdies       int `json:"birdies"`
	Pars          int `json:"pars"`
	Bogeys        int `json:"bogeys"`
	DoubleBogeys  int `json:"double_bogeys"`
	OverDoubles   int `json:"over_doubles"`

	FIRMade     int `json:"fir_made"`
	FIRPossible int `json:"fir_possible"`
	GIRMade     int `json:"gir_made"`
	GIRPossible int `json:"gir_possible"`

	AvgPar3 *float64 `json:"avg_par3,omitempty"`
	AvgPar4 *float64 `json:"avg_par4,omitempty"`
	AvgPar5 *float64 `json:"avg_par5,omitempty"`
}

// AggregateCard derives the 18 hole scores and the round totals for one
// card. It computes the strokes-received allocation once from the stored
// course handicap and applies the per-hole rules:
//
//   - net strokes = gross − strokes received on the hole
//   - Stableford points from net strokes (handicap variant) and from gross
//     strokes (scratch variant)
//   - FIR carried from the input, nil on par 3
//   - GIR = gross − putts <= par − 2, nil when putts are unknown
//
// The function is pure; persisting the returned hole scores (replace-all)
// and totals is the caller's job.
func AggregateCard(courseHandicap int, holes []models.Hole, card ScoreCard) (*CardTotals, []models.HoleScore, error) {
	received, err := StrokesReceived(courseHandicap, holes)
	if err != nil {
		return nil, nil, err
	}
	if len(card.Gross) != HolesPerRound {
		return nil, nil, fmt.Errorf("%w: got %d", ErrCardIncomplete, len(card.Gross))
	}

	known := make(map[int]bool, len(holes))
	for _, h := range holes {
		known[h.Number] = true
	}
	for number := range card.Gross {
		if !known[number] {
			return nil, nil, fmt.Errorf("%w: hole %d", ErrHoleUnknown, number)
		}
	}

	totals := &CardTotals{}
	scores := make([]models.HoleScore, 0, len(holes))

	var par3Sum, par3N, par4Sum, par4N, par5Sum, par5N int

	for _, h := range holes {
		gross, ok := card.Gross[h.Number]
		if !ok {
			return nil, nil, fmt.Errorf("%w: missing hole %d", ErrCardIncomplete, h.Number)
		}
		if gross <= 0 {
			return nil, nil, fmt.Errorf("%w: hole %d", ErrGrossInvalid, h.Number)
		}

		var putts *int
		if p := card.Putts[h.Number]; p != nil {
			if *p < 0 {
				return nil, nil, fmt.Errorf("%w: hole %d", ErrPuttsInvalid, h.Number)
			}
			v := *p
			putts = &v
		}

		net := gross - received[h.Number]
		hcpPts := StablefordPoints(net, h.Par)
		scratchPts := StablefordPoints(gross, h.Par)

		totals.GrossTotal += gross
		totals.NetTotal += net
		totals.StablefordHcpTotal += hcpPts
		totals.StablefordScratchTotal += scratchPts
		if putts != nil {
			totals.PuttsTotal += *putts
		}

		// FIR only applies on par 4 and 5.
		var fir *bool
		if h.Par != 3 {
			totals.FIRPossible++
			hit := card.Fairways[h.Number]
			fir = &hit
			if hit {
				totals.FIRMade++
			}
		}

		var gir *bool
		if putts != nil {
			totals.GIRPossible++
			on := gross-*putts <= h.Par-2
			gir = &on
			if on {
				totals.GIRMade++
			}
		}

		switch ClassifyHole(gross, h.Par) {
		case HoleInOne:
			totals.HolesInOne++
		case Albatross:
			totals.Albatrosses++
		case Eagle:
			totals.Eagles++
		case Birdie:
			totals.Birdies++
		case Par:
			totals.Pars++
		case Bogey:
			totals.Bogeys++
		case DoubleBogey:
			totals.DoubleBogeys++
		case OverDouble:
			totals.OverDoubles++
		}

		switch h.Par {
		case 3:
			par3Sum += gross
			par3N++
		case 4:
			par4Sum += gross
			par4N++
		case 5:
			par5Sum += gross
			par5N++
		}

		scores = append(scores, models.HoleScore{
			HoleNumber:       h.Number,
			GrossStrokes:     gross,
			Putts:            putts,
			FIR:              fir,
			GIR:              gir,
			NetStrokes:       net,
			StablefordPoints: hcpPts,
		})
	}

	totals.AvgPar3 = average(par3Sum, par3N)
	totals.AvgPar4 = average(par4Sum, par4N)
	totals.AvgPar5 = average(par5Sum, par5N)

	return totals, scores, nil
}

func average(sum, count int) *float64 {
	if count == 0 {
		return nil
	}
	avg := float64(sum) / float64(count)
	return &avg
}
