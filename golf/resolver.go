package golf

import (
	"errors"

	"github.com/Fermalla/golf-league-system/models"
)

var ErrNoScoredPlayers = errors.New("round has no players with a submitted card")

// Resolution is the outcome of a round: who won, and the win/tie/loss
// result for every participant (keyed by round player id).
type Resolution struct {
	WinnerType      models.WinnerType
	WinnerPlayerIDs []int
	Results         map[int]models.PlayerResult
}

// ResolveRound determines the winner(s) of a round by the highest
// handicap-adjusted Stableford total. Participants without a submitted
// total never win but still receive a loss result. Exact ties produce
// the full tied set, in participant order.
func ResolveRound(players []models.RoundPlayer) (*Resolution, error) {
	var best *int
	for i := range players {
		pts := players[i].StablefordHcpTotal
		if pts == nil {
			continue
		}
		if best == nil || *pts > *best {
			best = pts
		}
	}
	if best == nil {
		return nil, ErrNoScoredPlayers
	}

	res := &Resolution{Results: make(map[int]models.PlayerResult, len(players))}
	for i := range players {
		rp := &players[i]
		if rp.StablefordHcpTotal != nil && *rp.StablefordHcpTotal == *best {
			res.WinnerPlayerIDs = append(res.WinnerPlayerIDs, rp.PlayerID)
		}
	}

	winning := models.ResultWin
	res.WinnerType = models.WinnerSingle
	if len(res.WinnerPlayerIDs) > 1 {
		res.WinnerType = models.WinnerTie
		winning = models.ResultTie
	}

	for i := range players {
		rp := &players[i]
		if rp.StablefordHcpTotal != nil && *rp.StablefordHcpTotal == *best {
			res.Results[rp.ID] = winning
		} else {
			res.Results[rp.ID] = models.ResultLoss
		}
	}

	return res, nil
}
