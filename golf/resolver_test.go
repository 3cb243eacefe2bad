package golf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fermalla/golf-league-system/models"
)

func roundPlayer(id, playerID int, stableford *int) models.RoundPlayer {
	return models.RoundPlayer{ID: id, PlayerID: playerID, StablefordHcpTotal: stableford}
}

func TestResolveRoundSingleWinner(t *testing.T) {
	players := []models.RoundPlayer{
		roundPlayer(1, 101, intp(10)),
		roundPlayer(2, 102, intp(15)),
		roundPlayer(3, 103, intp(8)),
	}

	res, err := ResolveRound(players)
	require.NoError(t, err)

	assert.Equal(t, models.WinnerSingle, res.WinnerType)
	assert.Equal(t, []int{102}, res.WinnerPlayerIDs)
	assert.Equal(t, models.ResultWin, res.Results[2])
	assert.Equal(t, models.ResultLoss, res.Results[1])
	assert.Equal(t, models.ResultLoss, res.Results[3])
}

func TestResolveRoundTie(t *testing.T) {
	players := []models.RoundPlayer{
		roundPlayer(1, 101, intp(10)),
		roundPlayer(2, 102, intp(15)),
		roundPlayer(3, 103, intp(15)),
		roundPlayer(4, 104, intp(8)),
	}

	res, err := ResolveRound(players)
	require.NoError(t, err)

	assert.Equal(t, models.WinnerTie, res.WinnerType)
	assert.Equal(t, []int{102, 103}, res.WinnerPlayerIDs)
	assert.Equal(t, models.ResultTie, res.Results[2])
	assert.Equal(t, models.ResultTie, res.Results[3])
	assert.Equal(t, models.ResultLoss, res.Results[1])
	assert.Equal(t, models.ResultLoss, res.Results[4])
}

func TestResolveRoundSkipsUnsubmittedCards(t *testing.T) {
	players := []models.RoundPlayer{
		roundPlayer(1, 101, nil),
		roundPlayer(2, 102, intp(12)),
	}

	res, err := ResolveRound(players)
	require.NoError(t, err)

	assert.Equal(t, models.WinnerSingle, res.WinnerType)
	assert.Equal(t, []int{102}, res.WinnerPlayerIDs)
	// A participant without a card never wins but still takes a loss.
	assert.Equal(t, models.ResultLoss, res.Results[1])
}

func TestResolveRoundNoScoredPlayers(t *testing.T) {
	players := []models.RoundPlayer{
		roundPlayer(1, 101, nil),
		roundPlayer(2, 102, nil),
	}

	_, err := ResolveRound(players)
	assert.ErrorIs(t, err, ErrNoScoredPlayers)

	_, err = ResolveRound(nil)
	assert.ErrorIs(t, err, ErrNoScoredPlayers)
}
