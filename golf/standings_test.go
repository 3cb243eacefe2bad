package golf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fermalla/golf-league-system/models"
)

func resultp(r models.PlayerResult) *models.PlayerResult { return &r }

func standingsCourse() *models.Course {
	return &models.Course{ID: 1, Name: "Valle Verde", ParTotal: 72, Slope: 120, Rating: 71.5}
}

func standingsPlayer(id int, name string) *models.Player {
	return &models.Player{ID: id, Name: name}
}

// scoredRP builds a round player with a complete set of totals.
func scoredRP(playerID int, name string, gross, net, stableford, scratch int, result models.PlayerResult) models.RoundPlayer {
	return models.RoundPlayer{
		PlayerID:               playerID,
		Player:                 standingsPlayer(playerID, name),
		GrossTotal:             intp(gross),
		NetTotal:               intp(net),
		StablefordHcpTotal:     intp(stableford),
		StablefordScratchTotal: intp(scratch),
		Result:                 resultp(result),
	}
}

func leagueRound(id int, players ...models.RoundPlayer) models.Round {
	return models.Round{
		ID:           id,
		Date:         time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, id),
		Type:         models.RoundLeague,
		Course:       standingsCourse(),
		RoundPlayers: players,
	}
}

func TestComputeStandingsPointDistribution(t *testing.T) {
	t.Run("single winner takes the whole pool", func(t *testing.T) {
		// Four scored participants: 3.0 points on offer, all to the winner.
		round := leagueRound(1,
			scoredRP(1, "Ana", 85, 70, 38, 20, models.ResultWin),
			scoredRP(2, "Berto", 90, 75, 33, 16, models.ResultLoss),
			scoredRP(3, "Carla", 92, 77, 30, 14, models.ResultLoss),
			scoredRP(4, "Dani", 95, 80, 28, 12, models.ResultLoss),
		)

		st := ComputeStandings(models.League{ID: 1}, []models.Round{round})
		require.Len(t, st.Main, 4)

		assert.Equal(t, "Ana", st.Main[0].PlayerName)
		assert.Equal(t, 3.0, st.Main[0].Points)
		for _, row := range st.Main[1:] {
			assert.Equal(t, 0.0, row.Points)
		}
	})

	t.Run("tied winners split the pool", func(t *testing.T) {
		round := leagueRound(1,
			scoredRP(1, "Ana", 85, 70, 38, 20, models.ResultTie),
			scoredRP(2, "Berto", 86, 71, 38, 19, models.ResultTie),
			scoredRP(3, "Carla", 92, 77, 30, 14, models.ResultLoss),
			scoredRP(4, "Dani", 95, 80, 28, 12, models.ResultLoss),
		)

		st := ComputeStandings(models.League{ID: 1}, []models.Round{round})
		require.Len(t, st.Main, 4)

		assert.Equal(t, 1.5, st.Main[0].Points)
		assert.Equal(t, 1.5, st.Main[1].Points)
		assert.Equal(t, 0.0, st.Main[2].Points)
	})

	t.Run("lone participant earns nothing", func(t *testing.T) {
		round := leagueRound(1, scoredRP(1, "Ana", 85, 70, 38, 20, models.ResultWin))

		st := ComputeStandings(models.League{ID: 1}, []models.Round{round})
		require.Len(t, st.Main, 1)
		assert.Equal(t, 0.0, st.Main[0].Points)
	})

	t.Run("unscored rounds are skipped", func(t *testing.T) {
		empty := leagueRound(2, models.RoundPlayer{PlayerID: 1, Player: standingsPlayer(1, "Ana")})

		st := ComputeStandings(models.League{ID: 1}, []models.Round{empty})
		assert.Empty(t, st.Main)
	})
}

func TestComputeStandingsSortKeys(t *testing.T) {
	// Two rounds. Ana and Berto end with equal points; Berto played more
	// rounds so he ranks first. Carla and Dani tie on points and rounds,
	// alphabetical order breaks it.
	r1 := leagueRound(1,
		scoredRP(1, "Ana", 85, 70, 38, 20, models.ResultWin),
		scoredRP(3, "Carla", 90, 75, 33, 16, models.ResultLoss),
		scoredRP(4, "Dani", 92, 77, 30, 14, models.ResultLoss),
	)
	r2 := leagueRound(2,
		scoredRP(2, "Berto", 84, 69, 39, 21, models.ResultWin),
		scoredRP(3, "Carla", 91, 76, 32, 15, models.ResultLoss),
		scoredRP(4, "Dani", 93, 78, 29, 13, models.ResultLoss),
	)
	r3 := leagueRound(3,
		scoredRP(2, "Berto", 88, 73, 35, 18, models.ResultWin),
		scoredRP(5, "Elia", 96, 81, 27, 11, models.ResultLoss),
	)

	st := ComputeStandings(models.League{ID: 1}, []models.Round{r1, r2, r3})
	require.Len(t, st.Main, 5)

	// Ana won a 3-player round (2.0), Berto a 3-player and a 2-player
	// round (2.0 + 1.0).
	assert.Equal(t, "Berto", st.Main[0].PlayerName)
	assert.Equal(t, 3.0, st.Main[0].Points)
	assert.Equal(t, "Ana", st.Main[1].PlayerName)

	// Carla and Dani: same points (0), same rounds (2), name decides.
	assert.Equal(t, "Carla", st.Main[2].PlayerName)
	assert.Equal(t, "Dani", st.Main[3].PlayerName)
	assert.Equal(t, "Elia", st.Main[4].PlayerName)
}

func TestComputeStandingsNetAndScratchBoards(t *testing.T) {
	r1 := leagueRound(1,
		scoredRP(1, "Ana", 85, 70, 38, 20, models.ResultWin),
		scoredRP(2, "Berto", 90, 72, 33, 16, models.ResultLoss),
	)
	r2 := leagueRound(2,
		scoredRP(1, "Ana", 87, 74, 36, 18, models.ResultWin),
		scoredRP(2, "Berto", 89, 70, 34, 17, models.ResultLoss),
	)

	st := ComputeStandings(models.League{ID: 1}, []models.Round{r1, r2})

	require.Len(t, st.Net, 2)
	assert.Equal(t, "Berto", st.Net[0].PlayerName)
	assert.InDelta(t, 71.0, st.Net[0].AvgNet, 1e-9)
	assert.Equal(t, "Ana", st.Net[1].PlayerName)
	assert.InDelta(t, 72.0, st.Net[1].AvgNet, 1e-9)

	require.Len(t, st.Scratch, 2)
	assert.Equal(t, "Ana", st.Scratch[0].PlayerName)
	assert.Equal(t, 38, st.Scratch[0].TotalScratch)

	// Extended table: every aggregate in one place.
	require.Len(t, st.Players, 2)
	ana := st.Players[0]
	assert.Equal(t, "Ana", ana.PlayerName)
	assert.Equal(t, 2, ana.Rounds)
	assert.Equal(t, 2, ana.Wins)
	assert.Equal(t, 172, ana.GrossTotal)
	require.NotNil(t, ana.AvgGross)
	assert.InDelta(t, 86.0, *ana.AvgGross, 1e-9)
	require.NotNil(t, ana.BestGross)
	assert.Equal(t, 85, *ana.BestGross)

	// Level handicap differential: (gross − rating) × 113 / slope, averaged.
	require.NotNil(t, ana.LevelHcp)
	want := ((85.0-71.5)*113/120 + (87.0-71.5)*113/120) / 2
	assert.InDelta(t, want, *ana.LevelHcp, 1e-9)
}

func TestComputeStandingsChampions(t *testing.T) {
	rounds := make([]models.Round, 0, 5)
	for i := 1; i <= 5; i++ {
		rounds = append(rounds, leagueRound(i,
			scoredRP(1, "Ana", 85, 70, 38, 20, models.ResultWin),
			scoredRP(2, "Berto", 90, 75, 33, 16, models.ResultLoss),
		))
	}

	t.Run("open league reports no champions", func(t *testing.T) {
		st := ComputeStandings(models.League{ID: 1, IsClosed: false}, rounds)
		assert.Empty(t, st.Champions.MainPlayerIDs)
		assert.Empty(t, st.Champions.NetPlayerIDs)
		assert.Empty(t, st.Champions.ScratchPlayerIDs)
	})

	t.Run("closed league names champions", func(t *testing.T) {
		st := ComputeStandings(models.League{ID: 1, IsClosed: true}, rounds)
		assert.Equal(t, []int{1}, st.Champions.MainPlayerIDs)
		assert.Equal(t, []int{1}, st.Champions.NetPlayerIDs)
		assert.Equal(t, []int{1}, st.Champions.ScratchPlayerIDs)
	})
}

func TestComputeStandingsNetChampionEligibility(t *testing.T) {
	// Four rounds only: the net leader is not eligible and nobody else
	// qualifies, so no net champion is reported at all.
	rounds := make([]models.Round, 0, 4)
	for i := 1; i <= 4; i++ {
		rounds = append(rounds, leagueRound(i,
			scoredRP(1, "Ana", 85, 70, 38, 20, models.ResultWin),
			scoredRP(2, "Berto", 90, 75, 33, 16, models.ResultLoss),
		))
	}

	st := ComputeStandings(models.League{ID: 1, IsClosed: true}, rounds)
	assert.NotEmpty(t, st.Champions.MainPlayerIDs)
	assert.Empty(t, st.Champions.NetPlayerIDs)
}

func TestComputeStandingsTiedChampions(t *testing.T) {
	rounds := []models.Round{
		leagueRound(1,
			scoredRP(1, "Ana", 85, 70, 38, 20, models.ResultTie),
			scoredRP(2, "Berto", 86, 71, 38, 20, models.ResultTie),
			scoredRP(3, "Carla", 92, 77, 30, 14, models.ResultLoss),
		),
	}

	st := ComputeStandings(models.League{ID: 1, IsClosed: true}, rounds)
	assert.Equal(t, []int{1, 2}, st.Champions.MainPlayerIDs)
	assert.Equal(t, []int{1, 2}, st.Champions.ScratchPlayerIDs)
}
