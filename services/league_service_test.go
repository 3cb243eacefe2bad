package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fermalla/golf-league-system/models"
)

type leagueServiceFixture struct {
	svc        LeagueService
	playerRepo *fakePlayerRepo
	courseRepo *fakeCourseRepo
	leagueRepo *fakeLeagueRepo
	roundRepo  *fakeRoundRepo
	rpRepo     *fakeRoundPlayerRepo
	course     models.Course
	ana        models.Player
	ben        models.Player
	cara       models.Player
}

func newLeagueServiceFixture(t *testing.T) *leagueServiceFixture {
	t.Helper()
	f := &leagueServiceFixture{
		playerRepo: newFakePlayerRepo(),
		courseRepo: newFakeCourseRepo(),
		leagueRepo: newFakeLeagueRepo(),
		roundRepo:  newFakeRoundRepo(),
		rpRepo:     newFakeRoundPlayerRepo(),
	}
	f.course = seedCourse(f.courseRepo, newFakeHoleRepo())
	f.ana = f.playerRepo.add(models.Player{Name: "Ana", Active: true})
	f.ben = f.playerRepo.add(models.Player{Name: "Ben", Active: true})
	f.cara = f.playerRepo.add(models.Player{Name: "Cara", Active: true})

	f.svc = NewLeagueService(f.leagueRepo, f.roundRepo, f.rpRepo, f.playerRepo, f.courseRepo, &fakeUploader{})
	return f
}

func (f *leagueServiceFixture) newLeague(t *testing.T, name string) *models.League {
	t.Helper()
	league, err := f.svc.CreateLeague(context.Background(), LeagueInput{Name: name})
	require.NoError(t, err)
	return league
}

type scoredEntry struct {
	playerID   int
	stableford int
	result     models.PlayerResult
}

// addLeagueRound seeds a finished league round. Gross and net totals are
// derived from the Stableford total so every entry counts as scored.
func (f *leagueServiceFixture) addLeagueRound(t *testing.T, leagueID int, entries ...scoredEntry) {
	t.Helper()
	round := models.Round{
		Date:     time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
		CourseID: f.course.ID,
		Type:     models.RoundLeague,
		LeagueID: &leagueID,
	}
	require.NoError(t, f.roundRepo.Create(context.Background(), nil, &round))

	for _, e := range entries {
		gross := 108 - e.stableford
		net := gross - 10
		stableford := e.stableford
		scratch := e.stableford / 2
		result := e.result
		rp := models.RoundPlayer{
			RoundID:                round.ID,
			PlayerID:               e.playerID,
			HcpExactDay:            10,
			CourseHandicap:         10,
			GrossTotal:             &gross,
			NetTotal:               &net,
			StablefordHcpTotal:     &stableford,
			StablefordScratchTotal: &scratch,
			Result:                 &result,
		}
		require.NoError(t, f.rpRepo.Create(context.Background(), nil, &rp))
	}
}

func TestLeagueLifecycle(t *testing.T) {
	f := newLeagueServiceFixture(t)
	league := f.newLeague(t, "Liga 2025")
	assert.False(t, league.IsClosed)

	_, err := f.svc.CreateLeague(context.Background(), LeagueInput{Name: "Liga 2025"})
	assert.ErrorIs(t, err, ErrLeagueNameConflict)

	_, err = f.svc.CreateLeague(context.Background(), LeagueInput{Name: "   "})
	assert.ErrorIs(t, err, ErrLeagueNameRequired)

	updated, err := f.svc.UpdateLeague(context.Background(), league.ID, LeagueInput{Name: "Liga Mayor"})
	require.NoError(t, err)
	assert.Equal(t, "Liga Mayor", updated.Name)

	closed, err := f.svc.CloseLeague(context.Background(), league.ID)
	require.NoError(t, err)
	assert.True(t, closed.IsClosed)

	// Closing is one way, and a closed league is frozen.
	_, err = f.svc.CloseLeague(context.Background(), league.ID)
	assert.ErrorIs(t, err, ErrLeagueClosed)
	_, err = f.svc.UpdateLeague(context.Background(), league.ID, LeagueInput{Name: "Renamed"})
	assert.ErrorIs(t, err, ErrLeagueClosed)
}

func TestGetStandingsPointsDistribution(t *testing.T) {
	f := newLeagueServiceFixture(t)
	league := f.newLeague(t, "Liga 2025")

	// Round 1: three scored players, pool of 2 points to the sole winner.
	f.addLeagueRound(t, league.ID,
		scoredEntry{f.ana.ID, 40, models.ResultWin},
		scoredEntry{f.ben.ID, 35, models.ResultLoss},
		scoredEntry{f.cara.ID, 30, models.ResultLoss},
	)
	// Round 2: joint winners split the pool, one point each.
	f.addLeagueRound(t, league.ID,
		scoredEntry{f.ana.ID, 38, models.ResultTie},
		scoredEntry{f.ben.ID, 38, models.ResultTie},
		scoredEntry{f.cara.ID, 31, models.ResultLoss},
	)

	standings, err := f.svc.GetStandings(context.Background(), league.ID)
	require.NoError(t, err)

	require.Len(t, standings.Main, 3)
	assert.Equal(t, f.ana.ID, standings.Main[0].PlayerID)
	assert.Equal(t, 3.0, standings.Main[0].Points)
	assert.Equal(t, f.ben.ID, standings.Main[1].PlayerID)
	assert.Equal(t, 1.0, standings.Main[1].Points)
	assert.Equal(t, f.cara.ID, standings.Main[2].PlayerID)
	assert.Equal(t, 0.0, standings.Main[2].Points)

	assert.Equal(t, "Ana", standings.Main[0].PlayerName)

	require.Len(t, standings.Players, 3)
	assert.Equal(t, 1, standings.Players[0].Wins)
	assert.Equal(t, 1, standings.Players[0].Ties)

	// Open league: no titles yet.
	assert.Empty(t, standings.Champions.MainPlayerIDs)
}

func TestGetStandingsChampionsOnClose(t *testing.T) {
	f := newLeagueServiceFixture(t)
	league := f.newLeague(t, "Liga 2025")
	f.addLeagueRound(t, league.ID,
		scoredEntry{f.ana.ID, 40, models.ResultWin},
		scoredEntry{f.ben.ID, 35, models.ResultLoss},
	)

	_, err := f.svc.CloseLeague(context.Background(), league.ID)
	require.NoError(t, err)

	standings, err := f.svc.GetStandings(context.Background(), league.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{f.ana.ID}, standings.Champions.MainPlayerIDs)

	// One round is not enough for the net title.
	assert.Empty(t, standings.Champions.NetPlayerIDs)
	assert.Equal(t, []int{f.ana.ID}, standings.Champions.ScratchPlayerIDs)
}

func TestChampionTitlesAcrossLeagues(t *testing.T) {
	f := newLeagueServiceFixture(t)

	first := f.newLeague(t, "Liga 2024")
	f.addLeagueRound(t, first.ID,
		scoredEntry{f.ana.ID, 40, models.ResultWin},
		scoredEntry{f.ben.ID, 30, models.ResultLoss},
	)
	_, err := f.svc.CloseLeague(context.Background(), first.ID)
	require.NoError(t, err)

	second := f.newLeague(t, "Liga 2025")
	f.addLeagueRound(t, second.ID,
		scoredEntry{f.ana.ID, 31, models.ResultLoss},
		scoredEntry{f.ben.ID, 39, models.ResultWin},
	)
	_, err = f.svc.CloseLeague(context.Background(), second.ID)
	require.NoError(t, err)

	// Still open, must not contribute any title.
	open := f.newLeague(t, "Liga 2026")
	f.addLeagueRound(t, open.ID,
		scoredEntry{f.cara.ID, 44, models.ResultWin},
		scoredEntry{f.ana.ID, 20, models.ResultLoss},
	)

	titles, err := f.svc.ChampionTitles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[int]int{f.ana.ID: 1, f.ben.ID: 1}, titles)
}

func TestGetStandingsUnknownLeague(t *testing.T) {
	f := newLeagueServiceFixture(t)
	_, err := f.svc.GetStandings(context.Background(), 7)
	assert.ErrorIs(t, err, ErrLeagueNotFound)
}
