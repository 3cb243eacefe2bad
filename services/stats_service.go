package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Fermalla/golf-league-system/golf"
	"github.com/Fermalla/golf-league-system/models"
	"github.com/Fermalla/golf-league-system/repositories"
)

type StatsService interface {
	PlayerProfile(ctx context.Context, playerID int, year *int) (*PlayerProfile, error)
	Rankings(ctx context.Context) (*Rankings, error)
}

// ResultDistribution is the per-hole outcome breakdown of a player's career
// (or one season of it). Percentages are over the scored holes, one decimal.
type ResultDistribution struct {
	HolesInOne   int `json:"holes_in_one"`
	Albatrosses  int `json:"albatrosses"`
	Eagles       int `json:"eagles"`
	Birdies      int `json:"birdies"`
	Pars         int `json:"pars"`
	Bogeys       int `json:"bogeys"`
	DoubleBogeys int `json:"double_bogeys"`
	OverDoubles  int `json:"over_doubles"`
	TotalHoles   int `json:"total_holes"`

	BirdiePct float64 `json:"birdie_pct"`
	ParPct    float64 `json:"par_pct"`
	BogeyPct  float64 `json:"bogey_pct"`
	DoublePct float64 `json:"double_pct"`
	WorsePct  float64 `json:"worse_pct"`
}

type ParAverages struct {
	AvgPar3 *float64 `json:"avg_par3,omitempty"`
	AvgPar4 *float64 `json:"avg_par4,omitempty"`
	AvgPar5 *float64 `json:"avg_par5,omitempty"`
}

type HistoryEntry struct {
	RoundID       int                  `json:"round_id"`
	Date          time.Time            `json:"date"`
	CourseName    string               `json:"course_name"`
	Gross         *int                 `json:"gross"`
	Net           *int                 `json:"net"`
	Points        *int                 `json:"points"`
	ScratchPoints *int                 `json:"scratch_points"`
	Putts         *int                 `json:"putts,omitempty"`
	Result        *models.PlayerResult `json:"result,omitempty"`
}

type GrossPoint struct {
	Date       time.Time `json:"date"`
	Gross      int       `json:"gross"`
	CourseName string    `json:"course_name"`
}

type HcpPoint struct {
	Date time.Time `json:"date"`
	Hcp  float64   `json:"hcp"`
}

type AchievementStatus struct {
	models.Achievement
	Unlocked bool `json:"unlocked"`
}

// PlayerProfile is the aggregate career view of one player, optionally
// restricted to a single year.
type PlayerProfile struct {
	Player         *models.Player `json:"player"`
	Year           *int           `json:"year,omitempty"`
	YearsAvailable []int          `json:"years_available"`

	RoundsPlayed int `json:"rounds_played"`
	Wins         int `json:"wins"`
	Ties         int `json:"ties"`
	TitlesWon    int `json:"titles_won"`

	AvgGross         *float64 `json:"avg_gross,omitempty"`
	AvgNet           *float64 `json:"avg_net,omitempty"`
	AvgPointsHcp     *float64 `json:"avg_points_hcp,omitempty"`
	AvgPointsScratch *float64 `json:"avg_points_scratch,omitempty"`
	AvgPutts         *float64 `json:"avg_putts,omitempty"`
	AvgPlayHcp       *float64 `json:"avg_play_hcp,omitempty"`
	BestRoundGross   *int     `json:"best_round_gross,omitempty"`

	FIRPct       *float64 `json:"fir_pct,omitempty"`
	GIRPct       *float64 `json:"gir_pct,omitempty"`
	PuttsPerHole *float64 `json:"putts_per_hole,omitempty"`

	Results      ResultDistribution  `json:"results"`
	ParAverages  ParAverages         `json:"par_averages"`
	History      []HistoryEntry      `json:"history"`
	Last10Gross  []GrossPoint        `json:"last10_gross"`
	Last10Hcp    []HcpPoint          `json:"last10_hcp"`
	Achievements []AchievementStatus `json:"achievements"`
}

// RankingRow is one player's line in the global rankings.
type RankingRow struct {
	PlayerID     int    `json:"player_id"`
	PlayerName   string `json:"player_name"`
	RoundsPlayed int    `json:"rounds_played"`
	Wins         int    `json:"wins"`
	Ties         int    `json:"ties"`

	AvgPoints  *float64 `json:"avg_points,omitempty"`
	AvgScratch *float64 `json:"avg_scratch,omitempty"`
	AvgGross   *float64 `json:"avg_gross,omitempty"`
	BestRound  *int     `json:"best_round,omitempty"`

	FIRPct       *float64 `json:"fir_pct,omitempty"`
	GIRPct       *float64 `json:"gir_pct,omitempty"`
	PuttsPerHole *float64 `json:"putts_per_hole,omitempty"`

	Birdies int `json:"birdies"`
	Eagles  int `json:"eagles"`
}

// Rankings holds the same rows sorted eight ways. Players without data for
// a board sort last on it, never first.
type Rankings struct {
	ByAvgPoints  []RankingRow `json:"by_avg_points"`
	ByAvgScratch []RankingRow `json:"by_avg_scratch"`
	ByWins       []RankingRow `json:"by_wins"`
	ByFIR        []RankingRow `json:"by_fir"`
	ByGIR        []RankingRow `json:"by_gir"`
	ByPutts      []RankingRow `json:"by_putts"`
	ByBirdies    []RankingRow `json:"by_birdies"`
	ByEagles     []RankingRow `json:"by_eagles"`
}

type statsService struct {
	playerRepo      repositories.PlayerRepository
	roundRepo       repositories.RoundRepository
	roundPlayerRepo repositories.RoundPlayerRepository
	holeScoreRepo   repositories.HoleScoreRepository
	courseRepo      repositories.CourseRepository
	holeRepo        repositories.HoleRepository
	achievementRepo repositories.AchievementRepository
	leagueService   LeagueService
}

func NewStatsService(
	playerRepo repositories.PlayerRepository,
	roundRepo repositories.RoundRepository,
	roundPlayerRepo repositories.RoundPlayerRepository,
	holeScoreRepo repositories.HoleScoreRepository,
	courseRepo repositories.CourseRepository,
	holeRepo repositories.HoleRepository,
	achievementRepo repositories.AchievementRepository,
	leagueService LeagueService,
) StatsService {
	return &statsService{
		playerRepo:      playerRepo,
		roundRepo:       roundRepo,
		roundPlayerRepo: roundPlayerRepo,
		holeScoreRepo:   holeScoreRepo,
		courseRepo:      courseRepo,
		holeRepo:        holeRepo,
		achievementRepo: achievementRepo,
		leagueService:   leagueService,
	}
}

// playerRoundData is one participation with everything the aggregations
// need loaded: the round, the course par map and the hole scores.
type playerRoundData struct {
	rp     models.RoundPlayer
	round  *models.Round
	course *models.Course
	parMap map[int]int
	scores []models.HoleScore
}

func (s *statsService) loadPlayerRounds(ctx context.Context, playerID int) ([]playerRoundData, error) {
	rps, err := s.roundPlayerRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds for player %d: %w", playerID, err)
	}

	rounds := make(map[int]*models.Round)
	courses := make(map[int]*models.Course)
	parMaps := make(map[int]map[int]int)

	data := make([]playerRoundData, 0, len(rps))
	for _, rp := range rps {
		round, ok := rounds[rp.RoundID]
		if !ok {
			round, err = s.roundRepo.GetByID(ctx, rp.RoundID)
			if err != nil {
				return nil, fmt.Errorf("failed to get round %d: %w", rp.RoundID, err)
			}
			rounds[rp.RoundID] = round
		}

		course, ok := courses[round.CourseID]
		if !ok {
			course, err = s.courseRepo.GetByID(ctx, round.CourseID)
			if err != nil {
				return nil, fmt.Errorf("failed to get course %d: %w", round.CourseID, err)
			}
			courses[round.CourseID] = course

			holes, err := s.holeRepo.ListByCourse(ctx, round.CourseID)
			if err != nil {
				return nil, fmt.Errorf("failed to list holes for course %d: %w", round.CourseID, err)
			}
			parMap := make(map[int]int, len(holes))
			for _, h := range holes {
				parMap[h.Number] = h.Par
			}
			parMaps[round.CourseID] = parMap
		}

		scores, err := s.holeScoreRepo.ListByRoundPlayer(ctx, rp.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list hole scores for round player %d: %w", rp.ID, err)
		}

		data = append(data, playerRoundData{
			rp:     rp,
			round:  round,
			course: course,
			parMap: parMaps[round.CourseID],
			scores: scores,
		})
	}
	return data, nil
}

func (s *statsService) PlayerProfile(ctx context.Context, playerID int, year *int) (*PlayerProfile, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", playerID, err)
	}

	all, err := s.loadPlayerRounds(ctx, playerID)
	if err != nil {
		return nil, err
	}

	yearSet := make(map[int]bool)
	for _, d := range all {
		yearSet[d.round.Date.Year()] = true
	}
	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	filtered := all
	if year != nil {
		filtered = filtered[:0:0]
		for _, d := range all {
			if d.round.Date.Year() == *year {
				filtered = append(filtered, d)
			}
		}
	}

	profile := &PlayerProfile{
		Player:         player,
		Year:           year,
		YearsAvailable: years,
		History:        []HistoryEntry{},
		Last10Gross:    []GrossPoint{},
		Last10Hcp:      []HcpPoint{},
		Achievements:   []AchievementStatus{},
	}

	var (
		grossSum, grossN     int
		netSum, netN         int
		ptsSum, ptsN         int
		scrSum, scrN         int
		puttsSum, puttsN     int
		playHcpSum, playHcpN int
	)
	for _, d := range filtered {
		rp := d.rp
		if rp.GrossTotal == nil {
			continue
		}
		profile.RoundsPlayed++
		if rp.Result != nil {
			switch *rp.Result {
			case models.ResultWin:
				profile.Wins++
			case models.ResultTie:
				profile.Ties++
			}
		}
		grossSum += *rp.GrossTotal
		grossN++
		if profile.BestRoundGross == nil || *rp.GrossTotal < *profile.BestRoundGross {
			best := *rp.GrossTotal
			profile.BestRoundGross = &best
		}
		if rp.NetTotal != nil {
			netSum += *rp.NetTotal
			netN++
		}
		if rp.StablefordHcpTotal != nil {
			ptsSum += *rp.StablefordHcpTotal
			ptsN++
		}
		if rp.StablefordScratchTotal != nil {
			scrSum += *rp.StablefordScratchTotal
			scrN++
		}
		if rp.PuttsTotal != nil {
			puttsSum += *rp.PuttsTotal
			puttsN++
		}
	}
	for _, d := range filtered {
		playHcpSum += d.rp.CourseHandicap
		playHcpN++
	}

	profile.AvgGross = averageOf(grossSum, grossN)
	profile.AvgNet = averageOf(netSum, netN)
	profile.AvgPointsHcp = averageOf(ptsSum, ptsN)
	profile.AvgPointsScratch = averageOf(scrSum, scrN)
	profile.AvgPutts = averageOf(puttsSum, puttsN)
	profile.AvgPlayHcp = averageOf(playHcpSum, playHcpN)

	profile.FIRPct, profile.GIRPct, profile.PuttsPerHole = regulationStats(filtered)
	profile.Results, profile.ParAverages = resultDistribution(filtered)

	// History, newest first.
	for _, d := range filtered {
		if d.rp.GrossTotal == nil {
			continue
		}
		entry := HistoryEntry{
			RoundID:       d.rp.RoundID,
			Date:          d.round.Date,
			Gross:         d.rp.GrossTotal,
			Net:           d.rp.NetTotal,
			Points:        d.rp.StablefordHcpTotal,
			ScratchPoints: d.rp.StablefordScratchTotal,
			Putts:         d.rp.PuttsTotal,
			Result:        d.rp.Result,
		}
		if d.course != nil {
			entry.CourseName = d.course.Name
		}
		profile.History = append(profile.History, entry)
	}
	sort.SliceStable(profile.History, func(i, j int) bool {
		return profile.History[i].Date.After(profile.History[j].Date)
	})

	// Last 10 rounds for the charts, oldest to newest.
	n := len(profile.History)
	if n > 10 {
		n = 10
	}
	for i := n - 1; i >= 0; i-- {
		h := profile.History[i]
		profile.Last10Gross = append(profile.Last10Gross, GrossPoint{
			Date:       h.Date,
			Gross:      *h.Gross,
			CourseName: h.CourseName,
		})
	}

	hcpPoints := make([]HcpPoint, 0, len(filtered))
	for _, d := range filtered {
		hcpPoints = append(hcpPoints, HcpPoint{Date: d.round.Date, Hcp: float64(d.rp.CourseHandicap)})
	}
	sort.SliceStable(hcpPoints, func(i, j int) bool { return hcpPoints[i].Date.Before(hcpPoints[j].Date) })
	if len(hcpPoints) > 10 {
		hcpPoints = hcpPoints[len(hcpPoints)-10:]
	}
	profile.Last10Hcp = hcpPoints

	if err := s.populateAchievements(ctx, playerID, profile); err != nil {
		return nil, err
	}

	if s.leagueService != nil {
		titles, err := s.leagueService.ChampionTitles(ctx)
		if err != nil {
			return nil, err
		}
		profile.TitlesWon = titles[playerID]
	}

	return profile, nil
}

func (s *statsService) populateAchievements(ctx context.Context, playerID int, profile *PlayerProfile) error {
	catalog, err := s.achievementRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list achievements: %w", err)
	}
	grants, err := s.achievementRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return fmt.Errorf("failed to list achievements for player %d: %w", playerID, err)
	}
	owned := make(map[int]bool, len(grants))
	for _, g := range grants {
		if g.Unlocked {
			owned[g.AchievementID] = true
		}
	}
	for _, a := range catalog {
		profile.Achievements = append(profile.Achievements, AchievementStatus{
			Achievement: a,
			Unlocked:    owned[a.ID],
		})
	}
	return nil
}

func (s *statsService) Rankings(ctx context.Context) (*Rankings, error) {
	players, err := s.playerRepo.GetAll(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	rows := make([]RankingRow, 0, len(players))
	for _, p := range players {
		data, err := s.loadPlayerRounds(ctx, p.ID)
		if err != nil {
			return nil, err
		}

		row := RankingRow{PlayerID: p.ID, PlayerName: p.Name}
		var ptsSum, ptsN, scrSum, scrN, grossSum, grossN int
		for _, d := range data {
			rp := d.rp
			if rp.GrossTotal != nil {
				row.RoundsPlayed++
				grossSum += *rp.GrossTotal
				grossN++
			}
			if rp.Result != nil {
				switch *rp.Result {
				case models.ResultWin:
					row.Wins++
				case models.ResultTie:
					row.Ties++
				}
			}
			if rp.StablefordHcpTotal != nil {
				ptsSum += *rp.StablefordHcpTotal
				ptsN++
				if row.BestRound == nil || *rp.StablefordHcpTotal > *row.BestRound {
					best := *rp.StablefordHcpTotal
					row.BestRound = &best
				}
			}
			if rp.StablefordScratchTotal != nil {
				scrSum += *rp.StablefordScratchTotal
				scrN++
			}
			for _, hs := range d.scores {
				switch golf.ClassifyHole(hs.GrossStrokes, d.parMap[hs.HoleNumber]) {
				case golf.HoleInOne, golf.Birdie:
					row.Birdies++
				case golf.Eagle:
					row.Eagles++
				}
			}
		}
		row.AvgPoints = averageOf(ptsSum, ptsN)
		row.AvgScratch = averageOf(scrSum, scrN)
		row.AvgGross = averageOf(grossSum, grossN)
		row.FIRPct, row.GIRPct, row.PuttsPerHole = regulationStats(data)

		rows = append(rows, row)
	}

	return &Rankings{
		ByAvgPoints:  sortedBy(rows, func(r RankingRow) (*float64, bool) { return r.AvgPoints, true }),
		ByAvgScratch: sortedBy(rows, func(r RankingRow) (*float64, bool) { return r.AvgScratch, true }),
		ByWins:       sortedByWins(rows),
		ByFIR:        sortedBy(rows, func(r RankingRow) (*float64, bool) { return r.FIRPct, true }),
		ByGIR:        sortedBy(rows, func(r RankingRow) (*float64, bool) { return r.GIRPct, true }),
		ByPutts:      sortedBy(rows, func(r RankingRow) (*float64, bool) { return r.PuttsPerHole, false }),
		ByBirdies:    sortedByCount(rows, func(r RankingRow) int { return r.Birdies }),
		ByEagles:     sortedByCount(rows, func(r RankingRow) int { return r.Eagles }),
	}, nil
}

// regulationStats derives FIR%, GIR% and putts per hole from the stored
// hole scores. Holes with unknown FIR/putts stay out of the denominators.
func regulationStats(data []playerRoundData) (firPct, girPct, puttsPerHole *float64) {
	var firMade, firPossible, girMade, girPossible, puttsSum, puttsHoles int
	for _, d := range data {
		for _, hs := range d.scores {
			if hs.FIR != nil {
				firPossible++
				if *hs.FIR {
					firMade++
				}
			}
			if hs.GIR != nil {
				girPossible++
				if *hs.GIR {
					girMade++
				}
			}
			if hs.Putts != nil {
				puttsSum += *hs.Putts
				puttsHoles++
			}
		}
	}
	if firPossible > 0 {
		pct := float64(firMade) / float64(firPossible) * 100
		firPct = &pct
	}
	if girPossible > 0 {
		pct := float64(girMade) / float64(girPossible) * 100
		girPct = &pct
	}
	if puttsHoles > 0 {
		avg := float64(puttsSum) / float64(puttsHoles)
		puttsPerHole = &avg
	}
	return firPct, girPct, puttsPerHole
}

func resultDistribution(data []playerRoundData) (ResultDistribution, ParAverages) {
	var dist ResultDistribution
	var par3Sum, par3N, par4Sum, par4N, par5Sum, par5N int

	for _, d := range data {
		for _, hs := range d.scores {
			par, ok := d.parMap[hs.HoleNumber]
			if !ok {
				continue
			}
			dist.TotalHoles++

			switch par {
			case 3:
				par3Sum += hs.GrossStrokes
				par3N++
			case 4:
				par4Sum += hs.GrossStrokes
				par4N++
			case 5:
				par5Sum += hs.GrossStrokes
				par5N++
			}

			switch golf.ClassifyHole(hs.GrossStrokes, par) {
			case golf.HoleInOne:
				dist.HolesInOne++
			case golf.Albatross:
				dist.Albatrosses++
			case golf.Eagle:
				dist.Eagles++
			case golf.Birdie:
				dist.Birdies++
			case golf.Par:
				dist.Pars++
			case golf.Bogey:
				dist.Bogeys++
			case golf.DoubleBogey:
				dist.DoubleBogeys++
			case golf.OverDouble:
				dist.OverDoubles++
			}
		}
	}

	if dist.TotalHoles > 0 {
		total := float64(dist.TotalHoles)
		dist.BirdiePct = round1(float64(dist.Birdies) / total * 100)
		dist.ParPct = round1(float64(dist.Pars) / total * 100)
		dist.BogeyPct = round1(float64(dist.Bogeys) / total * 100)
		dist.DoublePct = round1(float64(dist.DoubleBogeys) / total * 100)
		dist.WorsePct = round1(float64(dist.OverDoubles) / total * 100)
	}

	averages := ParAverages{
		AvgPar3: averageOf(par3Sum, par3N),
		AvgPar4: averageOf(par4Sum, par4N),
		AvgPar5: averageOf(par5Sum, par5N),
	}
	return dist, averages
}

func averageOf(sum, count int) *float64 {
	if count == 0 {
		return nil
	}
	avg := float64(sum) / float64(count)
	return &avg
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func sortedBy(rows []RankingRow, key func(RankingRow) (*float64, bool)) []RankingRow {
	out := append([]RankingRow(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		a, descA := key(out[i])
		b, _ := key(out[j])
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		if *a != *b {
			if descA {
				return *a > *b
			}
			return *a < *b
		}
		return out[i].PlayerName < out[j].PlayerName
	})
	return out
}

func sortedByWins(rows []RankingRow) []RankingRow {
	out := append([]RankingRow(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		if out[i].Ties != out[j].Ties {
			return out[i].Ties > out[j].Ties
		}
		return out[i].PlayerName < out[j].PlayerName
	})
	return out
}

func sortedByCount(rows []RankingRow, count func(RankingRow) int) []RankingRow {
	out := append([]RankingRow(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if count(out[i]) != count(out[j]) {
			return count(out[i]) > count(out[j])
		}
		return out[i].PlayerName < out[j].PlayerName
	})
	return out
}
