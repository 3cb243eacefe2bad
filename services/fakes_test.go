package services

import (
	"context"
	"database/sql"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/Fermalla/golf-league-system/models"
	"github.com/Fermalla/golf-league-system/repositories"
	"github.com/Fermalla/golf-league-system/storage"
)

// newTxDB returns a *sql.DB whose transactions always begin and commit.
// The statements themselves run through the fake repositories, so the
// mock only has to accept the transaction boundaries.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 16; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}
	return db
}

type fakePlayerRepo struct {
	players map[int]models.Player
	nextID  int
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[int]models.Player)}
}

func (r *fakePlayerRepo) add(p models.Player) models.Player {
	r.nextID++
	p.ID = r.nextID
	r.players[p.ID] = p
	return p
}

func (r *fakePlayerRepo) Create(_ context.Context, player *models.Player) error {
	player.CreatedAt = time.Now()
	*player = r.add(*player)
	return nil
}

func (r *fakePlayerRepo) GetByID(_ context.Context, id int) (*models.Player, error) {
	p, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	return &p, nil
}

func (r *fakePlayerRepo) GetAll(_ context.Context, onlyActive bool) ([]models.Player, error) {
	players := make([]models.Player, 0, len(r.players))
	for _, p := range r.players {
		if onlyActive && !p.Active {
			continue
		}
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Name < players[j].Name })
	return players, nil
}

func (r *fakePlayerRepo) Update(_ context.Context, player *models.Player) error {
	if _, ok := r.players[player.ID]; !ok {
		return repositories.ErrPlayerNotFound
	}
	r.players[player.ID] = *player
	return nil
}

func (r *fakePlayerRepo) UpdatePhotoKey(_ context.Context, id int, photoKey *string) error {
	p, ok := r.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	p.PhotoKey = photoKey
	r.players[id] = p
	return nil
}

func (r *fakePlayerRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(r.players, id)
	return nil
}

type fakeCourseRepo struct {
	courses map[int]models.Course
	nextID  int
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[int]models.Course)}
}

func (r *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	r.nextID++
	course.ID = r.nextID
	r.courses[course.ID] = *course
	return nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id int) (*models.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, repositories.ErrCourseNotFound
	}
	return &c, nil
}

func (r *fakeCourseRepo) GetAll(_ context.Context) ([]models.Course, error) {
	courses := make([]models.Course, 0, len(r.courses))
	for _, c := range r.courses {
		courses = append(courses, c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (r *fakeCourseRepo) Update(_ context.Context, course *models.Course) error {
	if _, ok := r.courses[course.ID]; !ok {
		return repositories.ErrCourseNotFound
	}
	r.courses[course.ID] = *course
	return nil
}

func (r *fakeCourseRepo) UpdateLogoKey(_ context.Context, id int, logoKey *string) error {
	c, ok := r.courses[id]
	if !ok {
		return repositories.ErrCourseNotFound
	}
	c.LogoKey = logoKey
	r.courses[id] = c
	return nil
}

func (r *fakeCourseRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.courses[id]; !ok {
		return repositories.ErrCourseNotFound
	}
	delete(r.courses, id)
	return nil
}

type fakeHoleRepo struct {
	holes map[int][]models.Hole
}

func newFakeHoleRepo() *fakeHoleRepo {
	return &fakeHoleRepo{holes: make(map[int][]models.Hole)}
}

func (r *fakeHoleRepo) ListByCourse(_ context.Context, courseID int) ([]models.Hole, error) {
	holes := append([]models.Hole(nil), r.holes[courseID]...)
	sort.Slice(holes, func(i, j int) bool { return holes[i].Number < holes[j].Number })
	return holes, nil
}

func (r *fakeHoleRepo) ReplaceForCourse(_ context.Context, _ repositories.SQLExecutor, courseID int, holes []models.Hole) error {
	r.holes[courseID] = append([]models.Hole(nil), holes...)
	return nil
}

type fakeLeagueRepo struct {
	leagues map[int]models.League
	nextID  int
}

func newFakeLeagueRepo() *fakeLeagueRepo {
	return &fakeLeagueRepo{leagues: make(map[int]models.League)}
}

func (r *fakeLeagueRepo) Create(_ context.Context, league *models.League) error {
	for _, l := range r.leagues {
		if l.Name == league.Name {
			return repositories.ErrLeagueNameConflict
		}
	}
	r.nextID++
	league.ID = r.nextID
	league.CreatedAt = time.Now()
	r.leagues[league.ID] = *league
	return nil
}

func (r *fakeLeagueRepo) GetByID(_ context.Context, id int) (*models.League, error) {
	l, ok := r.leagues[id]
	if !ok {
		return nil, repositories.ErrLeagueNotFound
	}
	return &l, nil
}

func (r *fakeLeagueRepo) GetAll(_ context.Context, onlyOpen bool) ([]models.League, error) {
	leagues := make([]models.League, 0, len(r.leagues))
	for _, l := range r.leagues {
		if onlyOpen && l.IsClosed {
			continue
		}
		leagues = append(leagues, l)
	}
	sort.Slice(leagues, func(i, j int) bool { return leagues[i].ID < leagues[j].ID })
	return leagues, nil
}

func (r *fakeLeagueRepo) ListClosed(_ context.Context) ([]models.League, error) {
	leagues := make([]models.League, 0)
	for _, l := range r.leagues {
		if l.IsClosed {
			leagues = append(leagues, l)
		}
	}
	sort.Slice(leagues, func(i, j int) bool { return leagues[i].ID < leagues[j].ID })
	return leagues, nil
}

func (r *fakeLeagueRepo) Update(_ context.Context, league *models.League) error {
	if _, ok := r.leagues[league.ID]; !ok {
		return repositories.ErrLeagueNotFound
	}
	r.leagues[league.ID] = *league
	return nil
}

func (r *fakeLeagueRepo) UpdateLogoKey(_ context.Context, id int, logoKey *string) error {
	l, ok := r.leagues[id]
	if !ok {
		return repositories.ErrLeagueNotFound
	}
	l.LogoKey = logoKey
	r.leagues[id] = l
	return nil
}

func (r *fakeLeagueRepo) Close(_ context.Context, id int) error {
	l, ok := r.leagues[id]
	if !ok {
		return repositories.ErrLeagueNotFound
	}
	l.IsClosed = true
	r.leagues[id] = l
	return nil
}

func (r *fakeLeagueRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.leagues[id]; !ok {
		return repositories.ErrLeagueNotFound
	}
	delete(r.leagues, id)
	return nil
}

type fakeRoundRepo struct {
	rounds map[int]models.Round
	nextID int
}

func newFakeRoundRepo() *fakeRoundRepo {
	return &fakeRoundRepo{rounds: make(map[int]models.Round)}
}

func (r *fakeRoundRepo) Create(_ context.Context, _ repositories.SQLExecutor, round *models.Round) error {
	r.nextID++
	round.ID = r.nextID
	stored := *round
	stored.RoundPlayers = nil
	stored.Course = nil
	r.rounds[round.ID] = stored
	return nil
}

func (r *fakeRoundRepo) GetByID(_ context.Context, id int) (*models.Round, error) {
	round, ok := r.rounds[id]
	if !ok {
		return nil, repositories.ErrRoundNotFound
	}
	return &round, nil
}

func (r *fakeRoundRepo) GetAll(_ context.Context) ([]models.Round, error) {
	rounds := make([]models.Round, 0, len(r.rounds))
	for _, round := range r.rounds {
		rounds = append(rounds, round)
	}
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].ID > rounds[j].ID })
	return rounds, nil
}

func (r *fakeRoundRepo) ListByLeague(_ context.Context, leagueID int) ([]models.Round, error) {
	rounds := make([]models.Round, 0)
	for _, round := range r.rounds {
		if round.LeagueID != nil && *round.LeagueID == leagueID {
			rounds = append(rounds, round)
		}
	}
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].ID < rounds[j].ID })
	return rounds, nil
}

func (r *fakeRoundRepo) SetWinner(_ context.Context, _ repositories.SQLExecutor, roundID int, winnerType models.WinnerType, winnerPlayerIDs string) error {
	round, ok := r.rounds[roundID]
	if !ok {
		return repositories.ErrRoundNotFound
	}
	round.WinnerType = &winnerType
	round.WinnerPlayerIDs = &winnerPlayerIDs
	r.rounds[roundID] = round
	return nil
}

func (r *fakeRoundRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.rounds[id]; !ok {
		return repositories.ErrRoundNotFound
	}
	delete(r.rounds, id)
	return nil
}

type fakeRoundPlayerRepo struct {
	roundPlayers map[int]models.RoundPlayer
	nextID       int
}

func newFakeRoundPlayerRepo() *fakeRoundPlayerRepo {
	return &fakeRoundPlayerRepo{roundPlayers: make(map[int]models.RoundPlayer)}
}

func (r *fakeRoundPlayerRepo) Create(_ context.Context, _ repositories.SQLExecutor, rp *models.RoundPlayer) error {
	for _, existing := range r.roundPlayers {
		if existing.RoundID == rp.RoundID && existing.PlayerID == rp.PlayerID {
			return repositories.ErrRoundPlayerDuplicate
		}
	}
	r.nextID++
	rp.ID = r.nextID
	r.roundPlayers[rp.ID] = *rp
	return nil
}

func (r *fakeRoundPlayerRepo) GetByID(_ context.Context, id int) (*models.RoundPlayer, error) {
	rp, ok := r.roundPlayers[id]
	if !ok {
		return nil, repositories.ErrRoundPlayerNotFound
	}
	return &rp, nil
}

func (r *fakeRoundPlayerRepo) GetByRoundAndPlayer(_ context.Context, roundID, playerID int) (*models.RoundPlayer, error) {
	for _, rp := range r.roundPlayers {
		if rp.RoundID == roundID && rp.PlayerID == playerID {
			return &rp, nil
		}
	}
	return nil, repositories.ErrRoundPlayerNotFound
}

func (r *fakeRoundPlayerRepo) ListByRound(_ context.Context, roundID int) ([]models.RoundPlayer, error) {
	rps := make([]models.RoundPlayer, 0)
	for _, rp := range r.roundPlayers {
		if rp.RoundID == roundID {
			rps = append(rps, rp)
		}
	}
	sort.Slice(rps, func(i, j int) bool { return rps[i].ID < rps[j].ID })
	return rps, nil
}

func (r *fakeRoundPlayerRepo) ListByPlayer(_ context.Context, playerID int) ([]models.RoundPlayer, error) {
	rps := make([]models.RoundPlayer, 0)
	for _, rp := range r.roundPlayers {
		if rp.PlayerID == playerID {
			rps = append(rps, rp)
		}
	}
	sort.Slice(rps, func(i, j int) bool { return rps[i].ID < rps[j].ID })
	return rps, nil
}

func (r *fakeRoundPlayerRepo) UpdateTotals(_ context.Context, _ repositories.SQLExecutor, rp *models.RoundPlayer) error {
	stored, ok := r.roundPlayers[rp.ID]
	if !ok {
		return repositories.ErrRoundPlayerNotFound
	}
	stored.GrossTotal = rp.GrossTotal
	stored.NetTotal = rp.NetTotal
	stored.StablefordHcpTotal = rp.StablefordHcpTotal
	stored.StablefordScratchTotal = rp.StablefordScratchTotal
	stored.PuttsTotal = rp.PuttsTotal
	r.roundPlayers[rp.ID] = stored
	return nil
}

func (r *fakeRoundPlayerRepo) UpdateCourseHandicap(_ context.Context, _ repositories.SQLExecutor, id, courseHandicap int) error {
	rp, ok := r.roundPlayers[id]
	if !ok {
		return repositories.ErrRoundPlayerNotFound
	}
	rp.CourseHandicap = courseHandicap
	r.roundPlayers[id] = rp
	return nil
}

func (r *fakeRoundPlayerRepo) UpdateResult(_ context.Context, _ repositories.SQLExecutor, id int, result models.PlayerResult) error {
	rp, ok := r.roundPlayers[id]
	if !ok {
		return repositories.ErrRoundPlayerNotFound
	}
	rp.Result = &result
	r.roundPlayers[id] = rp
	return nil
}

type fakeHoleScoreRepo struct {
	scores map[int][]models.HoleScore
	nextID int
}

func newFakeHoleScoreRepo() *fakeHoleScoreRepo {
	return &fakeHoleScoreRepo{scores: make(map[int][]models.HoleScore)}
}

func (r *fakeHoleScoreRepo) ListByRoundPlayer(_ context.Context, roundPlayerID int) ([]models.HoleScore, error) {
	scores := append([]models.HoleScore(nil), r.scores[roundPlayerID]...)
	sort.Slice(scores, func(i, j int) bool { return scores[i].HoleNumber < scores[j].HoleNumber })
	return scores, nil
}

func (r *fakeHoleScoreRepo) ReplaceForRoundPlayer(_ context.Context, _ repositories.SQLExecutor, roundPlayerID int, scores []models.HoleScore) error {
	stored := make([]models.HoleScore, len(scores))
	for i, s := range scores {
		r.nextID++
		s.ID = r.nextID
		s.RoundPlayerID = roundPlayerID
		stored[i] = s
	}
	r.scores[roundPlayerID] = stored
	return nil
}

type fakeAchievementRepo struct {
	achievements map[int]models.Achievement
	grants       map[[2]int]models.PlayerAchievement
	nextID       int
	grantID      int
}

func newFakeAchievementRepo() *fakeAchievementRepo {
	return &fakeAchievementRepo{
		achievements: make(map[int]models.Achievement),
		grants:       make(map[[2]int]models.PlayerAchievement),
	}
}

func (r *fakeAchievementRepo) Create(_ context.Context, a *models.Achievement) error {
	for _, existing := range r.achievements {
		if existing.Name == a.Name {
			return repositories.ErrAchievementNameConflict
		}
	}
	r.nextID++
	a.ID = r.nextID
	r.achievements[a.ID] = *a
	return nil
}

func (r *fakeAchievementRepo) GetByID(_ context.Context, id int) (*models.Achievement, error) {
	a, ok := r.achievements[id]
	if !ok {
		return nil, repositories.ErrAchievementNotFound
	}
	return &a, nil
}

func (r *fakeAchievementRepo) GetAll(_ context.Context) ([]models.Achievement, error) {
	achievements := make([]models.Achievement, 0, len(r.achievements))
	for _, a := range r.achievements {
		achievements = append(achievements, a)
	}
	sort.Slice(achievements, func(i, j int) bool { return achievements[i].ID < achievements[j].ID })
	return achievements, nil
}

func (r *fakeAchievementRepo) Update(_ context.Context, a *models.Achievement) error {
	if _, ok := r.achievements[a.ID]; !ok {
		return repositories.ErrAchievementNotFound
	}
	r.achievements[a.ID] = *a
	return nil
}

func (r *fakeAchievementRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.achievements[id]; !ok {
		return repositories.ErrAchievementNotFound
	}
	delete(r.achievements, id)
	return nil
}

func (r *fakeAchievementRepo) Grant(_ context.Context, playerID, achievementID int, unlockedAt time.Time) error {
	key := [2]int{playerID, achievementID}
	grant, ok := r.grants[key]
	if !ok {
		r.grantID++
		grant = models.PlayerAchievement{
			ID:            r.grantID,
			PlayerID:      playerID,
			AchievementID: achievementID,
		}
	}
	grant.Unlocked = true
	grant.UnlockedAt = &unlockedAt
	r.grants[key] = grant
	return nil
}

func (r *fakeAchievementRepo) Revoke(_ context.Context, playerID, achievementID int) error {
	delete(r.grants, [2]int{playerID, achievementID})
	return nil
}

func (r *fakeAchievementRepo) ListByPlayer(_ context.Context, playerID int) ([]models.PlayerAchievement, error) {
	grants := make([]models.PlayerAchievement, 0)
	for _, grant := range r.grants {
		if grant.PlayerID != playerID {
			continue
		}
		if a, ok := r.achievements[grant.AchievementID]; ok {
			grant.Achievement = &a
		}
		grants = append(grants, grant)
	}
	sort.Slice(grants, func(i, j int) bool { return grants[i].ID < grants[j].ID })
	return grants, nil
}

type fakeUploader struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
}

func (u *fakeUploader) Upload(_ context.Context, key string, _ string, reader io.Reader) (*storage.UploadResult, error) {
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.uploaded = append(u.uploaded, key)
	return &storage.UploadResult{Key: key, Location: "https://cdn.test/" + key}, nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}

type notification struct {
	roundID int
	event   string
	payload interface{}
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notification
}

func (n *fakeNotifier) NotifyRound(roundID int, event string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notification{roundID: roundID, event: event, payload: payload})
}

func (n *fakeNotifier) eventNames() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	names := make([]string, len(n.events))
	for i, e := range n.events {
		names[i] = e.event
	}
	return names
}
