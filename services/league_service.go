package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Fermalla/golf-league-system/golf"
	"github.com/Fermalla/golf-league-system/models"
	"github.com/Fermalla/golf-league-system/repositories"
	"github.com/Fermalla/golf-league-system/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var ErrLeagueNameRequired = errors.New("league name is required")

type LeagueService interface {
	CreateLeague(ctx context.Context, input LeagueInput) (*models.League, error)
	GetLeagueByID(ctx context.Context, id int) (*models.League, error)
	GetAllLeagues(ctx context.Context, onlyOpen bool) ([]models.League, error)
	UpdateLeague(ctx context.Context, id int, input LeagueInput) (*models.League, error)
	CloseLeague(ctx context.Context, id int) (*models.League, error)
	DeleteLeague(ctx context.Context, id int) error
	UploadLogo(ctx context.Context, id int, contentType string, body io.Reader) (*models.League, error)

	GetStandings(ctx context.Context, id int) (*golf.Standings, error)
	ChampionTitles(ctx context.Context) (map[int]int, error)
}

type LeagueInput struct {
	Name string `json:"name"`
}

type leagueService struct {
	leagueRepo      repositories.LeagueRepository
	roundRepo       repositories.RoundRepository
	roundPlayerRepo repositories.RoundPlayerRepository
	playerRepo      repositories.PlayerRepository
	courseRepo      repositories.CourseRepository
	uploader        storage.FileUploader
}

func NewLeagueService(
	leagueRepo repositories.LeagueRepository,
	roundRepo repositories.RoundRepository,
	roundPlayerRepo repositories.RoundPlayerRepository,
	playerRepo repositories.PlayerRepository,
	courseRepo repositories.CourseRepository,
	uploader storage.FileUploader,
) LeagueService {
	return &leagueService{
		leagueRepo:      leagueRepo,
		roundRepo:       roundRepo,
		roundPlayerRepo: roundPlayerRepo,
		playerRepo:      playerRepo,
		courseRepo:      courseRepo,
		uploader:        uploader,
	}
}

func (s *leagueService) CreateLeague(ctx context.Context, input LeagueInput) (*models.League, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrLeagueNameRequired
	}

	league := &models.League{Name: name}
	if err := s.leagueRepo.Create(ctx, league); err != nil {
		if errors.Is(err, repositories.ErrLeagueNameConflict) {
			return nil, ErrLeagueNameConflict
		}
		return nil, fmt.Errorf("failed to create league: %w", err)
	}
	return league, nil
}

func (s *leagueService) GetLeagueByID(ctx context.Context, id int) (*models.League, error) {
	league, err := s.leagueRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to get league by id %d: %w", id, err)
	}
	league.LogoURL = publicURLFor(s.uploader, league.LogoKey)
	return league, nil
}

func (s *leagueService) GetAllLeagues(ctx context.Context, onlyOpen bool) ([]models.League, error) {
	leagues, err := s.leagueRepo.GetAll(ctx, onlyOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to get all leagues: %w", err)
	}
	if leagues == nil {
		return []models.League{}, nil
	}
	for i := range leagues {
		leagues[i].LogoURL = publicURLFor(s.uploader, leagues[i].LogoKey)
	}
	return leagues, nil
}

func (s *leagueService) UpdateLeague(ctx context.Context, id int, input LeagueInput) (*models.League, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrLeagueNameRequired
	}

	league, err := s.GetLeagueByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if league.IsClosed {
		return nil, ErrLeagueClosed
	}

	league.Name = name
	if err := s.leagueRepo.Update(ctx, league); err != nil {
		switch {
		case errors.Is(err, repositories.ErrLeagueNotFound):
			return nil, ErrLeagueNotFound
		case errors.Is(err, repositories.ErrLeagueNameConflict):
			return nil, ErrLeagueNameConflict
		default:
			return nil, fmt.Errorf("failed to update league %d: %w", id, err)
		}
	}
	return league, nil
}

// CloseLeague freezes a league. Closing is what crowns the champions: an
// open league has a live table but no titles yet.
func (s *leagueService) CloseLeague(ctx context.Context, id int) (*models.League, error) {
	league, err := s.GetLeagueByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if league.IsClosed {
		return nil, ErrLeagueClosed
	}
	if err := s.leagueRepo.Close(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to close league %d: %w", id, err)
	}
	league.IsClosed = true
	return league, nil
}

func (s *leagueService) DeleteLeague(ctx context.Context, id int) error {
	err := s.leagueRepo.Delete(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrLeagueNotFound):
			return ErrLeagueNotFound
		case errors.Is(err, repositories.ErrLeagueInUse):
			return ErrLeagueInUse
		default:
			return fmt.Errorf("failed to delete league %d: %w", id, err)
		}
	}
	return nil
}

func (s *leagueService) UploadLogo(ctx context.Context, id int, contentType string, body io.Reader) (*models.League, error) {
	league, err := s.GetLeagueByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext, err := extensionFromContentType(contentType)
	if err != nil {
		return nil, err
	}

	oldKey := league.LogoKey
	key := fmt.Sprintf("leagues/%d/%s%s", id, uuid.NewString(), ext)

	if _, err := s.uploader.Upload(ctx, key, contentType, body); err != nil {
		return nil, fmt.Errorf("failed to upload league logo: %w", err)
	}
	if err := s.leagueRepo.UpdateLogoKey(ctx, id, &key); err != nil {
		return nil, fmt.Errorf("failed to store league logo key: %w", err)
	}
	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	league.LogoKey = &key
	league.LogoURL = publicURLFor(s.uploader, league.LogoKey)
	return league, nil
}

// GetStandings computes the league tables from the stored rounds. Nothing
// is cached: standings are cheap to derive and always consistent with the
// cards on file.
func (s *leagueService) GetStandings(ctx context.Context, id int) (*golf.Standings, error) {
	league, err := s.leagueRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to get league %d: %w", id, err)
	}

	rounds, err := s.loadLeagueRounds(ctx, id)
	if err != nil {
		return nil, err
	}

	standings := golf.ComputeStandings(*league, rounds)
	return &standings, nil
}

func (s *leagueService) loadLeagueRounds(ctx context.Context, leagueID int) ([]models.Round, error) {
	rounds, err := s.roundRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds for league %d: %w", leagueID, err)
	}

	courses := make(map[int]*models.Course)
	players := make(map[int]*models.Player)
	for i := range rounds {
		course, ok := courses[rounds[i].CourseID]
		if !ok {
			course, err = s.courseRepo.GetByID(ctx, rounds[i].CourseID)
			if err != nil {
				return nil, fmt.Errorf("failed to get course %d: %w", rounds[i].CourseID, err)
			}
			courses[rounds[i].CourseID] = course
		}
		rounds[i].Course = course

		roundPlayers, err := s.roundPlayerRepo.ListByRound(ctx, rounds[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list players for round %d: %w", rounds[i].ID, err)
		}
		for j := range roundPlayers {
			player, ok := players[roundPlayers[j].PlayerID]
			if !ok {
				player, err = s.playerRepo.GetByID(ctx, roundPlayers[j].PlayerID)
				if err != nil {
					return nil, fmt.Errorf("failed to get player %d: %w", roundPlayers[j].PlayerID, err)
				}
				players[roundPlayers[j].PlayerID] = player
			}
			roundPlayers[j].Player = player
		}
		rounds[i].RoundPlayers = roundPlayers
	}
	return rounds, nil
}

// ChampionTitles counts F1 championship titles per player across all closed
// leagues. Leagues are independent, so their standings are computed
// concurrently.
func (s *leagueService) ChampionTitles(ctx context.Context) (map[int]int, error) {
	closed, err := s.leagueRepo.ListClosed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list closed leagues: %w", err)
	}

	var (
		mu     sync.Mutex
		titles = make(map[int]int)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, league := range closed {
		league := league
		g.Go(func() error {
			rounds, err := s.loadLeagueRounds(gctx, league.ID)
			if err != nil {
				return err
			}
			standings := golf.ComputeStandings(league, rounds)
			mu.Lock()
			for _, playerID := range standings.Champions.MainPlayerIDs {
				titles[playerID]++
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return titles, nil
}
