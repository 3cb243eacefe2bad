package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Fermalla/golf-league-system/models"
	"github.com/Fermalla/golf-league-system/repositories"
)

var ErrAchievementNameRequired = errors.New("achievement name is required")

type AchievementService interface {
	CreateAchievement(ctx context.Context, input AchievementInput) (*models.Achievement, error)
	GetAchievementByID(ctx context.Context, id int) (*models.Achievement, error)
	GetAllAchievements(ctx context.Context) ([]models.Achievement, error)
	UpdateAchievement(ctx context.Context, id int, input AchievementInput) (*models.Achievement, error)
	DeleteAchievement(ctx context.Context, id int) error

	GrantToPlayer(ctx context.Context, playerID, achievementID int) error
	RevokeFromPlayer(ctx context.Context, playerID, achievementID int) error
	ListPlayerAchievements(ctx context.Context, playerID int) ([]models.PlayerAchievement, error)
}

type AchievementInput struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type achievementService struct {
	achievementRepo repositories.AchievementRepository
	playerRepo      repositories.PlayerRepository
}

func NewAchievementService(
	achievementRepo repositories.AchievementRepository,
	playerRepo repositories.PlayerRepository,
) AchievementService {
	return &achievementService{
		achievementRepo: achievementRepo,
		playerRepo:      playerRepo,
	}
}

func (s *achievementService) CreateAchievement(ctx context.Context, input AchievementInput) (*models.Achievement, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrAchievementNameRequired
	}

	achievement := &models.Achievement{
		Name:        name,
		Icon:        input.Icon,
		Description: &input.Description,
		Category:    &input.Category,
	}
	if err := s.achievementRepo.Create(ctx, achievement); err != nil {
		if errors.Is(err, repositories.ErrAchievementNameConflict) {
			return nil, ErrAchievementNameConflict
		}
		return nil, fmt.Errorf("failed to create achievement: %w", err)
	}
	return achievement, nil
}

func (s *achievementService) GetAchievementByID(ctx context.Context, id int) (*models.Achievement, error) {
	achievement, err := s.achievementRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrAchievementNotFound) {
			return nil, ErrAchievementNotFound
		}
		return nil, fmt.Errorf("failed to get achievement by id %d: %w", id, err)
	}
	return achievement, nil
}

func (s *achievementService) GetAllAchievements(ctx context.Context) ([]models.Achievement, error) {
	achievements, err := s.achievementRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all achievements: %w", err)
	}
	if achievements == nil {
		return []models.Achievement{}, nil
	}
	return achievements, nil
}

func (s *achievementService) UpdateAchievement(ctx context.Context, id int, input AchievementInput) (*models.Achievement, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrAchievementNameRequired
	}

	achievement := &models.Achievement{
		ID:          id,
		Name:        name,
		Icon:        input.Icon,
		Description: &input.Description,
		Category:    &input.Category,
	}
	if err := s.achievementRepo.Update(ctx, achievement); err != nil {
		switch {
		case errors.Is(err, repositories.ErrAchievementNotFound):
			return nil, ErrAchievementNotFound
		case errors.Is(err, repositories.ErrAchievementNameConflict):
			return nil, ErrAchievementNameConflict
		default:
			return nil, fmt.Errorf("failed to update achievement %d: %w", id, err)
		}
	}
	return achievement, nil
}

func (s *achievementService) DeleteAchievement(ctx context.Context, id int) error {
	if err := s.achievementRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrAchievementNotFound) {
			return ErrAchievementNotFound
		}
		return fmt.Errorf("failed to delete achievement %d: %w", id, err)
	}
	return nil
}

func (s *achievementService) GrantToPlayer(ctx context.Context, playerID, achievementID int) error {
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to get player %d: %w", playerID, err)
	}
	if _, err := s.achievementRepo.GetByID(ctx, achievementID); err != nil {
		if errors.Is(err, repositories.ErrAchievementNotFound) {
			return ErrAchievementNotFound
		}
		return fmt.Errorf("failed to get achievement %d: %w", achievementID, err)
	}

	if err := s.achievementRepo.Grant(ctx, playerID, achievementID, time.Now().UTC()); err != nil {
		if errors.Is(err, repositories.ErrAchievementRefInvalid) {
			return ErrAchievementNotFound
		}
		return fmt.Errorf("failed to grant achievement %d to player %d: %w", achievementID, playerID, err)
	}
	return nil
}

func (s *achievementService) RevokeFromPlayer(ctx context.Context, playerID, achievementID int) error {
	if err := s.achievementRepo.Revoke(ctx, playerID, achievementID); err != nil {
		if errors.Is(err, repositories.ErrAchievementNotFound) {
			return ErrAchievementNotFound
		}
		return fmt.Errorf("failed to revoke achievement %d from player %d: %w", achievementID, playerID, err)
	}
	return nil
}

func (s *achievementService) ListPlayerAchievements(ctx context.Context, playerID int) ([]models.PlayerAchievement, error) {
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", playerID, err)
	}

	grants, err := s.achievementRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements for player %d: %w", playerID, err)
	}
	if grants == nil {
		return []models.PlayerAchievement{}, nil
	}
	return grants, nil
}
