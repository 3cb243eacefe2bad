package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Fermalla/golf-league-system/models"
	"github.com/Fermalla/golf-league-system/repositories"
	"github.com/Fermalla/golf-league-system/storage"
	"github.com/google/uuid"
)

var ErrPlayerNameRequired = errors.New("player name is required")

type PlayerService interface {
	CreatePlayer(ctx context.Context, input CreatePlayerInput) (*models.Player, error)
	GetPlayerByID(ctx context.Context, id int) (*models.Player, error)
	GetAllPlayers(ctx context.Context, onlyActive bool) ([]models.Player, error)
	UpdatePlayer(ctx context.Context, id int, input UpdatePlayerInput) (*models.Player, error)
	UploadPhoto(ctx context.Context, id int, contentType string, body io.Reader) (*models.Player, error)
	DeletePlayer(ctx context.Context, id int) error
}

type CreatePlayerInput struct {
	Name          string  `json:"name"`
	Nickname      *string `json:"nickname"`
	HcpExact      float64 `json:"hcp_exact"`
	LicenseNumber *string `json:"license_number"`
}

type UpdatePlayerInput struct {
	Name          string  `json:"name"`
	Nickname      *string `json:"nickname"`
	HcpExact      float64 `json:"hcp_exact"`
	Active        bool    `json:"active"`
	LicenseNumber *string `json:"license_number"`
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
}

func NewPlayerService(playerRepo repositories.PlayerRepository, uploader storage.FileUploader) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		uploader:   uploader,
	}
}

func (s *playerService) CreatePlayer(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrPlayerNameRequired
	}

	player := &models.Player{
		Name:          name,
		Nickname:      input.Nickname,
		HcpExact:      input.HcpExact,
		Active:        true,
		LicenseNumber: input.LicenseNumber,
	}

	if err := s.playerRepo.Create(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerNameConflict) {
			return nil, ErrPlayerNameConflict
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return player, nil
}

func (s *playerService) GetPlayerByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player by id %d: %w", id, err)
	}
	player.PhotoURL = publicURLFor(s.uploader, player.PhotoKey)
	return player, nil
}

func (s *playerService) GetAllPlayers(ctx context.Context, onlyActive bool) ([]models.Player, error) {
	players, err := s.playerRepo.GetAll(ctx, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("failed to get all players: %w", err)
	}
	if players == nil {
		return []models.Player{}, nil
	}
	for i := range players {
		players[i].PhotoURL = publicURLFor(s.uploader, players[i].PhotoKey)
	}
	return players, nil
}

func (s *playerService) UpdatePlayer(ctx context.Context, id int, input UpdatePlayerInput) (*models.Player, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrPlayerNameRequired
	}

	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d for update: %w", id, err)
	}

	player.Name = name
	player.Nickname = input.Nickname
	player.HcpExact = input.HcpExact
	player.Active = input.Active
	player.LicenseNumber = input.LicenseNumber

	if err := s.playerRepo.Update(ctx, player); err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerNotFound):
			return nil, ErrPlayerNotFound
		case errors.Is(err, repositories.ErrPlayerNameConflict):
			return nil, ErrPlayerNameConflict
		default:
			return nil, fmt.Errorf("failed to update player %d: %w", id, err)
		}
	}
	player.PhotoURL = publicURLFor(s.uploader, player.PhotoKey)
	return player, nil
}

func (s *playerService) UploadPhoto(ctx context.Context, id int, contentType string, body io.Reader) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d for photo upload: %w", id, err)
	}

	ext, err := extensionFromContentType(contentType)
	if err != nil {
		return nil, err
	}

	oldKey := player.PhotoKey
	key := fmt.Sprintf("players/%d/%s%s", id, uuid.NewString(), ext)

	if _, err := s.uploader.Upload(ctx, key, contentType, body); err != nil {
		return nil, fmt.Errorf("failed to upload player photo: %w", err)
	}

	if err := s.playerRepo.UpdatePhotoKey(ctx, id, &key); err != nil {
		return nil, fmt.Errorf("failed to store player photo key: %w", err)
	}

	if oldKey != nil && *oldKey != "" {
		// The old object is orphaned, not load-bearing. Best effort.
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	player.PhotoKey = &key
	player.PhotoURL = publicURLFor(s.uploader, player.PhotoKey)
	return player, nil
}

func (s *playerService) DeletePlayer(ctx context.Context, id int) error {
	err := s.playerRepo.Delete(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerNotFound):
			return ErrPlayerNotFound
		case errors.Is(err, repositories.ErrPlayerInUse):
			return ErrPlayerInUse
		default:
			return fmt.Errorf("failed to delete player %d: %w", id, err)
		}
	}
	return nil
}
