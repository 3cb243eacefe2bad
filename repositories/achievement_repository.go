package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Fermalla/golf-league-system/models"
	"github.com/lib/pq"
)

var (
	ErrAchievementNotFound     = errors.New("achievement not found")
	ErrAchievementNameConflict = errors.New("achievement with this name already exists")
	ErrAchievementRefInvalid   = errors.New("achievement grant references an unknown player or achievement")
)

type AchievementRepository interface {
	Create(ctx context.Context, a *models.Achievement) error
	GetByID(ctx context.Context, id int) (*models.Achievement, error)
	GetAll(ctx context.Context) ([]models.Achievement, error)
	Update(ctx context.Context, a *models.Achievement) error
	Delete(ctx context.Context, id int) error

	Grant(ctx context.Context, playerID, achievementID int, unlockedAt time.Time) error
	Revoke(ctx context.Context, playerID, achievementID int) error
	ListByPlayer(ctx context.Context, playerID int) ([]models.PlayerAchievement, error)
}

type postgresAchievementRepository struct {
	db *sql.DB
}

func NewPostgresAchievementRepository(db *sql.DB) AchievementRepository {
	return &postgresAchievementRepository{db: db}
}

const achievementColumns = "id, name, icon, description, category"

func scanAchievement(row interface{ Scan(...interface{}) error }, a *models.Achievement) error {
	return row.Scan(&a.ID, &a.Name, &a.Icon, &a.Description, &a.Category)
}

func (r *postgresAchievementRepository) Create(ctx context.Context, a *models.Achievement) error {
	query := `
		INSERT INTO achievements (name, icon, description, category)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, a.Name, a.Icon, a.Description, a.Category).Scan(&a.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAchievementNameConflict
		}
		return fmt.Errorf("creating achievement: %w", err)
	}
	return nil
}

func (r *postgresAchievementRepository) GetByID(ctx context.Context, id int) (*models.Achievement, error) {
	query := fmt.Sprintf("SELECT %s FROM achievements WHERE id = $1", achievementColumns)
	a := &models.Achievement{}
	err := scanAchievement(r.db.QueryRowContext(ctx, query, id), a)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAchievementNotFound
		}
		return nil, fmt.Errorf("getting achievement by id %d: %w", id, err)
	}
	return a, nil
}

func (r *postgresAchievementRepository) GetAll(ctx context.Context) ([]models.Achievement, error) {
	query := fmt.Sprintf("SELECT %s FROM achievements ORDER BY category ASC, id ASC", achievementColumns)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing achievements: %w", err)
	}
	defer rows.Close()

	var achievements []models.Achievement
	for rows.Next() {
		var a models.Achievement
		if err := scanAchievement(rows, &a); err != nil {
			return nil, fmt.Errorf("scanning achievement: %w", err)
		}
		achievements = append(achievements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating achievements: %w", err)
	}
	return achievements, nil
}

func (r *postgresAchievementRepository) Update(ctx context.Context, a *models.Achievement) error {
	query := `
		UPDATE achievements
		SET name = $1, icon = $2, description = $3, category = $4
		WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, a.Name, a.Icon, a.Description, a.Category, a.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAchievementNameConflict
		}
		return fmt.Errorf("updating achievement %d: %w", a.ID, err)
	}
	return checkAffectedRows(result, ErrAchievementNotFound)
}

func (r *postgresAchievementRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM achievements WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting achievement %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrAchievementNotFound)
}

// Grant is an upsert. Re-granting an achievement refreshes the unlock time
// instead of failing on the unique pair.
func (r *postgresAchievementRepository) Grant(ctx context.Context, playerID, achievementID int, unlockedAt time.Time) error {
	query := `
		INSERT INTO player_achievements (player_id, achievement_id, unlocked, unlocked_at)
		VALUES ($1, $2, TRUE, $3)
		ON CONFLICT (player_id, achievement_id)
		DO UPDATE SET unlocked = TRUE, unlocked_at = EXCLUDED.unlocked_at`
	_, err := r.db.ExecContext(ctx, query, playerID, achievementID, unlockedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrAchievementRefInvalid
		}
		return fmt.Errorf("granting achievement %d to player %d: %w", achievementID, playerID, err)
	}
	return nil
}

func (r *postgresAchievementRepository) Revoke(ctx context.Context, playerID, achievementID int) error {
	query := "DELETE FROM player_achievements WHERE player_id = $1 AND achievement_id = $2"
	result, err := r.db.ExecContext(ctx, query, playerID, achievementID)
	if err != nil {
		return fmt.Errorf("revoking achievement %d from player %d: %w", achievementID, playerID, err)
	}
	return checkAffectedRows(result, ErrAchievementNotFound)
}

func (r *postgresAchievementRepository) ListByPlayer(ctx context.Context, playerID int) ([]models.PlayerAchievement, error) {
	query := `
		SELECT pa.id, pa.player_id, pa.achievement_id, pa.unlocked, pa.unlocked_at,
		       a.id, a.name, a.icon, a.description, a.category
		FROM player_achievements pa
		JOIN achievements a ON a.id = pa.achievement_id
		WHERE pa.player_id = $1
		ORDER BY pa.unlocked_at DESC, pa.id DESC`
	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("listing achievements for player %d: %w", playerID, err)
	}
	defer rows.Close()

	var grants []models.PlayerAchievement
	for rows.Next() {
		var (
			pa models.PlayerAchievement
			a  models.Achievement
		)
		err := rows.Scan(
			&pa.ID, &pa.PlayerID, &pa.AchievementID, &pa.Unlocked, &pa.UnlockedAt,
			&a.ID, &a.Name, &a.Icon, &a.Description, &a.Category,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning player achievement: %w", err)
		}
		pa.Achievement = &a
		grants = append(grants, pa)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating player achievements: %w", err)
	}
	return grants, nil
}
