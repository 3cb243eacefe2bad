package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Fermalla/golf-league-system/models"
	"github.com/lib/pq"
)

var (
	ErrLeagueNotFound     = errors.New("league not found")
	ErrLeagueNameConflict = errors.New("league with this name already exists")
	ErrLeagueInUse        = errors.New("league has rounds and cannot be deleted")
)

type LeagueRepository interface {
	Create(ctx context.Context, league *models.League) error
	GetByID(ctx context.Context, id int) (*models.League, error)
	GetAll(ctx context.Context, onlyOpen bool) ([]models.League, error)
	ListClosed(ctx context.Context) ([]models.League, error)
	Update(ctx context.Context, league *models.League) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
	Close(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
}

type postgresLeagueRepository struct {
	db *sql.DB
}

func NewPostgresLeagueRepository(db *sql.DB) LeagueRepository {
	return &postgresLeagueRepository{db: db}
}

const leagueColumns = "id, name, is_closed, logo_key, created_at"

func scanLeague(row interface{ Scan(...interface{}) error }, l *models.League) error {
	return row.Scan(&l.ID, &l.Name, &l.IsClosed, &l.LogoKey, &l.CreatedAt)
}

func (r *postgresLeagueRepository) Create(ctx context.Context, league *models.League) error {
	query := `
		INSERT INTO leagues (name)
		VALUES ($1)
		RETURNING id, is_closed, created_at`
	err := r.db.QueryRowContext(ctx, query, league.Name).
		Scan(&league.ID, &league.IsClosed, &league.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrLeagueNameConflict
		}
		return fmt.Errorf("creating league: %w", err)
	}
	return nil
}

func (r *postgresLeagueRepository) GetByID(ctx context.Context, id int) (*models.League, error) {
	query := fmt.Sprintf("SELECT %s FROM leagues WHERE id = $1", leagueColumns)
	league := &models.League{}
	err := scanLeague(r.db.QueryRowContext(ctx, query, id), league)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("getting league by id %d: %w", id, err)
	}
	return league, nil
}

func (r *postgresLeagueRepository) GetAll(ctx context.Context, onlyOpen bool) ([]models.League, error) {
	query := fmt.Sprintf("SELECT %s FROM leagues ORDER BY created_at DESC, id DESC", leagueColumns)
	if onlyOpen {
		query = fmt.Sprintf("SELECT %s FROM leagues WHERE is_closed = FALSE ORDER BY created_at DESC, id DESC", leagueColumns)
	}
	return r.queryLeagues(ctx, query)
}

func (r *postgresLeagueRepository) ListClosed(ctx context.Context) ([]models.League, error) {
	query := fmt.Sprintf("SELECT %s FROM leagues WHERE is_closed = TRUE ORDER BY created_at DESC, id DESC", leagueColumns)
	return r.queryLeagues(ctx, query)
}

func (r *postgresLeagueRepository) queryLeagues(ctx context.Context, query string) ([]models.League, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing leagues: %w", err)
	}
	defer rows.Close()

	var leagues []models.League
	for rows.Next() {
		var league models.League
		if err := scanLeague(rows, &league); err != nil {
			return nil, fmt.Errorf("scanning league: %w", err)
		}
		leagues = append(leagues, league)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating leagues: %w", err)
	}
	return leagues, nil
}

func (r *postgresLeagueRepository) Update(ctx context.Context, league *models.League) error {
	result, err := r.db.ExecContext(ctx, "UPDATE leagues SET name = $1 WHERE id = $2", league.Name, league.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrLeagueNameConflict
		}
		return fmt.Errorf("updating league %d: %w", league.ID, err)
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}

func (r *postgresLeagueRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, "UPDATE leagues SET logo_key = $1 WHERE id = $2", logoKey, id)
	if err != nil {
		return fmt.Errorf("updating league logo: %w", err)
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}

func (r *postgresLeagueRepository) Close(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "UPDATE leagues SET is_closed = TRUE WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("closing league %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}

func (r *postgresLeagueRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM leagues WHERE id = $1", id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrLeagueInUse
		}
		return fmt.Errorf("deleting league %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}
