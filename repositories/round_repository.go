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
	ErrRoundNotFound      = errors.New("round not found")
	ErrRoundCourseInvalid = errors.New("round references an unknown course")
	ErrRoundLeagueInvalid = errors.New("round references an unknown league")
)

type RoundRepository interface {
	Create(ctx context.Context, exec SQLExecutor, round *models.Round) error
	GetByID(ctx context.Context, id int) (*models.Round, error)
	GetAll(ctx context.Context) ([]models.Round, error)
	ListByLeague(ctx context.Context, leagueID int) ([]models.Round, error)
	SetWinner(ctx context.Context, exec SQLExecutor, roundID int, winnerType models.WinnerType, winnerPlayerIDs string) error
	Delete(ctx context.Context, id int) error
}

type postgresRoundRepository struct {
	db *sql.DB
}

func NewPostgresRoundRepository(db *sql.DB) RoundRepository {
	return &postgresRoundRepository{db: db}
}

const roundColumns = "id, date, course_id, tee, type, league_id, winner_type, winner_player_ids"

func scanRound(row interface{ Scan(...interface{}) error }, r *models.Round) error {
	return row.Scan(
		&r.ID, &r.Date, &r.CourseID, &r.Tee, &r.Type,
		&r.LeagueID, &r.WinnerType, &r.WinnerPlayerIDs,
	)
}

func (r *postgresRoundRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRoundRepository) Create(ctx context.Context, exec SQLExecutor, round *models.Round) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO rounds (date, course_id, tee, type, league_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := executor.QueryRowContext(ctx, query,
		round.Date, round.CourseID, round.Tee, round.Type, round.LeagueID,
	).Scan(&round.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "rounds_league_id_fkey":
				return ErrRoundLeagueInvalid
			default:
				return ErrRoundCourseInvalid
			}
		}
		return fmt.Errorf("creating round: %w", err)
	}
	return nil
}

func (r *postgresRoundRepository) GetByID(ctx context.Context, id int) (*models.Round, error) {
	query := fmt.Sprintf("SELECT %s FROM rounds WHERE id = $1", roundColumns)
	round := &models.Round{}
	err := scanRound(r.db.QueryRowContext(ctx, query, id), round)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("getting round by id %d: %w", id, err)
	}
	return round, nil
}

func (r *postgresRoundRepository) GetAll(ctx context.Context) ([]models.Round, error) {
	query := fmt.Sprintf("SELECT %s FROM rounds ORDER BY date DESC, id DESC", roundColumns)
	return r.queryRounds(ctx, query)
}

func (r *postgresRoundRepository) ListByLeague(ctx context.Context, leagueID int) ([]models.Round, error) {
	query := fmt.Sprintf("SELECT %s FROM rounds WHERE league_id = $1 ORDER BY date ASC, id ASC", roundColumns)
	return r.queryRounds(ctx, query, leagueID)
}

func (r *postgresRoundRepository) queryRounds(ctx context.Context, query string, args ...interface{}) ([]models.Round, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing rounds: %w", err)
	}
	defer rows.Close()

	var rounds []models.Round
	for rows.Next() {
		var round models.Round
		if err := scanRound(rows, &round); err != nil {
			return nil, fmt.Errorf("scanning round: %w", err)
		}
		rounds = append(rounds, round)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rounds: %w", err)
	}
	return rounds, nil
}

func (r *postgresRoundRepository) SetWinner(ctx context.Context, exec SQLExecutor, roundID int, winnerType models.WinnerType, winnerPlayerIDs string) error {
	executor := r.getExecutor(exec)
	query := `UPDATE rounds SET winner_type = $1, winner_player_ids = $2 WHERE id = $3`
	result, err := executor.ExecContext(ctx, query, winnerType, winnerPlayerIDs, roundID)
	if err != nil {
		return fmt.Errorf("setting round winner: %w", err)
	}
	return checkAffectedRows(result, ErrRoundNotFound)
}

func (r *postgresRoundRepository) Delete(ctx context.Context, id int) error {
	// hole_scores and round_players go with the round via ON DELETE CASCADE.
	result, err := r.db.ExecContext(ctx, "DELETE FROM rounds WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting round %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrRoundNotFound)
}
