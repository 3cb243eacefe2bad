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
	ErrRoundPlayerNotFound  = errors.New("round player not found")
	ErrRoundPlayerDuplicate = errors.New("player is already in this round")
	ErrRoundPlayerInvalid   = errors.New("round player references an unknown round or player")
)

type RoundPlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, rp *models.RoundPlayer) error
	GetByID(ctx context.Context, id int) (*models.RoundPlayer, error)
	GetByRoundAndPlayer(ctx context.Context, roundID, playerID int) (*models.RoundPlayer, error)
	ListByRound(ctx context.Context, roundID int) ([]models.RoundPlayer, error)
	ListByPlayer(ctx context.Context, playerID int) ([]models.RoundPlayer, error)
	UpdateTotals(ctx context.Context, exec SQLExecutor, rp *models.RoundPlayer) error
	UpdateCourseHandicap(ctx context.Context, exec SQLExecutor, id, courseHandicap int) error
	UpdateResult(ctx context.Context, exec SQLExecutor, id int, result models.PlayerResult) error
}

type postgresRoundPlayerRepository struct {
	db *sql.DB
}

func NewPostgresRoundPlayerRepository(db *sql.DB) RoundPlayerRepository {
	return &postgresRoundPlayerRepository{db: db}
}

const roundPlayerColumns = "id, round_id, player_id, hcp_exact_day, course_handicap, " +
	"gross_total, net_total, stableford_hcp_total, stableford_scratch_total, putts_total, result"

func scanRoundPlayer(row interface{ Scan(...interface{}) error }, rp *models.RoundPlayer) error {
	return row.Scan(
		&rp.ID, &rp.RoundID, &rp.PlayerID, &rp.HcpExactDay, &rp.CourseHandicap,
		&rp.GrossTotal, &rp.NetTotal, &rp.StablefordHcpTotal, &rp.StablefordScratchTotal,
		&rp.PuttsTotal, &rp.Result,
	)
}

func (r *postgresRoundPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRoundPlayerRepository) Create(ctx context.Context, exec SQLExecutor, rp *models.RoundPlayer) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO round_players (round_id, player_id, hcp_exact_day, course_handicap)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := executor.QueryRowContext(ctx, query,
		rp.RoundID, rp.PlayerID, rp.HcpExactDay, rp.CourseHandicap,
	).Scan(&rp.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				return ErrRoundPlayerDuplicate
			case "23503":
				return ErrRoundPlayerInvalid
			}
		}
		return fmt.Errorf("creating round player: %w", err)
	}
	return nil
}

func (r *postgresRoundPlayerRepository) GetByID(ctx context.Context, id int) (*models.RoundPlayer, error) {
	query := fmt.Sprintf("SELECT %s FROM round_players WHERE id = $1", roundPlayerColumns)
	rp := &models.RoundPlayer{}
	err := scanRoundPlayer(r.db.QueryRowContext(ctx, query, id), rp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundPlayerNotFound
		}
		return nil, fmt.Errorf("getting round player by id %d: %w", id, err)
	}
	return rp, nil
}

func (r *postgresRoundPlayerRepository) GetByRoundAndPlayer(ctx context.Context, roundID, playerID int) (*models.RoundPlayer, error) {
	query := fmt.Sprintf("SELECT %s FROM round_players WHERE round_id = $1 AND player_id = $2", roundPlayerColumns)
	rp := &models.RoundPlayer{}
	err := scanRoundPlayer(r.db.QueryRowContext(ctx, query, roundID, playerID), rp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundPlayerNotFound
		}
		return nil, fmt.Errorf("getting round player for round %d player %d: %w", roundID, playerID, err)
	}
	return rp, nil
}

func (r *postgresRoundPlayerRepository) ListByRound(ctx context.Context, roundID int) ([]models.RoundPlayer, error) {
	query := fmt.Sprintf("SELECT %s FROM round_players WHERE round_id = $1 ORDER BY id ASC", roundPlayerColumns)
	return r.queryRoundPlayers(ctx, query, roundID)
}

func (r *postgresRoundPlayerRepository) ListByPlayer(ctx context.Context, playerID int) ([]models.RoundPlayer, error) {
	query := fmt.Sprintf("SELECT %s FROM round_players WHERE player_id = $1 ORDER BY id ASC", roundPlayerColumns)
	return r.queryRoundPlayers(ctx, query, playerID)
}

func (r *postgresRoundPlayerRepository) queryRoundPlayers(ctx context.Context, query string, args ...interface{}) ([]models.RoundPlayer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing round players: %w", err)
	}
	defer rows.Close()

	var players []models.RoundPlayer
	for rows.Next() {
		var rp models.RoundPlayer
		if err := scanRoundPlayer(rows, &rp); err != nil {
			return nil, fmt.Errorf("scanning round player: %w", err)
		}
		players = append(players, rp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating round players: %w", err)
	}
	return players, nil
}

func (r *postgresRoundPlayerRepository) UpdateTotals(ctx context.Context, exec SQLExecutor, rp *models.RoundPlayer) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE round_players
		SET gross_total = $1, net_total = $2, stableford_hcp_total = $3,
		    stableford_scratch_total = $4, putts_total = $5
		WHERE id = $6`
	result, err := executor.ExecContext(ctx, query,
		rp.GrossTotal, rp.NetTotal, rp.StablefordHcpTotal,
		rp.StablefordScratchTotal, rp.PuttsTotal, rp.ID,
	)
	if err != nil {
		return fmt.Errorf("updating round player totals: %w", err)
	}
	return checkAffectedRows(result, ErrRoundPlayerNotFound)
}

func (r *postgresRoundPlayerRepository) UpdateCourseHandicap(ctx context.Context, exec SQLExecutor, id, courseHandicap int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, "UPDATE round_players SET course_handicap = $1 WHERE id = $2", courseHandicap, id)
	if err != nil {
		return fmt.Errorf("updating round player course handicap: %w", err)
	}
	return checkAffectedRows(result, ErrRoundPlayerNotFound)
}

func (r *postgresRoundPlayerRepository) UpdateResult(ctx context.Context, exec SQLExecutor, id int, result models.PlayerResult) error {
	executor := r.getExecutor(exec)
	res, err := executor.ExecContext(ctx, "UPDATE round_players SET result = $1 WHERE id = $2", result, id)
	if err != nil {
		return fmt.Errorf("updating round player result: %w", err)
	}
	return checkAffectedRows(res, ErrRoundPlayerNotFound)
}
