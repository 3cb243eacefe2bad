package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Fermalla/golf-league-system/models"
)

var ErrHoleScoreRoundPlayerInvalid = errors.New("hole score references an unknown round player")

type HoleScoreRepository interface {
	ListByRoundPlayer(ctx context.Context, roundPlayerID int) ([]models.HoleScore, error)
	ReplaceForRoundPlayer(ctx context.Context, exec SQLExecutor, roundPlayerID int, scores []models.HoleScore) error
}

type postgresHoleScoreRepository struct {
	db *sql.DB
}

func NewPostgresHoleScoreRepository(db *sql.DB) HoleScoreRepository {
	return &postgresHoleScoreRepository{db: db}
}

const holeScoreColumns = "id, round_player_id, hole_number, gross_strokes, putts, fir, gir, net_strokes, stableford_points"

func (r *postgresHoleScoreRepository) ListByRoundPlayer(ctx context.Context, roundPlayerID int) ([]models.HoleScore, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM hole_scores WHERE round_player_id = $1 ORDER BY hole_number ASC",
		holeScoreColumns,
	)
	rows, err := r.db.QueryContext(ctx, query, roundPlayerID)
	if err != nil {
		return nil, fmt.Errorf("listing hole scores for round player %d: %w", roundPlayerID, err)
	}
	defer rows.Close()

	var scores []models.HoleScore
	for rows.Next() {
		var hs models.HoleScore
		err := rows.Scan(
			&hs.ID, &hs.RoundPlayerID, &hs.HoleNumber, &hs.GrossStrokes,
			&hs.Putts, &hs.FIR, &hs.GIR, &hs.NetStrokes, &hs.StablefordPoints,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning hole score: %w", err)
		}
		scores = append(scores, hs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hole scores: %w", err)
	}
	return scores, nil
}

func (r *postgresHoleScoreRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// ReplaceForRoundPlayer drops any existing card for the round player and
// inserts the given scores in a single batch. Callers run it inside the
// transaction that also refreshes the round player totals.
func (r *postgresHoleScoreRepository) ReplaceForRoundPlayer(ctx context.Context, exec SQLExecutor, roundPlayerID int, scores []models.HoleScore) error {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx, "DELETE FROM hole_scores WHERE round_player_id = $1", roundPlayerID); err != nil {
		return fmt.Errorf("clearing hole scores for round player %d: %w", roundPlayerID, err)
	}
	if len(scores) == 0 {
		return nil
	}

	var (
		sb   strings.Builder
		args []interface{}
	)
	sb.WriteString("INSERT INTO hole_scores (round_player_id, hole_number, gross_strokes, putts, fir, gir, net_strokes, stableford_points) VALUES ")
	for i, hs := range scores {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 8
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8)
		args = append(args, roundPlayerID, hs.HoleNumber, hs.GrossStrokes,
			hs.Putts, hs.FIR, hs.GIR, hs.NetStrokes, hs.StablefordPoints)
	}

	if _, err := executor.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("inserting hole scores for round player %d: %w", roundPlayerID, err)
	}
	return nil
}
