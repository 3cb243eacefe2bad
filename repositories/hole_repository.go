package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Fermalla/golf-league-system/models"
)

var ErrHoleCourseInvalid = errors.New("hole course conflict or invalid")

type HoleRepository interface {
	ListByCourse(ctx context.Context, courseID int) ([]models.Hole, error)
	// ReplaceForCourse deletes and reinserts the course's holes in one
	// shot. It must run inside the caller's transaction.
	ReplaceForCourse(ctx context.Context, exec SQLExecutor, courseID int, holes []models.Hole) error
}

type postgresHoleRepository struct {
	db *sql.DB
}

func NewPostgresHoleRepository(db *sql.DB) HoleRepository {
	return &postgresHoleRepository{db: db}
}

func (r *postgresHoleRepository) ListByCourse(ctx context.Context, courseID int) ([]models.Hole, error) {
	query := `
		SELECT id, course_id, number, par, stroke_index, meters
		FROM holes
		WHERE course_id = $1
		ORDER BY number ASC`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holes := make([]models.Hole, 0, 18)
	for rows.Next() {
		var h models.Hole
		if scanErr := rows.Scan(&h.ID, &h.CourseID, &h.Number, &h.Par, &h.StrokeIndex, &h.Meters); scanErr != nil {
			return nil, scanErr
		}
		holes = append(holes, h)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return holes, nil
}

func (r *postgresHoleRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresHoleRepository) ReplaceForCourse(ctx context.Context, exec SQLExecutor, courseID int, holes []models.Hole) error {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx, `DELETE FROM holes WHERE course_id = $1`, courseID); err != nil {
		return err
	}

	query := `
		INSERT INTO holes (course_id, number, par, stroke_index, meters)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	for i := range holes {
		h := &holes[i]
		h.CourseID = courseID
		if err := executor.QueryRowContext(ctx, query, courseID, h.Number, h.Par, h.StrokeIndex, h.Meters).Scan(&h.ID); err != nil {
			return err
		}
	}
	return nil
}
