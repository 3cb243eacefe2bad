package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/Fermalla/golf-league-system/models"
)

var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseNameConflict = errors.New("course name conflict")
	ErrCourseInUse        = errors.New("course cannot be deleted as it has recorded rounds")
)

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int) (*models.Course, error)
	GetAll(ctx context.Context) ([]models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresCourseRepository struct {
	db *sql.DB
}

func NewPostgresCourseRepository(db *sql.DB) CourseRepository {
	return &postgresCourseRepository{db: db}
}

const courseColumns = `id, name, city, par_total, slope, rating, meters_total, logo_key`

func scanCourse(row interface{ Scan(...interface{}) error }, c *models.Course) error {
	return row.Scan(&c.ID, &c.Name, &c.City, &c.ParTotal, &c.Slope, &c.Rating, &c.MetersTotal, &c.LogoKey)
}

func (r *postgresCourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (name, city, par_total, slope, rating, meters_total, logo_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		course.Name, course.City, course.ParTotal, course.Slope, course.Rating, course.MetersTotal, course.LogoKey,
	).Scan(&course.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrCourseNameConflict
		}
		return err
	}
	return nil
}

func (r *postgresCourseRepository) GetByID(ctx context.Context, id int) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	var course models.Course
	err := scanCourse(r.db.QueryRowContext(ctx, query, id), &course)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return &course, nil
}

func (r *postgresCourseRepository) GetAll(ctx context.Context) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := make([]models.Course, 0)
	for rows.Next() {
		var course models.Course
		if scanErr := scanCourse(rows, &course); scanErr != nil {
			return nil, scanErr
		}
		courses = append(courses, course)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *postgresCourseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET name = $1, city = $2, par_total = $3, slope = $4, rating = $5, meters_total = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		course.Name, course.City, course.ParTotal, course.Slope, course.Rating, course.MetersTotal, course.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrCourseNameConflict
		}
		return err
	}
	return checkAffectedRows(result, ErrCourseNotFound)
}

func (r *postgresCourseRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	query := `UPDATE courses SET logo_key = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, logoKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCourseNotFound)
}

func (r *postgresCourseRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM courses WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrCourseInUse
		}
		return err
	}
	return checkAffectedRows(result, ErrCourseNotFound)
}
