package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Fermalla/golf-league-system/golf"
	"github.com/Fermalla/golf-league-system/models"
	"github.com/Fermalla/golf-league-system/repositories"
	"github.com/Fermalla/golf-league-system/storage"
	"github.com/google/uuid"
)

var (
	ErrCourseNameRequired  = errors.New("course name is required")
	ErrCourseSlopeInvalid  = errors.New("course slope must be between 55 and 155")
	ErrCourseRatingInvalid = errors.New("course rating must be positive")
	ErrHoleNumberInvalid   = errors.New("hole numbers must cover 1 through 18 exactly once")
	ErrHoleParInvalid      = errors.New("hole par must be between 3 and 5")
	ErrStrokeIndexInvalid  = errors.New("stroke indexes must cover 1 through 18 exactly once")
)

type CourseService interface {
	CreateCourse(ctx context.Context, input CourseInput) (*models.Course, error)
	GetCourseByID(ctx context.Context, id int) (*models.Course, error)
	GetAllCourses(ctx context.Context) ([]models.Course, error)
	UpdateCourse(ctx context.Context, id int, input CourseInput) (*models.Course, error)
	ReplaceHoles(ctx context.Context, courseID int, holes []HoleInput) (*models.Course, error)
	UploadLogo(ctx context.Context, id int, contentType string, body io.Reader) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int) error
}

type CourseInput struct {
	Name        string  `json:"name"`
	City        *string `json:"city"`
	ParTotal    int     `json:"par_total"`
	Slope       int     `json:"slope"`
	Rating      float64 `json:"rating"`
	MetersTotal *int    `json:"meters_total"`
}

type HoleInput struct {
	Number      int  `json:"number"`
	Par         int  `json:"par"`
	StrokeIndex int  `json:"stroke_index"`
	Meters      *int `json:"meters"`
}

type courseService struct {
	db         *sql.DB
	courseRepo repositories.CourseRepository
	holeRepo   repositories.HoleRepository
	uploader   storage.FileUploader
}

func NewCourseService(
	db *sql.DB,
	courseRepo repositories.CourseRepository,
	holeRepo repositories.HoleRepository,
	uploader storage.FileUploader,
) CourseService {
	return &courseService{
		db:         db,
		courseRepo: courseRepo,
		holeRepo:   holeRepo,
		uploader:   uploader,
	}
}

func validateCourseInput(input CourseInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrCourseNameRequired
	}
	if input.Slope < 55 || input.Slope > 155 {
		return ErrCourseSlopeInvalid
	}
	if input.Rating <= 0 {
		return ErrCourseRatingInvalid
	}
	return nil
}

func (s *courseService) CreateCourse(ctx context.Context, input CourseInput) (*models.Course, error) {
	if err := validateCourseInput(input); err != nil {
		return nil, err
	}

	course := &models.Course{
		Name:        strings.TrimSpace(input.Name),
		City:        input.City,
		ParTotal:    input.ParTotal,
		Slope:       input.Slope,
		Rating:      input.Rating,
		MetersTotal: input.MetersTotal,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		if errors.Is(err, repositories.ErrCourseNameConflict) {
			return nil, ErrCourseNameConflict
		}
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	return course, nil
}

func (s *courseService) GetCourseByID(ctx context.Context, id int) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course by id %d: %w", id, err)
	}

	holes, err := s.holeRepo.ListByCourse(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list holes for course %d: %w", id, err)
	}
	course.Holes = holes
	course.LogoURL = publicURLFor(s.uploader, course.LogoKey)
	return course, nil
}

func (s *courseService) GetAllCourses(ctx context.Context) ([]models.Course, error) {
	courses, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all courses: %w", err)
	}
	if courses == nil {
		return []models.Course{}, nil
	}
	for i := range courses {
		courses[i].LogoURL = publicURLFor(s.uploader, courses[i].LogoKey)
	}
	return courses, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, id int, input CourseInput) (*models.Course, error) {
	if err := validateCourseInput(input); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course %d for update: %w", id, err)
	}

	course.Name = strings.TrimSpace(input.Name)
	course.City = input.City
	course.ParTotal = input.ParTotal
	course.Slope = input.Slope
	course.Rating = input.Rating
	course.MetersTotal = input.MetersTotal

	if err := s.courseRepo.Update(ctx, course); err != nil {
		switch {
		case errors.Is(err, repositories.ErrCourseNotFound):
			return nil, ErrCourseNotFound
		case errors.Is(err, repositories.ErrCourseNameConflict):
			return nil, ErrCourseNameConflict
		default:
			return nil, fmt.Errorf("failed to update course %d: %w", id, err)
		}
	}
	course.LogoURL = publicURLFor(s.uploader, course.LogoKey)
	return course, nil
}

// ReplaceHoles swaps the full hole layout of a course in one transaction.
// Partial layouts are rejected: handicap distribution needs all 18 holes
// with a valid stroke index permutation.
func (s *courseService) ReplaceHoles(ctx context.Context, courseID int, holes []HoleInput) (*models.Course, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repositories.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course %d for hole replacement: %w", courseID, err)
	}

	if len(holes) != golf.HolesPerRound {
		return nil, ErrCourseHolesIncomplete
	}

	seenNumbers := make(map[int]bool, golf.HolesPerRound)
	seenIndexes := make(map[int]bool, golf.HolesPerRound)
	modelHoles := make([]models.Hole, 0, golf.HolesPerRound)
	for _, h := range holes {
		if h.Number < 1 || h.Number > golf.HolesPerRound || seenNumbers[h.Number] {
			return nil, ErrHoleNumberInvalid
		}
		if h.Par < 3 || h.Par > 5 {
			return nil, ErrHoleParInvalid
		}
		if h.StrokeIndex < 1 || h.StrokeIndex > golf.HolesPerRound || seenIndexes[h.StrokeIndex] {
			return nil, ErrStrokeIndexInvalid
		}
		seenNumbers[h.Number] = true
		seenIndexes[h.StrokeIndex] = true
		modelHoles = append(modelHoles, models.Hole{
			CourseID:    courseID,
			Number:      h.Number,
			Par:         h.Par,
			StrokeIndex: h.StrokeIndex,
			Meters:      h.Meters,
		})
	}

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.holeRepo.ReplaceForCourse(ctx, tx, courseID, modelHoles)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to replace holes for course %d: %w", courseID, err)
	}

	return s.GetCourseByID(ctx, courseID)
}

func (s *courseService) UploadLogo(ctx context.Context, id int, contentType string, body io.Reader) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course %d for logo upload: %w", id, err)
	}

	ext, err := extensionFromContentType(contentType)
	if err != nil {
		return nil, err
	}

	oldKey := course.LogoKey
	key := fmt.Sprintf("courses/%d/%s%s", id, uuid.NewString(), ext)

	if _, err := s.uploader.Upload(ctx, key, contentType, body); err != nil {
		return nil, fmt.Errorf("failed to upload course logo: %w", err)
	}
	if err := s.courseRepo.UpdateLogoKey(ctx, id, &key); err != nil {
		return nil, fmt.Errorf("failed to store course logo key: %w", err)
	}
	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	course.LogoKey = &key
	course.LogoURL = publicURLFor(s.uploader, course.LogoKey)
	return course, nil
}

func (s *courseService) DeleteCourse(ctx context.Context, id int) error {
	err := s.courseRepo.Delete(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrCourseNotFound):
			return ErrCourseNotFound
		case errors.Is(err, repositories.ErrCourseInUse):
			return ErrCourseInUse
		default:
			return fmt.Errorf("failed to delete course %d: %w", id, err)
		}
	}
	return nil
}
