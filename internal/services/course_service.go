package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matleal/fit-pro/internal/models"
	"github.com/matleal/fit-pro/internal/repository"
)

var (
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)

const defaultWeeksCount = 4

// Every new week starts with the same three training days.
var defaultDayNames = []string{"Treino A", "Treino B", "Treino C"}

type userReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type courseEnrollmentReader interface {
	ListByCourseID(ctx context.Context, courseID int64) ([]models.EnrollmentDetail, error)
	CountByCourseID(ctx context.Context, courseID int64) (int, error)
}

type CourseService struct {
	db             *pgxpool.Pool
	courseRepo     *repository.CourseRepository
	weekRepo       *repository.WeekRepository
	dayRepo        *repository.DayRepository
	exerciseRepo   *repository.ExerciseRepository
	enrollmentRepo courseEnrollmentReader
	userRepo       userReader
}

func NewCourseService(
	db *pgxpool.Pool,
	courseRepo *repository.CourseRepository,
	weekRepo *repository.WeekRepository,
	dayRepo *repository.DayRepository,
	exerciseRepo *repository.ExerciseRepository,
	enrollmentRepo courseEnrollmentReader,
	userRepo userReader,
) *CourseService {
	return &CourseService{
		db:             db,
		courseRepo:     courseRepo,
		weekRepo:       weekRepo,
		dayRepo:        dayRepo,
		exerciseRepo:   exerciseRepo,
		enrollmentRepo: enrollmentRepo,
		userRepo:       userRepo,
	}
}

type CreateCourseInput struct {
	Name        string
	Description *string
	WeeksCount  int
	IsPublic    bool
	PriceCents  int64
}

type UpdateCourseInput struct {
	Name        *string
	Description *string
	IsActive    *bool
	IsPublic    *bool
	PriceCents  *int64
}

// CreateCourse creates the course and its pre-seeded week/day skeleton in a
// single transaction: weeks 1..N named "Semana N", each holding the three
// default training days.
func (s *CourseService) CreateCourse(
	ctx context.Context,
	teacherID int64,
	input CreateCourseInput,
) (*models.CourseDetail, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	if input.PriceCents < 0 {
		return nil, ErrInvalidInput
	}

	weeksCount := input.WeeksCount
	if weeksCount <= 0 {
		weeksCount = defaultWeeksCount
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txCourseRepo := repository.NewCourseRepository(tx)
	txWeekRepo := repository.NewWeekRepository(tx)
	txDayRepo := repository.NewDayRepository(tx)

	course, err := txCourseRepo.Create(ctx, repository.CreateCourseInput{
		TeacherID:   teacherID,
		Name:        name,
		Description: input.Description,
		IsPublic:    input.IsPublic,
		PriceCents:  input.PriceCents,
	})
	if err != nil {
		return nil, err
	}

	weeks := make([]models.Week, 0, weeksCount)
	for weekNumber := 1; weekNumber <= weeksCount; weekNumber++ {
		week, err := txWeekRepo.Create(ctx, course.ID, weekNumber, fmt.Sprintf("Semana %d", weekNumber))
		if err != nil {
			return nil, err
		}
		week.Days = make([]models.Day, 0, len(defaultDayNames))
		for i, dayName := range defaultDayNames {
			day, err := txDayRepo.Create(ctx, week.ID, i+1, dayName)
			if err != nil {
				return nil, err
			}
			day.Exercises = make([]models.Exercise, 0)
			week.Days = append(week.Days, *day)
		}
		weeks = append(weeks, *week)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &models.CourseDetail{Course: *course, Weeks: weeks}, nil
}

// GetCourse returns the full nested tree. Access is granted to the owning
// teacher, any enrolled user, or anyone when the course is public.
func (s *CourseService) GetCourse(ctx context.Context, actorID, courseID int64) (*models.CourseDetail, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.enrollmentRepo.ListByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	isOwner := course.TeacherID == actorID
	isEnrolled := false
	for _, enrollment := range enrollments {
		if enrollment.UserID == actorID {
			isEnrolled = true
			break
		}
	}
	if !isOwner && !isEnrolled && !course.IsPublic {
		return nil, ErrForbidden
	}

	weeks, err := s.loadWeeks(ctx, course.ID, true)
	if err != nil {
		return nil, err
	}

	detail := &models.CourseDetail{
		Course:          *course,
		Weeks:           weeks,
		Enrollments:     enrollments,
		EnrollmentCount: len(enrollments),
	}

	teacher, err := s.userRepo.GetByID(ctx, course.TeacherID)
	if err != nil {
		return nil, err
	}
	teacherRef := teacher.Ref()
	detail.Teacher = &teacherRef

	return detail, nil
}

// ListCourses returns the teacher's own courses with the full tree, or the
// courses a student reaches through active enrollments (days only, no
// exercises, matching what the student dashboard needs up front).
func (s *CourseService) ListCourses(ctx context.Context, actorID int64, role string) ([]models.CourseDetail, error) {
	switch role {
	case models.RoleTeacher:
		return s.listOwnCourses(ctx, actorID)
	case models.RoleStudent:
		return s.listEnrolledCourses(ctx, actorID)
	default:
		return nil, ErrForbidden
	}
}

func (s *CourseService) listOwnCourses(ctx context.Context, teacherID int64) ([]models.CourseDetail, error) {
	courses, err := s.courseRepo.ListByTeacherID(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	details := make([]models.CourseDetail, 0, len(courses))
	for _, course := range courses {
		weeks, err := s.loadWeeks(ctx, course.ID, true)
		if err != nil {
			return nil, err
		}
		count, err := s.enrollmentRepo.CountByCourseID(ctx, course.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, models.CourseDetail{
			Course:          course,
			Weeks:           weeks,
			EnrollmentCount: count,
		})
	}
	return details, nil
}

func (s *CourseService) listEnrolledCourses(ctx context.Context, userID int64) ([]models.CourseDetail, error) {
	courses, err := s.courseRepo.ListEnrolledByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := make([]models.CourseDetail, 0, len(courses))
	for _, course := range courses {
		weeks, err := s.loadWeeks(ctx, course.ID, false)
		if err != nil {
			return nil, err
		}
		teacher, err := s.userRepo.GetByID(ctx, course.TeacherID)
		if err != nil {
			return nil, err
		}
		teacherRef := teacher.Ref()
		details = append(details, models.CourseDetail{
			Course:  course,
			Weeks:   weeks,
			Teacher: &teacherRef,
		})
	}
	return details, nil
}

// UpdateCourse applies the provided fields. Unknown courses and courses
// owned by someone else both come back as not found so the caller learns
// nothing about other teachers' catalogs.
func (s *CourseService) UpdateCourse(
	ctx context.Context,
	teacherID, courseID int64,
	input UpdateCourseInput,
) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.TeacherID != teacherID {
		return nil, pgx.ErrNoRows
	}

	next := repository.UpdateCourseInput{
		Name:        course.Name,
		Description: course.Description,
		IsActive:    course.IsActive,
		IsPublic:    course.IsPublic,
		PriceCents:  course.PriceCents,
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidInput
		}
		next.Name = name
	}
	if input.Description != nil {
		next.Description = input.Description
	}
	if input.IsActive != nil {
		next.IsActive = *input.IsActive
	}
	if input.IsPublic != nil {
		next.IsPublic = *input.IsPublic
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return nil, ErrInvalidInput
		}
		next.PriceCents = *input.PriceCents
	}

	return s.courseRepo.Update(ctx, courseID, next)
}

// DeleteCourse removes the course; the schema cascades weeks, days,
// exercises and enrollments.
func (s *CourseService) DeleteCourse(ctx context.Context, teacherID, courseID int64) error {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if course.TeacherID != teacherID {
		return pgx.ErrNoRows
	}
	return s.courseRepo.Delete(ctx, courseID)
}

// Catalog lists active public courses. actorID 0 stands for an anonymous
// visitor, whose is_enrolled flag is always false.
func (s *CourseService) Catalog(ctx context.Context, actorID int64) ([]models.CatalogCourse, error) {
	return s.courseRepo.Catalog(ctx, actorID)
}

func (s *CourseService) loadWeeks(ctx context.Context, courseID int64, withExercises bool) ([]models.Week, error) {
	weeks, err := s.weekRepo.ListByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	weekIDs := make([]int64, 0, len(weeks))
	for _, week := range weeks {
		weekIDs = append(weekIDs, week.ID)
	}

	days, err := s.dayRepo.ListByWeekIDs(ctx, weekIDs)
	if err != nil {
		return nil, err
	}

	if withExercises {
		dayIDs := make([]int64, 0, len(days))
		for _, day := range days {
			dayIDs = append(dayIDs, day.ID)
		}
		exercises, err := s.exerciseRepo.ListByDayIDs(ctx, dayIDs)
		if err != nil {
			return nil, err
		}
		exercisesByDay := make(map[int64][]models.Exercise, len(days))
		for _, exercise := range exercises {
			exercisesByDay[exercise.DayID] = append(exercisesByDay[exercise.DayID], exercise)
		}
		for i := range days {
			if grouped, ok := exercisesByDay[days[i].ID]; ok {
				days[i].Exercises = grouped
			}
		}
	}

	daysByWeek := make(map[int64][]models.Day, len(weeks))
	for _, day := range days {
		daysByWeek[day.WeekID] = append(daysByWeek[day.WeekID], day)
	}
	for i := range weeks {
		if grouped, ok := daysByWeek[weeks[i].ID]; ok {
			weeks[i].Days = grouped
		}
	}

	return weeks, nil
}
