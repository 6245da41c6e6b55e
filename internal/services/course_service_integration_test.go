package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/matleal/fit-pro/internal/models"
	"github.com/matleal/fit-pro/internal/repository"
)

var (
	testDBOnce sync.Once
	testDBPool *pgxpool.Pool
	testDBErr  error
)

func TestCourseServiceCreateSeedsWeekSkeleton(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationCourseService(pool)

	teacherID := createTestUser(t, ctx, pool, models.RoleTeacher)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, teacherID) })

	detail, err := service.CreateCourse(ctx, teacherID, CreateCourseInput{
		Name:       "Hipertrofia",
		WeeksCount: 2,
		IsPublic:   true,
	})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}

	if len(detail.Weeks) != 2 {
		t.Fatalf("expected 2 weeks, got %d", len(detail.Weeks))
	}
	for i, week := range detail.Weeks {
		wantName := fmt.Sprintf("Semana %d", i+1)
		if week.Name != wantName {
			t.Fatalf("expected week %q, got %q", wantName, week.Name)
		}
		if len(week.Days) != 3 {
			t.Fatalf("expected 3 days in %s, got %d", week.Name, len(week.Days))
		}
		for j, want := range []string{"Treino A", "Treino B", "Treino C"} {
			if week.Days[j].Name != want {
				t.Fatalf("expected day %q, got %q", want, week.Days[j].Name)
			}
		}
	}
}

func TestCourseServiceDefaultsToFourWeeks(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationCourseService(pool)

	teacherID := createTestUser(t, ctx, pool, models.RoleTeacher)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, teacherID) })

	detail, err := service.CreateCourse(ctx, teacherID, CreateCourseInput{Name: "Base"})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	if len(detail.Weeks) != 4 {
		t.Fatalf("expected 4 weeks by default, got %d", len(detail.Weeks))
	}
}

func TestCourseServiceHonorsLargeWeeksCount(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationCourseService(pool)

	teacherID := createTestUser(t, ctx, pool, models.RoleTeacher)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, teacherID) })

	detail, err := service.CreateCourse(ctx, teacherID, CreateCourseInput{Name: "Maratona", WeeksCount: 60})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	if len(detail.Weeks) != 60 {
		t.Fatalf("expected 60 weeks, got %d", len(detail.Weeks))
	}
}

func TestCourseServiceGetCourseAccessRules(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationCourseService(pool)

	teacherID := createTestUser(t, ctx, pool, models.RoleTeacher)
	studentID := createTestUser(t, ctx, pool, models.RoleStudent)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, teacherID, studentID) })

	detail, err := service.CreateCourse(ctx, teacherID, CreateCourseInput{Name: "Fechado", WeeksCount: 1})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}

	if _, err := service.GetCourse(ctx, studentID, detail.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a stranger, got %v", err)
	}

	enrollmentRepo := repository.NewEnrollmentRepository(pool)
	if _, err := enrollmentRepo.Create(ctx, detail.ID, studentID, true); err != nil {
		t.Fatalf("Create enrollment: %v", err)
	}

	got, err := service.GetCourse(ctx, studentID, detail.ID)
	if err != nil {
		t.Fatalf("GetCourse after enrollment: %v", err)
	}
	if got.Teacher == nil || got.Teacher.ID != teacherID {
		t.Fatalf("expected teacher %d attached, got %+v", teacherID, got.Teacher)
	}
}

func TestCourseServiceUpdateHidesForeignCourse(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationCourseService(pool)

	ownerID := createTestUser(t, ctx, pool, models.RoleTeacher)
	otherID := createTestUser(t, ctx, pool, models.RoleTeacher)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, ownerID, otherID) })

	detail, err := service.CreateCourse(ctx, ownerID, CreateCourseInput{Name: "Original", WeeksCount: 1})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}

	newName := "Renomeado"
	if _, err := service.UpdateCourse(ctx, otherID, detail.ID, UpdateCourseInput{Name: &newName}); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows for foreign course, got %v", err)
	}
	if err := service.DeleteCourse(ctx, otherID, detail.ID); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows on foreign delete, got %v", err)
	}
}

func integrationTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	testDBOnce.Do(func() {
		_ = godotenv.Load(".env")
		_ = godotenv.Load(filepath.Join("..", "..", ".env"))

		dbURL := os.Getenv("DB_URL")
		if dbURL == "" {
			testDBErr = fmt.Errorf("DB_URL is not set")
			return
		}

		cfg, err := pgxpool.ParseConfig(dbURL)
		if err != nil {
			testDBErr = err
			return
		}

		testDBPool, testDBErr = pgxpool.NewWithConfig(context.Background(), cfg)
		if testDBErr != nil {
			return
		}
		testDBErr = testDBPool.Ping(context.Background())
	})

	if testDBErr != nil {
		t.Skipf("skipping integration test: %v", testDBErr)
	}
	return testDBPool
}

func newIntegrationCourseService(pool *pgxpool.Pool) *CourseService {
	return NewCourseService(
		pool,
		repository.NewCourseRepository(pool),
		repository.NewWeekRepository(pool),
		repository.NewDayRepository(pool),
		repository.NewExerciseRepository(pool),
		repository.NewEnrollmentRepository(pool),
		repository.NewUserRepository(pool),
	)
}

func createTestUser(t *testing.T, ctx context.Context, pool *pgxpool.Pool, role string) int64 {
	t.Helper()

	userRepo := repository.NewUserRepository(pool)
	hash := "test-hash"
	user := &models.User{
		Email:        fmt.Sprintf("course-test-%s-%d@example.com", role, time.Now().UnixNano()),
		PasswordHash: &hash,
		Role:         role,
	}
	if err := userRepo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser(%s): %v", role, err)
	}
	return user.ID
}

func cleanupTestUsers(t *testing.T, ctx context.Context, pool *pgxpool.Pool, userIDs ...int64) {
	t.Helper()

	if len(userIDs) == 0 {
		return
	}

	if _, err := pool.Exec(ctx, "DELETE FROM invite_codes WHERE teacher_id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup invite codes: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM enrollments WHERE user_id = ANY($1) OR course_id IN (SELECT id FROM courses WHERE teacher_id = ANY($1))", userIDs); err != nil {
		t.Fatalf("cleanup enrollments: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM courses WHERE teacher_id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup courses: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM users WHERE id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup users: %v", err)
	}
}
