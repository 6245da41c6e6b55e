package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/matleal/fit-pro/internal/models"
	"github.com/matleal/fit-pro/internal/services"
)

type stubCourseService struct {
	createResult *models.CourseDetail
	createErr    error
	getResult    *models.CourseDetail
	getErr       error
	listResult   []models.CourseDetail
	listErr      error
	updateResult *models.Course
	updateErr    error
	deleteErr    error
	catalog      []models.CatalogCourse
	catalogErr   error
	lastActorID  int64
	lastCourseID int64
	lastRole     string
	lastCreate   services.CreateCourseInput
	lastUpdate   services.UpdateCourseInput
}

func (s *stubCourseService) CreateCourse(_ context.Context, teacherID int64, input services.CreateCourseInput) (*models.CourseDetail, error) {
	s.lastActorID = teacherID
	s.lastCreate = input
	return s.createResult, s.createErr
}

func (s *stubCourseService) GetCourse(_ context.Context, actorID, courseID int64) (*models.CourseDetail, error) {
	s.lastActorID = actorID
	s.lastCourseID = courseID
	return s.getResult, s.getErr
}

func (s *stubCourseService) ListCourses(_ context.Context, actorID int64, role string) ([]models.CourseDetail, error) {
	s.lastActorID = actorID
	s.lastRole = role
	return s.listResult, s.listErr
}

func (s *stubCourseService) UpdateCourse(_ context.Context, teacherID, courseID int64, input services.UpdateCourseInput) (*models.Course, error) {
	s.lastActorID = teacherID
	s.lastCourseID = courseID
	s.lastUpdate = input
	return s.updateResult, s.updateErr
}

func (s *stubCourseService) DeleteCourse(_ context.Context, teacherID, courseID int64) error {
	s.lastActorID = teacherID
	s.lastCourseID = courseID
	return s.deleteErr
}

func (s *stubCourseService) Catalog(_ context.Context, actorID int64) ([]models.CatalogCourse, error) {
	s.lastActorID = actorID
	return s.catalog, s.catalogErr
}

func newCourseTestApp(service *stubCourseService, role, userID string) *fiber.App {
	handler := NewCourseHandler(service)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if role != "" {
			c.Locals("role", role)
		}
		if userID != "" {
			c.Locals("user_id", userID)
		}
		return c.Next()
	})
	app.Get("/api/courses", handler.ListCourses)
	app.Post("/api/courses", handler.CreateCourse)
	app.Get("/api/courses/catalog", handler.Catalog)
	app.Get("/api/courses/:id", handler.GetCourse)
	app.Put("/api/courses/:id", handler.UpdateCourse)
	app.Delete("/api/courses/:id", handler.DeleteCourse)
	return app
}

func TestCreateCourseForwardsPayload(t *testing.T) {
	service := &stubCourseService{
		createResult: &models.CourseDetail{
			Course: models.Course{ID: 12, TeacherID: 7, Name: "Hipertrofia"},
		},
	}
	app := newCourseTestApp(service, models.RoleTeacher, "7")

	body := strings.NewReader(`{"name":"Hipertrofia","weeksCount":2,"price":4990}`)
	req := httptest.NewRequest(http.MethodPost, "/api/courses", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastActorID != 7 {
		t.Fatalf("expected teacher id 7, got %d", service.lastActorID)
	}
	if service.lastCreate.WeeksCount != 2 || service.lastCreate.PriceCents != 4990 {
		t.Fatalf("unexpected input: %+v", service.lastCreate)
	}
	if !service.lastCreate.IsPublic {
		t.Fatalf("expected public by default")
	}
}

func TestCreateCourseRejectsStudents(t *testing.T) {
	service := &stubCourseService{}
	app := newCourseTestApp(service, models.RoleStudent, "42")

	req := httptest.NewRequest(http.MethodPost, "/api/courses", strings.NewReader(`{"name":"X"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestCreateCourseRequiresName(t *testing.T) {
	app := newCourseTestApp(&stubCourseService{}, models.RoleTeacher, "7")

	req := httptest.NewRequest(http.MethodPost, "/api/courses", strings.NewReader(`{"weeksCount":2}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetCourseMapsServiceErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"forbidden", services.ErrForbidden, http.StatusForbidden},
		{"missing", pgx.ErrNoRows, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newCourseTestApp(&stubCourseService{getErr: tc.err}, models.RoleStudent, "42")

			req := httptest.NewRequest(http.MethodGet, "/api/courses/3", nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}

func TestUpdateCourseForwardsPartialFields(t *testing.T) {
	service := &stubCourseService{updateResult: &models.Course{ID: 3, Name: "Novo nome"}}
	app := newCourseTestApp(service, models.RoleTeacher, "7")

	req := httptest.NewRequest(http.MethodPut, "/api/courses/3", strings.NewReader(`{"name":"Novo nome","isPublic":false}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastUpdate.Name == nil || *service.lastUpdate.Name != "Novo nome" {
		t.Fatalf("expected name forwarded, got %+v", service.lastUpdate.Name)
	}
	if service.lastUpdate.IsPublic == nil || *service.lastUpdate.IsPublic {
		t.Fatalf("expected isPublic false forwarded")
	}
	if service.lastUpdate.Description != nil {
		t.Fatalf("expected untouched description to stay nil")
	}
}

func TestDeleteCourseReturnsSuccessFlag(t *testing.T) {
	service := &stubCourseService{}
	app := newCourseTestApp(service, models.RoleTeacher, "7")

	req := httptest.NewRequest(http.MethodDelete, "/api/courses/3", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if payload["success"] != true {
		t.Fatalf("expected success true, got %+v", payload)
	}
	if service.lastCourseID != 3 {
		t.Fatalf("expected course 3, got %d", service.lastCourseID)
	}
}

func TestCatalogWorksWithoutSession(t *testing.T) {
	service := &stubCourseService{
		catalog: []models.CatalogCourse{{ID: 3, Name: "Base"}},
	}
	app := newCourseTestApp(service, "", "")

	req := httptest.NewRequest(http.MethodGet, "/api/courses/catalog", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastActorID != 0 {
		t.Fatalf("expected anonymous actor id 0, got %d", service.lastActorID)
	}

	var payload struct {
		Courses []map[string]any `json:"courses"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(payload.Courses) != 1 {
		t.Fatalf("expected 1 course, got %d", len(payload.Courses))
	}
}
