package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/matleal/fit-pro/internal/models"
	"github.com/matleal/fit-pro/internal/services"
)

type stubEnrollmentService struct {
	enrollResult *models.Enrollment
	enrollErr    error
	listResult   []models.EnrollmentDetail
	listErr      error
	lastUserID   int64
	lastCourseID int64
}

func (s *stubEnrollmentService) Enroll(_ context.Context, userID, courseID int64) (*models.Enrollment, error) {
	s.lastUserID = userID
	s.lastCourseID = courseID
	return s.enrollResult, s.enrollErr
}

func (s *stubEnrollmentService) ListEnrollments(_ context.Context, userID int64) ([]models.EnrollmentDetail, error) {
	s.lastUserID = userID
	return s.listResult, s.listErr
}

func newEnrollmentTestApp(service *stubEnrollmentService) *fiber.App {
	handler := NewEnrollmentHandler(service)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", models.RoleStudent)
		c.Locals("user_id", "42")
		return c.Next()
	})
	app.Get("/api/enrollments", handler.ListEnrollments)
	app.Post("/api/enrollments", handler.Enroll)
	return app
}

func postEnrollment(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/enrollments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestEnrollReturnsCreatedEnrollment(t *testing.T) {
	service := &stubEnrollmentService{
		enrollResult: &models.Enrollment{ID: 9, CourseID: 3, UserID: 42, IsPaid: true, IsActive: true},
	}
	app := newEnrollmentTestApp(service)

	resp := postEnrollment(t, app, `{"courseId":3}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastUserID != 42 || service.lastCourseID != 3 {
		t.Fatalf("unexpected forwarding: user %d course %d", service.lastUserID, service.lastCourseID)
	}
}

func TestEnrollReturnsPaymentRequiredBody(t *testing.T) {
	service := &stubEnrollmentService{
		enrollErr: &services.PaymentRequiredError{PriceCents: 4990},
	}
	app := newEnrollmentTestApp(service)

	resp := postEnrollment(t, app, `{"courseId":3}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d", resp.StatusCode)
	}

	var payload struct {
		Error           string `json:"error"`
		RequiresPayment bool   `json:"requiresPayment"`
		Price           int64  `json:"price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !payload.RequiresPayment {
		t.Fatalf("expected requiresPayment true")
	}
	if payload.Price != 4990 {
		t.Fatalf("expected price 4990, got %d", payload.Price)
	}
	if payload.Error == "" {
		t.Fatalf("expected error message in body")
	}
}

func TestEnrollMapsDomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unavailable", services.ErrCourseUnavailable, http.StatusBadRequest},
		{"own course", services.ErrSelfEnrollment, http.StatusBadRequest},
		{"duplicate", services.ErrAlreadyEnrolled, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newEnrollmentTestApp(&stubEnrollmentService{enrollErr: tc.err})

			resp := postEnrollment(t, app, `{"courseId":3}`)
			defer resp.Body.Close()

			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}

func TestListEnrollmentsReturnsWrappedList(t *testing.T) {
	service := &stubEnrollmentService{
		listResult: []models.EnrollmentDetail{
			{Enrollment: models.Enrollment{ID: 9, CourseID: 3, UserID: 42}},
		},
	}
	app := newEnrollmentTestApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/enrollments", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var payload struct {
		Enrollments []map[string]any `json:"enrollments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(payload.Enrollments) != 1 {
		t.Fatalf("expected 1 enrollment, got %d", len(payload.Enrollments))
	}
}
