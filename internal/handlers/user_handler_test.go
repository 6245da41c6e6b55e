package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/matleal/fit-pro/internal/middleware"
	"github.com/matleal/fit-pro/internal/models"
	"github.com/matleal/fit-pro/internal/services"
	"github.com/matleal/fit-pro/pkg/utils"
)

type stubRoleService struct {
	result     *models.User
	err        error
	lastUserID int64
	lastRole   string
}

func (s *stubRoleService) SetRole(_ context.Context, userID int64, role string) (*models.User, error) {
	s.lastUserID = userID
	s.lastRole = role
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

const roleTestSecret = "role-test-secret"

func newRoleTestApp(service *stubRoleService) *fiber.App {
	handler := NewUserHandler(service, roleTestSecret)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "42")
		c.Locals("role", models.RoleStudent)
		return c.Next()
	})
	app.Post("/api/user/role", handler.UpdateRole)
	return app
}

func TestUpdateRoleForwardsChoice(t *testing.T) {
	service := &stubRoleService{result: &models.User{ID: 42, Role: models.RoleTeacher, HasChosenRole: true}}
	app := newRoleTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/user/role", strings.NewReader(`{"role":"TEACHER"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastUserID != 42 || service.lastRole != models.RoleTeacher {
		t.Fatalf("unexpected forwarding: %d %q", service.lastUserID, service.lastRole)
	}

	var payload struct {
		Success bool   `json:"success"`
		Role    string `json:"role"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !payload.Success || payload.Role != models.RoleTeacher {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestUpdateRoleRefreshesSessionCookie(t *testing.T) {
	service := &stubRoleService{result: &models.User{ID: 42, Role: models.RoleTeacher, HasChosenRole: true}}
	app := newRoleTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/user/role", strings.NewReader(`{"role":"TEACHER"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	var sessionCookie *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			sessionCookie = cookie
		}
	}
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Fatalf("expected a refreshed session cookie")
	}

	claims, err := utils.ValidateToken(sessionCookie.Value, roleTestSecret)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Role != models.RoleTeacher || claims.UserID != "42" {
		t.Fatalf("refreshed token carries %q/%q", claims.Role, claims.UserID)
	}
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
	app := newRoleTestApp(&stubRoleService{err: services.ErrInvalidInput})

	req := httptest.NewRequest(http.MethodPost, "/api/user/role", strings.NewReader(`{"role":"ADMIN"}`))
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
