package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/matleal/fit-pro/pkg/utils"
)

const testSecret = "auth-middleware-test-secret"

func newAuthTestApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/protected", handler, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals("user_id"),
			"role":    c.Locals("role"),
		})
	})
	return app
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	app := newAuthTestApp(AuthRequired(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAuthRequiredRejectsForgedToken(t *testing.T) {
	app := newAuthTestApp(AuthRequired(testSecret))

	token, err := utils.GenerateToken("42", "STUDENT", "some-other-secret")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAuthRequiredAcceptsBearerAndCookie(t *testing.T) {
	app := newAuthTestApp(AuthRequired(testSecret))

	token, err := utils.GenerateToken("42", "STUDENT", testSecret)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	bearer := httptest.NewRequest(http.MethodGet, "/protected", nil)
	bearer.Header.Set("Authorization", "Bearer "+token)

	cookie := httptest.NewRequest(http.MethodGet, "/protected", nil)
	cookie.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})

	for _, req := range []*http.Request{bearer, cookie} {
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		var payload struct {
			UserID string `json:"user_id"`
			Role   string `json:"role"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			t.Fatalf("Decode: %v", err)
		}
		resp.Body.Close()
		if payload.UserID != "42" || payload.Role != "STUDENT" {
			t.Fatalf("unexpected locals: %+v", payload)
		}
	}
}

func TestOptionalAuthContinuesWithoutToken(t *testing.T) {
	app := newAuthTestApp(OptionalAuth(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var payload struct {
		UserID *string `json:"user_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if payload.UserID != nil {
		t.Fatalf("expected no user_id for anonymous request, got %v", *payload.UserID)
	}
}
