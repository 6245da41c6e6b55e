package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/matleal/fit-pro/internal/config"
	"github.com/matleal/fit-pro/internal/models"
	"github.com/matleal/fit-pro/pkg/utils"
)

const (
	oauthStateCookie = "fitpro_oauth_state"
	googleUserInfo   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

type oauthUserStore interface {
	UpsertByEmail(ctx context.Context, email string, name, image *string) (*models.User, error)
}

type OAuthHandler struct {
	oauthConfig *oauth2.Config
	userRepo    oauthUserStore
	jwtSecret   string
}

func NewOAuthHandler(cfg *config.Config, userRepo oauthUserStore) *OAuthHandler {
	return &OAuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userRepo:  userRepo,
		jwtSecret: cfg.JWTSecret,
	}
}

// GoogleLogin starts the sign-in flow. The random state is pinned to a
// short-lived cookie and checked again on the callback; the optional
// callbackUrl query parameter survives the round trip inside the state.
func (h *OAuthHandler) GoogleLogin(c *fiber.Ctx) error {
	state := uuid.NewString()
	if callback := sanitizeCallback(c.Query("callbackUrl")); callback != "" {
		state = state + "|" + callback
	}

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})

	return c.Redirect(h.oauthConfig.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

func (h *OAuthHandler) GoogleCallback(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" || state != c.Cookies(oauthStateCookie) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid OAuth state"})
	}

	token, err := h.oauthConfig.Exchange(c.Context(), c.Query("code"))
	if err != nil {
		log.Printf("google token exchange failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Token exchange failed"})
	}

	info, err := h.fetchUserInfo(c.Context(), token)
	if err != nil {
		log.Printf("google userinfo fetch failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to fetch user info"})
	}
	if info.Email == "" {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Identity provider returned no email"})
	}

	var name, image *string
	if info.Name != "" {
		name = &info.Name
	}
	if info.Picture != "" {
		image = &info.Picture
	}

	user, err := h.userRepo.UpsertByEmail(c.Context(), strings.ToLower(info.Email), name, image)
	if err != nil {
		log.Printf("oauth user upsert failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save user"})
	}

	appToken, err := utils.GenerateToken(strconv.FormatInt(user.ID, 10), user.Role, h.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to issue token"})
	}
	setSessionCookie(c, appToken)

	c.Cookie(&fiber.Cookie{
		Name:    oauthStateCookie,
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
		Path:    "/",
	})

	target := "/"
	if _, callback, found := strings.Cut(state, "|"); found {
		if callback = sanitizeCallback(callback); callback != "" {
			target = callback
		}
	}
	return c.Redirect(target, fiber.StatusSeeOther)
}

type googleUserInfoResponse struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (h *OAuthHandler) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfoResponse, error) {
	client := h.oauthConfig.Client(ctx, token)
	resp, err := client.Get(googleUserInfo)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var info googleUserInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

// sanitizeCallback keeps redirects inside the app: only rooted paths
// survive, everything else collapses to empty.
func sanitizeCallback(raw string) string {
	if raw == "" {
		return ""
	}
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	if !strings.HasPrefix(decoded, "/") || strings.HasPrefix(decoded, "//") {
		return ""
	}
	return decoded
}
