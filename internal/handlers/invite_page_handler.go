package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/matleal/fit-pro/internal/models"
	"github.com/matleal/fit-pro/internal/services"
)

type inviteRedeemer interface {
	GetInvite(ctx context.Context, code string) (*models.InviteCodeDetail, error)
	Redeem(ctx context.Context, code string, userID int64) (*models.InviteCodeDetail, error)
}

// InvitePageHandler serves the /convite/:code landing page. Unlike the JSON
// API it answers in HTML, since invite links are opened straight from chat
// apps and email clients.
type InvitePageHandler struct {
	service  inviteRedeemer
	pageTmpl *template.Template
}

func NewInvitePageHandler(service inviteRedeemer) (*InvitePageHandler, error) {
	tmpl, err := template.New("invite-page").Parse(invitePageHTML)
	if err != nil {
		return nil, fmt.Errorf("parse invite page template: %w", err)
	}
	return &InvitePageHandler{service: service, pageTmpl: tmpl}, nil
}

type invitePageData struct {
	Title    string
	Message  string
	LinkHref string
	LinkText string
}

// InvitePage resolves the invite and, when the visitor is signed in, redeems
// it in the same request. Visiting the link is the redemption action; there
// is no separate confirm step.
func (h *InvitePageHandler) InvitePage(c *fiber.Ctx) error {
	code := c.Params("code")

	invite, err := h.service.GetInvite(c.Context(), code)
	if errors.Is(err, pgx.ErrNoRows) {
		return h.render(c, fiber.StatusNotFound, invitePageData{
			Title:   "Convite não encontrado",
			Message: "Este código de convite não existe. Confira o link com quem enviou.",
		})
	}
	if err != nil {
		return h.render(c, fiber.StatusInternalServerError, invitePageData{
			Title:   "Algo deu errado",
			Message: "Não foi possível carregar o convite. Tente novamente em instantes.",
		})
	}

	if invite.Used {
		return h.render(c, fiber.StatusOK, invitePageData{
			Title:   "Convite já utilizado",
			Message: "Este convite já foi resgatado e não pode ser usado novamente.",
		})
	}

	userID, err := parseUserID(c)
	if err != nil {
		loginURL := "/login?callbackUrl=" + url.QueryEscape("/convite/"+code)
		return h.render(c, fiber.StatusOK, invitePageData{
			Title:    "Você foi convidado",
			Message:  inviteDescription(invite),
			LinkHref: loginURL,
			LinkText: "Entrar para aceitar o convite",
		})
	}

	redeemed, err := h.service.Redeem(c.Context(), code, userID)
	if errors.Is(err, services.ErrInviteUsed) {
		return h.render(c, fiber.StatusOK, invitePageData{
			Title:   "Convite já utilizado",
			Message: "Este convite já foi resgatado e não pode ser usado novamente.",
		})
	}
	if err != nil {
		return h.render(c, fiber.StatusInternalServerError, invitePageData{
			Title:   "Algo deu errado",
			Message: "Não foi possível resgatar o convite. Tente novamente em instantes.",
		})
	}

	if redeemed.CourseID != nil {
		return c.Redirect(fmt.Sprintf("/aluno/cursos/%d", *redeemed.CourseID), fiber.StatusSeeOther)
	}
	return c.Redirect("/aluno", fiber.StatusSeeOther)
}

func inviteDescription(invite *models.InviteCodeDetail) string {
	if invite.Course != nil {
		return fmt.Sprintf("Você foi convidado para o curso %q. Entre na sua conta para começar.", invite.Course.Name)
	}
	return "Você recebeu um convite para a plataforma. Entre na sua conta para aceitá-lo."
}

func (h *InvitePageHandler) render(c *fiber.Ctx, status int, data invitePageData) error {
	var body bytes.Buffer
	if err := h.pageTmpl.Execute(&body, data); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render invite page")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(body.Bytes())
}

const invitePageHTML = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; background: #f4f4f5; margin: 0; display: flex; min-height: 100vh; align-items: center; justify-content: center; }
main { background: #fff; border-radius: 12px; padding: 2.5rem; max-width: 28rem; text-align: center; box-shadow: 0 1px 4px rgba(0,0,0,.08); }
h1 { font-size: 1.4rem; margin: 0 0 .75rem; }
p { color: #52525b; margin: 0 0 1.5rem; }
a { display: inline-block; background: #18181b; color: #fff; text-decoration: none; padding: .7rem 1.4rem; border-radius: 8px; }
</style>
</head>
<body>
<main>
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
{{if .LinkHref}}<a href="{{.LinkHref}}">{{.LinkText}}</a>{{end}}
</main>
</body>
</html>
`
