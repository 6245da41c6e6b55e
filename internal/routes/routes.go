package routes

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matleal/fit-pro/internal/config"
	"github.com/matleal/fit-pro/internal/handlers"
	"github.com/matleal/fit-pro/internal/middleware"
	"github.com/matleal/fit-pro/internal/repository"
	"github.com/matleal/fit-pro/internal/services"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) error {
	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	weekRepo := repository.NewWeekRepository(db)
	dayRepo := repository.NewDayRepository(db)
	exerciseRepo := repository.NewExerciseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	inviteRepo := repository.NewInviteCodeRepository(db)

	userService := services.NewUserService(userRepo, enrollmentRepo)
	courseService := services.NewCourseService(db, courseRepo, weekRepo, dayRepo, exerciseRepo, enrollmentRepo, userRepo)
	exerciseService := services.NewExerciseService(exerciseRepo)
	enrollmentService := services.NewEnrollmentService(courseRepo, enrollmentRepo)
	inviteService := services.NewInviteService(courseRepo, inviteRepo, enrollmentRepo, userRepo)

	authHandler := handlers.NewAuthHandler(userRepo, userService, cfg.JWTSecret)
	userHandler := handlers.NewUserHandler(userService, cfg.JWTSecret)
	courseHandler := handlers.NewCourseHandler(courseService)
	exerciseHandler := handlers.NewExerciseHandler(exerciseService)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService)
	inviteHandler := handlers.NewInviteHandler(inviteService)
	debugHandler := handlers.NewDebugHandler(cfg)

	invitePageHandler, err := handlers.NewInvitePageHandler(inviteService)
	if err != nil {
		return fmt.Errorf("build invite page handler: %w", err)
	}

	// Registered ahead of the route guard: the OAuth callback and the
	// logout action must stay reachable without a session cookie.
	app.Get("/logout", authHandler.Logout)
	if cfg.GoogleSignInEnabled() {
		oauthHandler := handlers.NewOAuthHandler(cfg, userRepo)
		app.Get("/login/google", oauthHandler.GoogleLogin)
		app.Get("/callback/google", oauthHandler.GoogleCallback)
	}

	app.Use(middleware.RouteGuard())

	app.Get("/convite/:code", middleware.OptionalAuth(cfg.JWTSecret), invitePageHandler.InvitePage)

	api := app.Group("/api")
	authRequired := middleware.AuthRequired(cfg.JWTSecret)

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", authRequired, authHandler.Me)

	api.Get("/courses/catalog", middleware.OptionalAuth(cfg.JWTSecret), courseHandler.Catalog)

	api.Post("/user/role", authRequired, userHandler.UpdateRole)

	courses := api.Group("/courses", authRequired)
	courses.Get("", courseHandler.ListCourses)
	courses.Post("", courseHandler.CreateCourse)
	courses.Get("/:id", courseHandler.GetCourse)
	courses.Put("/:id", courseHandler.UpdateCourse)
	courses.Delete("/:id", courseHandler.DeleteCourse)

	exercises := api.Group("/exercises", authRequired)
	exercises.Post("", exerciseHandler.CreateExercise)
	exercises.Put("/:id", exerciseHandler.UpdateExercise)
	exercises.Delete("/:id", exerciseHandler.DeleteExercise)

	enrollments := api.Group("/enrollments", authRequired)
	enrollments.Get("", enrollmentHandler.ListEnrollments)
	enrollments.Post("", enrollmentHandler.Enroll)

	invites := api.Group("/invites", authRequired)
	invites.Get("", inviteHandler.ListInvites)
	invites.Post("", inviteHandler.CreateInvite)
	invites.Delete("/:id", inviteHandler.DeleteInvite)

	if cfg.IsDevelopment() {
		api.Get("/debug/session", middleware.OptionalAuth(cfg.JWTSecret), debugHandler.Session)
	}

	return nil
}
