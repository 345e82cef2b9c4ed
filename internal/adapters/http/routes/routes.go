package routes

import (
	"condocore/internal/adapters/http/handlers"
	"condocore/internal/adapters/http/middleware"
	"condocore/internal/adapters/persistence/repositories"
	"condocore/internal/config"
	"condocore/internal/core/services"
	"condocore/internal/pkg/jwt"
	"condocore/internal/pkg/rights"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers onto the fiber app.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)

	codec := jwt.NewCodec(cfg.JWT.Secret)
	tokenService := services.NewTokenService(codec, refreshTokenRepo, cfg)
	authService := services.NewAuthService(userRepo, tokenService, codec)
	userService := services.NewUserService(userRepo)

	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, tokenService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	roleHandler := handlers.NewRoleHandler()

	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/logout-all", middleware.Protected(authService), authHandler.LogoutAll)
	auth.Get("/me", middleware.Protected(authService), authHandler.Me)
	auth.Post("/forgot-password", middleware.StrictRateLimiter(), authHandler.ForgotPassword)
	auth.Post("/reset-password", middleware.StrictRateLimiter(), authHandler.ResetPassword)

	// User-directory admin endpoints, gated on manageUsers.
	users := api.Group("/users",
		middleware.Protected(authService),
		middleware.RequirePermissions(rights.PermManageUsers),
	)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.Get)
	users.Patch("/:id/active", userHandler.SetActive)

	// Role introspection for admin tooling.
	roles := api.Group("/roles",
		middleware.Protected(authService),
		middleware.RequirePermissions(rights.PermManageUsers),
	)
	roles.Get("/:role/rights", roleHandler.Rights)
}
