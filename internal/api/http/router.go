package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/catalog-service/internal/api/http/handlers"
	"github.com/spec-kit/catalog-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Login          *handlers.LoginHandler
	Categories     *handlers.CategoriesHandler
	Products       *handlers.ProductsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Catalog reads are public; product writes need an
// Admin session and the user listing needs any session.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}

	login := app.Group("/login")
	login.Post("/auth", cfg.Login.Login)
	login.Get("/logout", cfg.Login.Logout)
	login.Post("/register", cfg.Login.Register)

	category := app.Group("/category")
	category.Get("/", cfg.Categories.List)
	category.Get("/:id", cfg.Categories.Get)

	product := app.Group("/product")
	product.Get("/", cfg.Products.List)
	product.Get("/bycat/:id", cfg.Products.ListByCategory)
	product.Get("/:id", cfg.Products.Get)

	requireAdmin := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAdmin()}
	product.Post("/", append(requireAdmin, cfg.Products.Create)...)
	product.Put("/:id", append(requireAdmin, cfg.Products.Update)...)
	product.Delete("/:id", append(requireAdmin, cfg.Products.Delete)...)

	users := app.Group("/user", cfg.AuthMiddleware.Handle)
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
}
