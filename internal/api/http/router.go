package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/novelistan/novelistan-api/internal/api/http/handlers"
	"github.com/novelistan/novelistan-api/internal/auth"
	"github.com/novelistan/novelistan-api/internal/observability"
)

// RouteConfig bundles everything the router needs.
type RouteConfig struct {
	Auth        *auth.AuthMiddleware
	Authors     *handlers.AuthorsHandler
	Customers   *handlers.CustomersHandler
	Books       *handlers.BooksHandler
	Reviews     *handlers.ReviewsHandler
	Drafts      *handlers.DraftsHandler
	Health      *handlers.HealthHandler
	Diagnostics *handlers.DiagnosticsHandler
	Metrics     *observability.Metrics
}

// RegisterRoutes declares the full HTTP surface. Public routes never pass
// through the auth gate; everything else requires a valid bearer token and
// the role the resource belongs to.
func RegisterRoutes(app *fiber.App, rc RouteConfig) {
	app.Get("/health/live", rc.Health.Live)
	app.Get("/health/ready", rc.Health.Ready)
	app.Get("/metrics", rc.Metrics.Handler())

	diag := app.Group("/diag", rc.Diagnostics.RequireKey)
	diag.Get("/env", rc.Diagnostics.Env)
	diag.Get("/db", rc.Diagnostics.DB)
	diag.Get("/storage", rc.Diagnostics.Storage)

	api := app.Group("/api")

	authors := api.Group("/author")
	authors.Post("/register", rc.Authors.Register)
	authors.Post("/login", rc.Authors.Login)
	authors.Post("/logout", rc.Authors.Logout)
	authors.Get("/image/:id", rc.Authors.Image)
	authors.Get("/me", rc.Auth.Handle, auth.RequireAuthor(), rc.Authors.Me)
	authors.Put("/profile", rc.Auth.Handle, auth.RequireAuthor(), rc.Authors.UpdateProfile)

	customers := api.Group("/customer")
	customers.Post("/register", rc.Customers.Register)
	customers.Post("/login", rc.Customers.Login)
	customers.Post("/logout", rc.Customers.Logout)
	customers.Get("/image/:id", rc.Customers.Image)
	customers.Get("/me", rc.Auth.Handle, auth.RequireCustomer(), rc.Customers.Me)
	customers.Put("/profile", rc.Auth.Handle, auth.RequireCustomer(), rc.Customers.UpdateProfile)

	books := api.Group("/book")
	// public catalog reads
	books.Get("/list/allBooks", rc.Books.ListAll)
	books.Get("/search", rc.Books.Search)
	books.Get("/cover/:id", rc.Books.Cover)
	books.Get("/pdf/:id", rc.Books.PDF)
	// author-owned management
	books.Post("/", rc.Auth.Handle, auth.RequireAuthor(), rc.Books.Create)
	books.Get("/authorBook/:authorId?", rc.Auth.Handle, auth.RequireAuthor(), rc.Books.ListByAuthor)
	books.Put("/:id", rc.Auth.Handle, auth.RequireAuthor(), rc.Books.Update)
	books.Delete("/:id", rc.Auth.Handle, auth.RequireAuthor(), rc.Books.Delete)
	// keep last so "list" and "search" never match as ids
	books.Get("/:id", rc.Books.Get)

	reviews := api.Group("/reviews")
	reviews.Get("/book/:bookId", rc.Reviews.ListByBook)
	reviews.Post("/", rc.Auth.Handle, auth.RequireCustomer(), rc.Reviews.Create)
	reviews.Delete("/:id", rc.Auth.Handle, auth.RequireCustomer(), rc.Reviews.Delete)

	drafts := api.Group("/draft", rc.Auth.Handle, auth.RequireCustomer())
	drafts.Post("/", rc.Drafts.Create)
	drafts.Get("/", rc.Drafts.List)
	drafts.Get("/asset/:id", rc.Drafts.Asset)
	drafts.Get("/:id", rc.Drafts.Get)
	drafts.Put("/:id", rc.Drafts.Update)
	drafts.Delete("/:id", rc.Drafts.Delete)
}
