package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"catalogapi/internal/http/middleware"
	"catalogapi/internal/service"
)

// Deps bundles everything the HTTP layer needs. Handlers stay minimal and
// free of business logic; each one delegates to a service.
type Deps struct {
	DB          *sql.DB
	Products    service.ProductService
	Auth        service.AuthService
	Attachments service.AttachmentService
	TokenParser middleware.TokenParser
	APIKeys     []string
}

// RegisterRoutes attaches all HTTP routes to the provided Fiber app.
// Reads are public; writes require a bearer token; /admin requires an API key.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	requireAuth := middleware.RequireBearer(d.TokenParser)

	auth := app.Group("/auth")
	auth.Post("/register", Register(d.Auth))
	auth.Post("/login", Login(d.Auth))
	auth.Get("/me", requireAuth, Me())

	products := app.Group("/products")
	products.Get("/", ListProducts(d.Products))
	products.Post("/", requireAuth, CreateProduct(d.Products))
	products.Get("/:id", GetProduct(d.Products))
	products.Put("/:id", requireAuth, UpdateProduct(d.Products))
	products.Delete("/:id", requireAuth, DeleteProduct(d.Products))
	products.Get("/:id/attachments", ListAttachments(d.Attachments))
	products.Post("/:id/attachments", requireAuth, UploadAttachment(d.Attachments))

	attachments := app.Group("/attachments")
	attachments.Get("/:id/download", PresignAttachment(d.Attachments))
	attachments.Delete("/:id", requireAuth, DeleteAttachment(d.Attachments))

	session := app.Group("/session")
	session.Put("/preferences", SetPreferences())
	session.Delete("/preferences", ClearPreferences())
	session.Get("/client", GetClientInfo())

	admin := app.Group("/admin", middleware.RequireAPIKey(d.APIKeys))
	admin.Get("/stats", AdminStats(d.DB))
}
