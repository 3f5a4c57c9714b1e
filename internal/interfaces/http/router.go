package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Activos-api/internal/domain/entity"
)

// Handlers agrupa los handlers que monta el router.
type Handlers struct {
	Auth    *AuthHandler
	Company *CompanyHandler
	Stock   *StockHandler
	Count   *CountHandler
}

// SetupRoutes monta todas las rutas de la API. Las mutaciones de inventario
// requieren rol admin o bodeguero; las lecturas, cualquier usuario autenticado.
func SetupRoutes(app *fiber.App, h Handlers, jwtSecret string) {
	api := app.Group("/api")

	// Público: bootstrap de tenant y autenticación
	api.Post("/companies", h.Company.Create)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)

	// Todo lo demás requiere token
	protected := api.Group("", AuthMiddleware(jwtSecret))

	protected.Get("/companies", RequireRole(entity.RoleAdmin), h.Company.List)
	protected.Get("/companies/:id", h.Company.GetByID)

	mutate := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	items := protected.Group("/stock-items")
	items.Post("/", mutate, h.Stock.CreateItem)
	items.Get("/", h.Stock.ListItems)
	items.Get("/:id", h.Stock.GetItem)
	items.Delete("/:id", RequireRole(entity.RoleAdmin), h.Stock.DeleteItem)
	items.Get("/:id/movements", h.Stock.ListMovements)

	inv := protected.Group("/inventory")
	inv.Post("/movements", mutate, h.Stock.RegisterMovement)
	inv.Get("/requisitions", h.Stock.ListRequisitions)

	counts := inv.Group("/counts")
	counts.Post("/", mutate, h.Count.StartCount)
	counts.Get("/", h.Count.ListCounts)
	counts.Get("/:id", h.Count.GetCount)
	counts.Post("/:id/reconcile", mutate, h.Count.Reconcile)
}
