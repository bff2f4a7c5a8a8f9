package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/nandwere/stock-pos/internal/application/auth"
	"github.com/nandwere/stock-pos/internal/application/usecase"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/nandwere/stock-pos/pkg/logger"
)

// AppConfig opciones del servidor fiber.
type AppConfig struct {
	Name         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewApp crea la app fiber con recover, request id, access log y /health.
func NewApp(cfg AppConfig, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(AccessLog(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.Name})
	})
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ProductUC  *usecase.ProductUseCase
	CategoryUC *usecase.CategoryUseCase
	UserUC     *usecase.UserUseCase
	SaleUC     *usecase.SaleUseCase
	StockUC    *usecase.StockUseCase
	ReportUC   *usecase.ReportUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	can := RequirePermission

	// Auth (login público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/logout", authHandler.Logout)

	// Products
	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/products")
	products.Get("/", can(entity.PermProductsView), productHandler.List)
	products.Post("/", can(entity.PermProductsCreate), productHandler.Create)
	products.Get("/:id", can(entity.PermProductsView), productHandler.GetByID)
	products.Get("/:id/margin", can(entity.PermProductsView), productHandler.ProfitMargin)
	products.Put("/:id", can(entity.PermProductsEdit), productHandler.Update)
	products.Delete("/:id", can(entity.PermProductsDelete), productHandler.Delete)

	// Categories
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := protected.Group("/categories")
	categories.Get("/", can(entity.PermProductsView), categoryHandler.List)
	categories.Post("/", can(entity.PermProductsCreate), categoryHandler.Create)
	categories.Get("/:id", can(entity.PermProductsView), categoryHandler.GetByID)
	categories.Put("/:id", can(entity.PermProductsEdit), categoryHandler.Update)
	categories.Delete("/:id", can(entity.PermProductsDelete), categoryHandler.Delete)

	// Users
	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users")
	users.Get("/", can(entity.PermUsersView), userHandler.List)
	users.Post("/", can(entity.PermUsersCreate), userHandler.Create)
	users.Get("/:id", can(entity.PermUsersView), userHandler.GetByID)
	users.Put("/:id", can(entity.PermUsersEdit), userHandler.Update)
	users.Delete("/:id", can(entity.PermUsersDelete), userHandler.Delete)

	// Sales
	saleHandler := NewSaleHandler(deps.SaleUC)
	sales := protected.Group("/sales")
	sales.Get("/", can(entity.PermSalesView), saleHandler.List)
	sales.Post("/", can(entity.PermSalesCreate), saleHandler.Create)
	sales.Get("/:id", can(entity.PermSalesView), saleHandler.GetByID)
	sales.Get("/:id/receipt", can(entity.PermSalesView), saleHandler.Receipt)
	sales.Delete("/:id", can(entity.PermSalesDelete), saleHandler.Delete)

	// Inventory: ajustes y stock actual
	inventoryHandler := NewInventoryHandler(deps.StockUC)
	inv := protected.Group("/inventory")
	inv.Get("/adjustments", can(entity.PermStockAdjust), inventoryHandler.ListAdjustments)
	inv.Post("/adjustments", can(entity.PermStockAdjust), inventoryHandler.CreateAdjustment)
	inv.Get("/:id/stock", can(entity.PermProductsView), productHandler.GetStock)

	// Stock count
	counts := protected.Group("/stock-count")
	counts.Get("/", can(entity.PermStockCount), inventoryHandler.ListCounts)
	counts.Post("/", can(entity.PermStockCount), inventoryHandler.SubmitCount)
	counts.Get("/sheet", can(entity.PermStockCount), inventoryHandler.CountSheet)
	counts.Get("/variance", can(entity.PermReportsView), inventoryHandler.Variances)
	counts.Get("/unrecorded-sales", can(entity.PermReportsView), inventoryHandler.UnrecordedSales)

	// Reports
	reportHandler := NewReportHandler(deps.ReportUC)
	reports := protected.Group("/reports", can(entity.PermReportsView))
	reports.Get("/", reportHandler.Get)
	reports.Get("/daily.pdf", reportHandler.DailyPDF)
}
