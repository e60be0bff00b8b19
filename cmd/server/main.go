package main

import (
	"log"
	"strings"

	"hatch-backend/internal/audit"
	"hatch-backend/internal/auth"
	"hatch-backend/internal/catalog"
	"hatch-backend/internal/config"
	"hatch-backend/internal/dashboard"
	"hatch-backend/internal/database"
	"hatch-backend/internal/models"
	"hatch-backend/internal/movement"
	"hatch-backend/internal/orders"
	"hatch-backend/internal/sales"
	"hatch-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// restock photos are served straight from disk
	app.Static("/photos", cfg.PhotoPath)

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin-only: user management and catalog mutation
	adminRoutes := protected.Group("")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Post("/admin/users", auth.CreateUserHandler())

	adminRoutes.Post("/products", catalog.CreateProductHandler())
	adminRoutes.Put("/products/:id", catalog.UpdateProductHandler())
	adminRoutes.Delete("/products/:id", catalog.DeleteProductHandler())
	adminRoutes.Post("/products/bulk-import", catalog.BulkImportProductsHandler())

	adminRoutes.Post("/warehouses", catalog.CreateWarehouseHandler())
	adminRoutes.Put("/warehouses/:id", catalog.UpdateWarehouseHandler())
	adminRoutes.Delete("/warehouses/:id", catalog.DeleteWarehouseHandler())

	adminRoutes.Post("/locations", catalog.CreateLocationHandler())
	adminRoutes.Put("/locations/:id", catalog.UpdateLocationHandler())
	adminRoutes.Delete("/locations/:id", catalog.DeleteLocationHandler())
	adminRoutes.Put("/locations/:id/assigned-items", catalog.SetAssignedItemsHandler())

	adminRoutes.Post("/suppliers", catalog.CreateSupplierHandler())
	adminRoutes.Put("/suppliers/:id", catalog.UpdateSupplierHandler())
	adminRoutes.Delete("/suppliers/:id", catalog.DeleteSupplierHandler())

	adminRoutes.Post("/routes", catalog.CreateRouteHandler())
	adminRoutes.Put("/routes/:id", catalog.UpdateRouteHandler())
	adminRoutes.Delete("/routes/:id", catalog.DeleteRouteHandler())

	// Catalog reads
	protected.Get("/products", catalog.ListProductsHandler())
	protected.Get("/products/:id", catalog.GetProductHandler())
	protected.Get("/warehouses", catalog.ListWarehousesHandler())
	protected.Get("/locations", catalog.ListLocationsHandler())
	protected.Get("/locations/:id", catalog.GetLocationHandler())
	protected.Get("/suppliers", catalog.ListSuppliersHandler())
	protected.Get("/routes", catalog.ListRoutesHandler())
	protected.Get("/routes/:id/locations", catalog.ListRouteLocationsHandler())

	// Stock ledger
	protected.Get("/warehouses/:id/stock", stock.ListWarehouseStockHandler())
	protected.Put("/warehouses/:id/stock", stock.SetWarehouseStockHandler())
	protected.Get("/locations/:id/stock", stock.ListLocationStockHandler())
	protected.Put("/locations/:id/stock", stock.SetLocationStockHandler())
	protected.Post("/locations/:id/stock/merge", stock.MergeLocationStockHandler())
	protected.Post("/locations/:id/stock/replace", stock.ReplaceLocationStockHandler())
	protected.Get("/locations/:id/config", stock.ListLocationConfigHandler())
	protected.Put("/locations/:id/config", stock.SetLocationConfigHandler())

	// Batches
	protected.Get("/batches", stock.ListBatchesHandler())
	protected.Get("/batches/expiring", stock.ListExpiringBatchesHandler())
	protected.Put("/batches/:id/damage", stock.UpdateBatchDamageHandler())

	// Movements
	protected.Post("/removals", movement.CreateRemovalHandler())
	protected.Get("/removals", movement.ListRemovalsHandler())
	protected.Post("/restocks", movement.CreateRestockHandler(cfg))
	protected.Get("/restocks", movement.ListRestocksHandler())
	protected.Post("/stock-checks", movement.CreateStockCheckHandler())
	protected.Get("/stock-checks", movement.ListStockChecksHandler())
	protected.Get("/stock-checks/shrinkage", movement.ShrinkageReportHandler())

	// Orders
	protected.Post("/orders", orders.CreateOrderHandler())
	protected.Get("/orders", orders.ListOrdersHandler())
	protected.Get("/orders/suggestions", orders.SuggestOrderItemsHandler())
	protected.Post("/orders/parse-invoice", orders.ParseInvoiceHandler())
	protected.Get("/orders/:id", orders.GetOrderHandler())
	protected.Put("/orders/:id", orders.UpdateOrderHandler())
	protected.Post("/orders/:id/receive", orders.ReceiveOrderHandler())

	// Sales
	protected.Post("/sales/import", sales.ImportSalesHandler())
	protected.Get("/sales", sales.ListSalesHandler())
	protected.Get("/sales/imports", sales.ListImportsHandler())
	protected.Get("/sales/by-product", sales.SalesByProductHandler())
	protected.Get("/sales/by-category", sales.SalesByCategoryHandler())
	protected.Get("/sales/by-day", sales.SalesByDayHandler())
	protected.Post("/sales/reconcile", sales.ReconcileHandler())
	protected.Get("/sales/mappings", sales.ListMappingsHandler())
	protected.Put("/sales/mappings", sales.UpsertMappingHandler())
	protected.Delete("/sales/mappings/:id", sales.DeleteMappingHandler())

	// Dashboard
	protected.Get("/dashboard/overview", dashboard.OverviewHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
