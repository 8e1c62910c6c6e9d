package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/retail-ops/internal/application/auth"
	"github.com/tu-usuario/retail-ops/internal/application/catalog"
	"github.com/tu-usuario/retail-ops/internal/application/inventory"
	"github.com/tu-usuario/retail-ops/internal/application/portal"
	"github.com/tu-usuario/retail-ops/internal/application/purchases"
	"github.com/tu-usuario/retail-ops/internal/application/sales"
	"github.com/tu-usuario/retail-ops/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InventoryUC *inventory.UseCase
	SalesUC     *sales.UseCase
	PurchasesUC *purchases.UseCase
	PortalUC    *portal.UseCase
	ProductUC   *catalog.ProductUseCase
	WarehouseUC *catalog.WarehouseUseCase
	PartyUC     *catalog.PartyUseCase
	AuthUC      *auth.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	staff := RequireRole(entity.RoleAdmin, entity.RoleDeposito, entity.RoleVendedor)
	warehouseStaff := RequireRole(entity.RoleAdmin, entity.RoleDeposito)
	salesStaff := RequireRole(entity.RoleAdmin, entity.RoleVendedor)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Products (protegido; escritura solo admin)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/", staff, productHandler.List)
	products.Get("/:id", staff, productHandler.GetByID)
	products.Put("/:id", adminOnly, productHandler.Update)

	// Warehouses (protegido; escritura solo admin)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", adminOnly, warehouseHandler.Create)
	warehouses.Get("/", staff, warehouseHandler.List)
	warehouses.Get("/:id", staff, warehouseHandler.GetByID)

	// Clients y suppliers (protegido)
	partyHandler := NewPartyHandler(deps.PartyUC)
	clients := protected.Group("/clients")
	clients.Post("/", salesStaff, partyHandler.CreateClient)
	clients.Get("/", staff, partyHandler.ListClients)
	clients.Get("/:id", staff, partyHandler.GetClient)
	suppliers := protected.Group("/suppliers")
	suppliers.Post("/", warehouseStaff, partyHandler.CreateSupplier)
	suppliers.Get("/", staff, partyHandler.ListSuppliers)
	suppliers.Get("/:id", staff, partyHandler.GetSupplier)

	// Inventory (protegido; mutaciones de depósito)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup.Post("/adjust", warehouseStaff, inventoryHandler.AdjustStock)
	invGroup.Post("/reserve", staff, inventoryHandler.ReserveStock)
	invGroup.Post("/release", staff, inventoryHandler.ReleaseReservation)
	invGroup.Post("/transfer", warehouseStaff, inventoryHandler.TransferStock)
	invGroup.Get("/stock/:product_id", staff, inventoryHandler.GetStock)
	invGroup.Get("/movements", staff, inventoryHandler.ListMovements)
	invGroup.Get("/low-stock", staff, inventoryHandler.ListLowStock)

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	salesHandler := NewSalesHandler(deps.SalesUC)
	salesGroup.Post("/", salesStaff, salesHandler.Create)
	salesGroup.Get("/", staff, salesHandler.List)
	salesGroup.Get("/:id/items", staff, salesHandler.GetItems)
	salesGroup.Post("/:id/deliver", warehouseStaff, salesHandler.Deliver)
	salesGroup.Post("/:id/cancel", salesStaff, salesHandler.Cancel)

	// Purchases (protegido)
	purchasesGroup := protected.Group("/purchases")
	purchasesHandler := NewPurchasesHandler(deps.PurchasesUC)
	purchasesGroup.Post("/", warehouseStaff, purchasesHandler.Create)
	purchasesGroup.Get("/", staff, purchasesHandler.List)
	purchasesGroup.Get("/:id/items", staff, purchasesHandler.GetItems)
	purchasesGroup.Post("/:id/receive", warehouseStaff, purchasesHandler.Receive)

	// Portal de clientes (protegido; el staff opera en nombre del cliente)
	portalGroup := protected.Group("/portal")
	portalHandler := NewPortalHandler(deps.PortalUC)
	portalGroup.Get("/:client_id/cart", staff, portalHandler.GetCart)
	portalGroup.Post("/:client_id/cart/items", staff, portalHandler.AddItem)
	portalGroup.Post("/:client_id/checkout", staff, portalHandler.Checkout)
}
