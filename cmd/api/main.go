package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retail-ops/internal/application/auth"
	"github.com/tu-usuario/retail-ops/internal/application/catalog"
	"github.com/tu-usuario/retail-ops/internal/application/inventory"
	"github.com/tu-usuario/retail-ops/internal/application/portal"
	"github.com/tu-usuario/retail-ops/internal/application/purchases"
	"github.com/tu-usuario/retail-ops/internal/application/sales"
	"github.com/tu-usuario/retail-ops/internal/domain/entity"
	"github.com/tu-usuario/retail-ops/internal/domain/pricing"
	"github.com/tu-usuario/retail-ops/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/retail-ops/internal/interfaces/http"
	"github.com/tu-usuario/retail-ops/pkg/config"
	"github.com/tu-usuario/retail-ops/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repos sobre el pool (lecturas y flujos sin transacción propia).
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)

	// La auditoría va sobre el pool a propósito: es best-effort y nunca debe
	// participar de la transacción de negocio.
	auditRepo := postgres.NewAuditLogRepository(pool)

	txRunner := postgres.NewTxRunner(pool)
	engine := inventory.NewStockEngine(auditRepo, log.WithComponent("stock-engine"))

	inventoryUC := inventory.NewUseCase(txRunner, engine, productRepo, warehouseRepo, inventoryRepo, movementRepo)
	salesUC := sales.NewUseCase(txRunner, engine, clientRepo, productRepo, warehouseRepo, saleRepo)
	purchasesUC := purchases.NewUseCase(txRunner, engine, supplierRepo, productRepo, warehouseRepo, purchaseRepo,
		purchases.PricingConfig{
			Margins: pricing.Margins{
				Retail:    cfg.Pricing.MarginRetail,
				Wholesale: cfg.Pricing.MarginWholesale,
			},
			FxRates: map[string]decimal.Decimal{
				entity.CurrencyUSD: cfg.Pricing.FxUSD,
				entity.CurrencyCNY: cfg.Pricing.FxCNY,
			},
		})
	portalUC := portal.NewUseCase(txRunner, engine, clientRepo, productRepo, warehouseRepo, cartRepo)
	productUC := catalog.NewProductUseCase(productRepo)
	warehouseUC := catalog.NewWarehouseUseCase(warehouseRepo)
	partyUC := catalog.NewPartyUseCase(clientRepo, supplierRepo)
	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Retail Ops API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		InventoryUC: inventoryUC,
		SalesUC:     salesUC,
		PurchasesUC: purchasesUC,
		PortalUC:    portalUC,
		ProductUC:   productUC,
		WarehouseUC: warehouseUC,
		PartyUC:     partyUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
