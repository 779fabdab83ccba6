package router

import (
	"time"

	"retailpos/internal/config"
	"retailpos/internal/handler"
	"retailpos/internal/lock"
	"retailpos/internal/middleware"
	"retailpos/internal/notifier"
	"retailpos/internal/repository"
	"retailpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, hub *notifier.Hub) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	variantRepo := repository.NewVariantRepository(db)
	stockRepo := repository.NewStockRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	returnRepo := repository.NewReturnRepository(db)

	// ── Core collaborators ───────────────────────────────────────────────────
	locks := lock.NewCoordinator(lock.NewRedisStore(rdb), lock.Options{
		TTL:            cfg.LockTTL(),
		AcquireTimeout: cfg.LockAcquireTimeout(),
		PollInterval:   cfg.LockPollInterval(),
	})
	notify := notifier.Multi{notifier.NewRedisPublisher(rdb), hub}
	ledger := service.NewStockLedger(stockRepo, movementRepo)
	tx := service.GormTx(db)

	// ── Services ─────────────────────────────────────────────────────────────
	productSvc := service.NewProductService(productRepo)
	orderSvc := service.NewOrderService(orderRepo, variantRepo, ledger, locks, notify, tx)
	inventorySvc := service.NewInventoryService(stockRepo, movementRepo, variantRepo, orderSvc)
	saleSvc := service.NewSaleService(saleRepo, variantRepo, ledger, notify, tx)
	returnSvc := service.NewReturnService(returnRepo, saleRepo, variantRepo, ledger, notify, tx)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productsH := handler.NewProductsHandler(productSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	salesH := handler.NewSalesHandler(saleSvc)
	returnsH := handler.NewReturnsHandler(returnSvc)
	wsH := handler.NewWSHandler(hub)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health)
	r.GET("/ws", wsH.Serve)

	api := r.Group("/api")
	{
		api.POST("/products", productsH.Create)
		api.GET("/products", productsH.List)
		api.GET("/products/:id", productsH.Get)

		api.GET("/inventory", inventoryH.ListStock)
		api.GET("/inventory/movements", inventoryH.ListMovements)
		api.POST("/inventory/adjust", inventoryH.Adjust)

		api.POST("/orders", ordersH.Create)
		api.GET("/orders/:id", ordersH.Get)

		api.POST("/sales", salesH.Create)
		api.GET("/sales", salesH.List)
		api.GET("/sales/:invoiceNumber", salesH.GetByInvoice)

		api.POST("/returns", returnsH.Create)
		api.GET("/returns", returnsH.List)
	}

	return r
}
