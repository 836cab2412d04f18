package main

import (
	"log"
	"strings"

	"dukkan-backend/internal/analytics"
	"dukkan-backend/internal/auth"
	"dukkan-backend/internal/config"
	"dukkan-backend/internal/database"
	"dukkan-backend/internal/inventory"
	"dukkan-backend/internal/ocr"
	"dukkan-backend/internal/order"
	"dukkan-backend/internal/product"
	"dukkan-backend/internal/store"
	"dukkan-backend/internal/transaction"
	"dukkan-backend/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)
	database.InitRedis(cfg)
	database.InitMongo(cfg)

	// Rapor motoru ve iptal koordinatörü
	analyticsSvc := analytics.NewService(
		transaction.NewRepository(database.DB),
		store.NewRepository(database.DB),
	)
	orderSvc := order.NewService(order.NewGormUnitOfWork(database.DB), analyticsSvc)

	userCache := user.NewCache(database.Redis)
	ocrClient := ocr.NewHTTPClient(cfg.OcrAPIURL, cfg.OcrAPIKey)
	ocrArtifacts := ocr.NewArtifactStore(database.Mongo)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Kullanıcı profili (Redis önbellekli)
	protected.Get("/users/me/profile", user.GetProfileHandler(userCache))
	protected.Put("/users/me/profile", user.UpdateProfileHandler(userCache))

	// Mağaza yönetimi
	protected.Post("/stores", store.CreateStoreHandler())
	protected.Get("/stores", store.ListStoresHandler())
	protected.Get("/stores/:id", store.GetStoreHandler())
	protected.Put("/stores/:id", store.UpdateStoreHandler())
	protected.Delete("/stores/:id", store.DeleteStoreHandler())

	// Ürün ve reçete yönetimi
	protected.Post("/stores/:id/products", product.CreateProductHandler())
	protected.Get("/stores/:id/products", product.ListProductsHandler())
	protected.Get("/stores/:id/products/:productId", product.GetProductHandler())
	protected.Put("/stores/:id/products/:productId", product.UpdateProductHandler())
	protected.Delete("/stores/:id/products/:productId", product.DeleteProductHandler())
	protected.Post("/stores/:id/products/:productId/ingredients", product.AddIngredientHandler())
	protected.Put("/stores/:id/products/:productId/ingredients/:ingredientId", product.UpdateIngredientHandler())
	protected.Delete("/stores/:id/products/:productId/ingredients/:ingredientId", product.DeleteIngredientHandler())

	// Stok yönetimi
	protected.Post("/stores/:id/inventory", inventory.CreateInventoryHandler())
	protected.Get("/stores/:id/inventory", inventory.ListInventoryHandler())
	protected.Get("/stores/:id/inventory/expiring", inventory.ExpiringInventoryHandler())
	protected.Post("/stores/:id/inventory/:inventoryId/stock-in", inventory.StockInHandler())
	protected.Post("/stores/:id/inventory/:inventoryId/stock-out", inventory.StockOutHandler())
	protected.Get("/stores/:id/inventory/:inventoryId/logs", inventory.ListInventoryLogsHandler())
	protected.Delete("/stores/:id/inventory/:inventoryId", inventory.DeleteInventoryHandler())

	// Gelir/gider işlemleri
	protected.Post("/stores/:id/transactions", transaction.CreateTransactionHandler())
	protected.Get("/stores/:id/transactions", transaction.ListTransactionsHandler())
	protected.Get("/stores/:id/transactions/:txId", transaction.GetTransactionHandler())
	protected.Delete("/stores/:id/transactions/:txId", transaction.DeleteTransactionHandler())

	// Siparişler ve iptal akışı
	protected.Post("/stores/:id/orders", order.CreateOrderHandler())
	protected.Get("/stores/:id/orders", order.ListOrdersHandler())
	protected.Get("/stores/:id/orders/:orderId", order.GetOrderHandler())
	protected.Post("/stores/:id/orders/:orderId/cancel", order.CancelOrderHandler(orderSvc))

	// Finansal raporlar
	protected.Get("/stores/:id/financials", analytics.FinancialsHandler(analyticsSvc))
	protected.Get("/stores/:id/financials/trailing", analytics.TrailingFinancialsHandler(analyticsSvc))
	protected.Get("/stores/:id/financials/export", analytics.ExportFinancialsHandler(analyticsSvc))
	protected.Get("/stores/:id/analytics", analytics.SalesAnalyticsHandler(analyticsSvc))

	// Fiş OCR
	protected.Post("/stores/:id/receipts", ocr.UploadReceiptHandler(ocrClient, ocrArtifacts, cfg.ReceiptImagePath))
	protected.Get("/stores/:id/receipts", ocr.ListReceiptJobsHandler())
	protected.Get("/stores/:id/receipts/:jobId", ocr.GetReceiptJobHandler())
	protected.Post("/stores/:id/receipts/:jobId/confirm", ocr.ConfirmReceiptHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
