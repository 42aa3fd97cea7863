package main

import (
	"log"
	"strings"

	"smallbiztrack-backend/internal/audit"
	"smallbiztrack-backend/internal/auth"
	"smallbiztrack-backend/internal/config"
	"smallbiztrack-backend/internal/database"
	"smallbiztrack-backend/internal/inventory"
	"smallbiztrack-backend/internal/reports"
	"smallbiztrack-backend/internal/sales"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	database.Init(cfg)

	saleSvc := &sales.Service{DB: database.DB}

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

	// Ürün fotoğrafları statik servis edilir
	app.Static("/product-images", cfg.ProductImagePath)

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Ürünler
	protected.Post("/products", inventory.CreateProductHandler(cfg))
	protected.Get("/products", inventory.ListProductsHandler())
	protected.Get("/products/:id", inventory.GetProductHandler())
	protected.Put("/products/:id", inventory.UpdateProductHandler(cfg))
	protected.Delete("/products/:id", inventory.DeleteProductHandler(cfg))

	// Dashboard raporları — :id route'larından ÖNCE kayıt edilmeli
	protected.Get("/sales/summary", reports.SummaryHandler())
	protected.Get("/sales/best-sellers", reports.BestSellersHandler())
	protected.Get("/sales/stats", reports.StatsHandler())
	protected.Get("/sales/low-stock", reports.LowStockHandler())
	protected.Get("/sales/export", sales.ExportSalesHandler())

	// Satışlar
	protected.Post("/sales", sales.CreateSaleHandler(saleSvc))
	protected.Get("/sales", sales.ListSalesHandler())
	protected.Put("/sales/:id", sales.UpdateSaleHandler(saleSvc))
	protected.Delete("/sales/:id", sales.DeleteSaleHandler(saleSvc))

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
