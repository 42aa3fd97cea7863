package reports

import (
	"time"

	"smallbiztrack-backend/internal/auth"
	"smallbiztrack-backend/internal/database"

	"github.com/gofiber/fiber/v2"
)

// GET /api/sales/summary?filter=daily
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		r := Resolve(Filter(c.Query("filter", string(FilterAllTime))), time.Now())

		points, err := Summary(database.DB, userID, r)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Özet hesaplanamadı")
		}
		return c.JSON(points)
	}
}

// GET /api/sales/best-sellers?filter=monthly
func BestSellersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		r := Resolve(Filter(c.Query("filter", string(FilterAllTime))), time.Now())

		sellers, err := BestSellers(database.DB, userID, r)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Çok satanlar hesaplanamadı")
		}
		return c.JSON(sellers)
	}
}

// GET /api/sales/stats
func StatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		stats, err := ComputeStats(database.DB, userID, time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İstatistikler hesaplanamadı")
		}
		return c.JSON(stats)
	}
}

// GET /api/sales/low-stock
func LowStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		products, err := LowStock(database.DB, userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Düşük stok listesi alınamadı")
		}
		return c.JSON(products)
	}
}
