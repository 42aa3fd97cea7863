package inventory

import (
	"fmt"
	"strings"

	"smallbiztrack-backend/internal/audit"
	"smallbiztrack-backend/internal/auth"
	"smallbiztrack-backend/internal/config"
	"smallbiztrack-backend/internal/database"
	"smallbiztrack-backend/internal/models"
	"smallbiztrack-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Hem JSON hem multipart form kabul edilir (fotoğraf varsa multipart gelir).
type ProductRequest struct {
	Name         string   `json:"name" form:"name"`
	SKU          string   `json:"sku" form:"sku"`
	Category     string   `json:"category" form:"category"`
	Price        float64  `json:"price" form:"price"`
	Cost         *float64 `json:"cost" form:"cost"`
	Quantity     int      `json:"quantity" form:"quantity"`
	ReorderLevel int      `json:"reorderLevel" form:"reorderLevel"`
}

func validateProduct(body *ProductRequest) validation.Bag {
	bag := validation.Bag{}

	body.Name = strings.TrimSpace(body.Name)
	body.Category = strings.TrimSpace(body.Category)
	body.SKU = strings.TrimSpace(body.SKU)

	if body.Name == "" {
		bag.Add("name", validation.Required)
	} else if len(body.Name) > 80 {
		bag.Add("name", validation.TooLong)
	}
	if body.Category == "" {
		bag.Add("category", validation.Required)
	}
	if body.Price <= 0 {
		bag.Add("price", validation.MustBePositive)
	}
	if body.Quantity < 0 {
		bag.Add("quantity", validation.MustBeNonNegative)
	}
	if body.ReorderLevel < 0 {
		bag.Add("reorderLevel", validation.MustBeNonNegative)
	}
	if body.Cost != nil && *body.Cost < 0 {
		bag.Add("cost", validation.MustBeNonNegative)
	}

	return bag
}

// Satış kaydı olan ürün silinemez: satış geçmişi ürüne bağlı kalmalı
// (sales.product_id FK'si de OnDelete:RESTRICT ile bunu DB seviyesinde
// garanti eder). Önce satışlar silinmeli.
func hasSales(db *gorm.DB, userID, productID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Sale{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	return count > 0, err
}

// Aynı kullanıcıda aynı isimde ikinci ürün olamaz.
func nameTaken(userID uint, name string, excludeID uint) bool {
	var count int64
	database.DB.Model(&models.Product{}).
		Where("user_id = ? AND name = ? AND id <> ?", userID, name, excludeID).
		Count(&count)
	return count > 0
}

// POST /api/products
func CreateProductHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if bag := validateProduct(&body); !bag.Empty() {
			return bag.Respond(c)
		}

		if nameTaken(userID, body.Name, 0) {
			return fiber.NewError(fiber.StatusBadRequest, "Bu isimde bir ürün zaten var")
		}

		imagePath := ""
		if file, err := c.FormFile("image"); err == nil && file != nil {
			imagePath, err = SaveProductImage(c, file, cfg.ProductImagePath)
			if err != nil {
				return err
			}
		}

		p := models.Product{
			UserID:       userID,
			Name:         body.Name,
			SKU:          body.SKU,
			Category:     body.Category,
			Price:        body.Price,
			Cost:         body.Cost,
			Quantity:     body.Quantity,
			ReorderLevel: body.ReorderLevel,
			ImagePath:    imagePath,
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			EntityType:  "product",
			EntityID:    p.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Ürün eklendi: %s (stok: %d)", p.Name, p.Quantity),
			After:       p,
		})

		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// GET /api/products?search=&category=&minQty=&maxQty=&sort=createdAt&order=desc&page=1&limit=10
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Product{}).Where("user_id = ?", userID)

		if category := c.Query("category"); category != "" {
			dbq = dbq.Where("category = ?", category)
		}
		if minQty := c.QueryInt("minQty", -1); minQty >= 0 {
			dbq = dbq.Where("quantity >= ?", minQty)
		}
		if maxQty := c.QueryInt("maxQty", -1); maxQty >= 0 {
			dbq = dbq.Where("quantity <= ?", maxQty)
		}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			dbq = dbq.Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ?", like, like)
		}

		// Sort whitelist
		sortField := c.Query("sort", "createdAt")
		switch sortField {
		case "name", "price", "quantity":
			// ok
		case "createdAt":
			sortField = "created_at"
		default:
			sortField = "created_at"
		}
		order := "DESC"
		if c.Query("order") == "asc" {
			order = "ASC"
		}

		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		limit := c.QueryInt("limit", 10)
		if limit < 1 {
			limit = 1
		}
		if limit > 50 {
			limit = 50
		}

		var total int64
		if err := dbq.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		var products []models.Product
		if err := dbq.Order(sortField + " " + order).
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		totalPages := int(total) / limit
		if int(total)%limit != 0 {
			totalPages++
		}

		return c.JSON(fiber.Map{
			"data":       products,
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		})
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var p models.Product
		if err := database.DB.Where("id = ? AND user_id = ?", c.Params("id"), userID).
			First(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		return c.JSON(p)
	}
}

// PUT /api/products/:id
func UpdateProductHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var p models.Product
		if err := database.DB.Where("id = ? AND user_id = ?", c.Params("id"), userID).
			First(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if bag := validateProduct(&body); !bag.Empty() {
			return bag.Respond(c)
		}

		if nameTaken(userID, body.Name, p.ID) {
			return fiber.NewError(fiber.StatusBadRequest, "Bu isimde bir ürün zaten var")
		}

		before := p

		p.Name = body.Name
		p.SKU = body.SKU
		p.Category = body.Category
		p.Price = body.Price
		p.Cost = body.Cost
		p.Quantity = body.Quantity
		p.ReorderLevel = body.ReorderLevel

		// Yeni fotoğraf geldiyse eskisini sil
		if file, err := c.FormFile("image"); err == nil && file != nil {
			newPath, err := SaveProductImage(c, file, cfg.ProductImagePath)
			if err != nil {
				return err
			}
			RemoveProductImage(before.ImagePath, cfg.ProductImagePath)
			p.ImagePath = newPath
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			EntityType:  "product",
			EntityID:    p.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Ürün güncellendi: %s", p.Name),
			Before:      before,
			After:       p,
		})

		return c.JSON(p)
	}
}

// DELETE /api/products/:id
func DeleteProductHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var p models.Product
		if err := database.DB.Where("id = ? AND user_id = ?", c.Params("id"), userID).
			First(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		sold, err := hasSales(database.DB, userID, p.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}
		if sold {
			return fiber.NewError(fiber.StatusBadRequest, "Satış kaydı olan ürün silinemez, önce satışları silin")
		}

		if err := database.DB.Delete(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		RemoveProductImage(p.ImagePath, cfg.ProductImagePath)

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			EntityType:  "product",
			EntityID:    p.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Ürün silindi: %s", p.Name),
			Before:      p,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
