package sales

import (
	"errors"
	"fmt"
	"strings"

	"smallbiztrack-backend/internal/audit"
	"smallbiztrack-backend/internal/auth"
	"smallbiztrack-backend/internal/database"
	"smallbiztrack-backend/internal/models"
	"smallbiztrack-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateSaleRequest struct {
	ProductID     uint                 `json:"productId"`
	Quantity      int                  `json:"quantity"`
	CustomerName  string               `json:"customerName"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
}

type UpdateSaleRequest struct {
	ProductID     *uint                 `json:"productId"`
	Quantity      int                   `json:"quantity"`
	CustomerName  *string               `json:"customerName"`
	PaymentMethod *models.PaymentMethod `json:"paymentMethod"`
}

// Yardımcı: audit log için kullanıcı adını çek
func getUserName(userID uint) string {
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return ""
	}
	return user.Name
}

// Audit için satışın önceki halini yükler. Satış okunamazsa (ör. yarışan
// bir silme) nil döner ve audit kaydına "before" yazılmaz; sıfır değerli
// sahte bir snapshot loglanmaz.
func saleSnapshot(db *gorm.DB, saleID, userID uint) any {
	var s models.Sale
	if err := db.Where("id = ? AND user_id = ?", saleID, userID).
		First(&s).Error; err != nil {
		return nil
	}
	return s
}

// Servis hatalarını HTTP statülerine çevir. NotFound, InsufficientStock ve
// beklenmeyen hatalar ayrı ayrı surface edilir, tek bir 500'e toplanmaz.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, ErrSaleNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Satış bulunamadı")
	case errors.Is(err, ErrProductNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
	case errors.Is(err, ErrInsufficientStock):
		return fiber.NewError(fiber.StatusBadRequest, "Yetersiz stok")
	default:
		return err
	}
}

// POST /api/sales
func CreateSaleHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body CreateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.PaymentMethod == "" {
			body.PaymentMethod = models.PaymentCash
		}

		bag := validation.Bag{}
		if body.ProductID == 0 {
			bag.Add("productId", validation.Required)
		}
		if body.Quantity <= 0 {
			bag.Add("quantity", validation.MustBePositive)
		}
		if !models.ValidPaymentMethod(body.PaymentMethod) {
			bag.Add("paymentMethod", validation.Invalid)
		}
		if len(body.CustomerName) > 100 {
			bag.Add("customerName", validation.TooLong)
		}
		if !bag.Empty() {
			return bag.Respond(c)
		}

		sale, err := svc.Create(userID, CreateInput{
			ProductID:     body.ProductID,
			Quantity:      body.Quantity,
			CustomerName:  strings.TrimSpace(body.CustomerName),
			PaymentMethod: body.PaymentMethod,
		})
		if err != nil {
			return mapServiceError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    getUserName(userID),
			EntityType:  "sale",
			EntityID:    sale.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Satış eklendi: %s x%d = %.2f", sale.Product.Name, sale.Quantity, sale.TotalPrice),
			Before:      nil,
			After:       sale,
		})

		return c.Status(fiber.StatusCreated).JSON(sale)
	}
}

// GET /api/sales?search=&paymentMethod=&minQty=&maxQty=&sort=date&order=desc&page=1&limit=10
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Sale{}).Where("sales.user_id = ?", userID)

		if pm := c.Query("paymentMethod"); pm != "" {
			dbq = dbq.Where("payment_method = ?", pm)
		}
		if minQty := c.QueryInt("minQty", -1); minQty >= 0 {
			dbq = dbq.Where("quantity >= ?", minQty)
		}
		if maxQty := c.QueryInt("maxQty", -1); maxQty >= 0 {
			dbq = dbq.Where("quantity <= ?", maxQty)
		}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			dbq = dbq.Where("LOWER(customer_name) LIKE ?", "%"+strings.ToLower(search)+"%")
		}

		// Sort whitelist — dışarıdan gelen alan adı doğrudan SQL'e girmesin
		sortField := c.Query("sort", "date")
		switch sortField {
		case "date", "quantity", "customer_name":
			// ok
		case "totalPrice":
			sortField = "total_price"
		case "customerName":
			sortField = "customer_name"
		default:
			sortField = "date"
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
			return fiber.NewError(fiber.StatusInternalServerError, "Satışlar listelenemedi")
		}

		var sales []models.Sale
		if err := dbq.Preload("Product").
			Order(sortField + " " + order).
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satışlar listelenemedi")
		}

		totalPages := int(total) / limit
		if int(total)%limit != 0 {
			totalPages++
		}

		return c.JSON(fiber.Map{
			"data":       sales,
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		})
	}
}

// PUT /api/sales/:id
func UpdateSaleHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		saleID, err := c.ParamsInt("id")
		if err != nil || saleID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz satış id")
		}

		var body UpdateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		bag := validation.Bag{}
		if body.Quantity <= 0 {
			bag.Add("quantity", validation.MustBePositive)
		}
		if body.PaymentMethod != nil && !models.ValidPaymentMethod(*body.PaymentMethod) {
			bag.Add("paymentMethod", validation.Invalid)
		}
		if body.CustomerName != nil && len(*body.CustomerName) > 100 {
			bag.Add("customerName", validation.TooLong)
		}
		if !bag.Empty() {
			return bag.Respond(c)
		}

		before := saleSnapshot(database.DB, uint(saleID), userID)

		sale, err := svc.Edit(uint(saleID), userID, EditInput{
			ProductID:     body.ProductID,
			Quantity:      body.Quantity,
			CustomerName:  body.CustomerName,
			PaymentMethod: body.PaymentMethod,
		})
		if err != nil {
			return mapServiceError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    getUserName(userID),
			EntityType:  "sale",
			EntityID:    sale.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Satış güncellendi: %s x%d = %.2f", sale.Product.Name, sale.Quantity, sale.TotalPrice),
			Before:      before,
			After:       sale,
		})

		return c.JSON(sale)
	}
}

// DELETE /api/sales/:id
func DeleteSaleHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		saleID, err := c.ParamsInt("id")
		if err != nil || saleID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz satış id")
		}

		before := saleSnapshot(database.DB, uint(saleID), userID)

		if err := svc.Delete(uint(saleID), userID); err != nil {
			return mapServiceError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    getUserName(userID),
			EntityType:  "sale",
			EntityID:    uint(saleID),
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Satış silindi (ID: %d), stok iade edildi", saleID),
			Before:      before,
			After:       nil,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
