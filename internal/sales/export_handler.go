package sales

import (
	"fmt"
	"time"

	"smallbiztrack-backend/internal/auth"
	"smallbiztrack-backend/internal/database"
	"smallbiztrack-backend/internal/models"
	"smallbiztrack-backend/internal/reports"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/sales/export?filter=monthly
// Seçilen aralıktaki satışları .xlsx olarak indirir.
func ExportSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		filter := reports.Filter(c.Query("filter", string(reports.FilterAllTime)))
		r := reports.Resolve(filter, time.Now())

		dbq := database.DB.Model(&models.Sale{}).
			Preload("Product").
			Where("user_id = ?", userID)
		if r.Bounded {
			dbq = dbq.Where("date >= ? AND date <= ?", r.Start, r.End)
		}

		var sales []models.Sale
		if err := dbq.Order("date ASC").Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satışlar okunamadı")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Satışlar"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"Tarih", "Ürün", "Miktar", "Birim Fiyat", "Toplam", "Müşteri", "Ödeme"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			_ = f.SetCellValue(sheet, cell, h)
		}

		grandTotal := 0.0
		for i, s := range sales {
			rowNum := i + 2
			unitPrice := 0.0
			if s.Quantity > 0 {
				unitPrice = s.TotalPrice / float64(s.Quantity)
			}
			values := []interface{}{
				s.Date.Format("2006-01-02 15:04"),
				s.Product.Name,
				s.Quantity,
				unitPrice,
				s.TotalPrice,
				s.CustomerName,
				string(s.PaymentMethod),
			}
			for j, v := range values {
				cell, _ := excelize.CoordinatesToCellName(j+1, rowNum)
				_ = f.SetCellValue(sheet, cell, v)
			}
			grandTotal += s.TotalPrice
		}

		// Genel toplam satırı
		totalRow := len(sales) + 2
		cellLabel, _ := excelize.CoordinatesToCellName(4, totalRow)
		cellValue, _ := excelize.CoordinatesToCellName(5, totalRow)
		_ = f.SetCellValue(sheet, cellLabel, "GENEL TOPLAM")
		_ = f.SetCellValue(sheet, cellValue, grandTotal)

		_ = f.SetColWidth(sheet, "A", "B", 22)
		_ = f.SetColWidth(sheet, "C", "G", 14)

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
		}

		fileName := fmt.Sprintf("satislar-%s-%s.xlsx", filter, time.Now().Format("2006-01-02"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, fileName))
		return c.Send(buf.Bytes())
	}
}
