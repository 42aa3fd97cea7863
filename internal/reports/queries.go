package reports

import (
	"sort"
	"time"

	"smallbiztrack-backend/internal/models"

	"gorm.io/gorm"
)

type SummaryPoint struct {
	Date       string  `json:"date"` // UTC gün anahtarı, "2006-01-02"
	TotalSales float64 `json:"totalSales"`
	Count      int     `json:"count"`
}

type BestSeller struct {
	ProductID    uint    `gorm:"column:product_id" json:"productId"`
	Name         string  `gorm:"column:name" json:"name"`
	TotalQty     int     `gorm:"column:total_qty" json:"totalQty"`
	TotalRevenue float64 `gorm:"column:total_revenue" json:"totalRevenue"`
}

type Stats struct {
	Today        float64 `json:"today"`
	Week         float64 `json:"week"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// aralık filtresini uygula
func inRange(dbq *gorm.DB, r Range) *gorm.DB {
	if !r.Bounded {
		return dbq
	}
	return dbq.Where("date >= ? AND date <= ?", r.Start, r.End)
}

// Summary: aralıktaki satışları takvim gününe göre gruplar (gün bazlı ciro +
// adet), tarihe göre artan döner. Gün anahtarı UTC'ye göre hesaplanır; bucket
// birleştirme Go tarafında yapılır (dashboard/cash_chart ile aynı yaklaşım).
func Summary(db *gorm.DB, userID uint, r Range) ([]SummaryPoint, error) {
	type row struct {
		Date       time.Time
		TotalPrice float64
	}
	var rows []row

	dbq := db.Model(&models.Sale{}).
		Select("date", "total_price").
		Where("user_id = ?", userID)
	if err := inRange(dbq, r).Find(&rows).Error; err != nil {
		return nil, err
	}

	buckets := make(map[string]*SummaryPoint)
	for _, x := range rows {
		day := x.Date.UTC().Format("2006-01-02")
		p, ok := buckets[day]
		if !ok {
			p = &SummaryPoint{Date: day}
			buckets[day] = p
		}
		p.TotalSales += x.TotalPrice
		p.Count++
	}

	out := make([]SummaryPoint, 0, len(buckets))
	for _, p := range buckets {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// BestSellers: aralıktaki satışları ürüne göre gruplar, adete göre azalan
// ilk 5 ürünü döner.
func BestSellers(db *gorm.DB, userID uint, r Range) ([]BestSeller, error) {
	out := make([]BestSeller, 0, 5)

	dbq := db.Model(&models.Sale{}).
		Select("products.id AS product_id, products.name AS name, SUM(sales.quantity) AS total_qty, SUM(sales.total_price) AS total_revenue").
		Joins("JOIN products ON products.id = sales.product_id").
		Where("sales.user_id = ?", userID)
	if r.Bounded {
		dbq = dbq.Where("sales.date >= ? AND sales.date <= ?", r.Start, r.End)
	}

	err := dbq.Group("products.id, products.name").
		Order("total_qty DESC").
		Limit(5).
		Scan(&out).Error
	return out, err
}

func sumRevenue(db *gorm.DB, userID uint, r Range) (float64, error) {
	var total *float64
	dbq := db.Model(&models.Sale{}).
		Select("SUM(total_price)").
		Where("user_id = ?", userID)
	if err := inRange(dbq, r).Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// ComputeStats: bugünkü / bu haftaki / tüm zamanların cirosu.
// Üç bağımsız aggregate; hafta Pazar başlar.
func ComputeStats(db *gorm.DB, userID uint, now time.Time) (Stats, error) {
	var s Stats
	var err error

	if s.Today, err = sumRevenue(db, userID, Resolve(FilterDaily, now)); err != nil {
		return s, err
	}
	if s.Week, err = sumRevenue(db, userID, Resolve(FilterWeekly, now)); err != nil {
		return s, err
	}
	if s.TotalRevenue, err = sumRevenue(db, userID, Resolve(FilterAllTime, now)); err != nil {
		return s, err
	}
	return s, nil
}

// LowStock: stoğu reorder level'a eşit veya altına düşmüş ürünler.
func LowStock(db *gorm.DB, userID uint) ([]models.Product, error) {
	var products []models.Product
	err := db.Where("user_id = ? AND quantity <= reorder_level", userID).
		Order("quantity ASC").
		Find(&products).Error
	return products, err
}
