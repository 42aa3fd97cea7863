package reports

import (
	"testing"
	"time"

	"smallbiztrack-backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("test veritabanı açılamadı: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Sale{}); err != nil {
		t.Fatalf("migration hatası: %v", err)
	}

	return db
}

func seedProduct(t *testing.T, db *gorm.DB, userID uint, name string, price float64, qty, reorder int) *models.Product {
	t.Helper()

	p := models.Product{
		UserID:       userID,
		Name:         name,
		Category:     "genel",
		Price:        price,
		Quantity:     qty,
		ReorderLevel: reorder,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("ürün oluşturulamadı: %v", err)
	}
	return &p
}

func seedSale(t *testing.T, db *gorm.DB, userID, productID uint, qty int, total float64, date time.Time) {
	t.Helper()

	s := models.Sale{
		ProductID:     productID,
		UserID:        userID,
		Quantity:      qty,
		TotalPrice:    total,
		PaymentMethod: models.PaymentCash,
		Date:          date,
	}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("satış oluşturulamadı: %v", err)
	}
}

func TestSummaryGroupsByDay(t *testing.T) {
	db := setupTestDB(t)
	p := seedProduct(t, db, 1, "Widget", 10.0, 100, 0)

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	seedSale(t, db, 1, p.ID, 2, 20.0, day.Add(9*time.Hour))
	seedSale(t, db, 1, p.ID, 3, 30.0, day.Add(13*time.Hour))
	seedSale(t, db, 1, p.ID, 5, 50.0, day.Add(18*time.Hour))

	points, err := Summary(db, 1, Range{})
	if err != nil {
		t.Fatalf("Summary() hata: %v", err)
	}

	if len(points) != 1 {
		t.Fatalf("tek gün bekleniyordu, %d geldi", len(points))
	}
	got := points[0]
	if got.Date != "2025-03-10" {
		t.Errorf("gün anahtarı 2025-03-10 olmalıydı, %q geldi", got.Date)
	}
	if got.TotalSales != 100.0 {
		t.Errorf("totalSales 100.00 olmalıydı, %.2f geldi", got.TotalSales)
	}
	if got.Count != 3 {
		t.Errorf("count 3 olmalıydı, %d geldi", got.Count)
	}
}

func TestSummaryMultipleDaysSortedAscending(t *testing.T) {
	db := setupTestDB(t)
	p := seedProduct(t, db, 1, "Widget", 10.0, 100, 0)

	seedSale(t, db, 1, p.ID, 1, 10.0, time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC))
	seedSale(t, db, 1, p.ID, 1, 10.0, time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC))
	seedSale(t, db, 1, p.ID, 1, 10.0, time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC))

	points, err := Summary(db, 1, Range{})
	if err != nil {
		t.Fatalf("Summary() hata: %v", err)
	}

	want := []string{"2025-03-10", "2025-03-11", "2025-03-12"}
	if len(points) != len(want) {
		t.Fatalf("%d gün bekleniyordu, %d geldi", len(want), len(points))
	}
	for i, w := range want {
		if points[i].Date != w {
			t.Errorf("points[%d].Date %q olmalıydı, %q geldi", i, w, points[i].Date)
		}
	}
}

func TestSummaryRespectsRangeAndUser(t *testing.T) {
	db := setupTestDB(t)
	p := seedProduct(t, db, 1, "Widget", 10.0, 100, 0)
	other := seedProduct(t, db, 2, "Widget", 10.0, 100, 0)

	inDay := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	outDay := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	seedSale(t, db, 1, p.ID, 1, 10.0, inDay)
	seedSale(t, db, 1, p.ID, 1, 99.0, outDay)        // aralık dışı
	seedSale(t, db, 2, other.ID, 1, 77.0, inDay)     // başka kullanıcı

	r := Range{
		Start:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC),
		Bounded: true,
	}
	points, err := Summary(db, 1, r)
	if err != nil {
		t.Fatalf("Summary() hata: %v", err)
	}

	if len(points) != 1 {
		t.Fatalf("tek nokta bekleniyordu, %d geldi", len(points))
	}
	if points[0].TotalSales != 10.0 {
		t.Errorf("totalSales 10.00 olmalıydı, %.2f geldi", points[0].TotalSales)
	}
}

func TestBestSellersTop5ByQuantity(t *testing.T) {
	db := setupTestDB(t)

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	quantities := []int{5, 30, 12, 8, 21, 3, 17}
	ids := make([]uint, len(quantities))
	for i, q := range quantities {
		p := seedProduct(t, db, 1, "Ürün "+string(rune('A'+i)), 10.0, 1000, 0)
		ids[i] = p.ID
		seedSale(t, db, 1, p.ID, q, float64(q)*10.0, now)
	}

	sellers, err := BestSellers(db, 1, Range{})
	if err != nil {
		t.Fatalf("BestSellers() hata: %v", err)
	}

	if len(sellers) != 5 {
		t.Fatalf("5 ürün bekleniyordu, %d geldi", len(sellers))
	}
	wantQty := []int{30, 21, 17, 12, 8}
	for i, w := range wantQty {
		if sellers[i].TotalQty != w {
			t.Errorf("sellers[%d].TotalQty %d olmalıydı, %d geldi", i, w, sellers[i].TotalQty)
		}
	}
	if sellers[0].ProductID != ids[1] {
		t.Errorf("en çok satan ürün B olmalıydı")
	}
	if sellers[0].TotalRevenue != 300.0 {
		t.Errorf("B'nin cirosu 300.00 olmalıydı, %.2f geldi", sellers[0].TotalRevenue)
	}
}

func TestBestSellersAggregatesPerProduct(t *testing.T) {
	db := setupTestDB(t)
	p := seedProduct(t, db, 1, "Widget", 10.0, 100, 0)

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	seedSale(t, db, 1, p.ID, 2, 20.0, now)
	seedSale(t, db, 1, p.ID, 3, 30.0, now.Add(time.Hour))

	sellers, err := BestSellers(db, 1, Range{})
	if err != nil {
		t.Fatalf("BestSellers() hata: %v", err)
	}

	if len(sellers) != 1 {
		t.Fatalf("tek ürün bekleniyordu, %d geldi", len(sellers))
	}
	if sellers[0].TotalQty != 5 || sellers[0].TotalRevenue != 50.0 {
		t.Errorf("toplamlar qty=5 revenue=50 olmalıydı: qty=%d revenue=%.2f",
			sellers[0].TotalQty, sellers[0].TotalRevenue)
	}
}

func TestComputeStats(t *testing.T) {
	db := setupTestDB(t)
	p := seedProduct(t, db, 1, "Widget", 10.0, 100, 0)

	// 12 Mart 2025 Çarşamba; hafta 9 Mart Pazar başlar
	now := time.Date(2025, 3, 12, 18, 0, 0, 0, time.UTC)

	seedSale(t, db, 1, p.ID, 1, 40.0, time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)) // bugün
	seedSale(t, db, 1, p.ID, 1, 25.0, time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)) // bu hafta
	seedSale(t, db, 1, p.ID, 1, 100.0, time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)) // geçmiş

	stats, err := ComputeStats(db, 1, now)
	if err != nil {
		t.Fatalf("ComputeStats() hata: %v", err)
	}

	if stats.Today != 40.0 {
		t.Errorf("today 40.00 olmalıydı, %.2f geldi", stats.Today)
	}
	if stats.Week != 65.0 {
		t.Errorf("week 65.00 olmalıydı, %.2f geldi", stats.Week)
	}
	if stats.TotalRevenue != 165.0 {
		t.Errorf("totalRevenue 165.00 olmalıydı, %.2f geldi", stats.TotalRevenue)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	db := setupTestDB(t)

	stats, err := ComputeStats(db, 1, time.Now())
	if err != nil {
		t.Fatalf("ComputeStats() hata: %v", err)
	}
	if stats.Today != 0 || stats.Week != 0 || stats.TotalRevenue != 0 {
		t.Errorf("boş veritabanında tüm istatistikler 0 olmalı: %+v", stats)
	}
}

func TestLowStock(t *testing.T) {
	db := setupTestDB(t)

	// (miktar, eşik): eşiğe eşit veya altındakiler listelenir
	seedProduct(t, db, 1, "A", 10.0, 2, 5)  // 2 <= 5: listede
	seedProduct(t, db, 1, "B", 10.0, 0, 1)  // 0 <= 1: listede
	seedProduct(t, db, 1, "C", 10.0, 10, 1) // değil
	seedProduct(t, db, 1, "D", 10.0, 3, 3)  // 3 <= 3: listede
	seedProduct(t, db, 1, "E", 10.0, 1, 0)  // değil

	products, err := LowStock(db, 1)
	if err != nil {
		t.Fatalf("LowStock() hata: %v", err)
	}

	if len(products) != 3 {
		t.Fatalf("3 ürün bekleniyordu, %d geldi", len(products))
	}
	// quantity ASC: B(0), A(2), D(3)
	wantNames := []string{"B", "A", "D"}
	for i, w := range wantNames {
		if products[i].Name != w {
			t.Errorf("products[%d] %q olmalıydı, %q geldi", i, w, products[i].Name)
		}
	}
}

func TestLowStockScopedToUser(t *testing.T) {
	db := setupTestDB(t)

	seedProduct(t, db, 1, "Benim", 10.0, 0, 5)
	seedProduct(t, db, 2, "Başkasının", 10.0, 0, 5)

	products, err := LowStock(db, 1)
	if err != nil {
		t.Fatalf("LowStock() hata: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Benim" {
		t.Errorf("sadece kullanıcının kendi ürünü listelenmeli: %+v", products)
	}
}
