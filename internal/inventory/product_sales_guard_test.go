package inventory

import (
	"testing"
	"time"

	"smallbiztrack-backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// FK'ler açık: ürün silme davranışı DB seviyesinde de doğrulanır.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
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

func seedProductWithSale(t *testing.T, db *gorm.DB) *models.Product {
	t.Helper()

	p := models.Product{
		UserID:   1,
		Name:     "Widget",
		Category: "genel",
		Price:    10.0,
		Quantity: 90,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("ürün oluşturulamadı: %v", err)
	}

	s := models.Sale{
		ProductID:     p.ID,
		UserID:        1,
		Quantity:      10,
		TotalPrice:    100.0,
		PaymentMethod: models.PaymentCash,
		Date:          time.Now(),
	}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("satış oluşturulamadı: %v", err)
	}

	return &p
}

func TestHasSales(t *testing.T) {
	db := setupTestDB(t)
	p := seedProductWithSale(t, db)

	sold, err := hasSales(db, 1, p.ID)
	if err != nil {
		t.Fatalf("hasSales() hata: %v", err)
	}
	if !sold {
		t.Error("satışı olan ürün için true dönmeliydi")
	}

	// Başka kullanıcının gözünden satış görünmez
	sold, err = hasSales(db, 2, p.ID)
	if err != nil {
		t.Fatalf("hasSales() hata: %v", err)
	}
	if sold {
		t.Error("başka kullanıcı için false dönmeliydi")
	}

	sold, err = hasSales(db, 1, 999)
	if err != nil {
		t.Fatalf("hasSales() hata: %v", err)
	}
	if sold {
		t.Error("olmayan ürün için false dönmeliydi")
	}
}

// Satışı olan ürünün satırı FK (OnDelete:RESTRICT) tarafından korunur;
// satışlar silindikten sonra ürün silinebilir.
func TestDeleteProductWithSalesBlockedByForeignKey(t *testing.T) {
	db := setupTestDB(t)
	p := seedProductWithSale(t, db)

	if err := db.Delete(p).Error; err == nil {
		t.Fatal("satışı olan ürünün silinmesi FK tarafından engellenmeliydi")
	}

	var count int64
	db.Model(&models.Product{}).Count(&count)
	if count != 1 {
		t.Fatalf("ürün hâlâ duruyor olmalıydı, %d kayıt var", count)
	}

	if err := db.Where("product_id = ?", p.ID).Delete(&models.Sale{}).Error; err != nil {
		t.Fatalf("satışlar silinemedi: %v", err)
	}
	if err := db.Delete(p).Error; err != nil {
		t.Fatalf("satışsız ürün silinebilmeliydi: %v", err)
	}
}
