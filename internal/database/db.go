package database

import (
	"log"

	"smallbiztrack-backend/internal/config"
	"smallbiztrack-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Sale{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	// Quantity negatife düşmesin: uygulama katmanı koşullu UPDATE kullanıyor,
	// bu constraint son savunma hattı.
	if err := DB.Exec(`
		ALTER TABLE products DROP CONSTRAINT IF EXISTS chk_products_quantity_non_negative
	`).Error; err == nil {
		if err := DB.Exec(`
			ALTER TABLE products ADD CONSTRAINT chk_products_quantity_non_negative CHECK (quantity >= 0)
		`).Error; err != nil {
			log.Printf("quantity check constraint eklenemedi: %v", err)
		}
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
