package sales

import (
	"errors"
	"time"

	"smallbiztrack-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrSaleNotFound      = errors.New("satış bulunamadı")
	ErrProductNotFound   = errors.New("ürün bulunamadı")
	ErrInsufficientStock = errors.New("yetersiz stok")
)

// Service: satış yaşam döngüsü (create/edit/delete) ve stok mutabakatı.
// Tüm stok düşümleri koşullu UPDATE ile yapılır (quantity >= istenen miktar
// şartı sağlanmazsa satır güncellenmez), böylece iki eşzamanlı satış aynı
// stoğu iki kez düşemez. Her operasyon tek transaction içinde koşar.
type Service struct {
	DB *gorm.DB
}

type CreateInput struct {
	ProductID     uint
	Quantity      int
	CustomerName  string
	PaymentMethod models.PaymentMethod
}

type EditInput struct {
	ProductID     *uint // nil ise ürün değişmiyor
	Quantity      int
	CustomerName  *string
	PaymentMethod *models.PaymentMethod
}

// stoktan düş: quantity >= qty şartıyla atomik azaltma.
// RowsAffected == 0 ise stok yetmedi demektir (ürünün varlığı önceden doğrulanmış olmalı).
func deductStock(tx *gorm.DB, productID, userID uint, qty int) (bool, error) {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND user_id = ? AND quantity >= ?", productID, userID, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// stoğa iade: eski satış miktarını geri ekle.
func restoreStock(tx *gorm.DB, productID, userID uint, qty int) error {
	return tx.Model(&models.Product{}).
		Where("id = ? AND user_id = ?", productID, userID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", qty)).Error
}

// Create: stok kontrolü + düşüm + satış kaydı tek transaction'da.
// TotalPrice o anki ürün fiyatından hesaplanıp dondurulur.
func (s *Service) Create(userID uint, in CreateInput) (*models.Sale, error) {
	var sale models.Sale

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Where("id = ? AND user_id = ?", in.ProductID, userID).
			First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		ok, err := deductStock(tx, product.ID, userID, in.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientStock
		}

		sale = models.Sale{
			ProductID:     product.ID,
			UserID:        userID,
			Quantity:      in.Quantity,
			TotalPrice:    product.Price * float64(in.Quantity),
			CustomerName:  in.CustomerName,
			PaymentMethod: in.PaymentMethod,
			Date:          time.Now(),
		}
		return tx.Create(&sale).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.DB.Preload("Product").First(&sale, sale.ID).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

// Edit: "eski etkiyi geri al, sonra yeni satışmış gibi uygula".
// Adım sırası önemli:
//  1. satışı (sahiplik kontrolüyle) yükle
//  2. eski ürünün stoğunu iade et
//  3. hedef ürünü çöz (değişmediyse iade edilmiş eski ürün)
//  4. hedef üründen yeni miktarı koşullu düş — yetmezse TÜM transaction
//     geri alınır, 2. adımdaki iade de dahil (all-or-nothing)
//  5. satışı yeni ürün/miktar/fiyatla güncelle; TotalPrice hedef ürünün
//     GÜNCEL fiyatından yeniden hesaplanır
// Delta (k2-k1) uygulamak yerine bilinçli olarak iade+yeniden düşüm yapıyoruz;
// ürün değiştiğinde işaret hatası yapmanın yolu yok.
func (s *Service) Edit(saleID, userID uint, in EditInput) (*models.Sale, error) {
	var sale models.Sale

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Product").
			Where("id = ? AND user_id = ?", saleID, userID).
			First(&sale).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSaleNotFound
			}
			return err
		}

		if err := restoreStock(tx, sale.ProductID, userID, sale.Quantity); err != nil {
			return err
		}

		targetID := sale.ProductID
		if in.ProductID != nil && *in.ProductID != sale.ProductID {
			targetID = *in.ProductID
		}

		var target models.Product
		if err := tx.Where("id = ? AND user_id = ?", targetID, userID).
			First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		ok, err := deductStock(tx, target.ID, userID, in.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientStock
		}

		sale.ProductID = target.ID
		sale.Quantity = in.Quantity
		sale.TotalPrice = target.Price * float64(in.Quantity)
		if in.CustomerName != nil {
			sale.CustomerName = *in.CustomerName
		}
		if in.PaymentMethod != nil {
			sale.PaymentMethod = *in.PaymentMethod
		}

		return tx.Model(&models.Sale{}).
			Where("id = ?", sale.ID).
			Updates(map[string]interface{}{
				"product_id":     sale.ProductID,
				"quantity":       sale.Quantity,
				"total_price":    sale.TotalPrice,
				"customer_name":  sale.CustomerName,
				"payment_method": sale.PaymentMethod,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.DB.Preload("Product").First(&sale, sale.ID).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

// Delete: satışı siler ve miktarı ürüne iade eder. (Eski sistemde iade
// yapılmıyordu ve stok defteri tutmuyordu; burada Edit'in iade adımıyla
// simetrik olacak şekilde düzeltildi.)
func (s *Service) Delete(saleID, userID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var sale models.Sale
		if err := tx.Where("id = ? AND user_id = ?", saleID, userID).
			First(&sale).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSaleNotFound
			}
			return err
		}

		if err := restoreStock(tx, sale.ProductID, userID, sale.Quantity); err != nil {
			return err
		}

		return tx.Delete(&sale).Error
	})
}
