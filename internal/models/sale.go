package models

import "time"

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"     // nakit
	PaymentTransfer PaymentMethod = "transfer" // havale
	PaymentPOS      PaymentMethod = "pos"      // pos cihazı
	PaymentOther    PaymentMethod = "other"
)

func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentPOS, PaymentOther:
		return true
	}
	return false
}

// Sale: tek bir satış işlemi. TotalPrice satış anındaki ürün fiyatından
// hesaplanıp dondurulur; ürünün fiyatı sonradan değişse bile güncellenmez.
// (Edit işleminde hedef ürünün *güncel* fiyatıyla yeniden hesaplanır.)
type Sale struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	ProductID     uint          `gorm:"index;not null" json:"productId"`
	Product       Product       `gorm:"constraint:OnDelete:RESTRICT" json:"product"`
	UserID        uint          `gorm:"index;not null" json:"userId"`
	Quantity      int           `gorm:"not null" json:"quantity"`
	TotalPrice    float64       `gorm:"not null" json:"totalPrice"`
	CustomerName  string        `gorm:"size:100" json:"customerName"`
	PaymentMethod PaymentMethod `gorm:"size:20;not null;default:cash" json:"paymentMethod"`
	Date          time.Time     `gorm:"index;not null" json:"date"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}
