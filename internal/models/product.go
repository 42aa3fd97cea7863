package models

import "time"

// Product: bir kullanıcının envanterindeki ürün.
// Quantity hiçbir commit edilen işlemden sonra negatif olamaz;
// satış tarafı bunu koşullu UPDATE ile garanti eder (sales.Service).
type Product struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index:idx_products_user_name,unique;index:idx_products_user_category;not null" json:"userId"`
	Name         string    `gorm:"size:80;index:idx_products_user_name,unique;not null" json:"name"`
	SKU          string    `gorm:"size:50" json:"sku"`
	Category     string    `gorm:"size:50;index:idx_products_user_category" json:"category"`
	Price        float64   `gorm:"not null" json:"price"`
	Cost         *float64  `json:"cost"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	ReorderLevel int       `gorm:"not null;default:0" json:"reorderLevel"`
	ImagePath    string    `gorm:"size:255" json:"imagePath"` // /product-images/<uuid>.jpg gibi
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
