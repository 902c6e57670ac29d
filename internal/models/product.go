package models

import "time"

const (
	ProductTypeSingle = "single"
	ProductTypeBundle = "bundle"
)

// Product: satılabilir SKU. Single ise tek package, bundle ise
// product_packages üzerinden birden fazla package taşır.
type Product struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"not null"`
	Type          string    `json:"type" gorm:"not null;default:'single'"`
	Price         int64     `json:"price" gorm:"not null"` // en küçük para birimi
	PackageID     *uint     `json:"package_id"`
	Package       *Package  `json:"package,omitempty" gorm:"foreignKey:PackageID"`
	AccessDays    int       `json:"access_days" gorm:"not null;default:0"` // 0 = süresiz erişim
	WithAnswerKey bool      `json:"with_answer_key"`
	IsActive      bool      `json:"is_active"` // default tag yok, false yazılabilmeli
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	BundleItems []ProductPackage `json:"bundle_items,omitempty" gorm:"foreignKey:ProductID"`
}

// Bundle pivotu, paket başına adet taşır.
type ProductPackage struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	ProductID uint     `json:"product_id" gorm:"not null;uniqueIndex:idx_product_package"`
	PackageID uint     `json:"package_id" gorm:"not null;uniqueIndex:idx_product_package"`
	Qty       int      `json:"qty" gorm:"not null;default:1"`
	Package   *Package `json:"package,omitempty" gorm:"foreignKey:PackageID"`
}

func (ProductPackage) TableName() string {
	return "product_packages"
}

// Siparişin erişim vereceği package id'leri (single/bundle).
func (p *Product) PackageIDs() []uint {
	if p.Type == ProductTypeSingle {
		if p.PackageID == nil {
			return nil
		}
		return []uint{*p.PackageID}
	}

	ids := make([]uint, 0, len(p.BundleItems))
	for _, item := range p.BundleItems {
		ids = append(ids, item.PackageID)
	}
	return ids
}
