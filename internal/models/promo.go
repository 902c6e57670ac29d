package models

import "time"

const (
	PromoTypePercent = "percent"
	PromoTypeFixed   = "fixed"
)

const (
	RedemptionStatusPending = "pending"
	RedemptionStatusUsed    = "used"
	RedemptionStatusVoid    = "void"
)

type PromoCode struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Code        string     `json:"code" gorm:"uniqueIndex;size:50;not null"` // her zaman uppercase
	Type        string     `json:"type" gorm:"not null"`
	Value       int64      `json:"value" gorm:"not null"`
	MinPurchase int64      `json:"min_purchase" gorm:"not null;default:0"`
	MaxUses     *int       `json:"max_uses"` // nil = limitsiz
	UsedCount   int        `json:"used_count" gorm:"not null;default:0"`
	// default tag'i yok: GORM zero-value'yu insert'ten düşürüp DB
	// default'una bırakırdı, false yazmak imkansızlaşırdı.
	IsActive bool `json:"is_active"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Products []Product `json:"products,omitempty" gorm:"many2many:promo_code_products"`
	Packages []Package `json:"packages,omitempty" gorm:"many2many:promo_code_packages"`
}

// İndirim hesabı: percent → floor(gross*value/100), fixed → value.
// Sonuç [0, gross] aralığına sıkıştırılır.
func (p *PromoCode) DiscountFor(gross int64) int64 {
	var discount int64
	if p.Type == PromoTypePercent {
		discount = gross * p.Value / 100
	} else {
		discount = p.Value
	}
	if discount > gross {
		discount = gross
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

// PromoRedemption: bir kullanıcının bir promo'yu bir sipariş için
// rezerve etmesi. pending = order bekliyor, used = kota yandı,
// void = order ödenmeden kapandı, slot geri döndü.
type PromoRedemption struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	PromoCodeID uint      `json:"promo_code_id" gorm:"not null;index"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	OrderID     uint      `json:"order_id" gorm:"not null;uniqueIndex"`
	Status      string    `json:"status" gorm:"not null;default:'pending'"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ValidatePromoRequest struct {
	ProductID uint   `json:"product_id" validate:"required"`
	PromoCode string `json:"promo_code" validate:"required,max=50"`
}

type PromoPreview struct {
	Promo       PromoPreviewCode    `json:"promo"`
	Product     PromoPreviewProduct `json:"product"`
	Gross       int64               `json:"gross"`
	Discount    int64               `json:"discount"`
	FinalAmount int64               `json:"final_amount"`
}

type PromoPreviewCode struct {
	ID    uint   `json:"id"`
	Code  string `json:"code"`
	Type  string `json:"type"`
	Value int64  `json:"value"`
}

type PromoPreviewProduct struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Price int64  `json:"price"`
}
