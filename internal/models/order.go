package models

import "time"

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusFailed    = "failed"
	OrderStatusExpired   = "expired"
	OrderStatusCancelled = "cancelled"
)

// Pending'den çıkışlar terminaldir, geri dönüş yok.
func IsTerminalOrderStatus(status string) bool {
	switch status {
	case OrderStatusPaid, OrderStatusFailed, OrderStatusExpired, OrderStatusCancelled:
		return true
	}
	return false
}

// Order state machine'in tamamı: pending → {paid, failed, expired,
// cancelled}. Başka geçiş yok; paid → pending gibi denemeler burada
// reddedilir, çağıran no-op yapar.
func CanTransitionOrder(from, to string) bool {
	return from == OrderStatusPending && IsTerminalOrderStatus(to)
}

type Order struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	UserID          uint       `json:"user_id" gorm:"not null;index"`
	ProductID       uint       `json:"product_id" gorm:"not null"`
	MerchantOrderID string     `json:"merchant_order_id" gorm:"uniqueIndex;size:64;not null"`
	Amount          int64      `json:"amount" gorm:"not null"`
	Discount        int64      `json:"discount" gorm:"not null;default:0"`
	PromoCode       *string    `json:"promo_code" gorm:"size:50"`
	PromoCodeID     *uint      `json:"promo_code_id"`
	Status          string     `json:"status" gorm:"not null;default:'pending';index"`
	PaidAt          *time.Time `json:"paid_at"`
	ExpiresAt       *time.Time `json:"expires_at"`
	PaymentMethod   string     `json:"payment_method"`
	PaymentURL      string     `json:"payment_url"`
	MidtransToken   string     `json:"midtrans_token"`
	// Gateway callback'inin ham hali, audit için.
	RawCallback []byte    `json:"raw_callback,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Product *Product    `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Items   []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

type OrderItem struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	OrderID   uint `json:"order_id" gorm:"not null;index"`
	PackageID uint `json:"package_id" gorm:"not null"`
	Qty       int  `json:"qty" gorm:"not null;default:1"`
}

type CreateOrderRequest struct {
	ProductID uint    `json:"product_id" validate:"required"`
	PromoCode *string `json:"promo_code" validate:"omitempty,max=50"`
}

// Pay endpoint'inin döndüğü payload, FE countdown için expires_in taşır.
type PaymentLinkResponse struct {
	ID               uint       `json:"id"`
	MerchantOrderID  string     `json:"merchant_order_id"`
	Status           string     `json:"status"`
	Amount           int64      `json:"amount"`
	Discount         int64      `json:"discount"`
	PromoCode        *string    `json:"promo_code"`
	PaymentMethod    string     `json:"payment_method"`
	PaymentURL       string     `json:"payment_url"`
	MidtransToken    string     `json:"midtrans_token"`
	ExpiresAt        *time.Time `json:"expires_at"`
	ExpiresInSeconds *int64     `json:"expires_in_seconds"`
}

func NewPaymentLinkResponse(order *Order, now time.Time) PaymentLinkResponse {
	resp := PaymentLinkResponse{
		ID:              order.ID,
		MerchantOrderID: order.MerchantOrderID,
		Status:          order.Status,
		Amount:          order.Amount,
		Discount:        order.Discount,
		PromoCode:       order.PromoCode,
		PaymentMethod:   order.PaymentMethod,
		PaymentURL:      order.PaymentURL,
		MidtransToken:   order.MidtransToken,
		ExpiresAt:       order.ExpiresAt,
	}
	if order.ExpiresAt != nil {
		secs := int64(order.ExpiresAt.Sub(now).Seconds())
		if secs < 0 {
			secs = 0
		}
		resp.ExpiresInSeconds = &secs
	}
	return resp
}
