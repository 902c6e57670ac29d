package models

import "time"

// Kullanıcının satın aldığı paket erişimlerini takip etmek için.
// (user_id, package_id, order_id) üzerinden upsert edilir; aynı order
// için tekrar grant çağrısı pencereyi yeniden yazar, satır çoğaltmaz.
type UserPackage struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	UserID        uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_user_package_order"`
	PackageID     uint       `json:"package_id" gorm:"not null;uniqueIndex:idx_user_package_order"`
	OrderID       uint       `json:"order_id" gorm:"not null;uniqueIndex:idx_user_package_order"`
	StartsAt      time.Time  `json:"starts_at" gorm:"not null"`
	EndsAt        *time.Time `json:"ends_at"` // nil = süresiz
	WithAnswerKey bool       `json:"with_answer_key"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Erişim şu an geçerli mi?
func (up *UserPackage) ActiveAt(now time.Time) bool {
	if now.Before(up.StartsAt) {
		return false
	}
	return up.EndsAt == nil || now.Before(*up.EndsAt)
}
