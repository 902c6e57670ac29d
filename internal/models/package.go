package models

import "time"

// Package: kullanıcının erişim satın aldığı soru bankası paketi.
type Package struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"` // default tag yok, false yazılabilmeli
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
