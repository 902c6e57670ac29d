package repository

import (
	"errors"
	"time"

	"github.com/sefazor/examstore-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{
		db: db,
	}
}

func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

func (r *OrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *OrderRepository) CreateItems(items []models.OrderItem) error {
	return r.db.Create(&items).Error
}

func (r *OrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Product").Preload("Items").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Statü geçişleri için exclusive kilitli okuma. İlişkiler ayrıca
// yüklenir; kilit sade order satırında kalır.
func (r *OrderRepository) GetByIDForUpdate(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) GetByMerchantOrderID(merchantOrderID string) (*models.Order, error) {
	var order models.Order
	err := r.db.Where("merchant_order_id = ?", merchantOrderID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) MerchantOrderIDExists(merchantOrderID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Order{}).
		Where("merchant_order_id = ?", merchantOrderID).
		Count(&count).Error
	return count > 0, err
}

func (r *OrderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

func (r *OrderRepository) UpdatePaymentInfo(id uint, method, url, token string) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"payment_method": method,
		"payment_url":    url,
		"midtrans_token": token,
	}).Error
}

func (r *OrderRepository) StoreRawCallback(id uint, payload []byte) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).
		Update("raw_callback", payload).Error
}

func (r *OrderRepository) GetItems(orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.Where("order_id = ?", orderID).Find(&items).Error
	return items, err
}

// Sweeper'ın tarayacağı, süresi geçmiş pending order id'leri.
func (r *OrderRepository) GetExpiredPendingIDs(now time.Time) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusPending).
		Where("expires_at IS NOT NULL").
		Where("expires_at <= ?", now).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *OrderRepository) GetByUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("user_id = ?", userID).
		Preload("Product").
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// Admin listesi, opsiyonel statü filtresiyle.
func (r *OrderRepository) GetAll(status string) ([]models.Order, error) {
	q := r.db.Preload("Product").Preload("Items").Order("id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var orders []models.Order
	err := q.Find(&orders).Error
	return orders, err
}
