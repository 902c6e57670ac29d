package repository

import (
	"errors"

	"github.com/sefazor/examstore-backend/internal/models"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		db: db,
	}
}

// Transaction içinde kullanmak için aynı repo'yu tx handle ile döndürür.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

// Aktif product'ı package ilişkileriyle getirir. Bulunamayan veya
// pasif product ErrProductNotFound döner.
func (r *ProductRepository) GetActiveByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.Where("is_active = ?", true).
		Preload("Package").
		Preload("BundleItems").
		Preload("BundleItems.Package").
		First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Aktiflik filtresi olmadan okuma: grant sırasında product pasife
// çekilmiş olsa bile access_days lazım.
func (r *ProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Package").
		Preload("BundleItems.Package").
		First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) GetAllActive() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("is_active = ?", true).
		Preload("Package").
		Preload("BundleItems.Package").
		Order("id").
		Find(&products).Error
	return products, err
}
