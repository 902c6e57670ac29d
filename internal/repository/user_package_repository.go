package repository

import (
	"github.com/sefazor/examstore-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserPackageRepository struct {
	db *gorm.DB
}

func NewUserPackageRepository(db *gorm.DB) *UserPackageRepository {
	return &UserPackageRepository{
		db: db,
	}
}

func (r *UserPackageRepository) WithTx(tx *gorm.DB) *UserPackageRepository {
	return &UserPackageRepository{db: tx}
}

// (user_id, package_id, order_id) üzerinden upsert. Aynı order için
// tekrar grant, pencereyi günceller; ikinci satır açmaz.
func (r *UserPackageRepository) Upsert(grant *models.UserPackage) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "package_id"},
			{Name: "order_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"starts_at", "ends_at", "with_answer_key", "updated_at"}),
	}).Create(grant).Error
}

func (r *UserPackageRepository) GetByUser(userID uint) ([]models.UserPackage, error) {
	var grants []models.UserPackage
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&grants).Error
	return grants, err
}

func (r *UserPackageRepository) GetByOrder(orderID uint) ([]models.UserPackage, error) {
	var grants []models.UserPackage
	err := r.db.Where("order_id = ?", orderID).Find(&grants).Error
	return grants, err
}
