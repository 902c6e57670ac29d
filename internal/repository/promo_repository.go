package repository

import (
	"github.com/sefazor/examstore-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PromoRepository struct {
	db *gorm.DB
}

func NewPromoRepository(db *gorm.DB) *PromoRepository {
	return &PromoRepository{
		db: db,
	}
}

func (r *PromoRepository) WithTx(tx *gorm.DB) *PromoRepository {
	return &PromoRepository{db: tx}
}

func (r *PromoRepository) GetByCode(code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	err := r.db.Where("code = ?", code).First(&promo).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

// Rezervasyon yolu: kota sayımı ile insert aynı kilit altında
// serileşsin diye promo satırı FOR UPDATE okunur.
func (r *PromoRepository) GetByCodeForUpdate(code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ?", code).First(&promo).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

func (r *PromoRepository) GetByIDForUpdate(id uint) (*models.PromoCode, error) {
	var promo models.PromoCode
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&promo, id).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

func (r *PromoRepository) HasProductLinks(promoCodeID uint) (bool, error) {
	var count int64
	err := r.db.Table("promo_code_products").
		Where("promo_code_id = ?", promoCodeID).
		Count(&count).Error
	return count > 0, err
}

func (r *PromoRepository) HasPackageLinks(promoCodeID uint) (bool, error) {
	var count int64
	err := r.db.Table("promo_code_packages").
		Where("promo_code_id = ?", promoCodeID).
		Count(&count).Error
	return count > 0, err
}

func (r *PromoRepository) IsLinkedToProduct(promoCodeID, productID uint) (bool, error) {
	var count int64
	err := r.db.Table("promo_code_products").
		Where("promo_code_id = ? AND product_id = ?", promoCodeID, productID).
		Count(&count).Error
	return count > 0, err
}

func (r *PromoRepository) IsLinkedToAnyPackage(promoCodeID uint, packageIDs []uint) (bool, error) {
	if len(packageIDs) == 0 {
		return false, nil
	}
	var count int64
	err := r.db.Table("promo_code_packages").
		Where("promo_code_id = ? AND package_id IN ?", promoCodeID, packageIDs).
		Count(&count).Error
	return count > 0, err
}

// pending veya used: kullanıcı bu promo'yu zaten tutuyor demektir.
// void'ler tekrar kullanım hakkını geri verir.
func (r *PromoRepository) HasLiveRedemption(promoCodeID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.PromoRedemption{}).
		Where("promo_code_id = ? AND user_id = ?", promoCodeID, userID).
		Where("status IN ?", []string{models.RedemptionStatusPending, models.RedemptionStatusUsed}).
		Count(&count).Error
	return count > 0, err
}

// Kota hesabına giren, henüz sonuçlanmamış rezervasyonlar.
func (r *PromoRepository) CountPendingRedemptions(promoCodeID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.PromoRedemption{}).
		Where("promo_code_id = ? AND status = ?", promoCodeID, models.RedemptionStatusPending).
		Count(&count).Error
	return count, err
}

func (r *PromoRepository) CreateRedemption(redemption *models.PromoRedemption) error {
	return r.db.Create(redemption).Error
}

func (r *PromoRepository) GetRedemptionByOrderForUpdate(orderID uint) (*models.PromoRedemption, error) {
	var redemption models.PromoRedemption
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_id = ?", orderID).First(&redemption).Error
	if err != nil {
		return nil, err
	}
	return &redemption, nil
}

func (r *PromoRepository) UpdateRedemptionStatus(id uint, status string) error {
	return r.db.Model(&models.PromoRedemption{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// used_count tek tek artar; kayıp update olmasın diye SQL tarafında.
func (r *PromoRepository) IncrementUsedCount(promoCodeID uint) error {
	return r.db.Model(&models.PromoCode{}).
		Where("id = ?", promoCodeID).
		UpdateColumn("used_count", gorm.Expr("used_count + ?", 1)).Error
}
