package service

import (
	"errors"
	"strings"
	"time"

	"github.com/sefazor/examstore-backend/internal/models"
	"github.com/sefazor/examstore-backend/internal/repository"
	"gorm.io/gorm"
)

type PromoService struct {
	promoRepo *repository.PromoRepository
}

func NewPromoService(promoRepo *repository.PromoRepository) *PromoService {
	return &PromoService{
		promoRepo: promoRepo,
	}
}

// Değerlendirme sonucu. Promo nil ise kod verilmemiştir, gross aynen döner.
type PromoEvaluation struct {
	FinalAmount int64
	Discount    int64
	Promo       *models.PromoCode
}

func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Evaluate preview yolu: kilitsiz, point-in-time okuma. Rezervasyon
// yapmaz; create ile yarışabilir, bu kabul edilen bir davranış.
func (s *PromoService) Evaluate(userID uint, code string, gross int64, productID uint, packageIDs []uint) (*PromoEvaluation, error) {
	promo, err := s.promoRepo.GetByCode(NormalizePromoCode(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewPromoError(models.PromoInvalidCode, "promo code is not valid")
		}
		return nil, err
	}
	return s.check(s.promoRepo, promo, userID, gross, productID, packageIDs)
}

// EvaluateForReserve order creation yolu: promo satırı çağıranın
// transaction'ında FOR UPDATE kilitlenir, kota sayımı ile rezervasyon
// insert'i aynı kilidin altında serileşir.
func (s *PromoService) EvaluateForReserve(tx *gorm.DB, userID uint, code string, gross int64, productID uint, packageIDs []uint) (*PromoEvaluation, error) {
	repo := s.promoRepo.WithTx(tx)

	promo, err := repo.GetByCodeForUpdate(NormalizePromoCode(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewPromoError(models.PromoInvalidCode, "promo code is not valid")
		}
		return nil, err
	}
	return s.check(repo, promo, userID, gross, productID, packageIDs)
}

// Kontrollerin sırası sabit, her biri kendi sebebiyle kısa devre yapar.
func (s *PromoService) check(repo *repository.PromoRepository, promo *models.PromoCode, userID uint, gross int64, productID uint, packageIDs []uint) (*PromoEvaluation, error) {
	if !promo.IsActive {
		return nil, models.NewPromoError(models.PromoInvalidCode, "promo code is not valid")
	}

	now := time.Now()
	if promo.StartsAt != nil && now.Before(*promo.StartsAt) {
		return nil, models.NewPromoError(models.PromoNotStarted, "promo has not started yet")
	}
	if promo.EndsAt != nil && now.After(*promo.EndsAt) {
		return nil, models.NewPromoError(models.PromoExpired, "promo has ended")
	}

	if promo.MinPurchase > 0 && gross < promo.MinPurchase {
		return nil, models.NewPromoError(models.PromoMinPurchaseNotMet, "minimum purchase amount not met")
	}

	// Hedefsiz promo config hatasıdır, hiçbir ürüne uygulanmaz.
	hasProductLinks, err := repo.HasProductLinks(promo.ID)
	if err != nil {
		return nil, err
	}
	hasPackageLinks, err := repo.HasPackageLinks(promo.ID)
	if err != nil {
		return nil, err
	}
	if !hasProductLinks && !hasPackageLinks {
		return nil, models.NewPromoError(models.PromoNotAssigned, "promo is not assigned to any product or package")
	}

	// Product eşlemesi öncelikli: product linki olan promo'da package
	// linkleri dikkate alınmaz. Package fallback'i sadece hiç product
	// linki yokken devreye girer.
	eligible := false
	if hasProductLinks {
		eligible, err = repo.IsLinkedToProduct(promo.ID, productID)
		if err != nil {
			return nil, err
		}
	} else {
		eligible, err = repo.IsLinkedToAnyPackage(promo.ID, packageIDs)
		if err != nil {
			return nil, err
		}
	}
	if !eligible {
		return nil, models.NewPromoError(models.PromoNotEligibleForTarget, "promo does not apply to this product or package")
	}

	// Kullanıcı başına bir hak: pending veya used varken tekrar yok.
	already, err := repo.HasLiveRedemption(promo.ID, userID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, models.NewPromoError(models.PromoAlreadyUsed, "promo code already used")
	}

	// Kota: tamamlanmışlar + uçuştaki rezervasyonlar birlikte sayılır,
	// pending order'lar varken oversell olmaz.
	if promo.MaxUses != nil {
		pending, err := repo.CountPendingRedemptions(promo.ID)
		if err != nil {
			return nil, err
		}
		if int64(promo.UsedCount)+pending >= int64(*promo.MaxUses) {
			return nil, models.NewPromoError(models.PromoQuotaExhausted, "promo quota exhausted")
		}
	}

	discount := promo.DiscountFor(gross)

	return &PromoEvaluation{
		FinalAmount: gross - discount,
		Discount:    discount,
		Promo:       promo,
	}, nil
}
