package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sefazor/examstore-backend/internal/models"
	"github.com/sefazor/examstore-backend/internal/repository"
	"github.com/sefazor/examstore-backend/pkg/utils"
	"gorm.io/gorm"
)

type OrderService struct {
	db              *gorm.DB
	productRepo     *repository.ProductRepository
	orderRepo       *repository.OrderRepository
	promoRepo       *repository.PromoRepository
	userPackageRepo *repository.UserPackageRepository
	promoService    *PromoService
	expireAfter     time.Duration
}

func NewOrderService(
	db *gorm.DB,
	productRepo *repository.ProductRepository,
	orderRepo *repository.OrderRepository,
	promoRepo *repository.PromoRepository,
	userPackageRepo *repository.UserPackageRepository,
	promoService *PromoService,
	expireMinutes int,
) *OrderService {
	if expireMinutes <= 0 {
		expireMinutes = 15
	}
	return &OrderService{
		db:              db,
		productRepo:     productRepo,
		orderRepo:       orderRepo,
		promoRepo:       promoRepo,
		userPackageRepo: userPackageRepo,
		promoService:    promoService,
		expireAfter:     time.Duration(expireMinutes) * time.Minute,
	}
}

// Create tek transaction'da çalışır: catalog okuma, promo kontrolü
// (promo satırı kilitli), order + item + rezervasyon insert'leri.
// Tutar sıfıra düşerse order aynı transaction içinde paid doğar;
// "entitlement'sız pending" ara hali hiç oluşmaz.
func (s *OrderService) Create(userID uint, productID uint, promoCode *string) (*models.Order, error) {
	var orderID uint

	err := s.db.Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.WithTx(tx).GetActiveByID(productID)
		if err != nil {
			return err
		}

		packageIDs, err := resolvePackageIDs(product)
		if err != nil {
			return err
		}

		gross := product.Price
		final, discount := gross, int64(0)
		var promo *models.PromoCode

		if promoCode != nil && strings.TrimSpace(*promoCode) != "" {
			eval, err := s.promoService.EvaluateForReserve(tx, userID, *promoCode, gross, product.ID, packageIDs)
			if err != nil {
				return err
			}
			final, discount, promo = eval.FinalAmount, eval.Discount, eval.Promo
		}

		now := time.Now()
		status := models.OrderStatusPending
		var paidAt, expiresAt *time.Time
		if final == 0 {
			status = models.OrderStatusPaid
			paidAt = &now
		} else {
			exp := now.Add(s.expireAfter)
			expiresAt = &exp
		}

		merchantOrderID, err := s.generateMerchantOrderID(tx)
		if err != nil {
			return err
		}

		order := &models.Order{
			UserID:          userID,
			ProductID:       product.ID,
			MerchantOrderID: merchantOrderID,
			Amount:          final,
			Discount:        discount,
			Status:          status,
			PaidAt:          paidAt,
			ExpiresAt:       expiresAt,
		}
		if promo != nil {
			code := promo.Code
			order.PromoCode = &code
			order.PromoCodeID = &promo.ID
		}

		orders := s.orderRepo.WithTx(tx)
		if err := orders.Create(order); err != nil {
			return err
		}

		if err := orders.CreateItems(buildOrderItems(order.ID, product)); err != nil {
			return err
		}

		// Promo slotunu rezerve et. Kota kontrolü ile bu insert aynı
		// promo kilidinin altında, araya başka alıcı giremez.
		if promo != nil {
			redemption := &models.PromoRedemption{
				PromoCodeID: promo.ID,
				UserID:      userID,
				OrderID:     order.ID,
				Status:      models.RedemptionStatusPending,
			}
			if err := s.promoRepo.WithTx(tx).CreateRedemption(redemption); err != nil {
				return err
			}
		}

		// Bedava order: grant + promo consume hemen, aynı atomik birimde.
		if status == models.OrderStatusPaid {
			if err := s.grantUserPackages(tx, order, product); err != nil {
				return err
			}
			if promo != nil {
				if err := s.consumePromo(tx, promo.ID, order.ID); err != nil {
					return err
				}
			}
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.orderRepo.GetByID(orderID)
}

// PreviewPromo create ile birebir aynı kontrolleri koşar ama hiçbir
// şey yazmaz. Sonraki gerçek create ile yarışabilir; kabul edilmiş
// bir yarış, rezervasyon ancak create'te yapılır.
func (s *OrderService) PreviewPromo(userID uint, productID uint, promoCode string) (*models.PromoPreview, error) {
	product, err := s.productRepo.GetActiveByID(productID)
	if err != nil {
		return nil, err
	}

	packageIDs, err := resolvePackageIDs(product)
	if err != nil {
		return nil, err
	}

	eval, err := s.promoService.Evaluate(userID, promoCode, product.Price, product.ID, packageIDs)
	if err != nil {
		return nil, err
	}

	return &models.PromoPreview{
		Promo: models.PromoPreviewCode{
			ID:    eval.Promo.ID,
			Code:  eval.Promo.Code,
			Type:  eval.Promo.Type,
			Value: eval.Promo.Value,
		},
		Product: models.PromoPreviewProduct{
			ID:    product.ID,
			Name:  product.Name,
			Type:  product.Type,
			Price: product.Price,
		},
		Gross:       product.Price,
		Discount:    eval.Discount,
		FinalAmount: eval.FinalAmount,
	}, nil
}

// MarkPaid idempotenttir: webhook tekrar gelirse veya admin ile webhook
// yarışırsa, kilidi ikinci alan pending olmayan statüyü görüp no-op yapar.
func (s *OrderService) MarkPaid(orderID uint) (*models.Order, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orders := s.orderRepo.WithTx(tx)

		order, err := orders.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if !models.CanTransitionOrder(order.Status, models.OrderStatusPaid) {
			return nil
		}

		now := time.Now()
		order.Status = models.OrderStatusPaid
		order.PaidAt = &now
		if err := orders.Update(order); err != nil {
			return err
		}

		product, err := s.productRepo.WithTx(tx).GetByID(order.ProductID)
		if err != nil {
			return err
		}

		if err := s.grantUserPackages(tx, order, product); err != nil {
			return err
		}

		if order.PromoCodeID != nil {
			if err := s.consumePromo(tx, *order.PromoCodeID, order.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.orderRepo.GetByID(orderID)
}

func (s *OrderService) MarkExpired(orderID uint, payload []byte) (*models.Order, error) {
	return s.closePending(orderID, models.OrderStatusExpired, payload)
}

func (s *OrderService) MarkCancelled(orderID uint) (*models.Order, error) {
	return s.closePending(orderID, models.OrderStatusCancelled, nil)
}

func (s *OrderService) MarkFailed(orderID uint, payload []byte) (*models.Order, error) {
	return s.closePending(orderID, models.OrderStatusFailed, payload)
}

// Pending'den ödeme olmadan çıkış: expired/cancelled/failed hepsi aynı
// şekil. Kilitle, pending değilse no-op, terminal statüyü yaz,
// rezervasyonu void'le (kota slotu havuza döner, used_count değişmez).
func (s *OrderService) closePending(orderID uint, target string, payload []byte) (*models.Order, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orders := s.orderRepo.WithTx(tx)

		order, err := orders.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if !models.CanTransitionOrder(order.Status, target) {
			return nil
		}

		order.Status = target
		if payload != nil {
			order.RawCallback = payload
		}
		if err := orders.Update(order); err != nil {
			return err
		}

		return s.voidPromoIfAny(tx, order)
	})
	if err != nil {
		return nil, err
	}

	return s.orderRepo.GetByID(orderID)
}

// Süresi dolmuş pending order mı? Sweeper ve pay guard'ı kullanır.
func (s *OrderService) ShouldExpire(order *models.Order) bool {
	return order.Status == models.OrderStatusPending &&
		order.ExpiresAt != nil &&
		time.Now().After(*order.ExpiresAt)
}

// ExpirePastDue deadline'ı geçmiş pending order'ları teker teker
// expire eder. Her order kendi transaction'ında işlenir; canlı bir
// payment callback ile yarışırsa order kilidi kazananı belirler.
func (s *OrderService) ExpirePastDue() (int, error) {
	ids, err := s.orderRepo.GetExpiredPendingIDs(time.Now())
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, id := range ids {
		if _, err := s.MarkExpired(id, nil); err != nil {
			return expired, err
		}
		expired++
	}
	return expired, nil
}

func (s *OrderService) GetOrderForUser(userID, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, models.ErrNotOrderOwner
	}
	return order, nil
}

func (s *OrderService) GetUserOrders(userID uint) ([]models.Order, error) {
	return s.orderRepo.GetByUser(userID)
}

func (s *OrderService) GetAllOrders(status string) ([]models.Order, error) {
	return s.orderRepo.GetAll(status)
}

// Entitlement grant: order'ın her item'ı için (user, package, order)
// anahtarıyla upsert. markPaid tekrarlanırsa pencere yeniden yazılır,
// satır çoğalmaz.
func (s *OrderService) grantUserPackages(tx *gorm.DB, order *models.Order, product *models.Product) error {
	items, err := s.orderRepo.WithTx(tx).GetItems(order.ID)
	if err != nil {
		return err
	}

	now := time.Now()
	var endsAt *time.Time
	if product.AccessDays > 0 {
		e := now.AddDate(0, 0, product.AccessDays)
		endsAt = &e
	}

	grants := s.userPackageRepo.WithTx(tx)
	for _, item := range items {
		grant := &models.UserPackage{
			UserID:        order.UserID,
			PackageID:     item.PackageID,
			OrderID:       order.ID,
			StartsAt:      now,
			EndsAt:        endsAt,
			WithAnswerKey: product.WithAnswerKey,
		}
		if err := grants.Upsert(grant); err != nil {
			return err
		}
	}
	return nil
}

// Ledger consume: promo + redemption satırları kilitli. Redemption
// pending değilse no-op. used_count kotayı aşacaksa (rezervasyon
// sayımı bir şekilde atlanmışsa) slot yakılmaz, void'lenir.
func (s *OrderService) consumePromo(tx *gorm.DB, promoCodeID, orderID uint) error {
	repo := s.promoRepo.WithTx(tx)

	promo, err := repo.GetByIDForUpdate(promoCodeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	redemption, err := repo.GetRedemptionByOrderForUpdate(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if redemption.Status != models.RedemptionStatusPending {
		return nil
	}

	if promo.MaxUses != nil && promo.UsedCount >= *promo.MaxUses {
		return repo.UpdateRedemptionStatus(redemption.ID, models.RedemptionStatusVoid)
	}

	if err := repo.UpdateRedemptionStatus(redemption.ID, models.RedemptionStatusUsed); err != nil {
		return err
	}
	return repo.IncrementUsedCount(promo.ID)
}

func (s *OrderService) voidPromoIfAny(tx *gorm.DB, order *models.Order) error {
	if order.PromoCodeID == nil {
		return nil
	}

	repo := s.promoRepo.WithTx(tx)
	redemption, err := repo.GetRedemptionByOrderForUpdate(order.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if redemption.Status != models.RedemptionStatusPending {
		return nil
	}
	return repo.UpdateRedemptionStatus(redemption.ID, models.RedemptionStatusVoid)
}

func (s *OrderService) generateMerchantOrderID(tx *gorm.DB) (string, error) {
	orders := s.orderRepo.WithTx(tx)
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("ORD-%s-%s",
			time.Now().UTC().Format("20060102150405"),
			strings.ToUpper(utils.GenerateRandomString(6)))

		exists, err := orders.MerchantOrderIDExists(id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", errors.New("could not generate a unique merchant order id")
}

func resolvePackageIDs(product *models.Product) ([]uint, error) {
	ids := product.PackageIDs()
	if len(ids) == 0 {
		return nil, models.ErrMisconfiguredProduct
	}
	return ids, nil
}

func buildOrderItems(orderID uint, product *models.Product) []models.OrderItem {
	if product.Type == models.ProductTypeSingle {
		return []models.OrderItem{{
			OrderID:   orderID,
			PackageID: *product.PackageID,
			Qty:       1,
		}}
	}

	items := make([]models.OrderItem, 0, len(product.BundleItems))
	for _, bi := range product.BundleItems {
		qty := bi.Qty
		if qty <= 0 {
			qty = 1
		}
		items = append(items, models.OrderItem{
			OrderID:   orderID,
			PackageID: bi.PackageID,
			Qty:       qty,
		})
	}
	return items
}
