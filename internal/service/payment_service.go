package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sefazor/examstore-backend/internal/models"
	"github.com/sefazor/examstore-backend/internal/repository"
	"github.com/sefazor/examstore-backend/pkg/email"
	"github.com/sefazor/examstore-backend/pkg/payment"
	"go.uber.org/zap"
)

// Gateway'den beklediğimiz kontrat bu kadar: session yarat, session
// iptal et, imza doğrula. Somut implementasyon pkg/payment'taki
// Midtrans client'ı.
type PaymentGateway interface {
	CreateTransaction(order *models.Order, user *models.User) (*payment.Session, error)
	CancelTransaction(merchantOrderID string) error
	VerifySignature(orderID, statusCode, grossAmount, signatureKey string) bool
}

type PaymentService struct {
	gateway      PaymentGateway
	orderService *OrderService
	orderRepo    *repository.OrderRepository
	userRepo     *repository.UserRepository
	emailService *email.EmailService
	logger       *zap.Logger
}

func NewPaymentService(
	gateway PaymentGateway,
	orderService *OrderService,
	orderRepo *repository.OrderRepository,
	userRepo *repository.UserRepository,
	emailService *email.EmailService,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		gateway:      gateway,
		orderService: orderService,
		orderRepo:    orderRepo,
		userRepo:     userRepo,
		emailService: emailService,
		logger:       logger,
	}
}

// Pay pending order için ödeme linki üretir. Link zaten varsa onu
// döner (çifte transaction yaratmamak için). Gateway hatası order'a
// dokunmaz; order ancak başarılı session cevabından sonra güncellenir.
func (s *PaymentService) Pay(userID, orderID uint) (*models.PaymentLinkResponse, error) {
	order, err := s.orderService.GetOrderForUser(userID, orderID)
	if err != nil {
		return nil, err
	}

	if models.IsTerminalOrderStatus(order.Status) {
		return nil, models.ErrOrderNotPending
	}

	// Süresi geçmişse link yaratmadan expire et.
	if s.orderService.ShouldExpire(order) {
		if _, err := s.orderService.MarkExpired(order.ID, nil); err != nil {
			return nil, err
		}
		return nil, models.ErrOrderExpired
	}

	// idempotent: link varsa aynısını dön
	if order.PaymentURL != "" {
		resp := models.NewPaymentLinkResponse(order, time.Now())
		return &resp, nil
	}

	user, err := s.userRepo.GetByID(order.UserID)
	if err != nil {
		return nil, err
	}

	session, err := s.gateway.CreateTransaction(order, user)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrPaymentLinkFailed, err)
	}

	if err := s.orderRepo.UpdatePaymentInfo(order.ID, "midtrans", session.RedirectURL, session.Token); err != nil {
		return nil, err
	}

	order, err = s.orderRepo.GetByID(order.ID)
	if err != nil {
		return nil, err
	}

	resp := models.NewPaymentLinkResponse(order, time.Now())
	return &resp, nil
}

// AdminMarkPaid manuel ödeme onayı (örn. banka transferi). Açık Snap
// session'ı varsa önce gateway tarafında iptal edilir; müşteri eski
// linkten bir daha ödeyemez.
func (s *PaymentService) AdminMarkPaid(orderID uint) (*models.Order, error) {
	s.cancelGatewaySession(orderID)
	return s.orderService.MarkPaid(orderID)
}

func (s *PaymentService) AdminCancel(orderID uint) (*models.Order, error) {
	s.cancelGatewaySession(orderID)
	return s.orderService.MarkCancelled(orderID)
}

// Best-effort: gateway iptali başarısız olsa da order geçişi durmaz,
// geç gelen settlement callback'i zaten no-op.
func (s *PaymentService) cancelGatewaySession(orderID uint) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return
	}
	if order.Status != models.OrderStatusPending || order.PaymentURL == "" {
		return
	}
	if err := s.gateway.CancelTransaction(order.MerchantOrderID); err != nil {
		s.logger.Warn("gateway transaction cancel failed",
			zap.String("merchant_order_id", order.MerchantOrderID),
			zap.Error(err))
	}
}

// HandleCallback Midtrans notification'ını order geçişine çevirir.
// Aynı notification'ın tekrar gelmesi güvenlidir; geçişler zaten
// order kilidi altında idempotent.
func (s *PaymentService) HandleCallback(payload map[string]interface{}) error {
	merchantOrderID := payloadString(payload, "order_id")
	if merchantOrderID == "" {
		return models.ErrOrderNotFound
	}

	if !s.gateway.VerifySignature(
		merchantOrderID,
		payloadString(payload, "status_code"),
		payloadString(payload, "gross_amount"),
		payloadString(payload, "signature_key"),
	) {
		return models.ErrInvalidSignature
	}

	order, err := s.orderRepo.GetByMerchantOrderID(merchantOrderID)
	if err != nil {
		return err
	}

	// Ham payload audit için her durumda saklanır.
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := s.orderRepo.StoreRawCallback(order.ID, raw); err != nil {
		return err
	}

	txStatus := payloadString(payload, "transaction_status")
	fraudStatus := payloadString(payload, "fraud_status")

	switch txStatus {
	case "capture":
		// kredi kartı: fraud accept değilse bekle, kesin callback gelecek
		if fraudStatus == "accept" {
			return s.settle(order)
		}
	case "settlement":
		return s.settle(order)
	case "expire":
		_, err := s.orderService.MarkExpired(order.ID, raw)
		return err
	case "cancel", "deny":
		_, err := s.orderService.MarkExpired(order.ID, raw)
		return err
	default:
		s.logger.Info("unhandled midtrans transaction status",
			zap.String("merchant_order_id", merchantOrderID),
			zap.String("transaction_status", txStatus))
	}

	return nil
}

func (s *PaymentService) settle(order *models.Order) error {
	paid, err := s.orderService.MarkPaid(order.ID)
	if err != nil {
		return err
	}

	// Makbuz maili best-effort, ödeme akışını bloklamaz.
	if s.emailService != nil {
		go s.sendReceipt(paid)
	}
	return nil
}

func (s *PaymentService) sendReceipt(order *models.Order) {
	user, err := s.userRepo.GetByID(order.UserID)
	if err != nil {
		s.logger.Warn("receipt email skipped, user lookup failed",
			zap.Uint("order_id", order.ID), zap.Error(err))
		return
	}
	if err := s.emailService.SendPaymentReceipt(user.Email, user.FullName, order); err != nil {
		s.logger.Warn("receipt email failed",
			zap.Uint("order_id", order.ID), zap.Error(err))
	}
}

func payloadString(payload map[string]interface{}, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}
