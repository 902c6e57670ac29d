package payment

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/sefazor/examstore-backend/internal/models"
)

// Snap transaction'dan dönen link bilgisi.
type Session struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type MidtransService struct {
	serverKey string
	client    snap.Client
	core      coreapi.Client
}

func NewMidtransService(serverKey string, isProduction bool) *MidtransService {
	env := midtrans.Sandbox
	if isProduction {
		env = midtrans.Production
	}

	var client snap.Client
	client.New(serverKey, env)

	var core coreapi.Client
	core.New(serverKey, env)

	return &MidtransService{
		serverKey: serverKey,
		client:    client,
		core:      core,
	}
}

// CreateTransaction order için Snap session açar. Snap'in kendi süresi
// order'ın expires_at'ine hizalanır; link order'dan uzun yaşamaz.
func (s *MidtransService) CreateTransaction(order *models.Order, user *models.User) (*Session, error) {
	durationMinutes := int64(15)
	if order.ExpiresAt != nil {
		mins := int64(time.Until(*order.ExpiresAt).Minutes())
		if mins < 1 {
			mins = 1
		}
		durationMinutes = mins
	}

	itemName := "Order " + order.MerchantOrderID
	if order.Product != nil {
		itemName = order.Product.Name
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.MerchantOrderID,
			GrossAmt: order.Amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: user.FullName,
			Email: user.Email,
			Phone: user.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    order.MerchantOrderID,
				Price: order.Amount,
				Qty:   1,
				Name:  itemName,
			},
		},
		Expiry: &snap.ExpiryDetails{
			StartTime: time.Now().Format("2006-01-02 15:04:05 -0700"),
			Unit:      "minutes",
			Duration:  durationMinutes,
		},
	}

	resp, midErr := s.client.CreateTransaction(req)
	if midErr != nil {
		return nil, midErr
	}

	return &Session{
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
	}, nil
}

// CancelTransaction açık Snap session'ını gateway tarafında iptal
// eder. Manuel mark-paid/cancel sonrası müşteri eski linkten ödeme
// yapamasın diye çağrılır.
func (s *MidtransService) CancelTransaction(merchantOrderID string) error {
	_, midErr := s.core.CancelTransaction(merchantOrderID)
	if midErr != nil {
		return midErr
	}
	return nil
}

// VerifySignature Midtrans notification imzasını doğrular:
// sha512(order_id + status_code + gross_amount + server_key).
func (s *MidtransService) VerifySignature(orderID, statusCode, grossAmount, signatureKey string) bool {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + s.serverKey))
	computed := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(computed), []byte(signatureKey)) == 1
}
