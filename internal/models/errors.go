package models

import "errors"

// İş kuralı hataları. Handler katmanı bunları HTTP koduna çevirir,
// retry edilmezler; kullanıcı input'u değiştirerek kurtarır.
var (
	ErrProductNotFound      = errors.New("product not found or not active")
	ErrMisconfiguredProduct = errors.New("product has no package mapping")
	ErrOrderNotFound        = errors.New("order not found")
	ErrNotOrderOwner        = errors.New("order belongs to another user")
	ErrOrderNotPending      = errors.New("order has already been processed")
	ErrOrderExpired         = errors.New("order has expired, create a new one")
	ErrInvalidSignature     = errors.New("invalid callback signature")
	ErrPaymentLinkFailed    = errors.New("failed to create payment link")
)

// Promo değerlendirmesinin kısa devre sebepleri. Mesaj policy'dir,
// kod (kind) kontrattır.
type PromoErrorKind string

const (
	PromoInvalidCode          PromoErrorKind = "invalid_code"
	PromoNotStarted           PromoErrorKind = "not_started"
	PromoExpired              PromoErrorKind = "expired"
	PromoMinPurchaseNotMet    PromoErrorKind = "min_purchase_not_met"
	PromoNotAssigned          PromoErrorKind = "not_assigned"
	PromoNotEligibleForTarget PromoErrorKind = "not_eligible_for_target"
	PromoAlreadyUsed          PromoErrorKind = "already_used"
	PromoQuotaExhausted       PromoErrorKind = "quota_exhausted"
)

type PromoError struct {
	Kind    PromoErrorKind
	Message string
}

func (e *PromoError) Error() string {
	return e.Message
}

func NewPromoError(kind PromoErrorKind, message string) *PromoError {
	return &PromoError{Kind: kind, Message: message}
}

// errors.As kısayolu.
func AsPromoError(err error) (*PromoError, bool) {
	var pe *PromoError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
