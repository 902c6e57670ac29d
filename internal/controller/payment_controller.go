package controller

import (
	"github.com/sefazor/examstore-backend/internal/models"
	"github.com/sefazor/examstore-backend/internal/service"
)

type PaymentController struct {
	paymentService *service.PaymentService
}

func NewPaymentController(paymentService *service.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

func (c *PaymentController) Pay(userID, orderID uint) (*models.PaymentLinkResponse, error) {
	return c.paymentService.Pay(userID, orderID)
}

func (c *PaymentController) HandleMidtransCallback(payload map[string]interface{}) error {
	return c.paymentService.HandleCallback(payload)
}

func (c *PaymentController) AdminMarkPaid(orderID uint) (*models.Order, error) {
	return c.paymentService.AdminMarkPaid(orderID)
}

func (c *PaymentController) AdminCancelOrder(orderID uint) (*models.Order, error) {
	return c.paymentService.AdminCancel(orderID)
}
