package controller

import (
	"github.com/sefazor/examstore-backend/internal/models"
	"github.com/sefazor/examstore-backend/internal/service"
)

type PromoController struct {
	orderService *service.OrderService
}

func NewPromoController(orderService *service.OrderService) *PromoController {
	return &PromoController{
		orderService: orderService,
	}
}

func (c *PromoController) ValidatePromo(userID uint, req models.ValidatePromoRequest) (*models.PromoPreview, error) {
	return c.orderService.PreviewPromo(userID, req.ProductID, req.PromoCode)
}
