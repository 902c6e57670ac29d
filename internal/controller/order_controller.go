package controller

import (
	"github.com/sefazor/examstore-backend/internal/models"
	"github.com/sefazor/examstore-backend/internal/service"
)

type OrderController struct {
	orderService *service.OrderService
}

func NewOrderController(orderService *service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

func (c *OrderController) CreateOrder(userID uint, req models.CreateOrderRequest) (*models.Order, error) {
	return c.orderService.Create(userID, req.ProductID, req.PromoCode)
}

func (c *OrderController) GetOrder(userID, orderID uint) (*models.Order, error) {
	return c.orderService.GetOrderForUser(userID, orderID)
}

func (c *OrderController) GetUserOrders(userID uint) ([]models.Order, error) {
	return c.orderService.GetUserOrders(userID)
}

func (c *OrderController) GetAllOrders(status string) ([]models.Order, error) {
	return c.orderService.GetAllOrders(status)
}
