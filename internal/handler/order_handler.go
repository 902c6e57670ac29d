package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/examstore-backend/internal/controller"
	"github.com/sefazor/examstore-backend/internal/models"
	"github.com/sefazor/examstore-backend/pkg/utils"
)

type OrderHandler struct {
	orderController   *controller.OrderController
	paymentController *controller.PaymentController
	validator         *utils.Validator
}

func NewOrderHandler(orderController *controller.OrderController, paymentController *controller.PaymentController, validator *utils.Validator) *OrderHandler {
	return &OrderHandler{
		orderController:   orderController,
		paymentController: paymentController,
		validator:         validator,
	}
}

func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	var req models.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	order, err := h.orderController.CreateOrder(userID, req)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(order, "Order created").WithServerNow())
}

func (h *OrderHandler) GetMyOrders(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	orders, err := h.orderController.GetUserOrders(userID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(models.SuccessResponse(orders, ""))
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	orderID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid order ID"))
	}

	order, err := h.orderController.GetOrder(userID, uint(orderID))
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(models.SuccessResponse(order, "").WithServerNow())
}

// Ödeme linki üretir veya mevcut linki döner.
func (h *OrderHandler) PayOrder(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	orderID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid order ID"))
	}

	link, err := h.paymentController.Pay(userID, uint(orderID))
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(models.SuccessResponse(link, "").WithServerNow())
}

func (h *OrderHandler) AdminListOrders(c *fiber.Ctx) error {
	orders, err := h.orderController.GetAllOrders(c.Query("status"))
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(models.SuccessResponse(orders, ""))
}

// Manuel ödeme onayı (örn. banka transferi). Açık ödeme linki önce
// gateway'de iptal edilir; webhook ile yarışırsa sorun yok, geçiş
// idempotent.
func (h *OrderHandler) AdminMarkPaid(c *fiber.Ctx) error {
	orderID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid order ID"))
	}

	order, err := h.paymentController.AdminMarkPaid(uint(orderID))
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(models.SuccessResponse(order, "Order marked as paid"))
}

func (h *OrderHandler) AdminCancelOrder(c *fiber.Ctx) error {
	orderID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid order ID"))
	}

	order, err := h.paymentController.AdminCancelOrder(uint(orderID))
	if err != nil {
		return errorJSON(c, err)
	}

	// Geçiş no-op olduysa order zaten terminal bir statüdeydi.
	if order.Status != models.OrderStatusCancelled {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(models.ErrorResponse("Only pending orders can be cancelled"))
	}

	return c.JSON(models.SuccessResponse(order, "Order cancelled"))
}
