package handler

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/examstore-backend/internal/controller"
	"github.com/sefazor/examstore-backend/internal/models"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	paymentController *controller.PaymentController
	logger            *zap.Logger
}

func NewPaymentHandler(paymentController *controller.PaymentController, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentController: paymentController,
		logger:            logger,
	}
}

// Midtrans notification endpoint'i. Aynı notification birden fazla
// kez gelebilir; işleme tarafı idempotent olduğu için her seferinde
// 200 dönmek güvenli.
func (h *PaymentHandler) HandleMidtransCallback(c *fiber.Ctx) error {
	var payload map[string]interface{}
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid callback body"))
	}

	if err := h.paymentController.HandleMidtransCallback(payload); err != nil {
		if errors.Is(err, models.ErrInvalidSignature) {
			h.logger.Warn("midtrans callback rejected", zap.Error(err))
			return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("Invalid signature"))
		}
		if errors.Is(err, models.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Order not found"))
		}
		h.logger.Error("midtrans callback failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(fiber.Map{"success": true})
}
