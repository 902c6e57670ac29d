package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/examstore-backend/internal/controller"
	"github.com/sefazor/examstore-backend/internal/models"
	"github.com/sefazor/examstore-backend/pkg/utils"
)

type PromoHandler struct {
	promoController *controller.PromoController
	validator       *utils.Validator
}

func NewPromoHandler(promoController *controller.PromoController, validator *utils.Validator) *PromoHandler {
	return &PromoHandler{
		promoController: promoController,
		validator:       validator,
	}
}

// Checkout ekranındaki "kodu uygula" önizlemesi. Rezervasyon yapmaz;
// create order ile aynı kontrolleri koşar, FE aynı mesajı görür.
func (h *PromoHandler) ValidatePromo(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	var req models.ValidatePromoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	preview, err := h.promoController.ValidatePromo(userID, req)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(models.SuccessResponse(preview, ""))
}
