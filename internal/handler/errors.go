package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/examstore-backend/internal/models"
)

// İş hatalarını HTTP cevabına çevirir. Promo hataları alan bazlı
// döner ki FE mesajı promo_code input'unun altına basabilsin.
func errorJSON(c *fiber.Ctx, err error) error {
	if promoErr, ok := models.AsPromoError(err); ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"error":   promoErr.Message,
			"errors": fiber.Map{
				"promo_code": []string{promoErr.Message},
			},
			"code": string(promoErr.Kind),
		})
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrOrderNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, models.ErrNotOrderOwner),
		errors.Is(err, models.ErrInvalidSignature):
		status = fiber.StatusForbidden
	case errors.Is(err, models.ErrMisconfiguredProduct),
		errors.Is(err, models.ErrOrderNotPending),
		errors.Is(err, models.ErrOrderExpired):
		status = fiber.StatusUnprocessableEntity
	}

	return c.Status(status).JSON(models.ErrorResponse(err.Error()))
}

// Locals'tan userID'yi güvenli al.
func currentUserID(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("userID").(uint)
	return userID, ok
}
