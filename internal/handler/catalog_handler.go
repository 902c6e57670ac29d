package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/examstore-backend/internal/controller"
	"github.com/sefazor/examstore-backend/internal/models"
)

type CatalogHandler struct {
	catalogController *controller.CatalogController
}

func NewCatalogHandler(catalogController *controller.CatalogController) *CatalogHandler {
	return &CatalogHandler{
		catalogController: catalogController,
	}
}

func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.catalogController.GetProducts()
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(models.SuccessResponse(products, ""))
}

func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	productID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid product ID"))
	}

	product, err := h.catalogController.GetProduct(uint(productID))
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(models.SuccessResponse(product, ""))
}

// Kullanıcının satın aldığı erişimler.
func (h *CatalogHandler) GetMyPackages(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	grants, err := h.catalogController.GetUserPackages(userID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(models.SuccessResponse(grants, ""))
}
