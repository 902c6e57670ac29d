package controller

import (
	"github.com/sefazor/examstore-backend/internal/models"
	"github.com/sefazor/examstore-backend/internal/service"
)

type CatalogController struct {
	catalogService *service.CatalogService
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

func (c *CatalogController) GetProducts() ([]models.Product, error) {
	return c.catalogService.GetProducts()
}

func (c *CatalogController) GetProduct(id uint) (*models.Product, error) {
	return c.catalogService.GetProduct(id)
}

func (c *CatalogController) GetUserPackages(userID uint) ([]models.UserPackage, error) {
	return c.catalogService.GetUserPackages(userID)
}
