package service

import (
	"time"

	"github.com/sefazor/examstore-backend/internal/models"
	"github.com/sefazor/examstore-backend/internal/repository"
)

type CatalogService struct {
	productRepo     *repository.ProductRepository
	userPackageRepo *repository.UserPackageRepository
}

func NewCatalogService(productRepo *repository.ProductRepository, userPackageRepo *repository.UserPackageRepository) *CatalogService {
	return &CatalogService{
		productRepo:     productRepo,
		userPackageRepo: userPackageRepo,
	}
}

func (s *CatalogService) GetProducts() ([]models.Product, error) {
	return s.productRepo.GetAllActive()
}

func (s *CatalogService) GetProduct(id uint) (*models.Product, error) {
	return s.productRepo.GetActiveByID(id)
}

// Kullanıcının şu an geçerli erişimleri. Süresi dolmuş grant'ler
// listeden düşer, satırları durur (audit).
func (s *CatalogService) GetUserPackages(userID uint) ([]models.UserPackage, error) {
	grants, err := s.userPackageRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	active := make([]models.UserPackage, 0, len(grants))
	for _, grant := range grants {
		if grant.ActiveAt(now) {
			active = append(active, grant)
		}
	}
	return active, nil
}
