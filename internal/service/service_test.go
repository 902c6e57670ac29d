package service

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sefazor/examstore-backend/internal/models"
	"github.com/sefazor/examstore-backend/internal/repository"
	"github.com/sefazor/examstore-backend/pkg/database"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// In-memory sqlite üzerinde tam şema. Tek connection'a sabitlenir ki
// her goroutine aynı :memory: veritabanını görsün.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	// sqlite FOR UPDATE bilmiyor; locking clause'u test ortamında düş.
	// Kilit davranışının kendisi Postgres'in işi, buradaki testler
	// geçişlerin iş kurallarını doğrular.
	stripLocking := func(tx *gorm.DB) {
		delete(tx.Statement.Clauses, "FOR")
	}
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("test:strip_locking", stripLocking))
	require.NoError(t, db.Callback().Row().Before("gorm:row").Register("test:strip_locking_row", stripLocking))

	require.NoError(t, database.RunMigrations(db))
	return db
}

type testEnv struct {
	db           *gorm.DB
	orderService *OrderService
	promoService *PromoService
	orderRepo    *repository.OrderRepository
	promoRepo    *repository.PromoRepository
	userRepo     *repository.UserRepository
	grantRepo    *repository.UserPackageRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	promoRepo := repository.NewPromoRepository(db)
	grantRepo := repository.NewUserPackageRepository(db)
	promoService := NewPromoService(promoRepo)

	return &testEnv{
		db:           db,
		orderService: NewOrderService(db, productRepo, orderRepo, promoRepo, grantRepo, promoService, 15),
		promoService: promoService,
		orderRepo:    orderRepo,
		promoRepo:    promoRepo,
		userRepo:     repository.NewUserRepository(db),
		grantRepo:    grantRepo,
	}
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{FullName: "Test User", Email: email, Phone: "081234567890"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// Tek paketli single product.
func seedSingleProduct(t *testing.T, db *gorm.DB, price int64, accessDays int) (*models.Product, *models.Package) {
	t.Helper()

	pkg := &models.Package{Name: "Fundamentals", IsActive: true}
	require.NoError(t, db.Create(pkg).Error)

	product := &models.Product{
		Name:       "Fundamentals - 30 days",
		Type:       models.ProductTypeSingle,
		Price:      price,
		PackageID:  &pkg.ID,
		AccessDays: accessDays,
		IsActive:   true,
	}
	require.NoError(t, db.Create(product).Error)
	return product, pkg
}

// İki paketli bundle.
func seedBundleProduct(t *testing.T, db *gorm.DB, price int64) (*models.Product, []*models.Package) {
	t.Helper()

	pkg1 := &models.Package{Name: "Bundle Pack A", IsActive: true}
	pkg2 := &models.Package{Name: "Bundle Pack B", IsActive: true}
	require.NoError(t, db.Create(pkg1).Error)
	require.NoError(t, db.Create(pkg2).Error)

	product := &models.Product{
		Name:          "Complete Bundle",
		Type:          models.ProductTypeBundle,
		Price:         price,
		AccessDays:    90,
		WithAnswerKey: true,
		IsActive:      true,
	}
	require.NoError(t, db.Create(product).Error)

	items := []models.ProductPackage{
		{ProductID: product.ID, PackageID: pkg1.ID, Qty: 1},
		{ProductID: product.ID, PackageID: pkg2.ID, Qty: 2},
	}
	require.NoError(t, db.Create(&items).Error)
	return product, []*models.Package{pkg1, pkg2}
}

func seedPromo(t *testing.T, db *gorm.DB, promo *models.PromoCode) *models.PromoCode {
	t.Helper()
	if promo.Type == "" {
		promo.Type = models.PromoTypePercent
	}
	require.NoError(t, db.Create(promo).Error)
	return promo
}

func linkPromoToProduct(t *testing.T, db *gorm.DB, promoID, productID uint) {
	t.Helper()
	require.NoError(t, db.Table("promo_code_products").Create(map[string]interface{}{
		"promo_code_id": promoID,
		"product_id":    productID,
	}).Error)
}

func linkPromoToPackage(t *testing.T, db *gorm.DB, promoID, packageID uint) {
	t.Helper()
	require.NoError(t, db.Table("promo_code_packages").Create(map[string]interface{}{
		"promo_code_id": promoID,
		"package_id":    packageID,
	}).Error)
}

func reloadPromo(t *testing.T, db *gorm.DB, id uint) *models.PromoCode {
	t.Helper()
	var promo models.PromoCode
	require.NoError(t, db.First(&promo, id).Error)
	return &promo
}

func redemptionForOrder(t *testing.T, db *gorm.DB, orderID uint) *models.PromoRedemption {
	t.Helper()
	var redemption models.PromoRedemption
	require.NoError(t, db.Where("order_id = ?", orderID).First(&redemption).Error)
	return &redemption
}

func grantCount(t *testing.T, env *testEnv, orderID uint) int64 {
	t.Helper()
	grants, err := env.grantRepo.GetByOrder(orderID)
	require.NoError(t, err)
	count := int64(len(grants))
	return count
}

func backdateExpiry(t *testing.T, db *gorm.DB, orderID uint, d time.Duration) {
	t.Helper()
	past := time.Now().Add(-d)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", orderID).
		Update("expires_at", past).Error)
}

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}
