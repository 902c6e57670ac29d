//go:build postgres

package service

import (
	"os"
	"sync"
	"testing"

	"github.com/sefazor/examstore-backend/internal/models"
	"github.com/sefazor/examstore-backend/internal/repository"
	"github.com/sefazor/examstore-backend/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Kota yarışı gerçek FOR UPDATE ister; sqlite harness'ı kilidi
// düşürdüğü için bu test sadece Postgres'e karşı koşar:
//
//	TEST_DATABASE_URL=postgres://... go test -tags postgres ./internal/service
func newPostgresTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	tables := []string{
		"user_packages", "promo_redemptions", "order_items", "orders",
		"promo_code_products", "promo_code_packages", "promo_codes",
		"product_packages", "products", "packages", "users",
	}
	for _, table := range tables {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

func TestConcurrentReservationsNeverExceedQuota(t *testing.T) {
	db := newPostgresTestDB(t)

	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	promoRepo := repository.NewPromoRepository(db)
	grantRepo := repository.NewUserPackageRepository(db)
	promoService := NewPromoService(promoRepo)
	orderService := NewOrderService(db, productRepo, orderRepo, promoRepo, grantRepo, promoService, 15)

	product, _ := seedSingleProduct(t, db, 50000, 30)
	promo := seedPromo(t, db, &models.PromoCode{
		Code: "RACE", Type: models.PromoTypePercent, Value: 10, IsActive: true, MaxUses: intPtr(3),
	})
	linkPromoToProduct(t, db, promo.ID, product.ID)

	const buyers = 8
	users := make([]*models.User, buyers)
	for i := range users {
		users[i] = seedUser(t, db, "buyer"+string(rune('a'+i))+"@example.com")
	}

	var wg sync.WaitGroup
	results := make([]error, buyers)
	orders := make([]*models.Order, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			orders[i], results[i] = orderService.Create(users[i].ID, product.ID, strPtr("RACE"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for i, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		promoErr, ok := models.AsPromoError(err)
		require.True(t, ok, "buyer %d: unexpected error %v", i, err)
		assert.Equal(t, models.PromoQuotaExhausted, promoErr.Kind)
	}
	assert.Equal(t, 3, succeeded)

	// hepsi ödense de used_count max_uses'u aşmaz
	for i, order := range orders {
		if results[i] != nil {
			continue
		}
		_, err := orderService.MarkPaid(order.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, reloadPromo(t, db, promo.ID).UsedCount)
}
