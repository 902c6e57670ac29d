package service

import (
	"testing"
	"time"

	"github.com/sefazor/examstore-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSweepExpiresOnlyPastDueOrders(t *testing.T) {
	env := newTestEnv(t)
	sweeper := NewSweeperService(env.orderService, time.Minute, zap.NewNop())

	user := seedUser(t, env.db, "buyer@example.com")
	product, _ := seedSingleProduct(t, env.db, 50000, 30)

	stale, err := env.orderService.Create(user.ID, product.ID, nil)
	require.NoError(t, err)
	fresh, err := env.orderService.Create(user.ID, product.ID, nil)
	require.NoError(t, err)

	backdateExpiry(t, env.db, stale.ID, time.Minute)

	sweeper.Sweep()

	staleAfter, err := env.orderRepo.GetByID(stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusExpired, staleAfter.Status)

	freshAfter, err := env.orderRepo.GetByID(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, freshAfter.Status)
}

func TestSweeperDefaultsInterval(t *testing.T) {
	env := newTestEnv(t)
	sweeper := NewSweeperService(env.orderService, 0, zap.NewNop())
	assert.Equal(t, time.Minute, sweeper.interval)
}
