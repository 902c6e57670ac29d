package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SweeperService deadline'ı geçen pending order'ları periyodik olarak
// expire eder. Canlı isteklerle aynı anda çalışır; emniyet
// MarkExpired'ın order kilidinde, burada değil.
type SweeperService struct {
	orderService *OrderService
	interval     time.Duration
	logger       *zap.Logger
}

func NewSweeperService(orderService *OrderService, interval time.Duration, logger *zap.Logger) *SweeperService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SweeperService{
		orderService: orderService,
		interval:     interval,
		logger:       logger,
	}
}

func (s *SweeperService) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *SweeperService) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("order expiry sweeper started", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("order expiry sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep tek tur tarama. Testlerden ve ticker'dan çağrılır.
func (s *SweeperService) Sweep() {
	expired, err := s.orderService.ExpirePastDue()
	if err != nil {
		s.logger.Error("expiry sweep failed", zap.Int("expired", expired), zap.Error(err))
		return
	}
	if expired > 0 {
		s.logger.Info("expired pending orders", zap.Int("count", expired))
	}
}
