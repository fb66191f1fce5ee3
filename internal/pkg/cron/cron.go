package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// PaymentExpirer 将超时未支付的订单标记为失败
type PaymentExpirer interface {
	ExpireStale(ctx context.Context) (int64, error)
}

type Service struct {
	payments PaymentExpirer
	interval time.Duration
	logger   *slog.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewService(payments PaymentExpirer, intervalMinutes int, logger *slog.Logger) *Service {
	if intervalMinutes <= 0 {
		intervalMinutes = 10
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		payments: payments,
		interval: time.Duration(intervalMinutes) * time.Minute,
		logger:   logger.With("component", "cron"),
		stopChan: make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	s.wg.Add(1)
	go s.runPaymentSweep()
	s.logger.Info("cron service started", "payment_sweep_interval", s.interval.String())
}

// Stop 停止定时任务并等待当前一轮结束
func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	s.logger.Info("cron service stopped")
}

// runPaymentSweep 定期清理过期的待支付订单
func (s *Service) runPaymentSweep() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Service) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.payments.ExpireStale(ctx)
	if err != nil {
		s.logger.Error("expire stale payments failed", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("expired stale payments", "count", n)
	}
}

// RunNow 立即执行一轮清理（用于测试或手动触发）
func (s *Service) RunNow(ctx context.Context) (int64, error) {
	return s.payments.ExpireStale(ctx)
}
