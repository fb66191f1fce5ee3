package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/repurpose_server/internal/model"
	"github.com/qs3c/repurpose_server/internal/model/dto"
	"github.com/qs3c/repurpose_server/internal/pkg/pubsub"
	"github.com/qs3c/repurpose_server/internal/repository"
)

var (
	ErrInsufficientCredits = errors.New("You are out of credits. Please purchase more to continue.")
	ErrUserNotFound        = errors.New("User not found")
)

const historyLimit = 20

// CreditEvents 积分变动通知，pubsub.Publisher 满足该接口
type CreditEvents interface {
	PublishCredits(ctx context.Context, evt *pubsub.CreditEvent) error
}

type CreditService struct {
	userRepo   *repository.UserRepository
	creditRepo *repository.CreditRepository
	events     CreditEvents
	logger     *slog.Logger
}

func NewCreditService(userRepo *repository.UserRepository, creditRepo *repository.CreditRepository, events CreditEvents, logger *slog.Logger) *CreditService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreditService{
		userRepo:   userRepo,
		creditRepo: creditRepo,
		events:     events,
		logger:     logger,
	}
}

// Balance 当前余额
func (s *CreditService) Balance(userID int64) (int, error) {
	credits, err := s.userRepo.GetCredits(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrUserNotFound
	}
	return credits, err
}

// TryDebit 扣一个积分，余额不足返回 ErrInsufficientCredits
func (s *CreditService) TryDebit(ctx context.Context, userID int64, reference string) (*model.CreditTransaction, error) {
	txn, err := s.creditRepo.Debit(userID, reference)
	if errors.Is(err, repository.ErrNoCredits) {
		return nil, ErrInsufficientCredits
	}
	if err != nil {
		return nil, err
	}
	s.Publish(ctx, userID, txn.BalanceAfter, txn.Amount, pubsub.ReasonGeneration)
	return txn, nil
}

// Refund 冲正一笔扣费，重复调用是安全的。请求被取消后依然要退款，
// 所以不继承调用方的取消信号
func (s *CreditService) Refund(ctx context.Context, debit *model.CreditTransaction) (int, error) {
	ctx = context.WithoutCancel(ctx)

	balance, refunded, err := s.creditRepo.Refund(debit)
	if err != nil {
		s.logger.Error("refund failed", "user_id", debit.UserID, "debit_id", debit.ID, "error", err)
		return 0, err
	}
	if refunded {
		s.logger.Info("credit refunded", "user_id", debit.UserID, "debit_id", debit.ID, "balance", balance)
		s.Publish(ctx, debit.UserID, balance, -debit.Amount, pubsub.ReasonRefund)
	}
	return balance, nil
}

// Credit 加积分并记账
func (s *CreditService) Credit(ctx context.Context, userID int64, amount int, txnType, reference string) (int, error) {
	balance, err := s.creditRepo.Credit(userID, amount, txnType, reference, nil)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, err
	}
	s.Publish(ctx, userID, balance, amount, txnType)
	return balance, nil
}

// History 余额和最近流水
func (s *CreditService) History(userID int64) (*dto.CreditsResponse, error) {
	credits, err := s.Balance(userID)
	if err != nil {
		return nil, err
	}
	txns, err := s.creditRepo.ListByUserID(userID, historyLimit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CreditTxnItem, 0, len(txns))
	for _, t := range txns {
		items = append(items, dto.CreditTxnItem{
			ID:           t.ID,
			Type:         t.Type,
			Amount:       t.Amount,
			BalanceAfter: t.BalanceAfter,
			Reference:    t.Reference,
			CreatedAt:    t.CreatedAt.Format(time.RFC3339),
		})
	}
	return &dto.CreditsResponse{Credits: credits, Transactions: items}, nil
}

// Publish 推送积分变动，失败只记日志
func (s *CreditService) Publish(ctx context.Context, userID int64, balance, delta int, reason string) {
	if s.events == nil {
		return
	}
	evt := &pubsub.CreditEvent{UserID: userID, Credits: balance, Delta: delta, Reason: reason}
	if err := s.events.PublishCredits(ctx, evt); err != nil {
		s.logger.Warn("publish credit event failed", "user_id", userID, "error", err)
	}
}
