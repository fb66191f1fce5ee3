package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qs3c/repurpose_server/config"
	"github.com/qs3c/repurpose_server/internal/model"
	"github.com/qs3c/repurpose_server/internal/model/dto"
	"github.com/qs3c/repurpose_server/internal/pkg/pubsub"
	"github.com/qs3c/repurpose_server/internal/pkg/queue"
	"github.com/qs3c/repurpose_server/internal/pkg/razorpay"
	"github.com/qs3c/repurpose_server/internal/repository"
)

var (
	ErrPaymentUnavailable = errors.New("Payments are not configured")
	ErrOrderNotFound      = errors.New("Order not found")
	ErrSignatureInvalid   = errors.New("Payment verification failed")
	ErrPaymentNotPending  = errors.New("Payment is no longer pending")
)

type PaymentService struct {
	paymentRepo *repository.PaymentRepository
	userRepo    *repository.UserRepository
	credits     *CreditService
	gateway     razorpay.Gateway
	notifier    Notifier
	cfg         *config.Config
	logger      *slog.Logger
}

func NewPaymentService(
	paymentRepo *repository.PaymentRepository,
	userRepo *repository.UserRepository,
	credits *CreditService,
	gateway razorpay.Gateway,
	notifier Notifier,
	cfg *config.Config,
	logger *slog.Logger,
) *PaymentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PaymentService{
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		credits:     credits,
		gateway:     gateway,
		notifier:    notifier,
		cfg:         cfg,
		logger:      logger.With("component", "payment"),
	}
}

// CreateOrder 在网关创建订单，并记录一条 pending 支付
func (s *PaymentService) CreateOrder(ctx context.Context, ident Identity) (*dto.CreateOrderResponse, error) {
	if !ident.Valid() {
		return nil, ErrUnauthorized
	}
	if s.gateway == nil {
		return nil, ErrPaymentUnavailable
	}

	pkg := s.cfg.Credits
	order, err := s.gateway.CreateOrder(razorpay.OrderRequest{
		Amount:   pkg.PackagePrice,
		Currency: pkg.Currency,
		Receipt:  newReceipt(),
		Notes: map[string]string{
			"userId":  strconv.FormatInt(ident.UserID, 10),
			"credits": strconv.Itoa(pkg.PackageCredits),
		},
	})
	if err != nil {
		s.logger.Error("create order failed", "user_id", ident.UserID, "error", err)
		return nil, err
	}

	payment := &model.Payment{
		UserID:           ident.UserID,
		RazorpayOrderID:  order.ID,
		Amount:           order.Amount,
		Currency:         order.Currency,
		Receipt:          order.Receipt,
		Status:           model.PaymentStatusPending,
		CreditsPurchased: pkg.PackageCredits,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}

	s.logger.Info("order created", "user_id", ident.UserID, "order_id", order.ID, "amount", order.Amount)

	return &dto.CreateOrderResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.gateway.KeyID(),
		Credits:  pkg.PackageCredits,
	}, nil
}

// Verify 校验 Checkout 回传的签名。签名不符时 pending 订单置为 failed，积分不变；
// 签名正确时在一个事务里完成订单并加积分
func (s *PaymentService) Verify(ctx context.Context, ident Identity, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error) {
	if !ident.Valid() {
		return nil, ErrUnauthorized
	}
	if s.gateway == nil {
		return nil, ErrPaymentUnavailable
	}

	payment, err := s.paymentRepo.GetByOrderID(req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	// 其他用户的订单按不存在处理
	if payment.UserID != ident.UserID {
		return nil, ErrOrderNotFound
	}

	if err := s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature); err != nil {
		if _, markErr := s.paymentRepo.MarkFailedIfPending(req.OrderID, req.PaymentID); markErr != nil {
			s.logger.Error("mark payment failed", "order_id", req.OrderID, "error", markErr)
		}
		s.logger.Warn("payment signature mismatch", "user_id", ident.UserID, "order_id", req.OrderID)
		return nil, ErrSignatureInvalid
	}

	completed, balance, err := s.paymentRepo.CompleteIfPending(req.OrderID, req.PaymentID)
	if errors.Is(err, repository.ErrPaymentNotPending) {
		return s.alreadySettled(ident, req.OrderID)
	}
	if err != nil {
		s.logger.Error("complete payment failed", "order_id", req.OrderID, "error", err)
		return nil, err
	}

	s.logger.Info("payment completed", "user_id", ident.UserID, "order_id", req.OrderID, "credits", completed.CreditsPurchased)
	s.credits.Publish(ctx, ident.UserID, balance, completed.CreditsPurchased, pubsub.ReasonPurchase)
	s.enqueueReceipt(ctx, completed)

	return &dto.VerifyPaymentResponse{Credits: balance, CreditsAdded: completed.CreditsPurchased}, nil
}

// alreadySettled 重复校验已成功的订单时直接返回当前余额
func (s *PaymentService) alreadySettled(ident Identity, orderID string) (*dto.VerifyPaymentResponse, error) {
	payment, err := s.paymentRepo.GetByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if payment.Status != model.PaymentStatusSuccess {
		return nil, ErrPaymentNotPending
	}
	balance, err := s.credits.Balance(ident.UserID)
	if err != nil {
		return nil, err
	}
	return &dto.VerifyPaymentResponse{Credits: balance, CreditsAdded: 0}, nil
}

// ExpireStale 把超时未支付的订单置为 expired，cron 和 cleanup 命令共用。
// expired 订单之后收到有效签名仍会完成并加积分
func (s *PaymentService) ExpireStale(ctx context.Context) (int64, error) {
	n, err := s.paymentRepo.ExpirePendingBefore(s.staleCutoff())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("expired stale payments", "count", n)
	}
	return n, nil
}

// CountStale 统计待过期的订单
func (s *PaymentService) CountStale(ctx context.Context) (int64, error) {
	return s.paymentRepo.CountPendingBefore(s.staleCutoff())
}

func (s *PaymentService) staleCutoff() time.Time {
	mins := s.cfg.Payment.PendingExpireMins
	if mins <= 0 {
		mins = 60
	}
	return time.Now().Add(-time.Duration(mins) * time.Minute)
}

func (s *PaymentService) enqueueReceipt(ctx context.Context, payment *model.Payment) {
	if s.notifier == nil {
		return
	}
	user, err := s.userRepo.GetByID(payment.UserID)
	if err != nil || user.Email == nil {
		return
	}
	job := &queue.NotificationJob{
		Kind:      queue.KindPaymentReceipt,
		UserID:    user.ID,
		Email:     *user.Email,
		Name:      user.Name,
		PaymentID: payment.ID,
		OrderID:   payment.RazorpayOrderID,
		Amount:    payment.Amount,
		Currency:  payment.Currency,
		Credits:   payment.CreditsPurchased,
	}
	if err := s.notifier.Push(ctx, job); err != nil {
		s.logger.Warn("enqueue payment receipt failed", "payment_id", payment.ID, "error", err)
	}
}

// newReceipt Razorpay 限制 receipt 不超过 40 个字符
func newReceipt() string {
	return "rcpt_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}
