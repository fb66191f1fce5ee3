package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/repurpose_server/internal/model"
)

// ErrPaymentNotPending 订单已经是终态
var ErrPaymentNotPending = errors.New("payment is not pending")

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(p *model.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByOrderID(orderID string) (*model.Payment, error) {
	var p model.Payment
	err := r.db.Where("razorpay_order_id = ?", orderID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkFailedIfPending 仅当订单仍为 pending 时置为 failed
func (r *PaymentRepository) MarkFailedIfPending(orderID, paymentID string) (bool, error) {
	fields := map[string]interface{}{"status": model.PaymentStatusFailed}
	if paymentID != "" {
		fields["razorpay_payment_id"] = paymentID
	}
	res := r.db.Model(&model.Payment{}).
		Where("razorpay_order_id = ? AND status = ?", orderID, model.PaymentStatusPending).
		Updates(fields)
	return res.RowsAffected > 0, res.Error
}

// CompleteIfPending 在一个事务里完成：订单置为 success、加积分、写 purchase 流水。
// 被清理任务标记为 expired 的订单同样可以完成；其他状态返回 ErrPaymentNotPending，不会重复加积分
func (r *PaymentRepository) CompleteIfPending(orderID, paymentID string) (*model.Payment, int, error) {
	var (
		payment model.Payment
		balance int
	)
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Payment{}).
			Where("razorpay_order_id = ? AND status IN ?", orderID, []string{model.PaymentStatusPending, model.PaymentStatusExpired}).
			Updates(map[string]interface{}{
				"status":              model.PaymentStatusSuccess,
				"razorpay_payment_id": paymentID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrPaymentNotPending
		}

		if err := tx.Where("razorpay_order_id = ?", orderID).First(&payment).Error; err != nil {
			return err
		}

		b, err := addCredits(tx, payment.UserID, payment.CreditsPurchased)
		if err != nil {
			return err
		}
		balance = b

		relatedID := payment.ID
		return tx.Create(&model.CreditTransaction{
			UserID:       payment.UserID,
			Type:         model.CreditTypePurchase,
			Amount:       payment.CreditsPurchased,
			BalanceAfter: b,
			Reference:    orderID,
			RelatedID:    &relatedID,
		}).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return &payment, balance, nil
}

// ExpirePendingBefore 把创建时间早于 cutoff 的 pending 订单置为 expired
func (r *PaymentRepository) ExpirePendingBefore(cutoff time.Time) (int64, error) {
	res := r.db.Model(&model.Payment{}).
		Where("status = ? AND created_at < ?", model.PaymentStatusPending, cutoff).
		Update("status", model.PaymentStatusExpired)
	return res.RowsAffected, res.Error
}

// CountPendingBefore 统计过期的 pending 订单（dry-run 用）
func (r *PaymentRepository) CountPendingBefore(cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Payment{}).
		Where("status = ? AND created_at < ?", model.PaymentStatusPending, cutoff).
		Count(&count).Error
	return count, err
}
