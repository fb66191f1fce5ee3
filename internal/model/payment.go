package model

import (
	"time"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
	// 超时未支付，由清理任务标记；签名有效时仍可完成
	PaymentStatusExpired = "expired"
)

type Payment struct {
	ID                int64     `gorm:"primaryKey" json:"id"`
	UserID            int64     `gorm:"not null;index" json:"user_id"`
	RazorpayOrderID   string    `gorm:"size:100;uniqueIndex;not null" json:"razorpay_order_id"`
	RazorpayPaymentID *string   `gorm:"size:100" json:"razorpay_payment_id,omitempty"`
	Amount            int64     `gorm:"not null" json:"amount"` // 最小货币单位
	Currency          string    `gorm:"size:10;not null" json:"currency"`
	Receipt           string    `gorm:"size:64" json:"receipt"`
	Status            string    `gorm:"size:20;default:pending;index" json:"status"` // pending, success, failed, expired
	CreditsPurchased  int       `gorm:"not null" json:"credits_purchased"`
	CreatedAt         time.Time `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}
