package model

import (
	"time"
)

const (
	CreditTypeSignup   = "signup"
	CreditTypeDebit    = "debit"
	CreditTypeRefund   = "refund"
	CreditTypePurchase = "purchase"
)

// CreditTransaction 积分流水。退款行的 RelatedID 指向被退的扣费行，
// (type, related_id) 唯一，所以同一笔扣费最多退一次
type CreditTransaction struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	UserID       int64     `gorm:"not null;index" json:"user_id"`
	Type         string    `gorm:"size:20;not null;uniqueIndex:idx_type_related" json:"type"`
	Amount       int       `gorm:"not null" json:"amount"` // 扣费为负数
	BalanceAfter int       `json:"balance_after"`
	Reference    string    `gorm:"size:200" json:"reference"`
	RelatedID    *int64    `gorm:"uniqueIndex:idx_type_related" json:"related_id,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
