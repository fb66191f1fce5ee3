package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/qs3c/repurpose_server/internal/model"
)

// ErrNoCredits 条件扣减没有命中任何行：余额不足或用户不存在
var ErrNoCredits = errors.New("no credits left")

type CreditRepository struct {
	db *gorm.DB
}

func NewCreditRepository(db *gorm.DB) *CreditRepository {
	return &CreditRepository{db: db}
}

// Debit 条件扣减一个积分并记账。扣减是单条 UPDATE，不做先读后写
func (r *CreditRepository) Debit(userID int64, reference string) (*model.CreditTransaction, error) {
	var txn *model.CreditTransaction
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).
			Where("id = ? AND credits >= ?", userID, 1).
			UpdateColumn("credits", gorm.Expr("credits - ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoCredits
		}

		balance, err := balanceOf(tx, userID)
		if err != nil {
			return err
		}
		txn = &model.CreditTransaction{
			UserID:       userID,
			Type:         model.CreditTypeDebit,
			Amount:       -1,
			BalanceAfter: balance,
			Reference:    reference,
		}
		return tx.Create(txn).Error
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// Refund 冲正一笔扣费。同一笔扣费重复冲正时返回 refunded=false 和当前余额
func (r *CreditRepository) Refund(debit *model.CreditTransaction) (balance int, refunded bool, err error) {
	if debit == nil || debit.ID == 0 || debit.Type != model.CreditTypeDebit {
		return 0, false, fmt.Errorf("refund needs a persisted debit")
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.CreditTransaction{}).
			Where("type = ? AND related_id = ?", model.CreditTypeRefund, debit.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			b, err := balanceOf(tx, debit.UserID)
			balance = b
			return err
		}

		amount := -debit.Amount
		b, err := addCredits(tx, debit.UserID, amount)
		if err != nil {
			return err
		}
		balance = b
		refunded = true

		relatedID := debit.ID
		// (type, related_id) 唯一索引兜底并发重复冲正
		return tx.Create(&model.CreditTransaction{
			UserID:       debit.UserID,
			Type:         model.CreditTypeRefund,
			Amount:       amount,
			BalanceAfter: b,
			Reference:    debit.Reference,
			RelatedID:    &relatedID,
		}).Error
	})
	if err != nil {
		return 0, false, err
	}
	return balance, refunded, nil
}

// Credit 增加积分并记账
func (r *CreditRepository) Credit(userID int64, amount int, txnType, reference string, relatedID *int64) (int, error) {
	var balance int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		b, err := addCredits(tx, userID, amount)
		if err != nil {
			return err
		}
		balance = b
		return tx.Create(&model.CreditTransaction{
			UserID:       userID,
			Type:         txnType,
			Amount:       amount,
			BalanceAfter: b,
			Reference:    reference,
			RelatedID:    relatedID,
		}).Error
	})
	return balance, err
}

// ListByUserID 最近的流水，新的在前
func (r *CreditRepository) ListByUserID(userID int64, limit int) ([]model.CreditTransaction, error) {
	var txns []model.CreditTransaction
	q := r.db.Where("user_id = ?", userID).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&txns).Error
	return txns, err
}

// addCredits 原子增加积分并返回新余额，必须在事务内调用
func addCredits(tx *gorm.DB, userID int64, amount int) (int, error) {
	res := tx.Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("credits", gorm.Expr("credits + ?", amount))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return balanceOf(tx, userID)
}

func balanceOf(tx *gorm.DB, userID int64) (int, error) {
	var user model.User
	if err := tx.Select("id", "credits").Where("id = ?", userID).First(&user).Error; err != nil {
		return 0, err
	}
	return user.Credits, nil
}
