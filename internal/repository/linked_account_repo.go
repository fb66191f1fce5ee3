package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/repurpose_server/internal/model"
)

type LinkedAccountRepository struct {
	db *gorm.DB
}

func NewLinkedAccountRepository(db *gorm.DB) *LinkedAccountRepository {
	return &LinkedAccountRepository{db: db}
}

func (r *LinkedAccountRepository) Get(userID int64, provider string) (*model.LinkedAccount, error) {
	var acct model.LinkedAccount
	err := r.db.Where("user_id = ? AND provider = ?", userID, provider).First(&acct).Error
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

func (r *LinkedAccountRepository) Exists(userID int64, provider string) (bool, error) {
	var count int64
	err := r.db.Model(&model.LinkedAccount{}).
		Where("user_id = ? AND provider = ?", userID, provider).
		Count(&count).Error
	return count > 0, err
}

// Upsert 重新授权时覆盖已有绑定
func (r *LinkedAccountRepository) Upsert(acct *model.LinkedAccount) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"provider_user_id", "username", "access_token", "refresh_token", "expires_at", "scope", "updated_at",
		}),
	}).Create(acct).Error
}

// UpdateTokens 保存刷新后的 token
func (r *LinkedAccountRepository) UpdateTokens(id int64, accessToken string, refreshToken *string, expiresAt *time.Time) error {
	return r.db.Model(&model.LinkedAccount{}).Where("id = ?", id).Updates(map[string]interface{}{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_at":    expiresAt,
	}).Error
}

func (r *LinkedAccountRepository) Delete(userID int64, provider string) (bool, error) {
	res := r.db.Where("user_id = ? AND provider = ?", userID, provider).Delete(&model.LinkedAccount{})
	return res.RowsAffected > 0, res.Error
}
