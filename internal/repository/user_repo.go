package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/qs3c/repurpose_server/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// CreateWithBonus 创建用户并写入注册赠送流水
func (r *UserRepository) CreateWithBonus(user *model.User, reference string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		bonus := user.Credits
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		// credits 为 0 时 gorm 会回落到列默认值
		if bonus == 0 {
			if err := tx.Model(user).UpdateColumn("credits", 0).Error; err != nil {
				return err
			}
			user.Credits = 0
			return nil
		}
		return tx.Create(&model.CreditTransaction{
			UserID:       user.ID,
			Type:         model.CreditTypeSignup,
			Amount:       bonus,
			BalanceAfter: bonus,
			Reference:    reference,
		}).Error
	})
}

func (r *UserRepository) GetByID(id int64) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByGithubID(githubID string) (*model.User, error) {
	var user model.User
	err := r.db.Where("github_id = ?", githubID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetCredits 只读余额
func (r *UserRepository) GetCredits(id int64) (int, error) {
	var user model.User
	err := r.db.Select("id", "credits").Where("id = ?", id).First(&user).Error
	if err != nil {
		return 0, err
	}
	return user.Credits, nil
}

func (r *UserRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("email = ?", normalizeEmail(email)).Count(&count).Error
	return count > 0, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
