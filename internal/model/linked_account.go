package model

import (
	"time"
)

const ProviderTwitter = "twitter"

// LinkedAccount 用户绑定的第三方发布账号
type LinkedAccount struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	UserID         int64      `gorm:"not null;uniqueIndex:idx_user_provider" json:"user_id"`
	Provider       string     `gorm:"size:20;not null;uniqueIndex:idx_user_provider" json:"provider"`
	ProviderUserID string     `gorm:"size:100" json:"provider_user_id"`
	Username       string     `gorm:"size:100" json:"username"`
	AccessToken    string     `gorm:"type:text;not null" json:"-"`
	RefreshToken   *string    `gorm:"type:text" json:"-"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	Scope          string     `gorm:"size:255" json:"scope"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (LinkedAccount) TableName() string {
	return "linked_accounts"
}

// Expired 没有过期时间的 token 视为长期有效
func (a *LinkedAccount) Expired(now time.Time) bool {
	return a.ExpiresAt != nil && !now.Before(*a.ExpiresAt)
}
