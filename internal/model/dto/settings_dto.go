package dto

// SettingsResponse 设置页数据
type SettingsResponse struct {
	User              *UserInfo         `json:"user"`
	ConnectedAccounts ConnectedAccounts `json:"connectedAccounts"`
}

// ConnectedAccounts 已绑定的发布渠道
type ConnectedAccounts struct {
	Twitter bool `json:"twitter"`
}

// UpdateSettingsRequest 修改昵称，或同时提供新旧密码修改密码
type UpdateSettingsRequest struct {
	Name            *string `json:"name,omitempty" binding:"omitempty,max=100"`
	CurrentPassword string  `json:"currentPassword,omitempty"`
	NewPassword     string  `json:"newPassword,omitempty" binding:"omitempty,min=6,max=72"`
}

// CreditsResponse 积分余额和最近流水
type CreditsResponse struct {
	Credits      int             `json:"credits"`
	Transactions []CreditTxnItem `json:"transactions"`
}

// CreditTxnItem 积分流水项
type CreditTxnItem struct {
	ID           int64  `json:"id"`
	Type         string `json:"type"`
	Amount       int    `json:"amount"`
	BalanceAfter int    `json:"balanceAfter"`
	Reference    string `json:"reference,omitempty"`
	CreatedAt    string `json:"createdAt"`
}
