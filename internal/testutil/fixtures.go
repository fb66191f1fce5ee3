package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/repurpose_server/internal/model"
)

// TestPassword 默认测试用户的明文密码
const TestPassword = "password123"

var (
	seq          atomic.Int64
	passwordHash string
)

func init() {
	// MinCost 让测试足够快
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	passwordHash = string(hash)
}

func next() int64 {
	return seq.Add(1)
}

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	n := next()
	email := fmt.Sprintf("test_%d@example.com", n)
	hash := passwordHash
	user := &model.User{
		Name:         fmt.Sprintf("Test User %d", n),
		Email:        &email,
		PasswordHash: &hash,
		Credits:      5,
	}

	for _, opt := range opts {
		opt(user)
	}

	// Credits 为 0 时 gorm 会用列默认值，单独更新
	credits := user.Credits
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	if credits == 0 {
		if err := db.Model(user).UpdateColumn("credits", 0).Error; err != nil {
			t.Fatalf("Failed to zero credits: %v", err)
		}
		user.Credits = 0
	}

	return user
}

// WithName 设置用户名
func WithName(name string) func(*model.User) {
	return func(u *model.User) {
		u.Name = name
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// WithCredits 设置积分余额
func WithCredits(credits int) func(*model.User) {
	return func(u *model.User) {
		u.Credits = credits
	}
}

// WithoutPassword OAuth 用户
func WithoutPassword() func(*model.User) {
	return func(u *model.User) {
		u.PasswordHash = nil
	}
}

// WithGithubID 设置 GitHub ID
func WithGithubID(id string) func(*model.User) {
	return func(u *model.User) {
		u.GithubID = &id
	}
}

// TestGeneration 创建测试生成记录
func TestGeneration(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Generation)) *model.Generation {
	t.Helper()

	linkedin := "A LinkedIn post long enough to pass validation."
	gen := &model.Generation{
		UserID:    userID,
		SourceURL: fmt.Sprintf("https://blog.example.com/post-%d", next()),
		Tone:      "professional",
		Platforms: model.StringArray{"twitter", "linkedin"},
		Tweets:    model.StringArray{"First tweet", "Second tweet"},
		Linkedin:  &linkedin,
	}

	for _, opt := range opts {
		opt(gen)
	}

	if err := db.Create(gen).Error; err != nil {
		t.Fatalf("Failed to create test generation: %v", err)
	}

	return gen
}

// WithCreatedAt 设置创建时间
func WithCreatedAt(at time.Time) func(*model.Generation) {
	return func(g *model.Generation) {
		g.CreatedAt = at
	}
}

// WithSourceURL 设置来源 URL
func WithSourceURL(url string) func(*model.Generation) {
	return func(g *model.Generation) {
		g.SourceURL = url
	}
}

// TestPayment 创建测试订单
func TestPayment(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Payment)) *model.Payment {
	t.Helper()

	p := &model.Payment{
		UserID:           userID,
		RazorpayOrderID:  fmt.Sprintf("order_test%d", next()),
		Amount:           9900,
		Currency:         "INR",
		Receipt:          fmt.Sprintf("receipt_%d", time.Now().UnixNano()),
		Status:           model.PaymentStatusPending,
		CreditsPurchased: 10,
	}

	for _, opt := range opts {
		opt(p)
	}

	if err := db.Create(p).Error; err != nil {
		t.Fatalf("Failed to create test payment: %v", err)
	}

	return p
}

// WithPaymentStatus 设置订单状态
func WithPaymentStatus(status string) func(*model.Payment) {
	return func(p *model.Payment) {
		p.Status = status
	}
}

// WithPaymentCreatedAt 设置订单创建时间
func WithPaymentCreatedAt(at time.Time) func(*model.Payment) {
	return func(p *model.Payment) {
		p.CreatedAt = at
	}
}

// TestLinkedAccount 创建测试绑定账号
func TestLinkedAccount(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.LinkedAccount)) *model.LinkedAccount {
	t.Helper()

	refresh := "refresh-token"
	expires := time.Now().Add(time.Hour)
	acct := &model.LinkedAccount{
		UserID:         userID,
		Provider:       model.ProviderTwitter,
		ProviderUserID: fmt.Sprintf("%d", next()),
		Username:       "tester",
		AccessToken:    "access-token",
		RefreshToken:   &refresh,
		ExpiresAt:      &expires,
		Scope:          "tweet.read tweet.write users.read offline.access",
	}

	for _, opt := range opts {
		opt(acct)
	}

	if err := db.Create(acct).Error; err != nil {
		t.Fatalf("Failed to create test linked account: %v", err)
	}

	return acct
}

// WithTokenExpiry 设置 token 过期时间
func WithTokenExpiry(at time.Time) func(*model.LinkedAccount) {
	return func(a *model.LinkedAccount) {
		a.ExpiresAt = &at
	}
}

// WithRefreshToken 设置 refresh token，传空串表示没有
func WithRefreshToken(token string) func(*model.LinkedAccount) {
	return func(a *model.LinkedAccount) {
		if token == "" {
			a.RefreshToken = nil
			return
		}
		a.RefreshToken = &token
	}
}
