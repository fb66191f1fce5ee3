package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/qs3c/repurpose_server/config"
	"github.com/qs3c/repurpose_server/internal/model"
	"github.com/qs3c/repurpose_server/internal/model/dto"
	"github.com/qs3c/repurpose_server/internal/pkg/jwt"
	"github.com/qs3c/repurpose_server/internal/pkg/oauth"
	"github.com/qs3c/repurpose_server/internal/pkg/queue"
	"github.com/qs3c/repurpose_server/internal/repository"
)

const passwordCost = 12

var (
	ErrEmailExists        = errors.New("Email already registered")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrNameRequired       = errors.New("Name is required")
	ErrOAuthDisabled      = errors.New("OAuth login is not configured")
	ErrOAuthState         = errors.New("Invalid or expired OAuth state")
)

// Notifier 异步通知入队，queue.Queue 满足该接口
type Notifier interface {
	Push(ctx context.Context, job *queue.NotificationJob) error
}

// GithubProvider GitHub 登录所需的能力
type GithubProvider interface {
	Enabled() bool
	GetAuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	GetUser(ctx context.Context, token *oauth2.Token) (*oauth.GithubUser, error)
}

type AuthService struct {
	userRepo   *repository.UserRepository
	cfg        *config.Config
	github     GithubProvider
	states     *oauth.StateStore
	notifier   Notifier
	logger     *slog.Logger
	bcryptCost int
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config, github GithubProvider, states *oauth.StateStore, notifier Notifier, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		userRepo:   userRepo,
		cfg:        cfg,
		github:     github,
		states:     states,
		notifier:   notifier,
		logger:     logger,
		bcryptCost: passwordCost,
	}
}

// Signup 邮箱注册，赠送初始积分
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	passwordStr := string(hashed)

	user := &model.User{
		Name:         name,
		Email:        &email,
		PasswordHash: &passwordStr,
		Credits:      s.cfg.Credits.SignupBonus,
	}
	if err := s.userRepo.CreateWithBonus(user, "signup"); err != nil {
		// 并发注册同一邮箱时唯一索引兜底
		if exists, _ := s.userRepo.ExistsByEmail(email); exists {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	s.enqueueWelcome(ctx, user)

	return &dto.SignupResponse{UserID: user.ID}, nil
}

// Login 邮箱密码登录
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// OAuth 注册的用户没有密码
	if !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(user)
}

// GithubAuthURL 生成 state 并返回 GitHub 授权地址
func (s *AuthService) GithubAuthURL(ctx context.Context, redirectURI string) (string, error) {
	if s.github == nil || !s.github.Enabled() {
		return "", ErrOAuthDisabled
	}
	state, err := s.states.GenerateState(ctx, oauth.StateData{Provider: "github", RedirectURI: redirectURI})
	if err != nil {
		return "", err
	}
	return s.github.GetAuthURL(state), nil
}

// GithubCallback 处理 GitHub OAuth 回调，返回会话和前端跳转地址
func (s *AuthService) GithubCallback(ctx context.Context, code, state string) (*dto.LoginResponse, string, error) {
	if s.github == nil || !s.github.Enabled() {
		return nil, "", ErrOAuthDisabled
	}
	data, err := s.states.ConsumeState(ctx, state)
	if err != nil || data.Provider != "github" {
		return nil, "", ErrOAuthState
	}

	token, err := s.github.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("failed to exchange code: %w", err)
	}
	githubUser, err := s.github.GetUser(ctx, token)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get github user: %w", err)
	}

	user, err := s.findOrCreateGithubUser(ctx, githubUser)
	if err != nil {
		return nil, "", err
	}

	resp, err := s.issueSession(user)
	if err != nil {
		return nil, "", err
	}
	return resp, data.RedirectURI, nil
}

func (s *AuthService) findOrCreateGithubUser(ctx context.Context, gh *oauth.GithubUser) (*model.User, error) {
	githubID := fmt.Sprintf("%d", gh.ID)

	user, err := s.userRepo.GetByGithubID(githubID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 同邮箱的已有账号直接绑定 GitHub
	if gh.Email != "" {
		user, err = s.userRepo.GetByEmail(gh.Email)
		if err == nil {
			fields := map[string]interface{}{"github_id": githubID}
			if user.AvatarURL == "" {
				fields["avatar_url"] = gh.AvatarURL
			}
			if err := s.userRepo.UpdateFields(user.ID, fields); err != nil {
				return nil, err
			}
			user.GithubID = &githubID
			return user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	user = &model.User{
		Name:      gh.DisplayName(),
		GithubID:  &githubID,
		AvatarURL: gh.AvatarURL,
		Credits:   s.cfg.Credits.SignupBonus,
	}
	if gh.Email != "" {
		email := gh.Email
		user.Email = &email
	}
	if err := s.userRepo.CreateWithBonus(user, "signup:github"); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.enqueueWelcome(ctx, user)
	return user, nil
}

func (s *AuthService) issueSession(user *model.User) (*dto.LoginResponse, error) {
	email := ""
	if user.Email != nil {
		email = *user.Email
	}
	token, err := jwt.GenerateTokenWithEmail(user.ID, email, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: toUserInfo(user)}, nil
}

func (s *AuthService) enqueueWelcome(ctx context.Context, user *model.User) {
	if s.notifier == nil || user.Email == nil {
		return
	}
	job := &queue.NotificationJob{
		Kind:   queue.KindWelcome,
		UserID: user.ID,
		Email:  *user.Email,
		Name:   user.Name,
	}
	if err := s.notifier.Push(ctx, job); err != nil {
		s.logger.Warn("enqueue welcome mail failed", "user_id", user.ID, "error", err)
	}
}
