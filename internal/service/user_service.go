package service

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/repurpose_server/internal/model"
	"github.com/qs3c/repurpose_server/internal/model/dto"
	"github.com/qs3c/repurpose_server/internal/repository"
)

var (
	ErrPasswordNotSet = errors.New("User not found or password not set")
	ErrWrongPassword  = errors.New("Current password is incorrect")
	ErrNoValidUpdate  = errors.New("No valid update provided")
)

type UserService struct {
	userRepo   *repository.UserRepository
	linkedRepo *repository.LinkedAccountRepository
	bcryptCost int
}

func NewUserService(userRepo *repository.UserRepository, linkedRepo *repository.LinkedAccountRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		linkedRepo: linkedRepo,
		bcryptCost: passwordCost,
	}
}

// GetProfile 获取用户详情
func (s *UserService) GetProfile(ident Identity) (*dto.UserInfo, error) {
	user, err := s.getUser(ident)
	if err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

// GetSettings 设置页：资料和已绑定渠道
func (s *UserService) GetSettings(ident Identity) (*dto.SettingsResponse, error) {
	user, err := s.getUser(ident)
	if err != nil {
		return nil, err
	}

	twitter, err := s.linkedRepo.Exists(user.ID, model.ProviderTwitter)
	if err != nil {
		return nil, err
	}

	return &dto.SettingsResponse{
		User:              toUserInfo(user),
		ConnectedAccounts: dto.ConnectedAccounts{Twitter: twitter},
	}, nil
}

// UpdateSettings 修改昵称或密码。提供了 name 时只改昵称并返回新资料；
// 改密码成功返回 nil 资料
func (s *UserService) UpdateSettings(ident Identity, req *dto.UpdateSettingsRequest) (*dto.UserInfo, error) {
	user, err := s.getUser(ident)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"name": name}); err != nil {
			return nil, err
		}
		user.Name = name
		return toUserInfo(user), nil
	}

	if req.CurrentPassword != "" && req.NewPassword != "" {
		if !user.HasPassword() {
			return nil, ErrPasswordNotSet
		}
		if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			return nil, ErrWrongPassword
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
		if err != nil {
			return nil, err
		}
		return nil, s.userRepo.UpdateFields(user.ID, map[string]interface{}{"password_hash": string(hashed)})
	}

	return nil, ErrNoValidUpdate
}

func (s *UserService) getUser(ident Identity) (*model.User, error) {
	if !ident.Valid() {
		return nil, ErrUnauthorized
	}
	user, err := s.userRepo.GetByID(ident.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func toUserInfo(user *model.User) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:        user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Credits:   user.Credits,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
	if user.Email != nil {
		info.Email = *user.Email
	}
	return info
}
