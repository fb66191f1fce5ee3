package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/qs3c/repurpose_server/internal/model"
	"github.com/qs3c/repurpose_server/internal/model/dto"
	"github.com/qs3c/repurpose_server/internal/pkg/oauth"
	"github.com/qs3c/repurpose_server/internal/pkg/twitter"
	"github.com/qs3c/repurpose_server/internal/repository"
)

const maxTweetLength = 280

var (
	ErrTwitterDisabled   = errors.New("Twitter integration is not configured")
	ErrNotLinked         = errors.New("Twitter account not connected. Please connect your Twitter account in Settings.")
	ErrReconnectRequired = errors.New("Twitter connection expired. Please reconnect your account in Settings.")
	ErrRefreshFailed     = errors.New("Failed to refresh Twitter connection. Please reconnect your account in Settings.")
	ErrTweetInvalid      = errors.New("Tweet text must be between 1 and 280 characters")
)

// TwitterAuth Twitter OAuth2 (PKCE) 能力，oauth.TwitterOAuth 满足该接口
type TwitterAuth interface {
	Enabled() bool
	NewVerifier() string
	GetAuthURL(state, verifier string) string
	Exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error)
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// TwitterAPI 以用户身份调用 Twitter API，twitter.Client 满足该接口
type TwitterAPI interface {
	Me(ctx context.Context, accessToken string) (*twitter.User, error)
	PostTweet(ctx context.Context, accessToken, text string) (string, error)
}

type IntegrationService struct {
	linkedRepo *repository.LinkedAccountRepository
	auth       TwitterAuth
	api        TwitterAPI
	states     *oauth.StateStore
	logger     *slog.Logger
	now        func() time.Time
}

func NewIntegrationService(linkedRepo *repository.LinkedAccountRepository, auth TwitterAuth, api TwitterAPI, states *oauth.StateStore, logger *slog.Logger) *IntegrationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &IntegrationService{
		linkedRepo: linkedRepo,
		auth:       auth,
		api:        api,
		states:     states,
		logger:     logger.With("component", "integration"),
		now:        time.Now,
	}
}

// ConnectURL 返回 Twitter 授权地址，state 里记住发起绑定的用户和 PKCE verifier
func (s *IntegrationService) ConnectURL(ctx context.Context, ident Identity, redirectURI string) (*dto.ConnectResponse, error) {
	if !ident.Valid() {
		return nil, ErrUnauthorized
	}
	if s.auth == nil || !s.auth.Enabled() {
		return nil, ErrTwitterDisabled
	}

	verifier := s.auth.NewVerifier()
	state, err := s.states.GenerateState(ctx, oauth.StateData{
		Provider:    model.ProviderTwitter,
		UserID:      ident.UserID,
		Verifier:    verifier,
		RedirectURI: redirectURI,
	})
	if err != nil {
		return nil, err
	}
	return &dto.ConnectResponse{AuthURL: s.auth.GetAuthURL(state, verifier)}, nil
}

// Callback 完成授权，保存（或覆盖）绑定，返回前端跳转地址
func (s *IntegrationService) Callback(ctx context.Context, code, state string) (string, error) {
	if s.auth == nil || !s.auth.Enabled() {
		return "", ErrTwitterDisabled
	}
	data, err := s.states.ConsumeState(ctx, state)
	if err != nil || data.Provider != model.ProviderTwitter || data.UserID == 0 {
		return "", ErrOAuthState
	}

	token, err := s.auth.Exchange(ctx, code, data.Verifier)
	if err != nil {
		return "", fmt.Errorf("failed to exchange code: %w", err)
	}
	me, err := s.api.Me(ctx, token.AccessToken)
	if err != nil {
		return "", fmt.Errorf("failed to get twitter user: %w", err)
	}

	acct := &model.LinkedAccount{
		UserID:         data.UserID,
		Provider:       model.ProviderTwitter,
		ProviderUserID: me.ID,
		Username:       me.Username,
		AccessToken:    token.AccessToken,
		RefreshToken:   optionalString(token.RefreshToken),
		ExpiresAt:      tokenExpiry(token),
		Scope:          tokenScope(token),
	}
	if err := s.linkedRepo.Upsert(acct); err != nil {
		return "", err
	}

	s.logger.Info("twitter linked", "user_id", data.UserID, "twitter_user", me.Username)
	return data.RedirectURI, nil
}

// Post 以用户绑定的账号发推。token 过期时先刷新，刷新失败要求重新绑定
func (s *IntegrationService) Post(ctx context.Context, ident Identity, text string) (*dto.TweetResponse, error) {
	if !ident.Valid() {
		return nil, ErrUnauthorized
	}
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > maxTweetLength {
		return nil, ErrTweetInvalid
	}

	acct, err := s.linkedRepo.Get(ident.UserID, model.ProviderTwitter)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotLinked
		}
		return nil, err
	}

	if s.api == nil {
		return nil, ErrTwitterDisabled
	}

	accessToken := acct.AccessToken
	if acct.Expired(s.now()) {
		accessToken, err = s.refresh(ctx, acct)
		if err != nil {
			return nil, err
		}
	}

	tweetID, err := s.api.PostTweet(ctx, accessToken, text)
	if err != nil {
		if errors.Is(err, twitter.ErrUnauthorized) {
			return nil, ErrReconnectRequired
		}
		s.logger.Error("post tweet failed", "user_id", ident.UserID, "error", err)
		return nil, err
	}

	s.logger.Info("tweet posted", "user_id", ident.UserID, "tweet_id", tweetID)
	return &dto.TweetResponse{TweetID: tweetID}, nil
}

func (s *IntegrationService) refresh(ctx context.Context, acct *model.LinkedAccount) (string, error) {
	if acct.RefreshToken == nil || *acct.RefreshToken == "" {
		return "", ErrReconnectRequired
	}
	if s.auth == nil || !s.auth.Enabled() {
		return "", ErrTwitterDisabled
	}

	token, err := s.auth.Refresh(ctx, *acct.RefreshToken)
	if err != nil {
		s.logger.Warn("twitter token refresh failed", "user_id", acct.UserID, "error", err)
		return "", ErrRefreshFailed
	}
	if err := s.linkedRepo.UpdateTokens(acct.ID, token.AccessToken, optionalString(token.RefreshToken), tokenExpiry(token)); err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// Unlink 解除绑定，未绑定时返回 ErrNotLinked
func (s *IntegrationService) Unlink(ident Identity) error {
	if !ident.Valid() {
		return ErrUnauthorized
	}
	deleted, err := s.linkedRepo.Delete(ident.UserID, model.ProviderTwitter)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotLinked
	}
	return nil
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func tokenExpiry(token *oauth2.Token) *time.Time {
	if token.Expiry.IsZero() {
		return nil
	}
	t := token.Expiry
	return &t
}

func tokenScope(token *oauth2.Token) string {
	if scope, ok := token.Extra("scope").(string); ok {
		return scope
	}
	return ""
}
