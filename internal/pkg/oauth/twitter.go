package oauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// Twitter OAuth 2.0 endpoints (authorization code with PKCE).
var TwitterEndpoint = oauth2.Endpoint{
	AuthURL:   "https://twitter.com/i/oauth2/authorize",
	TokenURL:  "https://api.twitter.com/2/oauth2/token",
	AuthStyle: oauth2.AuthStyleInHeader,
}

// ErrNoRefreshToken means the stored grant cannot be renewed and the user must reconnect.
var ErrNoRefreshToken = errors.New("no refresh token stored")

// TwitterOAuth links a Twitter account to an existing user.
type TwitterOAuth struct {
	config *oauth2.Config
}

func NewTwitterOAuth(clientID, clientSecret, redirectURI string, scopes []string) *TwitterOAuth {
	return NewTwitterOAuthWithEndpoint(clientID, clientSecret, redirectURI, scopes, TwitterEndpoint)
}

// NewTwitterOAuthWithEndpoint 允许替换端点（测试用）
func NewTwitterOAuthWithEndpoint(clientID, clientSecret, redirectURI string, scopes []string, endpoint oauth2.Endpoint) *TwitterOAuth {
	return &TwitterOAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
	}
}

// Enabled 是否配置了 Twitter 应用
func (t *TwitterOAuth) Enabled() bool {
	return t.config.ClientID != ""
}

// NewVerifier 生成 PKCE code_verifier
func (t *TwitterOAuth) NewVerifier() string {
	return oauth2.GenerateVerifier()
}

// GetAuthURL 获取授权 URL，challenge 由 verifier 派生
func (t *TwitterOAuth) GetAuthURL(state, verifier string) string {
	return t.config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// Exchange 用授权码和 verifier 换取 token
func (t *TwitterOAuth) Exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error) {
	return t.config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
}

// Refresh 用 refresh token 换取新的 access token。Twitter 会轮换 refresh token，
// 返回值里没有新 refresh token 时沿用旧的
func (t *TwitterOAuth) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, ErrNoRefreshToken
	}
	expired := &oauth2.Token{RefreshToken: refreshToken, Expiry: time.Now().Add(-time.Minute)}
	tok, err := t.config.TokenSource(ctx, expired).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh twitter token: %w", err)
	}
	if tok.RefreshToken == "" {
		tok.RefreshToken = refreshToken
	}
	return tok, nil
}
