package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/qs3c/repurpose_server/internal/model"
	"github.com/qs3c/repurpose_server/internal/pkg/oauth"
	"github.com/qs3c/repurpose_server/internal/pkg/twitter"
	"github.com/qs3c/repurpose_server/internal/repository"
	"github.com/qs3c/repurpose_server/internal/testutil"
)

type fakeTwitterAuth struct {
	refreshErr   error
	refreshCalls int
	verifier     string
}

func (f *fakeTwitterAuth) Enabled() bool       { return true }
func (f *fakeTwitterAuth) NewVerifier() string { return "verifier-123" }

func (f *fakeTwitterAuth) GetAuthURL(state, verifier string) string {
	return "https://twitter.com/i/oauth2/authorize?state=" + url.QueryEscape(state)
}

func (f *fakeTwitterAuth) Exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error) {
	f.verifier = verifier
	return &oauth2.Token{
		AccessToken:  "new-access",
		RefreshToken: "new-refresh",
		Expiry:       time.Now().Add(2 * time.Hour),
	}, nil
}

func (f *fakeTwitterAuth) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	f.refreshCalls++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return &oauth2.Token{
		AccessToken:  "refreshed-access",
		RefreshToken: "rotated-refresh",
		Expiry:       time.Now().Add(2 * time.Hour),
	}, nil
}

type fakeTwitterAPI struct {
	postErr     error
	postedWith  string
	postedTexts []string
}

func (f *fakeTwitterAPI) Me(ctx context.Context, accessToken string) (*twitter.User, error) {
	return &twitter.User{ID: "777", Name: "Poster", Username: "poster"}, nil
}

func (f *fakeTwitterAPI) PostTweet(ctx context.Context, accessToken, text string) (string, error) {
	if f.postErr != nil {
		return "", f.postErr
	}
	f.postedWith = accessToken
	f.postedTexts = append(f.postedTexts, text)
	return "tweet-1", nil
}

type integrationFixture struct {
	svc  *IntegrationService
	db   *gorm.DB
	auth *fakeTwitterAuth
	api  *fakeTwitterAPI
}

func setupIntegrationService(t *testing.T) *integrationFixture {
	t.Helper()

	db := setupDB(t)
	f := &integrationFixture{db: db, auth: &fakeTwitterAuth{}, api: &fakeTwitterAPI{}}
	f.svc = NewIntegrationService(
		repository.NewLinkedAccountRepository(db),
		f.auth,
		f.api,
		oauth.NewStateStore(setupRedis(t)),
		testLogger(),
	)
	return f
}

func (f *integrationFixture) account(t *testing.T, userID int64) *model.LinkedAccount {
	t.Helper()
	var acct model.LinkedAccount
	require.NoError(t, f.db.Where("user_id = ? AND provider = ?", userID, model.ProviderTwitter).First(&acct).Error)
	return &acct
}

func TestIntegrationService_ConnectAndCallback(t *testing.T) {
	f := setupIntegrationService(t)
	user := testutil.TestUser(t, f.db)
	ctx := context.Background()

	resp, err := f.svc.ConnectURL(ctx, Identity{UserID: user.ID}, "/settings")
	require.NoError(t, err)

	u, err := url.Parse(resp.AuthURL)
	require.NoError(t, err)
	state := u.Query().Get("state")
	require.NotEmpty(t, state)

	redirect, err := f.svc.Callback(ctx, "auth-code", state)
	require.NoError(t, err)
	assert.Equal(t, "/settings", redirect)
	assert.Equal(t, "verifier-123", f.auth.verifier)

	acct := f.account(t, user.ID)
	assert.Equal(t, "poster", acct.Username)
	assert.Equal(t, "777", acct.ProviderUserID)
	assert.Equal(t, "new-access", acct.AccessToken)
	require.NotNil(t, acct.RefreshToken)
	assert.Equal(t, "new-refresh", *acct.RefreshToken)

	_, err = f.svc.Callback(ctx, "auth-code", state)
	assert.ErrorIs(t, err, ErrOAuthState)
}

func TestIntegrationService_Post_NotLinked(t *testing.T) {
	f := setupIntegrationService(t)
	user := testutil.TestUser(t, f.db)

	_, err := f.svc.Post(context.Background(), Identity{UserID: user.ID}, "hello")
	assert.ErrorIs(t, err, ErrNotLinked)
}

func TestIntegrationService_Post_ValidToken(t *testing.T) {
	f := setupIntegrationService(t)
	user := testutil.TestUser(t, f.db)
	testutil.TestLinkedAccount(t, f.db, user.ID)

	resp, err := f.svc.Post(context.Background(), Identity{UserID: user.ID}, "  hello world  ")
	require.NoError(t, err)
	assert.Equal(t, "tweet-1", resp.TweetID)
	assert.Equal(t, "access-token", f.api.postedWith)
	assert.Equal(t, []string{"hello world"}, f.api.postedTexts)
	assert.Zero(t, f.auth.refreshCalls)
}

func TestIntegrationService_Post_RefreshesExpiredToken(t *testing.T) {
	f := setupIntegrationService(t)
	user := testutil.TestUser(t, f.db)
	testutil.TestLinkedAccount(t, f.db, user.ID, testutil.WithTokenExpiry(time.Now().Add(-time.Minute)))

	_, err := f.svc.Post(context.Background(), Identity{UserID: user.ID}, "hello")
	require.NoError(t, err)
	assert.Equal(t, 1, f.auth.refreshCalls)
	assert.Equal(t, "refreshed-access", f.api.postedWith)

	acct := f.account(t, user.ID)
	assert.Equal(t, "refreshed-access", acct.AccessToken)
	require.NotNil(t, acct.RefreshToken)
	assert.Equal(t, "rotated-refresh", *acct.RefreshToken)
	assert.True(t, acct.ExpiresAt.After(time.Now()))
}

func TestIntegrationService_Post_RefreshFailure(t *testing.T) {
	f := setupIntegrationService(t)
	user := testutil.TestUser(t, f.db)
	testutil.TestLinkedAccount(t, f.db, user.ID, testutil.WithTokenExpiry(time.Now().Add(-time.Minute)))
	f.auth.refreshErr = errors.New("invalid_grant")

	_, err := f.svc.Post(context.Background(), Identity{UserID: user.ID}, "hello")
	assert.ErrorIs(t, err, ErrRefreshFailed)
	assert.Empty(t, f.api.postedTexts)
}

func TestIntegrationService_Post_ExpiredWithoutRefreshToken(t *testing.T) {
	f := setupIntegrationService(t)
	user := testutil.TestUser(t, f.db)
	testutil.TestLinkedAccount(t, f.db, user.ID,
		testutil.WithTokenExpiry(time.Now().Add(-time.Minute)),
		testutil.WithRefreshToken(""),
	)

	_, err := f.svc.Post(context.Background(), Identity{UserID: user.ID}, "hello")
	assert.ErrorIs(t, err, ErrReconnectRequired)
	assert.Zero(t, f.auth.refreshCalls)
}

func TestIntegrationService_Post_RejectedToken(t *testing.T) {
	f := setupIntegrationService(t)
	user := testutil.TestUser(t, f.db)
	testutil.TestLinkedAccount(t, f.db, user.ID)
	f.api.postErr = twitter.ErrUnauthorized

	_, err := f.svc.Post(context.Background(), Identity{UserID: user.ID}, "hello")
	assert.ErrorIs(t, err, ErrReconnectRequired)
}

func TestIntegrationService_Post_InvalidText(t *testing.T) {
	f := setupIntegrationService(t)
	user := testutil.TestUser(t, f.db)

	_, err := f.svc.Post(context.Background(), Identity{UserID: user.ID}, "   ")
	assert.ErrorIs(t, err, ErrTweetInvalid)

	_, err = f.svc.Post(context.Background(), Identity{UserID: user.ID}, strings.Repeat("a", 281))
	assert.ErrorIs(t, err, ErrTweetInvalid)
}

func TestIntegrationService_Unlink(t *testing.T) {
	f := setupIntegrationService(t)
	user := testutil.TestUser(t, f.db)
	testutil.TestLinkedAccount(t, f.db, user.ID)

	require.NoError(t, f.svc.Unlink(Identity{UserID: user.ID}))
	assert.ErrorIs(t, f.svc.Unlink(Identity{UserID: user.ID}), ErrNotLinked)
}
