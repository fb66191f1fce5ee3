package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/repurpose_server/internal/model"
	"github.com/qs3c/repurpose_server/internal/testutil"
)

func TestLinkedAccountRepository_Upsert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewLinkedAccountRepository(db)
	user := testutil.TestUser(t, db)

	first := &model.LinkedAccount{UserID: user.ID, Provider: model.ProviderTwitter, ProviderUserID: "1", Username: "old", AccessToken: "at-1"}
	require.NoError(t, repo.Upsert(first))

	refresh := "rt-2"
	second := &model.LinkedAccount{UserID: user.ID, Provider: model.ProviderTwitter, ProviderUserID: "1", Username: "new", AccessToken: "at-2", RefreshToken: &refresh}
	require.NoError(t, repo.Upsert(second))

	var count int64
	db.Model(&model.LinkedAccount{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	found, err := repo.Get(user.ID, model.ProviderTwitter)
	require.NoError(t, err)
	assert.Equal(t, "new", found.Username)
	assert.Equal(t, "at-2", found.AccessToken)
	require.NotNil(t, found.RefreshToken)
	assert.Equal(t, "rt-2", *found.RefreshToken)
}

func TestLinkedAccountRepository_UpdateTokens(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewLinkedAccountRepository(db)
	user := testutil.TestUser(t, db)
	acct := testutil.TestLinkedAccount(t, db, user.ID)

	refresh := "rt-new"
	expires := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	require.NoError(t, repo.UpdateTokens(acct.ID, "at-new", &refresh, &expires))

	found, err := repo.Get(user.ID, model.ProviderTwitter)
	require.NoError(t, err)
	assert.Equal(t, "at-new", found.AccessToken)
	assert.Equal(t, "rt-new", *found.RefreshToken)
	require.NotNil(t, found.ExpiresAt)
	assert.False(t, found.Expired(time.Now()))
}

func TestLinkedAccountRepository_ExistsAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewLinkedAccountRepository(db)
	user := testutil.TestUser(t, db)
	testutil.TestLinkedAccount(t, db, user.ID)

	exists, err := repo.Exists(user.ID, model.ProviderTwitter)
	require.NoError(t, err)
	assert.True(t, exists)

	deleted, err := repo.Delete(user.ID, model.ProviderTwitter)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(user.ID, model.ProviderTwitter)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = repo.Get(user.ID, model.ProviderTwitter)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLinkedAccount_Expired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.True(t, (&model.LinkedAccount{ExpiresAt: &past}).Expired(now))
	assert.False(t, (&model.LinkedAccount{ExpiresAt: &future}).Expired(now))
	assert.False(t, (&model.LinkedAccount{}).Expired(now))
}
