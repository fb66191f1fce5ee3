package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/repurpose_server/internal/model"
	"github.com/qs3c/repurpose_server/internal/model/dto"
	"github.com/qs3c/repurpose_server/internal/repository"
	"github.com/qs3c/repurpose_server/internal/testutil"
)

func setupUserService(t *testing.T) (*UserService, *gorm.DB) {
	t.Helper()
	db := setupDB(t)
	svc := NewUserService(repository.NewUserRepository(db), repository.NewLinkedAccountRepository(db))
	svc.bcryptCost = bcrypt.MinCost
	return svc, db
}

func strPtr(s string) *string { return &s }

func TestUserService_GetProfile(t *testing.T) {
	svc, db := setupUserService(t)
	user := testutil.TestUser(t, db, testutil.WithName("Dana"), testutil.WithCredits(3))

	info, err := svc.GetProfile(Identity{UserID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, "Dana", info.Name)
	assert.Equal(t, 3, info.Credits)

	_, err = svc.GetProfile(Identity{})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.GetProfile(Identity{UserID: 999999})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_GetSettings_ConnectedAccounts(t *testing.T) {
	svc, db := setupUserService(t)
	user := testutil.TestUser(t, db)

	settings, err := svc.GetSettings(Identity{UserID: user.ID})
	require.NoError(t, err)
	assert.False(t, settings.ConnectedAccounts.Twitter)

	testutil.TestLinkedAccount(t, db, user.ID)

	settings, err = svc.GetSettings(Identity{UserID: user.ID})
	require.NoError(t, err)
	assert.True(t, settings.ConnectedAccounts.Twitter)
	assert.Equal(t, user.ID, settings.User.ID)
}

func TestUserService_UpdateSettings_Name(t *testing.T) {
	svc, db := setupUserService(t)
	user := testutil.TestUser(t, db)

	info, err := svc.UpdateSettings(Identity{UserID: user.ID}, &dto.UpdateSettingsRequest{Name: strPtr("  New Name ")})
	require.NoError(t, err)
	assert.Equal(t, "New Name", info.Name)

	var stored model.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, "New Name", stored.Name)

	_, err = svc.UpdateSettings(Identity{UserID: user.ID}, &dto.UpdateSettingsRequest{Name: strPtr("  ")})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestUserService_UpdateSettings_Password(t *testing.T) {
	svc, db := setupUserService(t)
	user := testutil.TestUser(t, db)
	ident := Identity{UserID: user.ID}

	t.Run("wrong current password", func(t *testing.T) {
		_, err := svc.UpdateSettings(ident, &dto.UpdateSettingsRequest{CurrentPassword: "wrong", NewPassword: "newpass123"})
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("success", func(t *testing.T) {
		info, err := svc.UpdateSettings(ident, &dto.UpdateSettingsRequest{CurrentPassword: testutil.TestPassword, NewPassword: "newpass123"})
		require.NoError(t, err)
		assert.Nil(t, info)

		var stored model.User
		require.NoError(t, db.First(&stored, user.ID).Error)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*stored.PasswordHash), []byte("newpass123")))
	})

	t.Run("nothing to update", func(t *testing.T) {
		_, err := svc.UpdateSettings(ident, &dto.UpdateSettingsRequest{NewPassword: "only-new"})
		assert.ErrorIs(t, err, ErrNoValidUpdate)
	})
}

func TestUserService_UpdateSettings_OAuthUserHasNoPassword(t *testing.T) {
	svc, db := setupUserService(t)
	user := testutil.TestUser(t, db, testutil.WithoutPassword())

	_, err := svc.UpdateSettings(Identity{UserID: user.ID}, &dto.UpdateSettingsRequest{CurrentPassword: "x", NewPassword: "newpass123"})
	assert.ErrorIs(t, err, ErrPasswordNotSet)
}
