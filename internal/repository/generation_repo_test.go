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

func TestGenerationRepository_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewGenerationRepository(db)
	user := testutil.TestUser(t, db)

	email := "An email teaser of reasonable length."
	gen := &model.Generation{
		UserID:    user.ID,
		SourceURL: "https://youtu.be/dQw4w9WgXcQ",
		Tone:      "casual",
		Platforms: model.StringArray{"twitter", "email"},
		Tweets:    model.StringArray{"one", "two", "three"},
		Email:     &email,
	}
	require.NoError(t, repo.Create(gen))

	found, err := repo.GetByID(gen.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StringArray{"one", "two", "three"}, found.Tweets)
	assert.Equal(t, model.StringArray{"twitter", "email"}, found.Platforms)
	assert.Nil(t, found.Linkedin, "unrequested platforms stay NULL")
	require.NotNil(t, found.Email)
	assert.Equal(t, email, *found.Email)
}

func TestGenerationRepository_ListByUserID_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewGenerationRepository(db)
	user := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)

	base := time.Now().Add(-time.Hour)
	old := testutil.TestGeneration(t, db, user.ID, testutil.WithCreatedAt(base))
	newer := testutil.TestGeneration(t, db, user.ID, testutil.WithCreatedAt(base.Add(30*time.Minute)))
	newest := testutil.TestGeneration(t, db, user.ID, testutil.WithCreatedAt(base.Add(45*time.Minute)))
	testutil.TestGeneration(t, db, other.ID)

	gens, err := repo.ListByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, gens, 3)
	assert.Equal(t, []int64{newest.ID, newer.ID, old.ID}, []int64{gens[0].ID, gens[1].ID, gens[2].ID})
}

func TestGenerationRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewGenerationRepository(db)
	user := testutil.TestUser(t, db)
	gen := testutil.TestGeneration(t, db, user.ID)

	require.NoError(t, repo.Delete(gen.ID))

	_, err := repo.GetByID(gen.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
