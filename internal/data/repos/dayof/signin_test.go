package dayof_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/losaltoshacks/registration-backend/internal/data/repos"
	"github.com/losaltoshacks/registration-backend/internal/data/repos/testutil"
	"github.com/losaltoshacks/registration-backend/internal/platform/dbctx"
)

func TestBadgeIsUnique(t *testing.T) {
	db := testutil.DB(t)
	repo := repos.NewSignInRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	_, err := repo.Create(dbc, "badge-1")
	require.NoError(t, err)
	_, err = repo.Create(dbc, "badge-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))

	exists, err := repo.BadgeExists(dbc, "badge-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestIncrementMealStopsAtMax(t *testing.T) {
	db := testutil.DB(t)
	repo := repos.NewSignInRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}
	s, err := repo.Create(dbc, "badge-1")
	require.NoError(t, err)

	ok, err := repo.IncrementMeal(dbc, s.ID, 3, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.IncrementMeal(dbc, s.ID, 3, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.IncrementMeal(dbc, s.ID, 3, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByBadge(dbc, "badge-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Meal3)
	assert.Equal(t, 0, got.Meal1)

	_, err = repo.IncrementMeal(dbc, s.ID, 10, 1)
	assert.Error(t, err)
}

func TestMarkSignedOutOnce(t *testing.T) {
	db := testutil.DB(t)
	repo := repos.NewSignInRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}
	s, err := repo.Create(dbc, "badge-1")
	require.NoError(t, err)

	ok, err := repo.MarkSignedOut(dbc, s.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.MarkSignedOut(dbc, s.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	missing, err := repo.GetByBadge(dbc, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
