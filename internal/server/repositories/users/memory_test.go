package users

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

func TestMemoryRepository_CreateAndGet(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	u, err := r.Create(ctx, &models.User{Username: "ann", Email: "Ann@Test.com"})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := r.GetByEmail(ctx, " ann@test.COM")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann", got.Username)

	_, err = r.Create(ctx, &models.User{Email: "ann@test.com"})
	assert.True(t, errors.Is(err, common.ErrorAlreadyExists))

	_, err = r.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestMemoryRepository_UpdateIsolatesCopies(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	u, err := r.Create(ctx, &models.User{Username: "ann", Email: "ann@test.com"})
	require.NoError(t, err)

	u.Username = "changed locally"
	got, _ := r.GetByID(ctx, u.ID)
	assert.Equal(t, "ann", got.Username)

	got.EmailVerified = true
	require.NoError(t, r.Update(ctx, got))

	again, _ := r.GetByID(ctx, u.ID)
	assert.True(t, again.EmailVerified)

	assert.True(t, errors.Is(r.Update(ctx, &models.User{ID: "nope"}), common.ErrorNotFound))
}
