package repository_test

import (
	"context"
	"testing"

	"github.com/Kariqs/silkstitch-api/internal/testdb"
	"github.com/Kariqs/silkstitch-api/models"
	"github.com/Kariqs/silkstitch-api/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	repo := repository.NewUserRepository(testdb.New(t))
	ctx := context.Background()

	exists, err := repo.AdminExists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Create(ctx, &models.User{Email: " Admin@SilkStitch.com ", Password: "hash", Role: models.RoleAdmin}))

	exists, err = repo.AdminExists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	user, err := repo.FindByEmail(ctx, "ADMIN@silkstitch.com")
	require.NoError(t, err)
	assert.Equal(t, "admin@silkstitch.com", user.Email)

	_, err = repo.FindByEmail(ctx, "nobody@silkstitch.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}
