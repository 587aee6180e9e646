package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/Kariqs/silkstitch-api/apperrors"
	"github.com/Kariqs/silkstitch-api/internal/testdb"
	"github.com/Kariqs/silkstitch-api/models"
	"github.com/Kariqs/silkstitch-api/repository"
	"github.com/Kariqs/silkstitch-api/services"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuth(t *testing.T) *services.AuthService {
	t.Helper()
	auth := services.NewAuthService(repository.NewUserRepository(testdb.New(t)), testSecret)
	created, err := auth.EnsureAdmin(context.Background(), "admin@silkstitch.com", "s3cret!")
	require.NoError(t, err)
	require.True(t, created)
	return auth
}

func TestEnsureAdmin_OnlyOnce(t *testing.T) {
	auth := newAuth(t)

	created, err := auth.EnsureAdmin(context.Background(), "other@silkstitch.com", "pw")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = auth.EnsureAdmin(context.Background(), "", "")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestLogin_IssuesAdminToken(t *testing.T) {
	auth := newAuth(t)

	token, err := auth.Login(context.Background(), models.LoginData{Email: "Admin@SilkStitch.com", Password: "s3cret!"})
	require.NoError(t, err)

	claims, err := services.ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims["role"])
	assert.Equal(t, "admin@silkstitch.com", claims["email"])
	assert.Contains(t, claims, "exp")
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	auth := newAuth(t)
	ctx := context.Background()

	_, err := auth.Login(ctx, models.LoginData{Email: "admin@silkstitch.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperrors.From(err).Code)

	_, err = auth.Login(ctx, models.LoginData{Email: "nobody@silkstitch.com", Password: "s3cret!"})
	assert.Equal(t, http.StatusUnauthorized, apperrors.From(err).Code)

	_, err = auth.Login(ctx, models.LoginData{Email: "not-an-email"})
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestParseToken_RejectsOtherSecretsAndAlgorithms(t *testing.T) {
	auth := newAuth(t)
	token, err := auth.Login(context.Background(), models.LoginData{Email: "admin@silkstitch.com", Password: "s3cret!"})
	require.NoError(t, err)

	_, err = services.ParseToken("another-secret", token)
	assert.Error(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"role": "admin"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = services.ParseToken(testSecret, unsigned)
	assert.Error(t, err)
}
