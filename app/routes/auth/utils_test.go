package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdsameer16/Alfitra-Fees/app/config"
	"github.com/sdsameer16/Alfitra-Fees/app/models"
)

func TestMain(m *testing.M) {
	config.AppConfig = &config.Config{JWTSecret: []byte("test-secret")}
	m.Run()
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong-pass", hash))
}

func TestJWTRoundTrip(t *testing.T) {
	user := &models.User{
		ID:        "user-1",
		Email:     "admin@alfitra.test",
		FirstName: "Admin",
		LastName:  "User",
		Role:      models.RoleAdmin,
	}

	token, err := GenerateJWT(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin@alfitra.test", claims.Email)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "alfitra-fees", claims.Issuer)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	_, err := ValidateJWT("not.a.token")
	assert.Error(t, err)
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "x@alfitra.test", Role: models.RoleStaff}
	token, err := GenerateJWT(user)
	require.NoError(t, err)

	config.AppConfig = &config.Config{JWTSecret: []byte("another-secret")}
	defer func() {
		config.AppConfig = &config.Config{JWTSecret: []byte("test-secret")}
	}()

	_, err = ValidateJWT(token)
	assert.Error(t, err)
}
