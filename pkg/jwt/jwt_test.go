package jwt

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	userID := uuid.New()
	privileges := []string{"sale:create", "sale:view", "product:view"}

	token, err := GenerateToken(userID, "cashier@example.com", "Cashier One", "SHOPKEEPER", privileges, "v1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "cashier@example.com", claims.Email)
	assert.Equal(t, "Cashier One", claims.Name)
	assert.Equal(t, "SHOPKEEPER", claims.RoleCode)
	assert.Equal(t, privileges, claims.Privileges)
	assert.Equal(t, "v1", claims.TokenVersion)
	assert.Equal(t, "go-pos-backend", claims.Issuer)
}

func TestValidateToken_Malformed(t *testing.T) {
	claims, err := ValidateToken("not.a.token")

	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_TamperedSignature(t *testing.T) {
	token, err := GenerateToken(uuid.New(), "a@b.com", "A", "STORE_OWNER", nil, "v1")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	claims, err := ValidateToken(tampered)

	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGetSecretKey_EnvOverride(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	assert.Equal(t, []byte("test-secret"), GetSecretKey())
}
