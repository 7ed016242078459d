package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/meridianscan/sales-api/internal/auth"
	"github.com/meridianscan/sales-api/internal/config"
	"github.com/meridianscan/sales-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "https://identity.meridianscan.io"
)

func newTestValidator() *auth.JWTValidator {
	return auth.NewJWTValidator(&config.AuthConfig{
		JWTSecret: testSecret,
		Issuer:    testIssuer,
	})
}

func signTestToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func baseClaims(userID uuid.UUID) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   userID.String(),
		"iss":   testIssuer,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"name":  "Dana Reed",
		"email": "dana@meridianscan.io",
		"roles": []string{"estimator"},
	}
}

func TestValidateToken_Valid(t *testing.T) {
	validator := newTestValidator()
	userID := uuid.New()

	token := signTestToken(t, testSecret, baseClaims(userID))
	userCtx, err := validator.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, userID, userCtx.UserID)
	assert.Equal(t, "Dana Reed", userCtx.DisplayName)
	assert.Equal(t, "dana@meridianscan.io", userCtx.Email)
	assert.Equal(t, []domain.UserRoleType{domain.RoleEstimator}, userCtx.Roles)
}

func TestValidateToken_Expired(t *testing.T) {
	validator := newTestValidator()

	claims := baseClaims(uuid.New())
	claims["exp"] = time.Now().Add(-time.Minute).Unix()

	_, err := validator.ValidateToken(signTestToken(t, testSecret, claims))
	assert.Error(t, err)
}

func TestValidateToken_MissingExpiration(t *testing.T) {
	validator := newTestValidator()

	claims := baseClaims(uuid.New())
	delete(claims, "exp")

	_, err := validator.ValidateToken(signTestToken(t, testSecret, claims))
	assert.Error(t, err)
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	validator := newTestValidator()

	claims := baseClaims(uuid.New())
	claims["iss"] = "https://other-issuer.example.com"

	_, err := validator.ValidateToken(signTestToken(t, testSecret, claims))
	assert.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	validator := newTestValidator()

	_, err := validator.ValidateToken(signTestToken(t, "wrong-secret", baseClaims(uuid.New())))
	assert.Error(t, err)
}

func TestValidateToken_InvalidSubject(t *testing.T) {
	validator := newTestValidator()

	claims := baseClaims(uuid.New())
	claims["sub"] = "not-a-uuid"

	_, err := validator.ValidateToken(signTestToken(t, testSecret, claims))
	assert.Error(t, err)
}

func TestValidateToken_UnknownRolesFiltered(t *testing.T) {
	validator := newTestValidator()

	claims := baseClaims(uuid.New())
	claims["roles"] = []string{"superuser", "sales"}

	userCtx, err := validator.ValidateToken(signTestToken(t, testSecret, claims))
	require.NoError(t, err)
	assert.Equal(t, []domain.UserRoleType{domain.RoleSales}, userCtx.Roles)
}

func TestValidateToken_NoRolesDefaultsToViewer(t *testing.T) {
	validator := newTestValidator()

	claims := baseClaims(uuid.New())
	delete(claims, "roles")

	userCtx, err := validator.ValidateToken(signTestToken(t, testSecret, claims))
	require.NoError(t, err)
	assert.Equal(t, []domain.UserRoleType{domain.RoleViewer}, userCtx.Roles)
}
