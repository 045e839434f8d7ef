package auth

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing"

func setSecret(t *testing.T, secret string) {
	t.Helper()
	t.Setenv("JWT_SECRET", secret)
}

func signClaims(t *testing.T, claims Claims, method jwt.SigningMethod, key any) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)

	return token
}

func TestGenerateJWT_Success(t *testing.T) {
	setSecret(t, testSecret)

	token, err := GenerateJWT("user-123", "test@example.com", nil)

	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(token, ".")), "JWT should have 3 parts")
}

func TestGenerateJWT_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET") //nolint:errcheck // restored by t.Setenv

	_, err := GenerateJWT("user-123", "test@example.com", nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET not set")
}

func TestValidateJWT_ValidToken(t *testing.T) {
	setSecret(t, testSecret)

	token, err := GenerateJWT("user-123", "test@example.com", map[string]any{"role": "admin", "is_approved": true})
	require.NoError(t, err)

	claims, err := ValidateJWT(token)

	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID())
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, "admin", claims.UserMetadata["role"])

	user := claims.User()
	assert.Equal(t, "user-123", user.ID)
	assert.True(t, user.Claims().IsApproved)
}

func TestValidateJWT_ExpiredToken(t *testing.T) {
	setSecret(t, testSecret)

	token := signClaims(t, Claims{
		Email: "test@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			Audience:  jwt.ClaimStrings{Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}, jwt.SigningMethodHS256, []byte(testSecret))

	_, err := ValidateJWT(token)

	assert.Error(t, err, "expired token should be rejected")
}

func TestValidateJWT_WrongAudience(t *testing.T) {
	setSecret(t, testSecret)

	token := signClaims(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			Audience:  jwt.ClaimStrings{"anon"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, jwt.SigningMethodHS256, []byte(testSecret))

	_, err := ValidateJWT(token)

	assert.Error(t, err, "anon key tokens are not user sessions")
}

func TestValidateJWT_MissingSubject(t *testing.T) {
	setSecret(t, testSecret)

	token := signClaims(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, jwt.SigningMethodHS256, []byte(testSecret))

	_, err := ValidateJWT(token)

	assert.Error(t, err)
}

func TestValidateJWT_TamperedToken(t *testing.T) {
	setSecret(t, testSecret)

	token, err := GenerateJWT("user-123", "test@example.com", nil)
	require.NoError(t, err)

	tamperedToken := token[:len(token)-5] + "XXXXX"

	_, err = ValidateJWT(tamperedToken)
	assert.Error(t, err, "tampered token should be rejected")
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	setSecret(t, testSecret)
	token, err := GenerateJWT("user-123", "test@example.com", nil)
	require.NoError(t, err)

	setSecret(t, "different-secret-key")

	_, err = ValidateJWT(token)

	assert.Error(t, err, "token signed with different secret should be rejected")
}

func TestValidateJWT_AlgorithmConfusionAttack(t *testing.T) {
	setSecret(t, testSecret)

	token := signClaims(t, Claims{
		Email: "attacker@evil.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "attacker",
			Audience:  jwt.ClaimStrings{Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType)

	_, err := ValidateJWT(token)
	assert.Error(t, err, "token with 'none' algorithm should be rejected")
}

func TestValidateJWT_MalformedToken(t *testing.T) {
	setSecret(t, testSecret)

	malformedTokens := []string{
		"",
		"not.a.jwt",
		"only.two",
		"too.many.parts.in.this.token",
		"<script>alert('xss')</script>",
	}

	for _, token := range malformedTokens {
		_, err := ValidateJWT(token)
		assert.Error(t, err, "malformed token '%s' should be rejected", token)
	}
}
