package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kgothalangLekitlane/Learn/pkg/types"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func TestParseSessionToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub":     "user_2abc",
		"email":   "ada@example.com",
		"name":    "Ada Lovelace",
		"picture": "https://img.example.com/ada.png",
	})

	id, err := ParseSessionToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "user_2abc", id.ExternalID)
	assert.Equal(t, "ada@example.com", id.Email)
	assert.Equal(t, "Ada Lovelace", id.Name)
	assert.Equal(t, "https://img.example.com/ada.png", id.AvatarURL)
	assert.Empty(t, id.Role, "no role claim leaves the role unset")
}

func TestParseSessionTokenRolePrecedence(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   types.Role
	}{
		{
			"public metadata wins",
			jwt.MapClaims{
				"sub":             "u1",
				"public_metadata": map[string]any{"role": "tutor"},
				"unsafe_metadata": map[string]any{"role": "student"},
				"role":            "student",
			},
			types.RoleTutor,
		},
		{
			"unsafe metadata over top-level claim",
			jwt.MapClaims{
				"sub":             "u2",
				"unsafe_metadata": map[string]any{"role": "tutor"},
				"role":            "student",
			},
			types.RoleTutor,
		},
		{
			"top-level claim as last resort",
			jwt.MapClaims{"sub": "u3", "role": "tutor"},
			types.RoleTutor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseSessionToken(signToken(t, tt.claims), testSecret)
			require.NoError(t, err)
			assert.Equal(t, tt.want, id.Role)
		})
	}
}

func TestParseSessionTokenRejectsWrongSecret(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"sub": "u1"})

	_, err := ParseSessionToken(token, []byte("other-secret"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseSessionTokenRejectsExpired(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := ParseSessionToken(token, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParseSessionTokenRequiresSubject(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"email": "nobody@example.com"})

	_, err := ParseSessionToken(token, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseSessionTokenRejectsGarbage(t *testing.T) {
	_, err := ParseSessionToken("not.a.token", testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenProviderIdentity(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"sub": "u9", "name": "Grace"})
	provider := NewTokenProvider(string(testSecret), token)

	id, err := provider.Identity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u9", id.ExternalID)
	assert.Equal(t, "Grace", id.DisplayName())
}

func TestDisplayNameFallback(t *testing.T) {
	assert.Equal(t, "Ada", Identity{Name: "Ada", Email: "a@b.c"}.DisplayName())
	assert.Equal(t, "a@b.c", Identity{Email: "a@b.c"}.DisplayName())
	assert.Equal(t, "User", Identity{}.DisplayName())
}
