package identity

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kgothalangLekitlane/Learn/pkg/types"
)

var (
	ErrInvalidToken = errors.New("invalid or malformed session token")
	ErrExpiredToken = errors.New("session token has expired")
)

// sessionClaims mirrors the session token layout of the hosted identity
// provider: standard subject/profile claims plus role metadata the user
// may have self-reported during onboarding.
type sessionClaims struct {
	Email          string         `json:"email"`
	Name           string         `json:"name"`
	Picture        string         `json:"picture,omitempty"`
	Role           string         `json:"role,omitempty"`
	PublicMetadata map[string]any `json:"public_metadata,omitempty"`
	UnsafeMetadata map[string]any `json:"unsafe_metadata,omitempty"`
	jwt.RegisteredClaims
}

// roleAttribute extracts the self-reported role. Confirmed public
// metadata wins over user-editable metadata, which wins over a bare
// top-level claim.
func (c sessionClaims) roleAttribute() types.Role {
	if role := metadataRole(c.PublicMetadata); role != "" {
		return role
	}
	if role := metadataRole(c.UnsafeMetadata); role != "" {
		return role
	}
	return types.Role(c.Role)
}

func metadataRole(metadata map[string]any) types.Role {
	if metadata == nil {
		return ""
	}
	if role, ok := metadata["role"].(string); ok {
		return types.Role(role)
	}
	return ""
}

// TokenProvider resolves the session identity from a signed session JWT.
type TokenProvider struct {
	secret []byte
	token  string
}

// NewTokenProvider creates a provider for a single session token.
func NewTokenProvider(secret, token string) *TokenProvider {
	return &TokenProvider{secret: []byte(secret), token: token}
}

// Identity verifies the token and extracts the external identity.
func (p *TokenProvider) Identity(ctx context.Context) (Identity, error) {
	return ParseSessionToken(p.token, p.secret)
}

// ParseSessionToken validates a session JWT and maps its claims onto an
// Identity. The role is left empty when no role claim is present.
func ParseSessionToken(tokenString string, secret []byte) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrExpiredToken
		}
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return Identity{}, ErrInvalidToken
	}

	return Identity{
		ExternalID: claims.Subject,
		Email:      claims.Email,
		Name:       claims.Name,
		AvatarURL:  claims.Picture,
		Role:       claims.roleAttribute(),
	}, nil
}
