package profile

import (
	"context"
	"time"

	"github.com/kgothalangLekitlane/Learn/pkg/cache"
	"github.com/kgothalangLekitlane/Learn/pkg/types"
)

// RoleCache remembers the role a user picked before the identity provider
// confirmed it, keyed by external id. It is a fallback signal only; the
// provisioned profile row is authoritative once it exists.
type RoleCache interface {
	Lookup(ctx context.Context, externalID string) (types.Role, bool)
	Remember(ctx context.Context, externalID string, role types.Role)
}

const roleCacheTTL = 30 * 24 * time.Hour

// CacheRoleStore backs RoleCache with the shared cache client (Redis in
// production, in-memory otherwise).
type CacheRoleStore struct {
	client cache.Client
}

// NewCacheRoleStore wraps a cache client as a RoleCache.
func NewCacheRoleStore(client cache.Client) *CacheRoleStore {
	return &CacheRoleStore{client: client}
}

func roleKey(externalID string) string {
	return "role:" + externalID
}

// Lookup returns a previously remembered role, if any.
func (s *CacheRoleStore) Lookup(ctx context.Context, externalID string) (types.Role, bool) {
	value, err := s.client.Get(ctx, roleKey(externalID))
	if err != nil {
		return "", false
	}

	role := types.Role(value)
	if !role.Valid() {
		return "", false
	}

	return role, true
}

// Remember stores the role for future provisioning fallbacks. Failures
// are ignored: the cache is advisory.
func (s *CacheRoleStore) Remember(ctx context.Context, externalID string, role types.Role) {
	if !role.Valid() {
		return
	}
	_ = s.client.Set(ctx, roleKey(externalID), string(role), roleCacheTTL)
}
