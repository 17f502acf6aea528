// Package profile maps an external identity to exactly one internal
// profile row, creating it on first sight.
package profile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kgothalangLekitlane/Learn/internal/identity"
	"github.com/kgothalangLekitlane/Learn/internal/store"
	"github.com/kgothalangLekitlane/Learn/pkg/apperrors"
	"github.com/kgothalangLekitlane/Learn/pkg/types"
)

// ResolveRole picks the effective role for a new profile with a fixed
// precedence: the identity's confirmed role attribute, then a previously
// cached self-reported role, then the platform default. It runs once at
// provisioning time; the stored profile is authoritative afterwards.
func ResolveRole(id identity.Identity, cached types.Role) types.Role {
	if id.Role.Valid() {
		return id.Role
	}
	if cached.Valid() {
		return cached
	}
	return types.DefaultRole
}

// Provisioner resolves external identities to profile rows.
type Provisioner struct {
	store  store.Store
	roles  RoleCache
	logger *slog.Logger
}

// NewProvisioner creates a Provisioner.
func NewProvisioner(st store.Store, roles RoleCache, logger *slog.Logger) *Provisioner {
	return &Provisioner{store: st, roles: roles, logger: logger}
}

// Ensure returns the profile for an external identity, creating it if
// absent. The returned row's store-assigned id, not the external id, is
// the foreign key used everywhere else. A duplicate-key rejection from a
// racing session is resolved by one lookup retry before failing.
func (p *Provisioner) Ensure(ctx context.Context, id identity.Identity) (store.Profile, error) {
	existing, err := p.store.ProfileByExternalID(ctx, id.ExternalID)
	switch {
	case err == nil:
		p.roles.Remember(ctx, id.ExternalID, existing.Role)
		return existing, nil
	case !errors.Is(err, store.ErrNotFound):
		return store.Profile{}, apperrors.Wrap(err, "profile lookup failed", apperrors.ErrProvisioning)
	}

	cached, _ := p.roles.Lookup(ctx, id.ExternalID)
	role := ResolveRole(id, cached)

	created, err := p.store.InsertProfile(ctx, store.NewProfile{
		ExternalID:  id.ExternalID,
		Email:       id.Email,
		DisplayName: id.DisplayName(),
		Role:        role,
		AvatarURL:   id.AvatarURL,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// Another session provisioned the same identity first.
			won, lookupErr := p.store.ProfileByExternalID(ctx, id.ExternalID)
			if lookupErr != nil {
				return store.Profile{}, apperrors.Wrap(lookupErr, "profile create race unresolved", apperrors.ErrProvisioning)
			}
			p.logger.Info("profile already provisioned by concurrent session",
				slog.String("external_id", id.ExternalID),
			)
			return won, nil
		}
		return store.Profile{}, apperrors.Wrap(err, "profile create failed", apperrors.ErrProvisioning)
	}

	p.roles.Remember(ctx, id.ExternalID, created.Role)

	p.logger.Info("profile provisioned",
		slog.String("external_id", id.ExternalID),
		slog.String("profile_id", created.ID.String()),
		slog.String("role", string(created.Role)),
	)

	return created, nil
}
