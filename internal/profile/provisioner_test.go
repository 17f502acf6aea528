package profile_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kgothalangLekitlane/Learn/internal/identity"
	"github.com/kgothalangLekitlane/Learn/internal/profile"
	"github.com/kgothalangLekitlane/Learn/internal/store"
	"github.com/kgothalangLekitlane/Learn/pkg/apperrors"
	"github.com/kgothalangLekitlane/Learn/pkg/types"
)

// stubStore covers the two profile operations the provisioner uses.
// The embedded interface panics on anything else, which is what we want.
type stubStore struct {
	store.Store

	profiles  map[string]store.Profile
	lookupErr error
	insertErr error
	inserted  []store.NewProfile
}

func newStubStore() *stubStore {
	return &stubStore{profiles: make(map[string]store.Profile)}
}

func (s *stubStore) ProfileByExternalID(_ context.Context, externalID string) (store.Profile, error) {
	if s.lookupErr != nil {
		return store.Profile{}, s.lookupErr
	}
	if p, ok := s.profiles[externalID]; ok {
		return p, nil
	}
	return store.Profile{}, store.ErrNotFound
}

func (s *stubStore) InsertProfile(_ context.Context, input store.NewProfile) (store.Profile, error) {
	s.inserted = append(s.inserted, input)
	if s.insertErr != nil {
		return store.Profile{}, s.insertErr
	}
	p := store.Profile{
		ExternalID:  input.ExternalID,
		Email:       input.Email,
		DisplayName: input.DisplayName,
		Role:        input.Role,
		AvatarURL:   input.AvatarURL,
	}
	p.ID = uuid.New()
	s.profiles[input.ExternalID] = p
	return p, nil
}

type mapRoles map[string]types.Role

func (m mapRoles) Lookup(_ context.Context, externalID string) (types.Role, bool) {
	role, ok := m[externalID]
	return role, ok
}

func (m mapRoles) Remember(_ context.Context, externalID string, role types.Role) {
	m[externalID] = role
}

func newProvisioner(st store.Store, roles profile.RoleCache) *profile.Provisioner {
	return profile.NewProvisioner(st, roles, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestResolveRolePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		identity types.Role
		cached   types.Role
		want     types.Role
	}{
		{"identity role wins", types.RoleTutor, types.RoleStudent, types.RoleTutor},
		{"cached role when identity silent", "", types.RoleTutor, types.RoleTutor},
		{"invalid identity role ignored", "admin", types.RoleTutor, types.RoleTutor},
		{"default when nothing signalled", "", "", types.RoleStudent},
		{"invalid cached role ignored", "", "superuser", types.RoleStudent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := profile.ResolveRole(identity.Identity{Role: tt.identity}, tt.cached)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnsureReturnsExistingProfile(t *testing.T) {
	st := newStubStore()
	existing := store.Profile{ExternalID: "ext-1", Role: types.RoleTutor, DisplayName: "Ada"}
	existing.ID = uuid.New()
	st.profiles["ext-1"] = existing

	roles := mapRoles{}
	p := newProvisioner(st, roles)

	got, err := p.Ensure(context.Background(), identity.Identity{ExternalID: "ext-1"})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.ID)
	assert.Empty(t, st.inserted)

	// The confirmed role is remembered for future fallback lookups.
	assert.Equal(t, types.RoleTutor, roles["ext-1"])
}

func TestEnsureCreatesOnFirstSight(t *testing.T) {
	st := newStubStore()
	p := newProvisioner(st, mapRoles{})

	got, err := p.Ensure(context.Background(), identity.Identity{
		ExternalID: "ext-2",
		Email:      "ada@example.com",
		Name:       "Ada Lovelace",
		Role:       types.RoleTutor,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, types.RoleTutor, got.Role)
	assert.Equal(t, "Ada Lovelace", got.DisplayName)
	require.Len(t, st.inserted, 1)
}

func TestEnsureFallsBackToEmailThenPlaceholder(t *testing.T) {
	st := newStubStore()
	p := newProvisioner(st, mapRoles{})

	got, err := p.Ensure(context.Background(), identity.Identity{
		ExternalID: "ext-3",
		Email:      "no-name@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "no-name@example.com", got.DisplayName)

	got, err = p.Ensure(context.Background(), identity.Identity{ExternalID: "ext-4"})
	require.NoError(t, err)
	assert.Equal(t, "User", got.DisplayName)
}

func TestEnsureUsesCachedRoleFallback(t *testing.T) {
	st := newStubStore()
	roles := mapRoles{"ext-5": types.RoleTutor}
	p := newProvisioner(st, roles)

	got, err := p.Ensure(context.Background(), identity.Identity{ExternalID: "ext-5"})
	require.NoError(t, err)
	assert.Equal(t, types.RoleTutor, got.Role)
}

func TestEnsureDefaultsToStudent(t *testing.T) {
	st := newStubStore()
	p := newProvisioner(st, mapRoles{})

	got, err := p.Ensure(context.Background(), identity.Identity{ExternalID: "ext-6"})
	require.NoError(t, err)
	assert.Equal(t, types.RoleStudent, got.Role)
}

// raceStore reports not-found on the first lookup and the winner's row
// afterwards, simulating a concurrent session provisioning the same id.
type raceStore struct {
	*stubStore
	winner  store.Profile
	lookups int
}

func (r *raceStore) ProfileByExternalID(_ context.Context, _ string) (store.Profile, error) {
	r.lookups++
	if r.lookups == 1 {
		return store.Profile{}, store.ErrNotFound
	}
	return r.winner, nil
}

func TestEnsureResolvesCreateRace(t *testing.T) {
	st := newStubStore()
	st.insertErr = store.ErrDuplicate

	winner := store.Profile{ExternalID: "ext-7", Role: types.RoleStudent}
	winner.ID = uuid.New()

	racing := &raceStore{stubStore: st, winner: winner}
	p := newProvisioner(racing, mapRoles{})

	got, err := p.Ensure(context.Background(), identity.Identity{ExternalID: "ext-7"})
	require.NoError(t, err)
	assert.Equal(t, winner.ID, got.ID)
	assert.Equal(t, 2, racing.lookups)
}

func TestEnsureWrapsLookupFailure(t *testing.T) {
	st := newStubStore()
	st.lookupErr = errors.New("connection refused")
	p := newProvisioner(st, mapRoles{})

	_, err := p.Ensure(context.Background(), identity.Identity{ExternalID: "ext-8"})
	assert.True(t, apperrors.Is(err, apperrors.ErrProvisioning))
}
