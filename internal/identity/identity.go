// Package identity models the external identity the engine consumes. The
// identity subsystem itself is an external collaborator: this package only
// extracts the opaque external subject id and the self-reported role
// attribute from whichever provider the session uses.
package identity

import (
	"context"

	"github.com/kgothalangLekitlane/Learn/pkg/types"
)

// Identity is the current externally authenticated user. Role is the
// self-reported role attribute and may be empty when the provider has not
// confirmed one; provisioning resolves the effective role.
type Identity struct {
	ExternalID string
	Email      string
	Name       string
	AvatarURL  string
	Role       types.Role
}

// DisplayName picks the name shown on a freshly provisioned profile:
// provider name, then email, then a generic placeholder.
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	if i.Email != "" {
		return i.Email
	}
	return "User"
}

// Provider yields the session's current identity.
type Provider interface {
	Identity(ctx context.Context) (Identity, error)
}
