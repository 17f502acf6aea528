package identity

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// GoogleProvider resolves the session identity from Google's userinfo
// endpoint. Google carries no platform role attribute, so identities it
// yields always go through the provisioning role fallback chain.
type GoogleProvider struct {
	service *oauth2api.Service
}

// NewGoogleProvider builds a provider around an OAuth2 access token.
func NewGoogleProvider(ctx context.Context, accessToken string) (*GoogleProvider, error) {
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})

	service, err := oauth2api.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("create oauth2 service: %w", err)
	}

	return &GoogleProvider{service: service}, nil
}

// Identity fetches the current userinfo and maps it onto an Identity.
func (p *GoogleProvider) Identity(ctx context.Context) (Identity, error) {
	userinfo, err := p.service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return Identity{}, fmt.Errorf("fetch userinfo: %w", err)
	}

	return Identity{
		ExternalID: userinfo.Id,
		Email:      userinfo.Email,
		Name:       userinfo.Name,
		AvatarURL:  userinfo.Picture,
	}, nil
}
