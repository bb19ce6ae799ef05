package hootsweet

import (
	"context"
	"net/http"
	"net/url"
)

// GetMe retrieves the authenticated member.
func (c *Client) GetMe(ctx context.Context) (Response, error) {
	return c.Request(ctx, http.MethodGet, "me")
}

// GetMeOrganizations retrieves the organizations the authenticated member is in.
func (c *Client) GetMeOrganizations(ctx context.Context) (Response, error) {
	return c.Request(ctx, http.MethodGet, "me/organizations")
}

// GetMeSocialProfiles retrieves the social profiles the authenticated member
// has basic usage permissions on.
func (c *Client) GetMeSocialProfiles(ctx context.Context) (Response, error) {
	return c.Request(ctx, http.MethodGet, "me/socialProfiles")
}

// GetSocialProfiles retrieves the social profiles the authenticated member has access to.
func (c *Client) GetSocialProfiles(ctx context.Context) (Response, error) {
	return c.Request(ctx, http.MethodGet, "socialProfiles")
}

// GetSocialProfile retrieves a social profile.
func (c *Client) GetSocialProfile(ctx context.Context, profileID string) (Response, error) {
	return c.Request(ctx, http.MethodGet, "socialProfiles/"+url.PathEscape(profileID))
}

// GetSocialProfileTeams retrieves the IDs of the teams with access to a social profile.
func (c *Client) GetSocialProfileTeams(ctx context.Context, profileID string) (Response, error) {
	return c.Request(ctx, http.MethodGet, "socialProfiles/"+url.PathEscape(profileID)+"/teams")
}
