package hootsweet

import (
	"context"
	"net/http"
	"net/url"
)

const (
	// DefaultMemberTimezone is used when CreateMemberRequest.Timezone is empty.
	DefaultMemberTimezone = "Europe/London"
	// DefaultMemberLanguage is used when CreateMemberRequest.Language is empty.
	DefaultMemberLanguage = "en"
)

// CreateMemberRequest describes a member to add to one or more organizations.
type CreateMemberRequest struct {
	FullName        string   `json:"fullName" validate:"required"`
	Email           string   `json:"email" validate:"required,email"`
	OrganizationIDs []string `json:"organizationIds" validate:"required,min=1"`
	CompanyName     string   `json:"companyName,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	Timezone        string   `json:"timezone" validate:"timezone"`
	Language        string   `json:"language" validate:"hootsuite_language"`
}

// GetMember retrieves a member.
func (c *Client) GetMember(ctx context.Context, memberID string) (Response, error) {
	return c.Request(ctx, http.MethodGet, "members/"+url.PathEscape(memberID))
}

// GetMemberOrganizations retrieves the organizations a member is in.
func (c *Client) GetMemberOrganizations(ctx context.Context, memberID string) (Response, error) {
	return c.Request(ctx, http.MethodGet, "members/"+url.PathEscape(memberID)+"/organizations")
}

// CreateMember creates a member in a Hootsuite organization. The language and
// timezone are checked before any request is made.
func (c *Client) CreateMember(ctx context.Context, req CreateMemberRequest) (Response, error) {
	if req.Timezone == "" {
		req.Timezone = DefaultMemberTimezone
	}
	if req.Language == "" {
		req.Language = DefaultMemberLanguage
	}
	if err := validateRequest("member", req); err != nil {
		return nil, err
	}

	return c.Request(ctx, http.MethodPost, "members", WithJSON(req))
}
