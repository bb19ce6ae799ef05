package hootsweet

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointPaths(t *testing.T) {
	tests := []struct {
		name string
		call func(ctx context.Context, c *Client) (Response, error)
		path string
	}{
		{"GetMe", func(ctx context.Context, c *Client) (Response, error) { return c.GetMe(ctx) }, "/v1/me"},
		{"GetMeOrganizations", func(ctx context.Context, c *Client) (Response, error) { return c.GetMeOrganizations(ctx) }, "/v1/me/organizations"},
		{"GetMeSocialProfiles", func(ctx context.Context, c *Client) (Response, error) { return c.GetMeSocialProfiles(ctx) }, "/v1/me/socialProfiles"},
		{"GetSocialProfiles", func(ctx context.Context, c *Client) (Response, error) { return c.GetSocialProfiles(ctx) }, "/v1/socialProfiles"},
		{"GetSocialProfile", func(ctx context.Context, c *Client) (Response, error) { return c.GetSocialProfile(ctx, "1234") }, "/v1/socialProfiles/1234"},
		{"GetSocialProfileTeams", func(ctx context.Context, c *Client) (Response, error) { return c.GetSocialProfileTeams(ctx, "1234") }, "/v1/socialProfiles/1234/teams"},
		{"GetMember", func(ctx context.Context, c *Client) (Response, error) { return c.GetMember(ctx, "1234") }, "/v1/members/1234"},
		{"GetMemberOrganizations", func(ctx context.Context, c *Client) (Response, error) { return c.GetMemberOrganizations(ctx, "1234") }, "/v1/members/1234/organizations"},
		{"GetMessage", func(ctx context.Context, c *Client) (Response, error) { return c.GetMessage(ctx, "98765") }, "/v1/messages/98765"},
		{"GetMessageReviewHistory", func(ctx context.Context, c *Client) (Response, error) { return c.GetMessageReviewHistory(ctx, "98765") }, "/v1/messages/98765/history"},
		{"GetMediaUploadStatus", func(ctx context.Context, c *Client) (Response, error) { return c.GetMediaUploadStatus(ctx, "m1") }, "/v1/media/m1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newFakePlatform(t)
			client := p.newClient(t, Config{Token: freshToken()})

			resp, err := tt.call(context.Background(), client)
			require.NoError(t, err)
			assert.Equal(t, map[string]any{}, resp.Data())

			requests := p.recorded()
			require.Len(t, requests, 1)
			assert.Equal(t, http.MethodGet, requests[0].Method)
			assert.Equal(t, tt.path, requests[0].Path)
		})
	}
}

func TestScheduleMessage(t *testing.T) {
	p := newFakePlatform(t)
	p.api = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{
			"data": []any{map[string]any{"id": "98765", "state": "SCHEDULED"}},
		})
	}
	client := p.newClient(t, Config{Token: freshToken()})

	sendTime := time.Date(2024, 6, 1, 14, 30, 0, 0, time.FixedZone("CEST", 2*60*60))
	resp, err := client.ScheduleMessage(context.Background(), ScheduleMessageRequest{
		Text:             "hi",
		SocialProfileIDs: []string{"1"},
		SendTime:         sendTime,
	})
	require.NoError(t, err)

	assert.Equal(t, Response{
		"data": []any{map[string]any{"id": "98765", "state": "SCHEDULED"}},
	}, resp)

	requests := p.recorded()
	require.Len(t, requests, 1)
	assert.Equal(t, http.MethodPost, requests[0].Method)
	assert.Equal(t, "/v1/messages", requests[0].Path)
	assert.Equal(t, "application/json", requests[0].ContentType)
	assert.JSONEq(t, `{
		"text": "hi",
		"socialProfileIds": ["1"],
		"scheduledSendTime": "2024-06-01T12:30:00Z",
		"emailNotification": false
	}`, string(requests[0].Body))
}

func TestScheduleMessageExtraFields(t *testing.T) {
	p := newFakePlatform(t)
	client := p.newClient(t, Config{Token: freshToken()})

	_, err := client.ScheduleMessage(context.Background(), ScheduleMessageRequest{
		Text:             "hi",
		SocialProfileIDs: []string{"1", "2"},
		SendTime:         time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Extra:            map[string]any{"tags": []string{"launch"}},
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"text": "hi",
		"socialProfileIds": ["1", "2"],
		"scheduledSendTime": "2024-06-01T12:00:00Z",
		"emailNotification": false,
		"tags": ["launch"]
	}`, string(p.recorded()[0].Body))
}

func TestScheduleMessageValidation(t *testing.T) {
	p := newFakePlatform(t)
	client := p.newClient(t, Config{Token: freshToken()})

	_, err := client.ScheduleMessage(context.Background(), ScheduleMessageRequest{Text: "hi", SendTime: time.Now()})
	require.Error(t, err)
	assert.Empty(t, p.recorded())
}

func TestDeleteMessageNotFound(t *testing.T) {
	body := `{"errors":[{"code":5000,"message":"Message not found"}]}`

	p := newFakePlatform(t)
	p.api = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(body))
	}
	client := p.newClient(t, Config{Token: freshToken()})

	_, err := client.DeleteMessage(context.Background(), "98765")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, body, string(apiErr.Body))
	assert.ErrorIs(t, err, ErrStatusNotFound)

	requests := p.recorded()
	require.Len(t, requests, 1)
	assert.Equal(t, http.MethodDelete, requests[0].Method)
	assert.Equal(t, "/v1/messages/98765", requests[0].Path)
}

func TestDeleteMessageNoContent(t *testing.T) {
	p := newFakePlatform(t)
	p.api = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
	client := p.newClient(t, Config{Token: freshToken()})

	resp, err := client.DeleteMessage(context.Background(), "98765")
	require.NoError(t, err)
	assert.Empty(t, resp)
}

func TestApproveAndRejectMessage(t *testing.T) {
	p := newFakePlatform(t)
	client := p.newClient(t, Config{Token: freshToken()})
	ctx := context.Background()

	_, err := client.ApproveMessage(ctx, "98765", 3, ReviewerMember)
	require.NoError(t, err)
	_, err = client.RejectMessage(ctx, "98765", "off brand", 4, "")
	require.NoError(t, err)

	requests := p.recorded()
	require.Len(t, requests, 2)
	assert.Equal(t, "/v1/messages/98765/approve", requests[0].Path)
	assert.JSONEq(t, `{"sequenceNumber":3,"reviewerType":"MEMBER"}`, string(requests[0].Body))
	assert.Equal(t, "/v1/messages/98765/reject", requests[1].Path)
	assert.JSONEq(t, `{"reason":"off brand","sequenceNumber":4}`, string(requests[1].Body))
}

func TestGetOutboundMessages(t *testing.T) {
	p := newFakePlatform(t)
	client := p.newClient(t, Config{Token: freshToken()})

	include := true
	_, err := client.GetOutboundMessages(context.Background(), OutboundMessagesQuery{
		StartTime:                        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndTime:                          time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC),
		State:                            MessageStateScheduled,
		SocialProfileIDs:                 []string{"1", "2"},
		IncludeUnscheduledReviewMessages: &include,
	})
	require.NoError(t, err)

	requests := p.recorded()
	require.Len(t, requests, 1)
	assert.Equal(t, "/v1/messages", requests[0].Path)

	q, err := url.ParseQuery(requests[0].RawQuery)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01T00:00:00Z", q.Get("startTime"))
	assert.Equal(t, "2024-06-08T00:00:00Z", q.Get("endTime"))
	assert.Equal(t, "50", q.Get("limit"))
	assert.Equal(t, "SCHEDULED", q.Get("state"))
	assert.Equal(t, []string{"1", "2"}, q["socialProfileIds"])
	assert.Equal(t, "true", q.Get("includeUnscheduledReviewMsgs"))
}

func TestGetOutboundMessagesRejectsUnknownState(t *testing.T) {
	p := newFakePlatform(t)
	client := p.newClient(t, Config{Token: freshToken()})

	_, err := client.GetOutboundMessages(context.Background(), OutboundMessagesQuery{
		StartTime: time.Now(),
		EndTime:   time.Now(),
		State:     "ARCHIVED",
	})
	require.Error(t, err)
	assert.Empty(t, p.recorded())
}

func TestCreateMember(t *testing.T) {
	p := newFakePlatform(t)
	client := p.newClient(t, Config{Token: freshToken()})
	ctx := context.Background()

	base := CreateMemberRequest{
		FullName:        "Joe Bloggs",
		Email:           "joe.bloggs@email.com",
		OrganizationIDs: []string{"1234"},
	}

	invalidLanguage := base
	invalidLanguage.Language = "rr"
	_, err := client.CreateMember(ctx, invalidLanguage)
	assert.ErrorIs(t, err, ErrInvalidLanguage)

	invalidTimezone := base
	invalidTimezone.Timezone = "Mars/Europa"
	_, err = client.CreateMember(ctx, invalidTimezone)
	assert.ErrorIs(t, err, ErrInvalidTimezone)

	assert.Empty(t, p.recorded())

	_, err = client.CreateMember(ctx, base)
	require.NoError(t, err)

	withProfile := base
	withProfile.Bio = "a bio"
	withProfile.CompanyName = "ACompany"
	_, err = client.CreateMember(ctx, withProfile)
	require.NoError(t, err)

	requests := p.recorded()
	require.Len(t, requests, 2)
	assert.Equal(t, http.MethodPost, requests[0].Method)
	assert.Equal(t, "/v1/members", requests[0].Path)
	assert.JSONEq(t, `{
		"fullName": "Joe Bloggs",
		"email": "joe.bloggs@email.com",
		"organizationIds": ["1234"],
		"timezone": "Europe/London",
		"language": "en"
	}`, string(requests[0].Body))
	assert.JSONEq(t, `{
		"fullName": "Joe Bloggs",
		"email": "joe.bloggs@email.com",
		"organizationIds": ["1234"],
		"timezone": "Europe/London",
		"language": "en",
		"bio": "a bio",
		"companyName": "ACompany"
	}`, string(requests[1].Body))
}

func TestLocaleValidation(t *testing.T) {
	assert.True(t, IsValidLanguage("pt_BR"))
	assert.False(t, IsValidLanguage("rr"))
	assert.True(t, IsValidTimezone("Europe/London"))
	assert.False(t, IsValidTimezone("Mars/Europa"))
	assert.False(t, IsValidTimezone(""))
}

func TestCreateMediaUploadURL(t *testing.T) {
	p := newFakePlatform(t)
	p.api = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{"id": "m1", "uploadUrl": "https://upload.example.com/m1", "uploadUrlDurationSeconds": 900},
		})
	}
	client := p.newClient(t, Config{Token: freshToken()})

	resp, err := client.CreateMediaUploadURL(context.Background(), MediaUploadRequest{SizeBytes: 1024, MimeType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "m1", resp.Data().(map[string]any)["id"])

	requests := p.recorded()
	require.Len(t, requests, 1)
	assert.Equal(t, "/v1/media", requests[0].Path)
	assert.JSONEq(t, `{"sizeBytes":1024,"mimeType":"image/png"}`, string(requests[0].Body))

	_, err = client.CreateMediaUploadURL(context.Background(), MediaUploadRequest{SizeBytes: 1024, MimeType: "application/pdf"})
	require.Error(t, err)
	assert.Len(t, p.recorded(), 1)
}
