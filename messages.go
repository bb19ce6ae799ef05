package hootsweet

import (
	"context"
	"maps"
	"net/http"
	"net/url"
	"time"
)

// MessageState is the lifecycle state of an outbound message.
type MessageState string

const (
	MessageStatePendingApproval       MessageState = "PENDING_APPROVAL"
	MessageStateRejected              MessageState = "REJECTED"
	MessageStateSent                  MessageState = "SENT"
	MessageStateScheduled             MessageState = "SCHEDULED"
	MessageStateSendFailedPermanently MessageState = "SEND_FAILED_PERMANENTLY"
)

// Reviewer is the kind of actor approving or rejecting a message.
type Reviewer string

const (
	ReviewerExternal Reviewer = "EXTERNAL"
	ReviewerMember   Reviewer = "MEMBER"
)

// DefaultMessageLimit is the page size of GetOutboundMessages when none is given.
const DefaultMessageLimit = 50

// ScheduleMessageRequest describes a message to publish on one or more social profiles.
type ScheduleMessageRequest struct {
	Text             string    `validate:"required"`
	SocialProfileIDs []string  `validate:"required,min=1"`
	SendTime         time.Time `validate:"required"`
	// EmailNotification asks Hootsuite to email the member once the message is sent.
	EmailNotification bool
	// Extra holds additional message fields (media, tags, location, ...) and
	// overrides the fields above on conflict.
	Extra map[string]any
}

// ScheduleMessage schedules a message. SendTime is sent in UTC.
func (c *Client) ScheduleMessage(ctx context.Context, req ScheduleMessageRequest) (Response, error) {
	if err := validateRequest("message", req); err != nil {
		return nil, err
	}

	body := map[string]any{
		"text":              req.Text,
		"socialProfileIds":  req.SocialProfileIDs,
		"scheduledSendTime": FormatTime(req.SendTime),
		"emailNotification": req.EmailNotification,
	}
	maps.Copy(body, req.Extra)

	return c.Request(ctx, http.MethodPost, "messages", WithJSON(body))
}

// OutboundMessagesQuery filters GetOutboundMessages.
type OutboundMessagesQuery struct {
	StartTime time.Time `validate:"required"`
	EndTime   time.Time `validate:"required"`
	// State restricts results to one state when set.
	State            MessageState `validate:"omitempty,oneof=PENDING_APPROVAL REJECTED SENT SCHEDULED SEND_FAILED_PERMANENTLY"`
	SocialProfileIDs []string
	// Limit defaults to DefaultMessageLimit.
	Limit int `validate:"gte=0"`
	// IncludeUnscheduledReviewMessages also returns unscheduled (send now)
	// review messages when set.
	IncludeUnscheduledReviewMessages *bool
}

// GetOutboundMessages retrieves outbound messages in a time range.
func (c *Client) GetOutboundMessages(ctx context.Context, query OutboundMessagesQuery) (Response, error) {
	if err := validateRequest("message query", query); err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit == 0 {
		limit = DefaultMessageLimit
	}

	params := url.Values{}
	add := func(name string, value any) error {
		return addQueryParam(params, name, value)
	}
	if err := add("startTime", FormatTime(query.StartTime)); err != nil {
		return nil, err
	}
	if err := add("endTime", FormatTime(query.EndTime)); err != nil {
		return nil, err
	}
	if err := add("limit", limit); err != nil {
		return nil, err
	}
	if query.State != "" {
		if err := add("state", string(query.State)); err != nil {
			return nil, err
		}
	}
	if len(query.SocialProfileIDs) > 0 {
		if err := add("socialProfileIds", query.SocialProfileIDs); err != nil {
			return nil, err
		}
	}
	if query.IncludeUnscheduledReviewMessages != nil {
		if err := add("includeUnscheduledReviewMsgs", *query.IncludeUnscheduledReviewMessages); err != nil {
			return nil, err
		}
	}

	return c.Request(ctx, http.MethodGet, "messages", WithQuery(params))
}

// GetMessage retrieves a message.
func (c *Client) GetMessage(ctx context.Context, messageID string) (Response, error) {
	return c.Request(ctx, http.MethodGet, messagePath(messageID))
}

// DeleteMessage deletes a message. The returned response is empty unless
// Hootsuite sends a body.
func (c *Client) DeleteMessage(ctx context.Context, messageID string) (Response, error) {
	return c.Request(ctx, http.MethodDelete, messagePath(messageID))
}

// ApproveMessage approves a message pending review.
func (c *Client) ApproveMessage(ctx context.Context, messageID string, sequenceNumber int, reviewer Reviewer) (Response, error) {
	body := map[string]any{
		"sequenceNumber": sequenceNumber,
		"reviewerType":   reviewer,
	}
	return c.Request(ctx, http.MethodPost, messagePath(messageID)+"/approve", WithJSON(body))
}

// RejectMessage rejects a message pending review. reviewer may be empty.
func (c *Client) RejectMessage(ctx context.Context, messageID, reason string, sequenceNumber int, reviewer Reviewer) (Response, error) {
	body := map[string]any{
		"reason":         reason,
		"sequenceNumber": sequenceNumber,
	}
	if reviewer != "" {
		body["reviewerType"] = reviewer
	}
	return c.Request(ctx, http.MethodPost, messagePath(messageID)+"/reject", WithJSON(body))
}

// GetMessageReviewHistory retrieves the prescreening review history of a message.
func (c *Client) GetMessageReviewHistory(ctx context.Context, messageID string) (Response, error) {
	return c.Request(ctx, http.MethodGet, messagePath(messageID)+"/history")
}

func messagePath(messageID string) string {
	return "messages/" + url.PathEscape(messageID)
}
