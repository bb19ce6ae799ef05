package hootsweet

import (
	"context"
	"net/http"
	"net/url"
)

// MediaUploadRequest describes a file to be uploaded to Hootsuite's media storage.
type MediaUploadRequest struct {
	SizeBytes int64  `json:"sizeBytes" validate:"gt=0"`
	MimeType  string `json:"mimeType" validate:"required,oneof=video/mp4 image/gif image/jpeg image/jpg image/png"`
}

// CreateMediaUploadURL registers a media upload and returns the pre-signed
// upload URL together with the media ID.
func (c *Client) CreateMediaUploadURL(ctx context.Context, req MediaUploadRequest) (Response, error) {
	if err := validateRequest("media upload", req); err != nil {
		return nil, err
	}
	return c.Request(ctx, http.MethodPost, "media", WithJSON(req))
}

// GetMediaUploadStatus retrieves the upload state of a media item.
func (c *Client) GetMediaUploadStatus(ctx context.Context, mediaID string) (Response, error) {
	return c.Request(ctx, http.MethodGet, "media/"+url.PathEscape(mediaID))
}
