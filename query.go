package hootsweet

import (
	"fmt"
	"net/url"
	"time"

	"github.com/oapi-codegen/runtime"
)

// TimeFormat is the timestamp layout Hootsuite expects, always in UTC.
const TimeFormat = "2006-01-02T15:04:05Z"

// FormatTime formats t in UTC using TimeFormat.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// addQueryParam serializes value as an exploded form-style query parameter,
// so slices become repeated keys (socialProfileIds=1&socialProfileIds=2).
func addQueryParam(q url.Values, name string, value any) error {
	styled, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, value)
	if err != nil {
		return fmt.Errorf("encoding query parameter %s: %w", name, err)
	}

	parsed, err := url.ParseQuery(styled)
	if err != nil {
		return fmt.Errorf("encoding query parameter %s: %w", name, err)
	}
	for k, vs := range parsed {
		for _, v := range vs {
			q.Add(k, v)
		}
	}

	return nil
}
