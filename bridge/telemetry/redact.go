package telemetry

import (
	"net/url"
	"strings"
)

var sensitiveKeys = map[string]struct{}{
	"access_token":         {},
	"token":                {},
	"api_key":              {},
	"apikey":               {},
	"key":                  {},
	"signature":            {},
	"x-amz-signature":      {},
	"x-amz-security-token": {},
	"x-amz-credential":     {},
	"password":             {},
	"secret":               {},
}

// RedactURL hides credentials carried in a URL's userinfo or query string so
// the endpoint can be logged.
func RedactURL(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return u
	}
	if parsed.User != nil {
		parsed.User = url.User("[REDACTED]")
	}
	q := parsed.Query()
	redacted := false
	for key := range q {
		if _, ok := sensitiveKeys[strings.ToLower(key)]; ok {
			q.Set(key, "[REDACTED]")
			redacted = true
		}
	}
	if redacted {
		parsed.RawQuery = q.Encode()
	}
	return parsed.String()
}
