package apiclient

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samvad-hq/bearer-api-client/pkg/httpclient"
)

// Config describes where requests go and what every request carries besides
// the bearer token.
type Config struct {
	BaseURL        string
	DefaultHeaders map[string]string
	Timeout        time.Duration
	UserAgent      string
}

// Validate checks the base URL and timeout.
func (c Config) Validate() error {
	if _, err := normalizeBaseURL(c.BaseURL); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return configErr("timeout", "must not be negative", nil)
	}
	return nil
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return httpclient.DefaultTimeout
	}
	return c.Timeout
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", configErr("base_url", "is required", nil)
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", configErr("base_url", "is invalid", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", configErr("base_url", "must use http or https", nil)
	}
	if u.Host == "" {
		return "", configErr("base_url", "is missing a host", nil)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return strings.TrimSuffix(u.String(), "/"), nil
}

// canonicalHeaders copies headers with canonical keys, dropping empty names
// and any Authorization entry.
func canonicalHeaders(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		k = http.CanonicalHeaderKey(strings.TrimSpace(k))
		if k == "" || k == headerAuthorization {
			continue
		}
		out[k] = v
	}
	return out
}
