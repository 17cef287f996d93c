package apiclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Method is one of the HTTP verbs the client issues.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// ParseMethod accepts a verb in any case.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if !m.valid() {
		return "", fmt.Errorf("unsupported method %q", s)
	}
	return m, nil
}

func (m Method) valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return true
	}
	return false
}

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerAccept        = "Accept"
	headerUserAgent     = "User-Agent"
	headerRequestID     = "X-Request-Id"

	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// Request is a single call relative to the configured base URL.
type Request struct {
	Method  Method
	Path    string
	Query   url.Values
	Body    any
	Headers map[string]string
}

// joinURL joins base and path with exactly one slash and appends the query.
func joinURL(base, path string, query url.Values) string {
	full := base
	if p := strings.TrimLeft(path, "/"); p != "" {
		full = base + "/" + p
	}
	if len(query) == 0 {
		return full
	}
	sep := "?"
	if strings.Contains(full, "?") {
		sep = "&"
	}
	return full + sep + query.Encode()
}

// encodeBody serializes body according to the effective content type. It
// returns the payload and the content type to send (empty when the caller
// already chose one).
func encodeBody(body any, contentType string) ([]byte, string, error) {
	if body == nil {
		return nil, "", nil
	}

	ct := strings.ToLower(contentType)
	explicit := ct != ""

	if explicit && !strings.HasPrefix(ct, contentTypeForm) {
		switch v := body.(type) {
		case []byte:
			return v, "", nil
		case string:
			return []byte(v), "", nil
		case json.RawMessage:
			return v, "", nil
		}
	}

	if strings.HasPrefix(ct, contentTypeForm) {
		form, err := formValues(body)
		if err != nil {
			return nil, "", err
		}
		return []byte(form.Encode()), "", nil
	}

	var payload []byte
	switch v := body.(type) {
	case json.RawMessage:
		payload = v
	default:
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("marshal request body: %w", err)
		}
		payload = encoded
	}
	if explicit {
		return payload, "", nil
	}
	return payload, contentTypeJSON, nil
}

func formValues(body any) (url.Values, error) {
	form := url.Values{}
	switch v := body.(type) {
	case url.Values:
		return v, nil
	case map[string]string:
		for k, val := range v {
			form.Set(k, val)
		}
		return form, nil
	case string:
		return url.ParseQuery(v)
	case []byte:
		return url.ParseQuery(string(v))
	}

	// Structs and other JSON-marshalable values go through a map first.
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal form body: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("form body must be an object: %w", err)
	}
	for k, val := range m {
		if val == nil {
			continue
		}
		form.Set(k, fmt.Sprint(val))
	}
	return form, nil
}

func isJSONContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct == contentTypeJSON || strings.HasSuffix(ct, "+json")
}
