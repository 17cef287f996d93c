package apiclient

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Response is a completed 2xx exchange. The body is interpreted on demand.
type Response struct {
	StatusCode  int
	Headers     map[string]string
	ContentType string
	Body        []byte
	RequestID   string
}

func newResponse(status int, header http.Header, body []byte, requestID string) *Response {
	return &Response{
		StatusCode:  status,
		Headers:     flattenHeader(header),
		ContentType: header.Get(headerContentType),
		Body:        body,
		RequestID:   requestID,
	}
}

// IsJSON reports whether the server declared a JSON body. A missing content
// type is not JSON.
func (r *Response) IsJSON() bool { return isJSONContentType(r.ContentType) }

// Value returns the decoded JSON value when the body is JSON and the raw
// bytes otherwise. An empty JSON body decodes to nil.
func (r *Response) Value() (any, error) {
	if !r.IsJSON() {
		return r.Body, nil
	}
	if len(strings.TrimSpace(string(r.Body))) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Decode unmarshals a JSON body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return errors.New("decode response: empty body")
	}
	return json.Unmarshal(r.Body, v)
}

// Text returns the body as a string.
func (r *Response) Text() string { return string(r.Body) }

func flattenHeader(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vs := range h {
		out[http.CanonicalHeaderKey(k)] = strings.Join(vs, ", ")
	}
	return out
}
