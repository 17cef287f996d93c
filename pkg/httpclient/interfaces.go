package httpclient

import (
	"context"
	"net/http"
)

// Response is a minimal HTTP response contract.
type Response interface {
	StatusCode() int
	Status() string
	Header() http.Header
	Body() []byte
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// Implementations must not turn non-2xx statuses into errors; only failures to
// complete the exchange are returned as errors.
type Client interface {
	Execute(ctx context.Context, method, url string, headers map[string]string, body []byte) (Response, error)
}
