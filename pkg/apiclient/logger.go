package apiclient

// Logger receives the client's structured events. Every event carries one
// map under the "request" key with method, url and request_id, plus
// status_code and duration_ms once the call returns. The token is never
// among the fields. Implementations must be safe for concurrent use.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

// Discard is a Logger that drops every event.
var Discard Logger = discard{}

type discard struct{}

func (discard) InfoObj(string, string, interface{})  {}
func (discard) DebugObj(string, string, interface{}) {}
func (discard) WarnObj(string, string, interface{})  {}
func (discard) ErrorObj(string, string, interface{}) {}
