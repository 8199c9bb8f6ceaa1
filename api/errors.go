package api

// ParseError reports a response body that was not valid JSON. It carries a
// generic message regardless of HTTP status: an unparseable body is fatal to
// the calling operation even when the status was a success.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string { return "Invalid JSON response from server" }

func (e *ParseError) Unwrap() error { return e.Err }

// APIError reports a failure HTTP status whose body did parse as JSON. The
// message is sourced from the body's own "error" field, then "message",
// then a generic fallback.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }
