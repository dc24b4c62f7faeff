package api

import (
	"errors"
	"fmt"
)

// ErrMissingToken is returned when a client is built without an API token.
var ErrMissingToken = errors.New("ahrefs API token is not configured")

// StatusError reports a non-2xx response from the SEO data API.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, body)
}

// IsNotFound reports whether err is a 404 from the API, which usually means
// the endpoint is not part of the account's plan.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == 404
}

// DecodeError reports a response body that is not a JSON object.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
