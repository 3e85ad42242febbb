package robloxapi

import (
	"fmt"
	"net/http"
)

// HTTPError is a transport-level failure: the request never produced a
// response. It is not retried.
type HTTPError struct {
	Err error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("roblox API HTTP error: %v", e.Err)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// BadResponseJSONError means the server answered with a success status but
// the body did not match the expected schema.
type BadResponseJSONError struct {
	Body string
	Err  error
}

func (e *BadResponseJSONError) Error() string {
	return fmt.Sprintf("roblox API returned success, but had malformed JSON response: %v", e.Err)
}

func (e *BadResponseJSONError) Unwrap() error {
	return e.Err
}

// ResponseError carries a non-success status that the CSRF retry did not
// resolve.
type ResponseError struct {
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("roblox API returned HTTP %d %s with body: %s",
		e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}
