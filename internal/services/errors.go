package services

import (
	"errors"
	"net/url"
)

// InvalidRequestError is the caller's fault and maps to 400.
type InvalidRequestError struct{ Message string }

func (e *InvalidRequestError) Error() string { return e.Message }

// ConfigurationError is a deployment fault and maps to 500.
type ConfigurationError struct{ Message string }

func (e *ConfigurationError) Error() string { return e.Message }

// UpstreamHTTPError carries a non-2xx upstream status and its raw body.
type UpstreamHTTPError struct {
	Status int
	Body   string
}

func (e *UpstreamHTTPError) Error() string { return "Error from Gemini API" }

// UpstreamAPIError is a 2xx upstream payload that carried an error field.
type UpstreamAPIError struct{ Message string }

func (e *UpstreamAPIError) Error() string { return e.Message }

// UpstreamShapeError is a 2xx upstream payload without candidates[0].content.
type UpstreamShapeError struct{}

func (e *UpstreamShapeError) Error() string { return "Unexpected response format from Gemini API." }

// NetworkError wraps a failure of the upstream call itself.
type NetworkError struct{ Err error }

func (e *NetworkError) Error() string { return "Error connecting to Gemini API." }

func (e *NetworkError) Unwrap() error { return e.Err }

// Details describes the transport failure without the request URL, which
// carries the API key in its query string.
func (e *NetworkError) Details() string {
	if e.Err == nil {
		return ""
	}
	var urlErr *url.Error
	if errors.As(e.Err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return e.Err.Error()
}
