package models

import (
	"fmt"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// FetchErrorKind classifies why a remote fetch failed
type FetchErrorKind string

const (
	// FetchMalformedURI indicates the URI could not be parsed or has no usable scheme.
	// This is a configuration error, never subject to the soft-fail flags.
	FetchMalformedURI FetchErrorKind = "malformed_uri"
	// FetchTimeout indicates the connect or read timeout expired
	FetchTimeout FetchErrorKind = "timeout"
	// FetchHTTPStatus indicates the server answered with a non-2xx status
	FetchHTTPStatus FetchErrorKind = "http_status"
	// FetchIO covers every other failure (refused connection, DNS, write errors)
	FetchIO FetchErrorKind = "io"
)

// FetchError is returned by fetchers
type FetchError struct {
	Kind       FetchErrorKind
	URI        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchHTTPStatus:
		return fmt.Sprintf("server returned HTTP status %d", e.StatusCode)
	case FetchTimeout:
		if e.Err != nil {
			return "timed out: " + e.Err.Error()
		}
		return "timed out"
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return string(e.Kind)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a fetch error of the given kind
func NewFetchError(kind FetchErrorKind, uri string, err error) *FetchError {
	return &FetchError{Kind: kind, URI: uri, Err: err}
}

// NewHTTPStatusError creates a fetch error for a non-2xx response
func NewHTTPStatusError(uri string, statusCode int) *FetchError {
	return &FetchError{Kind: FetchHTTPStatus, URI: uri, StatusCode: statusCode}
}
