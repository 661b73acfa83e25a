package quickbase

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrNoBaseURL  = errors.New("quickbase: no base URL configured")
	ErrNoDatabase = errors.New("quickbase: no database specified")
	ErrNoQuery    = errors.New("quickbase: must specify exactly one of query, qid or qname")
	ErrNoTicket   = errors.New("quickbase: session has no ticket")
)

// Reserved error codes. Negative codes never come from the service itself.
const (
	CodeXMLParse     = "-1"
	CodeConnection   = "-2"
	CodeMissingField = "-4"
)

// noErrorText is reported when the service sets errcode without errtext.
const noErrorText = "[no error text]"

// APIError is the base of every error returned by the client. Service error
// codes are listed at https://help.quickbase.com/api-guide/errorcodes.html.
type APIError struct {
	Code     string
	Message  string
	Response []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("quickbase: error %s: %s", e.Code, e.Message)
}

// ConnectionError indicates the request never produced a response body.
type ConnectionError struct {
	APIError
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("quickbase: connection failed: %s", e.Message)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// As implements error unwrapping for errors.As to match *APIError.
func (e *ConnectionError) As(target any) bool {
	if t, ok := target.(**APIError); ok {
		*t = &e.APIError
		return true
	}
	return false
}

// XMLError indicates a response body that could not be parsed as XML.
type XMLError struct {
	APIError
	Err error
}

func (e *XMLError) Error() string {
	return fmt.Sprintf("quickbase: invalid XML response: %s", e.Message)
}

func (e *XMLError) Unwrap() error { return e.Err }

// As implements error unwrapping for errors.As to match *APIError.
func (e *XMLError) As(target any) bool {
	if t, ok := target.(**APIError); ok {
		*t = &e.APIError
		return true
	}
	return false
}

// ResponseError indicates a well-formed response that reported a failure:
// either the service returned a non-zero errcode, or the envelope lacked a
// mandatory element (Code is CodeMissingField).
type ResponseError struct {
	APIError
	Detail string
}

func (e *ResponseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("quickbase: response error %s: %s (%s)", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("quickbase: response error %s: %s", e.Code, e.Message)
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *ResponseError) As(target any) bool {
	if t, ok := target.(**APIError); ok {
		*t = &e.APIError
		return true
	}
	return false
}

// IsMissingField reports whether the error was raised because an expected
// element was absent rather than by the service.
func (e *ResponseError) IsMissingField() bool {
	return e.Code == CodeMissingField
}

// QuickBaseError is reserved for application-level errors raised by callers
// that interpret service codes. The client itself never returns it.
type QuickBaseError struct {
	APIError
}

func (e *QuickBaseError) Error() string {
	return fmt.Sprintf("quickbase: service error %s: %s", e.Code, e.Message)
}

// As implements error unwrapping for errors.As to match *APIError.
func (e *QuickBaseError) As(target any) bool {
	if t, ok := target.(**APIError); ok {
		*t = &e.APIError
		return true
	}
	return false
}

func newConnectionError(err error) *ConnectionError {
	return &ConnectionError{
		APIError: APIError{Code: CodeConnection, Message: err.Error()},
		Err:      err,
	}
}

func newXMLError(err error, raw []byte) *XMLError {
	return &XMLError{
		APIError: APIError{Code: CodeXMLParse, Message: err.Error(), Response: raw},
		Err:      err,
	}
}

func missingField(name string, raw []byte) *ResponseError {
	return &ResponseError{
		APIError: APIError{
			Code:     CodeMissingField,
			Message:  fmt.Sprintf("%q not in response", name),
			Response: raw,
		},
	}
}
