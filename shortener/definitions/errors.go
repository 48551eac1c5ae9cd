package definitions

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. Every kind is terminal for the run.
type Kind int

const (
	KindConfig Kind = iota + 1
	KindInput
	KindAPI
	KindConnectivity
	KindResponseFormat
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindInput:
		return "input"
	case KindAPI:
		return "api"
	case KindConnectivity:
		return "connectivity"
	case KindResponseFormat:
		return "response_format"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// user-facing messages, capitalised on purpose
var (
	ErrMissingAPIKey = errors.New("OPEN_AI_KEY is not set")
	ErrEmptyInput    = errors.New("No input text received")
	ErrInvalidInput  = errors.New("Input text is not valid UTF-8")
)

// Error is the only error type surfaced to the command line.
type Error struct {
	Kind Kind

	// StatusCode and Body are set for KindAPI; Body alone for KindResponseFormat.
	StatusCode int
	Body       string

	Err error
}

func NewConfigError(err error) *Error {
	return &Error{Kind: KindConfig, Err: err}
}

func NewInputError(err error) *Error {
	return &Error{Kind: KindInput, Err: err}
}

func NewAPIError(statusCode int, body string) *Error {
	return &Error{Kind: KindAPI, StatusCode: statusCode, Body: body}
}

func NewConnectivityError(err error) *Error {
	return &Error{Kind: KindConnectivity, Err: err}
}

func NewResponseFormatError(body string, err error) *Error {
	return &Error{Kind: KindResponseFormat, Body: body, Err: err}
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindAPI:
		return fmt.Sprintf("OpenAI API error %d: %s", e.StatusCode, e.Body)
	case KindConnectivity:
		return fmt.Sprintf("Failed to reach OpenAI API: %v", e.Err)
	case KindResponseFormat:
		return fmt.Sprintf("Unexpected API response: %s", e.Body)
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return e.Kind.String() + " error"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
