package catalog

import (
	"errors"
	"fmt"
)

// ErrorKind classifies fetch failures. Every failure crossing this package's
// boundary is one of these; nothing is thrown past it.
type ErrorKind int

const (
	// NetworkFailure: the request could not complete at all.
	NetworkFailure ErrorKind = iota
	// ServerError: the endpoint answered with a non-2xx status.
	ServerError
	// MalformedResponse: the body decoded but the expected products array
	// was missing.
	MalformedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case NetworkFailure:
		return "network failure"
	case ServerError:
		return "server error"
	case MalformedResponse:
		return "malformed response"
	}
	return "unknown"
}

// FetchError is the typed failure returned when a strategy (or the whole
// chain) fails.
type FetchError struct {
	Kind   ErrorKind
	Status int // set for ServerError
	Err    error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case ServerError:
		return fmt.Sprintf("catalog: server error (status %d)", e.Status)
	case MalformedResponse:
		return "catalog: malformed response"
	}
	if e.Err != nil {
		return fmt.Sprintf("catalog: network failure: %v", e.Err)
	}
	return "catalog: network failure"
}

func (e *FetchError) Unwrap() error { return e.Err }

func networkFailure(err error) *FetchError {
	return &FetchError{Kind: NetworkFailure, Err: err}
}

func serverError(status int) *FetchError {
	return &FetchError{Kind: ServerError, Status: status}
}

func malformedResponse() *FetchError {
	return &FetchError{Kind: MalformedResponse}
}

// AsFetchError unwraps err into a FetchError if it is one.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	ok := errors.As(err, &fe)
	return fe, ok
}
