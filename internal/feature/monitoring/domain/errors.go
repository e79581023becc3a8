// Package domain defines domain-level errors for the monitoring feature.
package domain

import (
	"errors"
	"fmt"
)

// FetchCause classifies why a price could not be fetched.
type FetchCause int

const (
	// CauseTransport covers network errors, timeouts and non-2xx responses.
	CauseTransport FetchCause = iota + 1
	// CauseNotFound means the response did not contain a quote object.
	CauseNotFound
	// CauseMalformedPrice means the quote had a missing, empty or non-positive price.
	CauseMalformedPrice
)

func (c FetchCause) String() string {
	switch c {
	case CauseTransport:
		return "transport"
	case CauseNotFound:
		return "not_found"
	case CauseMalformedPrice:
		return "malformed_price"
	default:
		return "unknown"
	}
}

// PriceFetchError is returned by a price source when no usable quote could be obtained.
type PriceFetchError struct {
	Cause  FetchCause
	Symbol string
	Err    error
}

func (e *PriceFetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch price %s: %s", e.Symbol, e.Cause)
	}
	return fmt.Sprintf("fetch price %s: %s: %v", e.Symbol, e.Cause, e.Err)
}

func (e *PriceFetchError) Unwrap() error { return e.Err }

// NewPriceFetchError builds a PriceFetchError for symbol.
func NewPriceFetchError(cause FetchCause, symbol string, err error) *PriceFetchError {
	return &PriceFetchError{Cause: cause, Symbol: symbol, Err: err}
}

// FetchCauseOf returns the cause carried by err, or 0 when err is not a PriceFetchError.
func FetchCauseOf(err error) FetchCause {
	var pfe *PriceFetchError
	if errors.As(err, &pfe) {
		return pfe.Cause
	}
	return 0
}
