package exchange

import "fmt"

// ErrorType classifies domain failures so handlers can pick an HTTP status
// with a type switch instead of matching error strings.
type ErrorType int

const (
	ErrorTypeMissingParameter ErrorType = iota
	ErrorTypeUnknownCurrency
	ErrorTypeNotFound
	ErrorTypeInvalidRate
	ErrorTypeInternal
)

// Error is a domain error with type information.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// TypeOf returns the ErrorType of err, or ErrorTypeInternal when err is not
// a domain error.
func TypeOf(err error) ErrorType {
	if exchangeError, ok := err.(*Error); ok {
		return exchangeError.Type
	}
	return ErrorTypeInternal
}

// unknownCurrencyError builds the standard error for a code absent from the
// rate table.
func unknownCurrencyError(code string) *Error {
	return &Error{
		Type:    ErrorTypeUnknownCurrency,
		Message: fmt.Sprintf("unsupported currency: %s", code),
	}
}
