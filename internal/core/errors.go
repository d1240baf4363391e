package core

import "errors"

// Predefined errors returned by database operations.
var (
	// ErrNoRows is returned when a query that expects rows returns none.
	ErrNoRows = errors.New("no rows in result set")
	// ErrTxDone is returned when operating on a finished transaction.
	ErrTxDone = errors.New("transaction has already been committed or rolled back")
	// ErrMissingTable is returned when executing a builder with no table set.
	ErrMissingTable = errors.New("query has no table")
)

// WrapError wraps an error with a context message, preserving the chain
// for errors.Is and errors.As.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: message, err: err}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}
