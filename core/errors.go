package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSuchColumn is returned when a column name is not declared.
	ErrNoSuchColumn = errors.New("no such column")
	// ErrNotList is returned when a list was expected.
	ErrNotList = errors.New("value is not a list")
	// ErrNotDataSet is returned when a data set was expected.
	ErrNotDataSet = errors.New("value is not a data set")
	// ErrUnsupported is wrapped by every UnsupportedOperationError.
	ErrUnsupported = errors.New("unsupported operation")
)

// ColumnNameError reports a column name that does not follow the expected
// grammar, e.g. "_edge:edge1:p1" without a direction sign.
type ColumnNameError struct {
	Column  string
	Message string
}

func (e *ColumnNameError) Error() string {
	return fmt.Sprintf("bad column name '%s': %s", e.Column, e.Message)
}

type UnsupportedTypeError struct {
	Message string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type value: %s", e.Message)
}

// UnsupportedOperationError is returned by accessors that a result shape does
// not provide, e.g. asking a DefaultIter for a vertex.
type UnsupportedOperationError struct {
	Kind string
	Op   string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s does not support %s", e.Kind, e.Op)
}

func (e *UnsupportedOperationError) Unwrap() error { return ErrUnsupported }

// IsColumnNameError checks if an error is a ColumnNameError.
func IsColumnNameError(err error) bool {
	var columnNameError *ColumnNameError
	return errors.As(err, &columnNameError)
}

func IsUnsupportedError(err error) bool {
	var unsupportedError *UnsupportedTypeError
	return errors.As(err, &unsupportedError)
}

// IsUnsupportedOperation checks if an error is, or wraps, an UnsupportedOperationError.
func IsUnsupportedOperation(err error) bool {
	return errors.Is(err, ErrUnsupported)
}
