package db

import "errors"

// ErrIndexNotFound signals that the configured index does not exist.
var ErrIndexNotFound = errors.New("db: index not found")

// Op names the backend operation for error context.
const (
	OpPing               = "PING"
	OpSearch             = "FT.SEARCH"
	OpQuery              = "QueryByVectorValues"
	OpDescribeIndex      = "DescribeIndex"
	OpDescribeIndexStats = "DescribeIndexStats"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
