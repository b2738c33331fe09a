package deviceconfig

import "errors"

// Domain errors for the deviceconfig package, distinguished with
// errors.Is.
var (
	// ErrInvalidRecord is returned by Validate when one or more structural
	// invariants fail. The error text lists every failed check.
	ErrInvalidRecord = errors.New("deviceconfig: invalid record")

	// ErrTruncatedImage is returned by Decode when the supplied buffer is
	// smaller than an encoded record.
	ErrTruncatedImage = errors.New("deviceconfig: truncated record image")
)
