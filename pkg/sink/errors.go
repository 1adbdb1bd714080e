package sink

import "github.com/tauraamui/xerror"

var (
	ErrFormatRejected         = xerror.New("proposed input format rejected")
	ErrFormatMismatch         = xerror.New("output format does not match input")
	ErrAllocationInsufficient = xerror.New("allocator granted less than requested")
	ErrNotConnected           = xerror.New("sink input is not connected")
)

// FileWriteError tags save failures, which are reported but never halt capture.
const FileWriteError = xerror.Kind("FileWriteError")
