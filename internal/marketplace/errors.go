// internal/marketplace/errors.go
package marketplace

import "fmt"

// ErrorCode identifies a marketplace failure kind. Codes are stable and
// part of the API surface; never renumber them.
type ErrorCode uint32

const (
	CodeUnauthorizedAccess ErrorCode = 1
	CodeInnovationNotFound ErrorCode = 2
	CodeInvalidListing     ErrorCode = 3
	CodeBidTooLow          ErrorCode = 4
	CodeListingClosed      ErrorCode = 5
	CodeEscrowFailed       ErrorCode = 6
)

// Error is a typed marketplace failure. Every engine operation either
// commits fully or returns one of these with both stores unchanged.
type Error struct {
	Code  ErrorCode
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches on code so errors.Is works against the sentinel values even
// for wrapped instances such as escrow failures.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrUnauthorizedAccess = &Error{Code: CodeUnauthorizedAccess, msg: "caller does not own this innovation"}
	ErrInnovationNotFound = &Error{Code: CodeInnovationNotFound, msg: "innovation not found"}
	ErrInvalidListing     = &Error{Code: CodeInvalidListing, msg: "invalid listing"}
	ErrBidTooLow          = &Error{Code: CodeBidTooLow, msg: "bid too low"}
	ErrListingClosed      = &Error{Code: CodeListingClosed, msg: "listing is closed"}
	ErrEscrowFailed       = &Error{Code: CodeEscrowFailed, msg: "escrow settlement failed"}
)

func escrowFailed(cause error) *Error {
	return &Error{Code: CodeEscrowFailed, msg: "escrow settlement failed", cause: cause}
}
