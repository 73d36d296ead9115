// Package apperr defines the structured errors returned by the room service.
// Every failure crossing the service boundary is an *Error carrying a stable
// wire code plus a human-readable detail.
package apperr

import (
	"errors"
	"fmt"
)

// Wire codes. These are part of the client contract and never change.
const (
	CodeBadRP          = "BAD_RP"
	CodeBadRPCode      = "BAD_RPCODE"
	CodeRPNotFound     = "RP_NOT_FOUND"
	CodeBadMsg         = "BAD_MSG"
	CodeBadChara       = "BAD_CHARA"
	CodeBadEdit        = "BAD_EDIT"
	CodeCharaNotFound  = "CHARA_NOT_FOUND"
	CodeBadMsgID       = "BAD_MSG_ID"
	CodeBadSecret      = "BAD_SECRET"
	CodeBadURL         = "BAD_URL"
	CodeURLFailed      = "URL_FAILED"
	CodeUnknownContent = "UNKNOWN_CONTENT"
	CodeBadContent     = "BAD_CONTENT"
	CodeInternal       = "INTERNAL_ERROR"
)

// Error is a structured service error.
type Error struct {
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if e.Details == "" {
		return e.Code
	}
	return e.Code + ": " + e.Details
}

// New creates an Error with the given code and formatted details.
func New(code, format string, args ...any) *Error {
	return &Error{Code: code, Details: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure. The underlying error is meant for
// logs only; callers see a generic message.
func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Details: "internal error"}
}

// CodeOf extracts the wire code from err, or INTERNAL_ERROR if err is not
// an *Error.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given wire code.
func Is(err error, code string) bool {
	return CodeOf(err) == code
}
