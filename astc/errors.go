package astc

import "errors"

// ErrorCode is an API error code equivalent to upstream astcenc_error.
type ErrorCode uint32

const (
	// Success is equivalent to ASTCENC_SUCCESS.
	Success ErrorCode = 0

	// ErrBadParam is equivalent to ASTCENC_ERR_BAD_PARAM.
	ErrBadParam ErrorCode = 3

	// ErrBadBlockSize is equivalent to ASTCENC_ERR_BAD_BLOCK_SIZE.
	ErrBadBlockSize ErrorCode = 4

	// ErrBadProfile is equivalent to ASTCENC_ERR_BAD_PROFILE.
	ErrBadProfile ErrorCode = 5
)

// ErrorString returns the upstream error string name for a code.
//
// For unknown codes, it returns "" (mirrors upstream behavior returning nullptr).
func ErrorString(code ErrorCode) string {
	switch code {
	case Success:
		return "ASTCENC_SUCCESS"
	case ErrBadParam:
		return "ASTCENC_ERR_BAD_PARAM"
	case ErrBadBlockSize:
		return "ASTCENC_ERR_BAD_BLOCK_SIZE"
	case ErrBadProfile:
		return "ASTCENC_ERR_BAD_PROFILE"
	default:
		return ""
	}
}

// Error is a typed error that carries an upstream-equivalent error code.
type Error struct {
	Code ErrorCode
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg != "" {
		return e.Msg
	}
	if s := ErrorString(e.Code); s != "" {
		return "astc: " + s
	}
	return "astc: error"
}

// ErrorCodeOf returns the astcenc-equivalent error code for err, or Success for nil.
//
// For non-*Error errors it returns ErrBadParam as a conservative fallback.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrBadParam
}

func newError(code ErrorCode, msg string) error {
	return &Error{Code: code, Msg: msg}
}
