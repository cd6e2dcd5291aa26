package script

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	SCRIPT_ERR_EMPTY_SCRIPT     ErrorCode = "SCRIPT_ERR_EMPTY_SCRIPT"
	SCRIPT_ERR_SCRIPT_TOO_LARGE ErrorCode = "SCRIPT_ERR_SCRIPT_TOO_LARGE"
	SCRIPT_ERR_EMPTY_RESULT     ErrorCode = "SCRIPT_ERR_EMPTY_RESULT"
	SCRIPT_ERR_EVAL_FALSE       ErrorCode = "SCRIPT_ERR_EVAL_FALSE"

	SCRIPT_ERR_ENCODING          ErrorCode = "SCRIPT_ERR_ENCODING"
	SCRIPT_ERR_OVERSIZED_ELEMENT ErrorCode = "SCRIPT_ERR_OVERSIZED_ELEMENT"
	SCRIPT_ERR_TRUNCATED_PUSH    ErrorCode = "SCRIPT_ERR_TRUNCATED_PUSH"
	SCRIPT_ERR_TOO_MANY_OPS      ErrorCode = "SCRIPT_ERR_TOO_MANY_OPS"
	SCRIPT_ERR_STACK_OVERFLOW    ErrorCode = "SCRIPT_ERR_STACK_OVERFLOW"
	SCRIPT_ERR_STACK_UNDERFLOW   ErrorCode = "SCRIPT_ERR_STACK_UNDERFLOW"

	SCRIPT_ERR_INVALID_OPCODE  ErrorCode = "SCRIPT_ERR_INVALID_OPCODE"
	SCRIPT_ERR_DISABLED_OPCODE ErrorCode = "SCRIPT_ERR_DISABLED_OPCODE"

	SCRIPT_ERR_UNTERMINATED_CONDITIONAL ErrorCode = "SCRIPT_ERR_UNTERMINATED_CONDITIONAL"
	SCRIPT_ERR_DANGLING_CONTROL         ErrorCode = "SCRIPT_ERR_DANGLING_CONTROL"
	SCRIPT_ERR_VERIFY                   ErrorCode = "SCRIPT_ERR_VERIFY"
	SCRIPT_ERR_RETURN                   ErrorCode = "SCRIPT_ERR_RETURN"
	SCRIPT_ERR_ARITHMETIC_OVERFLOW      ErrorCode = "SCRIPT_ERR_ARITHMETIC_OVERFLOW"

	SCRIPT_ERR_NEGATIVE_LOCKTIME    ErrorCode = "SCRIPT_ERR_NEGATIVE_LOCKTIME"
	SCRIPT_ERR_UNSATISFIED_LOCKTIME ErrorCode = "SCRIPT_ERR_UNSATISFIED_LOCKTIME"
	SCRIPT_ERR_TX_CONTEXT_REQUIRED  ErrorCode = "SCRIPT_ERR_TX_CONTEXT_REQUIRED"
	SCRIPT_ERR_SIG_CHECKER_REQUIRED ErrorCode = "SCRIPT_ERR_SIG_CHECKER_REQUIRED"
	SCRIPT_ERR_PUBKEY_COUNT         ErrorCode = "SCRIPT_ERR_PUBKEY_COUNT"
	SCRIPT_ERR_SIG_COUNT            ErrorCode = "SCRIPT_ERR_SIG_COUNT"

	SCRIPT_ERR_UNEXPECTED ErrorCode = "SCRIPT_ERR_UNEXPECTED"
)

// Error is the terminal outcome of a failed parse, build or run.
type Error struct {
	Code ErrorCode
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func scripterr(code ErrorCode, msg string) error {
	return &Error{Code: code, Msg: msg}
}

func scripterrf(code ErrorCode, format string, args ...interface{}) error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// ErrorCodeOf returns the code carried by err, looking through any
// context wrapping. The second result is false if err carries no code.
func ErrorCodeOf(err error) (ErrorCode, bool) {
	var se *Error
	if errors.As(err, &se) && se != nil {
		return se.Code, true
	}
	return "", false
}

// IsErrorCode reports whether err carries the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	got, ok := ErrorCodeOf(err)
	return ok && got == code
}
