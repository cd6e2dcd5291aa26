package consensus

import (
	"fmt"

	"github.com/pkg/errors"
)

type ErrorCode string

const (
	TX_ERR_PARSE             ErrorCode = "TX_ERR_PARSE"
	TX_ERR_TRUNCATED_INPUT   ErrorCode = "TX_ERR_TRUNCATED_INPUT"
	TX_ERR_NONCANONICAL_SIZE ErrorCode = "TX_ERR_NONCANONICAL_SIZE"

	TX_ERR_INPUT_INDEX ErrorCode = "TX_ERR_INPUT_INDEX"
)

type TxError struct {
	Code ErrorCode
	Msg  string
}

func (e *TxError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func txerr(code ErrorCode, msg string) error {
	return &TxError{Code: code, Msg: msg}
}

func txerrf(code ErrorCode, format string, args ...interface{}) error {
	return &TxError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// ErrorCodeOf returns the code carried by err, looking through context
// added with errors.Wrap.
func ErrorCodeOf(err error) (ErrorCode, bool) {
	var te *TxError
	if errors.As(err, &te) && te != nil {
		return te.Code, true
	}
	return "", false
}
