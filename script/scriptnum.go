package script

import "math"

const (
	// MaxScriptNumLen is the longest stack element accepted as a numeric
	// operand.
	MaxScriptNumLen = 4

	// lockTimeNumLen is the operand width allowed for the locktime
	// opcodes, whose values routinely exceed 2^31.
	lockTimeNumLen = 5
)

// ScriptNum is a stack-resident signed integer. Its byte form is
// little-endian sign-magnitude with the sign carried in the high bit of
// the last byte; zero is the empty byte string.
type ScriptNum int64

// MakeScriptNum decodes a stack element into a ScriptNum. It rejects
// elements longer than MaxScriptNumLen and non-minimal encodings.
func MakeScriptNum(b []byte) (ScriptNum, error) {
	return makeScriptNum(b, MaxScriptNumLen)
}

func makeScriptNum(b []byte, maxLen int) (ScriptNum, error) {
	if len(b) > maxLen {
		return 0, scripterrf(SCRIPT_ERR_ENCODING, "numeric operand is %d bytes, max %d", len(b), maxLen)
	}
	if err := checkMinimalNumEncoding(b); err != nil {
		return 0, err
	}
	if len(b) == 0 {
		return 0, nil
	}

	var v int64
	for i, x := range b {
		v |= int64(x) << uint(8*i)
	}
	if b[len(b)-1]&0x80 != 0 {
		v &^= int64(0x80) << uint(8*(len(b)-1))
		v = -v
	}
	return ScriptNum(v), nil
}

// checkMinimalNumEncoding rejects a trailing byte that carries nothing but
// the sign, unless it is needed to keep the previous byte's high bit from
// reading as the sign.
func checkMinimalNumEncoding(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if b[len(b)-1]&0x7f != 0 {
		return nil
	}
	if len(b) == 1 || b[len(b)-2]&0x80 == 0 {
		return scripterrf(SCRIPT_ERR_ENCODING, "non-minimally encoded number %x", b)
	}
	return nil
}

// Bytes returns the canonical encoding of n. There is no length ceiling
// here; the 4-byte limit applies only when reading operands off the stack.
func (n ScriptNum) Bytes() []byte {
	if n == 0 {
		return nil
	}

	neg := n < 0
	mag := uint64(n)
	if neg {
		mag = ^mag + 1
	}

	res := make([]byte, 0, 9)
	for mag > 0 {
		res = append(res, byte(mag))
		mag >>= 8
	}

	if res[len(res)-1]&0x80 != 0 {
		if neg {
			res = append(res, 0x80)
		} else {
			res = append(res, 0x00)
		}
	} else if neg {
		res[len(res)-1] |= 0x80
	}
	return res
}

func (n ScriptNum) Int64() int64 { return int64(n) }

func (n ScriptNum) Add(m ScriptNum) (ScriptNum, error) {
	if (m > 0 && n > math.MaxInt64-m) || (m < 0 && n < math.MinInt64-m) {
		return 0, scripterrf(SCRIPT_ERR_ARITHMETIC_OVERFLOW, "%d + %d", n, m)
	}
	return n + m, nil
}

func (n ScriptNum) Sub(m ScriptNum) (ScriptNum, error) {
	if (m < 0 && n > math.MaxInt64+m) || (m > 0 && n < math.MinInt64+m) {
		return 0, scripterrf(SCRIPT_ERR_ARITHMETIC_OVERFLOW, "%d - %d", n, m)
	}
	return n - m, nil
}

func (n ScriptNum) Negate() (ScriptNum, error) {
	if n == math.MinInt64 {
		return 0, scripterr(SCRIPT_ERR_ARITHMETIC_OVERFLOW, "negate min int64")
	}
	return -n, nil
}

// AsBool interprets a stack element as a boolean: true iff any byte is
// nonzero.
func AsBool(b []byte) bool {
	for _, x := range b {
		if x != 0 {
			return true
		}
	}
	return false
}

// BoolBytes returns the canonical 1 or 0 for b.
func BoolBytes(b bool) []byte {
	if b {
		return []byte{1}
	}
	return nil
}
