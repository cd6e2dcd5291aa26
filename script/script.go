package script

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	MaxScriptSize         = 10000
	MaxOpsPerScript       = 201
	MaxStackSize          = 1000
	MaxScriptElementSize  = 520
	MaxPubKeysPerMultiSig = 20
)

// Script is an immutable instruction stream. The zero value is the empty
// script, which parses and encodes but cannot be run.
type Script []byte

// NewScript copies b into a Script.
func NewScript(b []byte) Script {
	if len(b) == 0 {
		return Script{}
	}
	return Script(append([]byte(nil), b...))
}

func NewScriptFromHex(s string) (Script, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.Wrap(scripterr(SCRIPT_ERR_ENCODING, "bad hex"), err.Error())
	}
	return Script(b), nil
}

// Bytes returns a copy of the encoded instruction stream.
func (s Script) Bytes() []byte {
	return append([]byte{}, s...)
}

func (s Script) String() string {
	return hex.EncodeToString(s)
}

// Equal reports whether s and other hold the same instruction stream.
func (s Script) Equal(other Script) bool {
	return bytes.Equal(s, other)
}

// Disassemble renders s as space-separated opcode names, with pushed data
// in 0x-prefixed hex whatever push form carried it. A malformed tail is
// rendered as [error].
func (s Script) Disassemble() (string, error) {
	var out []string
	for pc := 0; pc < len(s); {
		inst, err := ParseOp(s, pc)
		if err != nil {
			out = append(out, "[error]")
			return strings.Join(out, " "), err
		}
		if inst.Op.isDataPush() {
			out = append(out, "0x"+hex.EncodeToString(inst.Data))
		} else {
			out = append(out, inst.Op.String())
		}
		pc += inst.Len
	}
	return strings.Join(out, " "), nil
}

// IsPushOnly reports whether s consists solely of constant pushes.
func (s Script) IsPushOnly() bool {
	for pc := 0; pc < len(s); {
		inst, err := ParseOp(s, pc)
		if err != nil {
			return false
		}
		if inst.Op > OP_16 || inst.Op == OP_RESERVED {
			return false
		}
		pc += inst.Len
	}
	return true
}

// RemoveOp returns s with every occurrence of op dropped. Pushed data is
// never inspected, so a data byte equal to op survives.
func (s Script) RemoveOp(op Op) Script {
	out := make(Script, 0, len(s))
	for pc := 0; pc < len(s); {
		inst, err := ParseOp(s, pc)
		if err != nil {
			// keep a malformed tail verbatim
			return append(out, s[pc:]...)
		}
		if inst.Op != op {
			out = append(out, s[pc:pc+inst.Len]...)
		}
		pc += inst.Len
	}
	return out
}

// ScriptBuilder appends instructions to a script under construction. The
// first failing append is sticky and reported by Script.
type ScriptBuilder struct {
	script Script
	err    error
}

func NewScriptBuilder() *ScriptBuilder {
	return &ScriptBuilder{script: make(Script, 0, 64)}
}

func (b *ScriptBuilder) AddOp(op Op) *ScriptBuilder {
	if b.err != nil {
		return b
	}
	return b.grow(1, func() { b.script = append(b.script, byte(op)) })
}

func (b *ScriptBuilder) AddOps(ops ...Op) *ScriptBuilder {
	for _, op := range ops {
		b.AddOp(op)
	}
	return b
}

// AddInt64 appends n as a length byte followed by its canonical encoding.
// Zero therefore appends OP_0.
func (b *ScriptBuilder) AddInt64(n int64) *ScriptBuilder {
	if b.err != nil {
		return b
	}
	enc := ScriptNum(n).Bytes()
	return b.grow(1+len(enc), func() {
		b.script = append(b.script, byte(len(enc)))
		b.script = append(b.script, enc...)
	})
}

// AddData appends a push of data using the smallest push form.
func (b *ScriptBuilder) AddData(data []byte) *ScriptBuilder {
	if b.err != nil {
		return b
	}
	enc, err := encodePush(data)
	if err != nil {
		b.err = err
		return b
	}
	return b.grow(len(enc), func() { b.script = append(b.script, enc...) })
}

func (b *ScriptBuilder) grow(n int, appendFn func()) *ScriptBuilder {
	if len(b.script)+n > MaxScriptSize {
		b.err = scripterrf(SCRIPT_ERR_SCRIPT_TOO_LARGE, "adding %d bytes to %d-byte script exceeds %d", n, len(b.script), MaxScriptSize)
		return b
	}
	appendFn()
	return b
}

// Script returns the built script, or the first append error.
func (b *ScriptBuilder) Script() (Script, error) {
	if b.err != nil {
		return nil, b.err
	}
	return NewScript(b.script), nil
}

func encodePush(data []byte) ([]byte, error) {
	n := len(data)
	var out []byte
	switch {
	case n <= int(OP_DATA_75):
		out = make([]byte, 0, 1+n)
		out = append(out, byte(n))
	case n <= 0xff:
		out = make([]byte, 0, 2+n)
		out = append(out, byte(OP_PUSHDATA1), byte(n))
	case n <= MaxScriptElementSize:
		out = make([]byte, 0, 3+n)
		out = append(out, byte(OP_PUSHDATA2))
		out = binary.LittleEndian.AppendUint16(out, uint16(n))
	default:
		return nil, scripterrf(SCRIPT_ERR_OVERSIZED_ELEMENT, "push of %d bytes, max %d", n, MaxScriptElementSize)
	}
	return append(out, data...), nil
}

// Assemble parses the text form produced by Disassemble. Tokens are
// opcode names (the OP_ prefix is optional), decimal integers, which are
// pushed with the smallest form, and 0x-prefixed hex data.
func Assemble(src string) (Script, error) {
	b := NewScriptBuilder()
	for _, tok := range strings.Fields(src) {
		switch {
		case strings.HasPrefix(tok, "0x"):
			data, err := hex.DecodeString(tok[2:])
			if err != nil {
				return nil, errors.Wrapf(scripterr(SCRIPT_ERR_ENCODING, "bad hex token"), "token %q", tok)
			}
			b.AddData(data)
		case isNumberToken(tok):
			n, err := strconv.ParseInt(tok, 10, 64)
			if err != nil {
				return nil, errors.Wrapf(scripterr(SCRIPT_ERR_ENCODING, "bad number token"), "token %q", tok)
			}
			switch {
			case n == 0:
				b.AddOp(OP_0)
			case n == -1:
				b.AddOp(OP_1NEGATE)
			case n >= 1 && n <= 16:
				b.AddOp(OP_1 + Op(n-1))
			default:
				b.AddData(ScriptNum(n).Bytes())
			}
		default:
			name := strings.ToUpper(tok)
			if !strings.HasPrefix(name, "OP_") {
				name = "OP_" + name
			}
			op, ok := opsByName[name]
			if !ok || op.isDataPush() {
				return nil, scripterrf(SCRIPT_ERR_INVALID_OPCODE, "unknown opcode %q", tok)
			}
			b.AddOp(op)
		}
	}
	return b.Script()
}

func isNumberToken(tok string) bool {
	if strings.HasPrefix(tok, "-") {
		tok = tok[1:]
	}
	if tok == "" {
		return false
	}
	for _, c := range tok {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// MustAssemble is Assemble for fixed programs; it panics on error.
func MustAssemble(src string) Script {
	s, err := Assemble(src)
	if err != nil {
		panic(fmt.Sprintf("script.MustAssemble(%q): %v", src, err))
	}
	return s
}
