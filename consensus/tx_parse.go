package consensus

import (
	"github.com/pkg/errors"

	"ledgerscript.dev/core/script"
)

// ParseTx decodes one transaction from the start of b and returns it with
// the number of bytes consumed. Bytes after the transaction are ignored;
// use ParseTxBytes to reject them.
func ParseTx(b []byte) (*Tx, int, error) {
	off := 0

	version, err := readU32le(b, &off)
	if err != nil {
		return nil, 0, errors.Wrap(err, "version")
	}

	inCount, err := readCount(b, &off, txInputFixedBytes+1, "input_count")
	if err != nil {
		return nil, 0, err
	}
	inputs := make([]TxInput, 0, inCount)
	for i := 0; i < inCount; i++ {
		in, n, err := DecodeTxInput(b[off:])
		if err != nil {
			return nil, 0, errors.Wrapf(err, "input %d at offset %d", i, off)
		}
		off += n
		inputs = append(inputs, in)
	}

	outCount, err := readCount(b, &off, txOutputFixedBytes+1, "output_count")
	if err != nil {
		return nil, 0, err
	}
	outputs := make([]TxOutput, 0, outCount)
	for i := 0; i < outCount; i++ {
		o, n, err := DecodeTxOutput(b[off:])
		if err != nil {
			return nil, 0, errors.Wrapf(err, "output %d at offset %d", i, off)
		}
		off += n
		outputs = append(outputs, o)
	}

	locktime, err := readU32le(b, &off)
	if err != nil {
		return nil, 0, errors.Wrap(err, "locktime")
	}

	log.Debugf("parsed tx: %d inputs, %d outputs, %d bytes", len(inputs), len(outputs), off)

	return &Tx{
		// #nosec G115 -- the version field is a signed 32-bit value on the wire.
		Version:  int32(version),
		Inputs:   inputs,
		Outputs:  outputs,
		Locktime: locktime,
	}, off, nil
}

// ParseTxBytes decodes b as exactly one transaction.
func ParseTxBytes(b []byte) (*Tx, error) {
	tx, n, err := ParseTx(b)
	if err != nil {
		return nil, err
	}
	if n != len(b) {
		return nil, txerrf(TX_ERR_PARSE, "trailing bytes: %d after offset %d", len(b)-n, n)
	}
	return tx, nil
}

// DecodeTxInput decodes one input record from the start of b and returns
// the number of bytes consumed.
func DecodeTxInput(b []byte) (TxInput, int, error) {
	off := 0

	prevTxid, err := readBytes(b, &off, 32)
	if err != nil {
		return TxInput{}, 0, errors.Wrap(err, "prev_txid")
	}
	var in TxInput
	copy(in.PrevTxid[:], prevTxid)

	if in.PrevVout, err = readU32le(b, &off); err != nil {
		return TxInput{}, 0, errors.Wrap(err, "prev_vout")
	}
	if in.ScriptSig, err = readScript(b, &off, "script_sig"); err != nil {
		return TxInput{}, 0, err
	}
	if in.Sequence, err = readU32le(b, &off); err != nil {
		return TxInput{}, 0, errors.Wrap(err, "sequence")
	}
	return in, off, nil
}

// DecodeTxOutput decodes one output record from the start of b and
// returns the number of bytes consumed.
func DecodeTxOutput(b []byte) (TxOutput, int, error) {
	off := 0

	value, err := readU64le(b, &off)
	if err != nil {
		return TxOutput{}, 0, errors.Wrap(err, "value")
	}
	pkScript, err := readScript(b, &off, "pk_script")
	if err != nil {
		return TxOutput{}, 0, err
	}
	return TxOutput{
		// #nosec G115 -- the amount field is a signed 64-bit value on the wire.
		Value:    int64(value),
		PkScript: pkScript,
	}, off, nil
}

// readCount reads a record count and rejects counts that the remaining
// bytes could not hold at minRecord bytes per record.
func readCount(b []byte, off *int, minRecord int, name string) (int, error) {
	start := *off
	n, _, err := readCompactSize(b, off)
	if err != nil {
		return 0, errors.Wrap(err, name)
	}
	remaining := uint64(len(b) - *off)
	if n > remaining/uint64(minRecord) {
		return 0, errors.Wrap(txerrf(TX_ERR_TRUNCATED_INPUT,
			"count %d at offset %d needs at least %d bytes per record, have %d", n, start, minRecord, remaining), name)
	}
	return int(n), nil
}

func readScript(b []byte, off *int, name string) (script.Script, error) {
	start := *off
	n, _, err := readCompactSize(b, off)
	if err != nil {
		return nil, errors.Wrapf(err, "%s length", name)
	}
	if have := len(b) - *off; n > uint64(have) {
		*off = start
		return nil, errors.Wrap(txerrf(TX_ERR_TRUNCATED_INPUT,
			"script length %d at offset %d, have %d", n, start, have), name)
	}
	raw, err := readBytes(b, off, int(n))
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	return script.NewScript(raw), nil
}
