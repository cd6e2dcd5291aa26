package consensus

// MarshalTx serialises a Tx into its wire-format bytes.
// The output is the exact inverse of ParseTx (roundtrip property).
func MarshalTx(tx *Tx) ([]byte, error) {
	if tx == nil {
		return nil, txerr(TX_ERR_PARSE, "nil tx")
	}
	return AppendTx(make([]byte, 0, tx.SerializeSize()), tx), nil
}

func AppendTx(b []byte, tx *Tx) []byte {
	return appendTx(b, tx, false)
}

func appendTx(b []byte, tx *Tx, stripped bool) []byte {
	// #nosec G115 -- the version field is a signed 32-bit value on the wire.
	b = AppendU32le(b, uint32(tx.Version))

	b = AppendCompactSize(b, uint64(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		if stripped {
			b = AppendTxInputStripped(b, in)
		} else {
			b = AppendTxInput(b, in)
		}
	}

	b = AppendCompactSize(b, uint64(len(tx.Outputs)))
	for _, o := range tx.Outputs {
		b = AppendTxOutput(b, o)
	}

	return AppendU32le(b, tx.Locktime)
}

func AppendTxInput(b []byte, in TxInput) []byte {
	return appendTxInput(b, in, in.ScriptSig)
}

// AppendTxInputStripped encodes in with a zero-length script in place of
// its ScriptSig.
func AppendTxInputStripped(b []byte, in TxInput) []byte {
	return appendTxInput(b, in, nil)
}

func appendTxInput(b []byte, in TxInput, scriptSig []byte) []byte {
	b = append(b, in.PrevTxid[:]...)
	b = AppendU32le(b, in.PrevVout)
	b = AppendCompactSize(b, uint64(len(scriptSig)))
	b = append(b, scriptSig...)
	return AppendU32le(b, in.Sequence)
}

func AppendTxOutput(b []byte, o TxOutput) []byte {
	// #nosec G115 -- the amount field is a signed 64-bit value on the wire.
	b = AppendU64le(b, uint64(o.Value))
	b = AppendCompactSize(b, uint64(len(o.PkScript)))
	return append(b, o.PkScript...)
}

// MarshalStripped serialises tx with every input script emptied.
func MarshalStripped(tx *Tx) ([]byte, error) {
	if tx == nil {
		return nil, txerr(TX_ERR_PARSE, "nil tx")
	}
	return appendTx(make([]byte, 0, tx.SerializeSize()), tx, true), nil
}
