package consensus

import "ledgerscript.dev/core/script"

// Tx is a transaction record:
//
//	i32le version | cs(n_in) | inputs | cs(n_out) | outputs | u32le locktime
type Tx struct {
	Version  int32
	Inputs   []TxInput
	Outputs  []TxOutput
	Locktime uint32
}

// TxInput references an earlier output and carries the unlocking script.
// PrevTxid is kept in wire byte order.
//
//	bytes[32] prev_txid | u32le prev_vout | cs(len) script_sig | u32le sequence
type TxInput struct {
	PrevTxid  [32]byte
	PrevVout  uint32
	ScriptSig script.Script
	Sequence  uint32
}

// TxOutput carries an amount and its locking script.
//
//	i64le value | cs(len) pk_script
type TxOutput struct {
	Value    int64
	PkScript script.Script
}

const (
	txInputFixedBytes  = 32 + 4 + 4
	txOutputFixedBytes = 8
	txFixedBytes       = 4 + 4
)

// SerializeSize is the length of the encoding produced by MarshalTx.
func (tx *Tx) SerializeSize() int {
	n := txFixedBytes + CompactSize(len(tx.Inputs)).EncodedLen() + CompactSize(len(tx.Outputs)).EncodedLen()
	for _, in := range tx.Inputs {
		n += txInputFixedBytes + CompactSize(len(in.ScriptSig)).EncodedLen() + len(in.ScriptSig)
	}
	for _, o := range tx.Outputs {
		n += txOutputFixedBytes + CompactSize(len(o.PkScript)).EncodedLen() + len(o.PkScript)
	}
	return n
}
