package consensus

import (
	"ledgerscript.dev/core/crypto"
	"ledgerscript.dev/core/script"
)

// SigHashType is the trailing byte of a signature selecting which parts
// of the transaction the signature commits to.
type SigHashType uint32

const (
	SigHashAll          SigHashType = 0x1
	SigHashNone         SigHashType = 0x2
	SigHashSingle       SigHashType = 0x3
	SigHashAnyOneCanPay SigHashType = 0x80

	sigHashMask = 0x1f
)

func (t SigHashType) String() string {
	var s string
	switch t & sigHashMask {
	case SigHashNone:
		s = "NONE"
	case SigHashSingle:
		s = "SINGLE"
	default:
		s = "ALL"
	}
	if t&SigHashAnyOneCanPay != 0 {
		s += "|ANYONECANPAY"
	}
	return s
}

// SignatureHash computes the legacy signature digest of input idx of tx,
// committing to subscript with every OP_CODESEPARATOR removed.
//
// SINGLE with no output at idx yields the digest 1 (little-endian), which
// anyone can sign.
func SignatureHash(p crypto.CryptoProvider, tx *Tx, idx int, subscript script.Script, hashType SigHashType) ([32]byte, error) {
	var digest [32]byte
	if tx == nil {
		return digest, txerr(TX_ERR_PARSE, "nil tx")
	}
	if idx < 0 || idx >= len(tx.Inputs) {
		return digest, txerrf(TX_ERR_INPUT_INDEX, "input %d out of range, tx has %d", idx, len(tx.Inputs))
	}
	if hashType&sigHashMask == SigHashSingle && idx >= len(tx.Outputs) {
		digest[0] = 0x01
		return digest, nil
	}

	subscript = subscript.RemoveOp(script.OP_CODESEPARATOR)

	txCopy := &Tx{
		Version:  tx.Version,
		Inputs:   make([]TxInput, len(tx.Inputs)),
		Outputs:  tx.Outputs,
		Locktime: tx.Locktime,
	}
	for i, in := range tx.Inputs {
		if i == idx {
			in.ScriptSig = subscript
		} else {
			in.ScriptSig = nil
		}
		txCopy.Inputs[i] = in
	}

	switch hashType & sigHashMask {
	case SigHashNone:
		txCopy.Outputs = nil
		zeroOtherSequences(txCopy, idx)
	case SigHashSingle:
		txCopy.Outputs = make([]TxOutput, idx+1)
		for i := 0; i < idx; i++ {
			txCopy.Outputs[i] = TxOutput{Value: -1}
		}
		txCopy.Outputs[idx] = tx.Outputs[idx]
		zeroOtherSequences(txCopy, idx)
	default:
		// ALL, and any unrecognized base type
	}

	if hashType&SigHashAnyOneCanPay != 0 {
		txCopy.Inputs = txCopy.Inputs[idx : idx+1]
	}

	b := AppendTx(make([]byte, 0, txCopy.SerializeSize()+4), txCopy)
	b = AppendU32le(b, uint32(hashType))

	log.Tracef("sighash input %d type %s preimage %x", idx, hashType, b)
	return p.Hash256(b), nil
}

func zeroOtherSequences(tx *Tx, idx int) {
	for i := range tx.Inputs {
		if i != idx {
			tx.Inputs[i].Sequence = 0
		}
	}
}
