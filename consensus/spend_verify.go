package consensus

import (
	"github.com/pkg/errors"

	"ledgerscript.dev/core/crypto"
	"ledgerscript.dev/core/script"
)

// TxSigChecker binds signature and locktime checks to one input of a
// transaction. It satisfies both script.SigChecker and script.TxContext.
type TxSigChecker struct {
	Provider crypto.CryptoProvider
	Tx       *Tx
	Index    int
}

var (
	_ script.SigChecker = (*TxSigChecker)(nil)
	_ script.TxContext  = (*TxSigChecker)(nil)
)

// CheckSig splits the hash-type byte off sig, computes the signature hash
// of the bound input over subscript, and verifies the remaining DER
// signature against pubKey.
func (c *TxSigChecker) CheckSig(sig, pubKey []byte, subscript script.Script) (bool, error) {
	if len(sig) == 0 {
		return false, nil
	}
	hashType := SigHashType(sig[len(sig)-1])
	digest, err := SignatureHash(c.Provider, c.Tx, c.Index, subscript, hashType)
	if err != nil {
		return false, err
	}
	ok := c.Provider.VerifyECDSA(pubKey, sig[:len(sig)-1], digest)
	log.Debugf("input %d: checksig type %s pubkey %x: %v", c.Index, hashType, pubKey, ok)
	return ok, nil
}

func (c *TxSigChecker) LockTime() uint32 { return c.Tx.Locktime }
func (c *TxSigChecker) Sequence() uint32 { return c.Tx.Inputs[c.Index].Sequence }
func (c *TxSigChecker) Version() int32   { return c.Tx.Version }

// VerifyInput runs the unlocking script of input idx followed by
// lockingScript, the script of the output it spends.
func VerifyInput(p crypto.CryptoProvider, tx *Tx, idx int, lockingScript script.Script) error {
	if tx == nil {
		return txerr(TX_ERR_PARSE, "nil tx")
	}
	if idx < 0 || idx >= len(tx.Inputs) {
		return txerrf(TX_ERR_INPUT_INDEX, "input %d out of range, tx has %d", idx, len(tx.Inputs))
	}
	if p == nil {
		p = crypto.StdCryptoProvider{}
	}

	checker := &TxSigChecker{Provider: p, Tx: tx, Index: idx}
	engine := &script.Engine{
		Crypto:     p,
		SigChecker: checker,
		TxContext:  checker,
	}
	if err := engine.Verify(tx.Inputs[idx].ScriptSig, lockingScript); err != nil {
		log.Debugf("input %d: %v", idx, err)
		return errors.Wrapf(err, "input %d", idx)
	}
	return nil
}
