package consensus

import (
	"encoding/hex"

	"ledgerscript.dev/core/crypto"
)

// TxID is the double SHA-256 of the transaction encoding, in the byte
// order the hash function produced it. This is the order PrevTxid uses.
func TxID(p crypto.CryptoProvider, tx *Tx) ([32]byte, error) {
	b, err := MarshalTx(tx)
	if err != nil {
		return [32]byte{}, err
	}
	return p.Hash256(b), nil
}

// TxID hashes tx with the default provider.
func (tx *Tx) TxID() ([32]byte, error) {
	return TxID(crypto.StdCryptoProvider{}, tx)
}

// TxIDString renders id byte-reversed, the way block explorers and
// wallets display it.
func TxIDString(id [32]byte) string {
	var rev [32]byte
	for i := range id {
		rev[31-i] = id[i]
	}
	return hex.EncodeToString(rev[:])
}

// ParseTxIDString is the inverse of TxIDString.
func ParseTxIDString(s string) ([32]byte, error) {
	var id [32]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, txerrf(TX_ERR_PARSE, "txid hex: %v", err)
	}
	if len(b) != 32 {
		return id, txerrf(TX_ERR_PARSE, "txid is %d bytes, want 32", len(b))
	}
	for i := range b {
		id[31-i] = b[i]
	}
	return id, nil
}
