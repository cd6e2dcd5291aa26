package crypto

import (
	"crypto/sha1" // #nosec G505 -- OP_SHA1 is part of the bytecode

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/fastsha256"
	"golang.org/x/crypto/ripemd160" // #nosec G507 -- OP_RIPEMD160 is part of the bytecode
)

// StdCryptoProvider is the default provider. It carries no state and is
// safe for concurrent use.
type StdCryptoProvider struct{}

var _ CryptoProvider = StdCryptoProvider{}

func (p StdCryptoProvider) RIPEMD160(input []byte) [20]byte {
	h := ripemd160.New()
	_, _ = h.Write(input)
	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}

func (p StdCryptoProvider) SHA1(input []byte) [20]byte {
	return sha1.Sum(input)
}

func (p StdCryptoProvider) SHA256(input []byte) [32]byte {
	return fastsha256.Sum256(input)
}

func (p StdCryptoProvider) Hash160(input []byte) [20]byte {
	sum := fastsha256.Sum256(input)
	return p.RIPEMD160(sum[:])
}

func (p StdCryptoProvider) Hash256(input []byte) [32]byte {
	first := fastsha256.Sum256(input)
	return fastsha256.Sum256(first[:])
}

func (p StdCryptoProvider) VerifyECDSA(pubkey []byte, sig []byte, digest32 [32]byte) bool {
	pk, err := btcec.ParsePubKey(pubkey)
	if err != nil {
		return false
	}
	parsed, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false
	}
	return parsed.Verify(digest32[:], pk)
}
