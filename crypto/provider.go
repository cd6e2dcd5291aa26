package crypto

// CryptoProvider is the narrow crypto interface used by the interpreter and
// the transaction codec. Digests are fixed-size arrays; callers copy them
// onto the stack.
type CryptoProvider interface {
	RIPEMD160(input []byte) [20]byte
	SHA1(input []byte) [20]byte
	SHA256(input []byte) [32]byte
	// Hash160 is RIPEMD160(SHA256(input)).
	Hash160(input []byte) [20]byte
	// Hash256 is SHA256(SHA256(input)).
	Hash256(input []byte) [32]byte
	// VerifyECDSA checks a DER-encoded secp256k1 signature over digest32
	// against a SEC-encoded public key. Malformed inputs verify false.
	VerifyECDSA(pubkey []byte, sig []byte, digest32 [32]byte) bool
}
