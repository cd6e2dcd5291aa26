package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

func TestStdKnownVectors(t *testing.T) {
	p := StdCryptoProvider{}
	in := []byte("abc")

	sha := p.SHA256(in)
	r := p.RIPEMD160(in)
	s1 := p.SHA1(in)
	h256 := p.Hash256(in)
	h160 := p.Hash160(in)

	cases := []struct {
		name string
		got  []byte
		want string
	}{
		{"sha256", sha[:], "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"ripemd160", r[:], "8eb208f7e05d987a9b044a8e98c6b087f15a0bfc"},
		{"sha1", s1[:], "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{"hash256", h256[:], "4f8b42c22dd3729b519ba6f68d2da7cc5b2d606d05daed5ad5128cc03e6c6358"},
		{"hash160", h160[:], "bb1be98c142444d7a56aa3981c3942a978e4dc33"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := hex.EncodeToString(tc.got); got != tc.want {
				t.Fatalf("digest mismatch: got=%s want=%s", got, tc.want)
			}
		})
	}
}

func TestStdHash160Composition(t *testing.T) {
	p := StdCryptoProvider{}
	for _, in := range [][]byte{nil, {0x00}, []byte("ledger"), make([]byte, 520)} {
		sha := p.SHA256(in)
		if p.Hash160(in) != p.RIPEMD160(sha[:]) {
			t.Fatalf("Hash160(%x) != RIPEMD160(SHA256(x))", in)
		}
	}
}

func TestStdVerifyECDSA(t *testing.T) {
	p := StdCryptoProvider{}
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("NewPrivateKey: %v", err)
	}
	digest := p.SHA256([]byte("spend"))
	sig := ecdsa.Sign(priv, digest[:]).Serialize()
	pub := priv.PubKey().SerializeCompressed()

	if !p.VerifyECDSA(pub, sig, digest) {
		t.Fatalf("valid signature rejected")
	}
	if !p.VerifyECDSA(priv.PubKey().SerializeUncompressed(), sig, digest) {
		t.Fatalf("valid signature rejected for uncompressed key")
	}

	other := p.SHA256([]byte("other"))
	if p.VerifyECDSA(pub, sig, other) {
		t.Fatalf("signature accepted for wrong digest")
	}
	if p.VerifyECDSA(pub[:10], sig, digest) {
		t.Fatalf("truncated pubkey accepted")
	}
	if p.VerifyECDSA(pub, sig[:len(sig)-1], digest) {
		t.Fatalf("truncated signature accepted")
	}
	if p.VerifyECDSA(nil, nil, digest) {
		t.Fatalf("empty inputs accepted")
	}
}
