package consensus

import (
	"testing"

	"ledgerscript.dev/core/crypto"
	"ledgerscript.dev/core/script"
)

func twoByTwoTx() *Tx {
	return &Tx{
		Version: 1,
		Inputs: []TxInput{
			{PrevTxid: [32]byte{0x11}, PrevVout: 0, Sequence: 0xffffffff},
			{PrevTxid: [32]byte{0x22}, PrevVout: 1, Sequence: 0xffffffff},
		},
		Outputs: []TxOutput{
			{Value: 1000, PkScript: script.MustAssemble("1")},
			{Value: 2000, PkScript: script.MustAssemble("2")},
		},
		Locktime: 0,
	}
}

func mustSigHash(t *testing.T, tx *Tx, idx int, sub script.Script, ht SigHashType) [32]byte {
	t.Helper()
	d, err := SignatureHash(crypto.StdCryptoProvider{}, tx, idx, sub, ht)
	if err != nil {
		t.Fatalf("SignatureHash: %v", err)
	}
	return d
}

func TestSignatureHash_SingleWithoutOutput(t *testing.T) {
	tx := twoByTwoTx()
	tx.Outputs = tx.Outputs[:1]
	got := mustSigHash(t, tx, 1, script.MustAssemble("CHECKSIG"), SigHashSingle)
	want := [32]byte{0x01}
	if got != want {
		t.Fatalf("digest=%x want %x", got, want)
	}
}

func TestSignatureHash_InputIndex(t *testing.T) {
	tx := twoByTwoTx()
	for _, idx := range []int{-1, 2} {
		_, err := SignatureHash(crypto.StdCryptoProvider{}, tx, idx, nil, SigHashAll)
		if got := mustTxErrCode(t, err); got != TX_ERR_INPUT_INDEX {
			t.Fatalf("idx %d: code=%s", idx, got)
		}
	}
	_, err := SignatureHash(crypto.StdCryptoProvider{}, nil, 0, nil, SigHashAll)
	if got := mustTxErrCode(t, err); got != TX_ERR_PARSE {
		t.Fatalf("nil tx: code=%s", got)
	}
}

func TestSignatureHash_RemovesCodeSeparators(t *testing.T) {
	tx := twoByTwoTx()
	with := mustSigHash(t, tx, 0, script.MustAssemble("1 CODESEPARATOR DUP CODESEPARATOR CHECKSIG"), SigHashAll)
	without := mustSigHash(t, tx, 0, script.MustAssemble("1 DUP CHECKSIG"), SigHashAll)
	if with != without {
		t.Fatalf("CODESEPARATOR changed the digest")
	}
}

func TestSignatureHash_Commitments(t *testing.T) {
	sub := script.MustAssemble("DUP CHECKSIG")
	cases := []struct {
		name    string
		ht      SigHashType
		mutate  func(*Tx)
		changes bool
	}{
		{"all_own_script_sig", SigHashAll, func(tx *Tx) { tx.Inputs[0].ScriptSig = script.MustAssemble("0xabcd") }, false},
		{"all_other_script_sig", SigHashAll, func(tx *Tx) { tx.Inputs[1].ScriptSig = script.MustAssemble("0xabcd") }, false},
		{"all_other_sequence", SigHashAll, func(tx *Tx) { tx.Inputs[1].Sequence = 5 }, true},
		{"all_output_value", SigHashAll, func(tx *Tx) { tx.Outputs[1].Value++ }, true},
		{"all_locktime", SigHashAll, func(tx *Tx) { tx.Locktime = 9 }, true},
		{"none_output_value", SigHashNone, func(tx *Tx) { tx.Outputs[0].Value++ }, false},
		{"none_other_sequence", SigHashNone, func(tx *Tx) { tx.Inputs[1].Sequence = 5 }, false},
		{"none_own_sequence", SigHashNone, func(tx *Tx) { tx.Inputs[0].Sequence = 5 }, true},
		{"single_other_output", SigHashSingle, func(tx *Tx) { tx.Outputs[1].Value++ }, false},
		{"single_own_output", SigHashSingle, func(tx *Tx) { tx.Outputs[0].Value++ }, true},
		{"all_other_prevout", SigHashAll, func(tx *Tx) { tx.Inputs[1].PrevVout = 9 }, true},
		{"anyonecanpay_other_prevout", SigHashAll | SigHashAnyOneCanPay, func(tx *Tx) { tx.Inputs[1].PrevVout = 9 }, false},
		{"anyonecanpay_output", SigHashAll | SigHashAnyOneCanPay, func(tx *Tx) { tx.Outputs[1].Value++ }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := twoByTwoTx()
			before := mustSigHash(t, tx, 0, sub, tc.ht)
			tc.mutate(tx)
			after := mustSigHash(t, tx, 0, sub, tc.ht)
			if (before != after) != tc.changes {
				t.Fatalf("digest changed=%v, want %v", before != after, tc.changes)
			}
		})
	}
}

func TestSignatureHash_DoesNotMutate(t *testing.T) {
	tx := twoByTwoTx()
	tx.Inputs[1].ScriptSig = script.MustAssemble("0xabcd")
	want, _ := MarshalTx(tx)
	for _, ht := range []SigHashType{SigHashAll, SigHashNone, SigHashSingle, SigHashSingle | SigHashAnyOneCanPay} {
		mustSigHash(t, tx, 1, script.MustAssemble("CHECKSIG"), ht)
		got, _ := MarshalTx(tx)
		if string(got) != string(want) {
			t.Fatalf("%s mutated the tx", ht)
		}
	}
}

func TestSigHashTypeString(t *testing.T) {
	cases := map[SigHashType]string{
		SigHashAll:                          "ALL",
		SigHashNone:                         "NONE",
		SigHashSingle | SigHashAnyOneCanPay: "SINGLE|ANYONECANPAY",
	}
	for ht, want := range cases {
		if got := ht.String(); got != want {
			t.Fatalf("0x%x: %s want %s", uint32(ht), got, want)
		}
	}
}
