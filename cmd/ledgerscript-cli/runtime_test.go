package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"ledgerscript.dev/core/consensus"
	"ledgerscript.dev/core/crypto"
	"ledgerscript.dev/core/script"
)

const genesisCoinbaseHex = "01000000010000000000000000000000000000000000000000000000000000000000000000ffffffff4d04ffff001d0104455468652054696d65732030332f4a616e2f32303039204368616e63656c6c6f72206f6e206272696e6b206f66207365636f6e64206261696c6f757420666f722062616e6b73ffffffff0100f2052a01000000434104678afdb0fe5548271967f1a67130b7105cd6a828e03909a67962e0ea1f61deb649f6bc3f4cef38c4f35504e51ec112de5c384df7ba0b8d578a4c702b6bf11d5fac00000000"

func runRawJSON(t *testing.T, raw []byte, args ...string) (Response, string) {
	t.Helper()
	t.Cleanup(func() {
		script.DisableLog()
		consensus.DisableLog()
	})

	var stdout, stderr bytes.Buffer
	if code := run(args, bytes.NewReader(raw), &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d; stderr=%s", code, stderr.String())
	}
	var resp Response
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &resp); err != nil {
		t.Fatalf("unmarshal resp: %v; raw=%q", err, stdout.String())
	}
	return resp, stderr.String()
}

func runRequest(t *testing.T, req Request) Response {
	t.Helper()
	raw, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, _ := runRawJSON(t, raw)
	return resp
}

func mustRunOk(t *testing.T, req Request) Response {
	t.Helper()
	resp := runRequest(t, req)
	if !resp.Ok {
		t.Fatalf("expected ok, got: %+v", resp)
	}
	return resp
}

func mustRunErr(t *testing.T, req Request, wantErr string) Response {
	t.Helper()
	resp := runRequest(t, req)
	if resp.Ok || resp.Err != wantErr {
		t.Fatalf("expected err=%q, got: %+v", wantErr, resp)
	}
	return resp
}

func TestCLI_BadRequest(t *testing.T) {
	resp, _ := runRawJSON(t, []byte("{"))
	if resp.Ok || !strings.HasPrefix(resp.Err, "bad request") {
		t.Fatalf("unexpected resp: %+v", resp)
	}
	mustRunErr(t, Request{Op: "nope"}, "unknown op")
}

func TestCLI_RunScript(t *testing.T) {
	r := mustRunOk(t, Request{Op: "run_script", ScriptAsm: "1 1 ADD"})
	if r.Top != "02" || len(r.Stack) != 1 || r.NumOps != 3 {
		t.Fatalf("unexpected resp: %+v", r)
	}

	r = mustRunOk(t, Request{Op: "run_script", ScriptHex: "52539f6b51"})
	if r.Top != "01" || len(r.AltStack) != 1 || r.AltStack[0] != "01" {
		t.Fatalf("unexpected resp: %+v", r)
	}

	mustRunErr(t, Request{Op: "run_script", ScriptAsm: "ADD"}, string(script.SCRIPT_ERR_STACK_UNDERFLOW))
	mustRunErr(t, Request{Op: "run_script", ScriptAsm: "1 DROP"}, string(script.SCRIPT_ERR_EMPTY_RESULT))
	mustRunErr(t, Request{Op: "run_script", ScriptAsm: "1 IF 2"}, string(script.SCRIPT_ERR_UNTERMINATED_CONDITIONAL))
	mustRunErr(t, Request{Op: "run_script", ScriptAsm: "1 1 CAT"}, string(script.SCRIPT_ERR_DISABLED_OPCODE))
	mustRunErr(t, Request{Op: "run_script", ScriptHex: "zz"}, "bad script_hex")
	mustRunErr(t, Request{Op: "run_script", ScriptAsm: "OP_BOGUS"}, "bad script_asm")
	mustRunErr(t, Request{Op: "run_script"}, "bad script")
}

func TestCLI_Disasm(t *testing.T) {
	const p2pkhHex = "76a91489abcdefabbaabbaabbaabbaabbaabbaabbaabba88ac"
	r := mustRunOk(t, Request{Op: "disasm", ScriptHex: p2pkhHex})
	if r.Asm != "OP_DUP OP_HASH160 0x89abcdefabbaabbaabbaabbaabbaabbaabbaabba OP_EQUALVERIFY OP_CHECKSIG" || r.Hex != p2pkhHex {
		t.Fatalf("unexpected resp: %+v", r)
	}

	r = mustRunOk(t, Request{Op: "disasm", ScriptAsm: "dup hash160"})
	if r.Hex != "76a9" {
		t.Fatalf("unexpected resp: %+v", r)
	}

	bad := runRequest(t, Request{Op: "disasm", ScriptHex: "510501"})
	if bad.Ok || bad.Asm != "OP_1 [error]" {
		t.Fatalf("unexpected resp: %+v", bad)
	}
}

func TestCLI_ParseAndEncodeTx(t *testing.T) {
	r := mustRunOk(t, Request{Op: "parse_tx", TxHex: genesisCoinbaseHex})
	if r.TxidHex != "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b" {
		t.Fatalf("txid=%s", r.TxidHex)
	}
	if r.Consumed != len(genesisCoinbaseHex)/2 {
		t.Fatalf("consumed=%d", r.Consumed)
	}
	if r.Tx == nil || len(r.Tx.Outputs) != 1 || r.Tx.Outputs[0].Value != 5_000_000_000 {
		t.Fatalf("unexpected tx: %+v", r.Tx)
	}

	enc := mustRunOk(t, Request{Op: "encode_tx", Tx: r.Tx})
	if enc.Hex != genesisCoinbaseHex || enc.TxidHex != r.TxidHex {
		t.Fatalf("encode_tx mismatch: %+v", enc)
	}

	mustRunErr(t, Request{Op: "parse_tx", TxHex: "00"}, string(consensus.TX_ERR_TRUNCATED_INPUT))
	mustRunErr(t, Request{Op: "parse_tx", TxHex: "0"}, "bad hex")
	mustRunErr(t, Request{Op: "encode_tx"}, "bad tx")
	mustRunErr(t, Request{Op: "encode_tx", Tx: &TxJSON{Inputs: []TxInputJSON{{PrevTxid: "00"}}}}, "bad prev_txid in input 0")
}

func signedSpend(t *testing.T) (*consensus.Tx, script.Script) {
	t.Helper()
	priv, pub := btcec.PrivKeyFromBytes(bytes.Repeat([]byte{0x07}, 32))
	pubBytes := pub.SerializeCompressed()
	locking, err := script.NewScriptBuilder().AddData(pubBytes).AddOp(script.OP_CHECKSIG).Script()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	tx := &consensus.Tx{
		Version: 1,
		Inputs:  []consensus.TxInput{{PrevTxid: [32]byte{0xab}, Sequence: 0xffffffff}},
		Outputs: []consensus.TxOutput{{Value: 900, PkScript: script.MustAssemble("1")}},
	}
	digest, err := consensus.SignatureHash(crypto.StdCryptoProvider{}, tx, 0, locking, consensus.SigHashAll)
	if err != nil {
		t.Fatalf("SignatureHash: %v", err)
	}
	sig := append(ecdsa.Sign(priv, digest[:]).Serialize(), byte(consensus.SigHashAll))
	tx.Inputs[0].ScriptSig, err = script.NewScriptBuilder().AddData(sig).Script()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return tx, locking
}

func TestCLI_VerifyInputAndSighash(t *testing.T) {
	tx, locking := signedSpend(t)
	raw, err := consensus.MarshalTx(tx)
	if err != nil {
		t.Fatalf("MarshalTx: %v", err)
	}
	txHex := hex.EncodeToString(raw)

	mustRunOk(t, Request{Op: "verify_input", TxHex: txHex, LockingScriptHex: locking.String()})

	tx.Outputs[0].Value++
	tampered, _ := consensus.MarshalTx(tx)
	mustRunErr(t, Request{Op: "verify_input", TxHex: hex.EncodeToString(tampered), LockingScriptHex: locking.String()},
		string(script.SCRIPT_ERR_EVAL_FALSE))
	mustRunErr(t, Request{Op: "verify_input", TxHex: txHex, InputIndex: 3, LockingScriptHex: locking.String()},
		string(consensus.TX_ERR_INPUT_INDEX))
	mustRunErr(t, Request{Op: "verify_input", TxHex: txHex, LockingScriptHex: "x"}, "bad locking_script_hex")

	tx.Outputs[0].Value--
	want, err := consensus.SignatureHash(crypto.StdCryptoProvider{}, tx, 0, locking, consensus.SigHashAll)
	if err != nil {
		t.Fatalf("SignatureHash: %v", err)
	}
	r := mustRunOk(t, Request{Op: "sighash", TxHex: txHex, ScriptHex: locking.String()})
	if r.DigestHex != hex.EncodeToString(want[:]) {
		t.Fatalf("digest=%s want %x", r.DigestHex, want)
	}
	r = mustRunOk(t, Request{Op: "sighash", TxHex: txHex, ScriptHex: locking.String(), HashType: uint32(consensus.SigHashNone)})
	if r.DigestHex == hex.EncodeToString(want[:]) {
		t.Fatalf("NONE digest equals ALL digest")
	}
}

func TestCLI_ScriptNum(t *testing.T) {
	cases := map[int64]string{0: "", 1: "01", -1: "81", 127: "7f", 128: "8000", -129: "8180", 255: "ff00"}
	for v, want := range cases {
		r := mustRunOk(t, Request{Op: "scriptnum_encode", Value: v})
		if r.Hex != want {
			t.Fatalf("encode %d: %q want %q", v, r.Hex, want)
		}
		if want == "" {
			continue
		}
		d := mustRunOk(t, Request{Op: "scriptnum_decode", Hex: want})
		if d.Value == nil || *d.Value != v {
			t.Fatalf("decode %s: %+v", want, d)
		}
	}

	mustRunErr(t, Request{Op: "scriptnum_decode", Hex: "0000"}, string(script.SCRIPT_ERR_ENCODING))
	mustRunErr(t, Request{Op: "scriptnum_decode", Hex: "0102030405"}, string(script.SCRIPT_ERR_ENCODING))
	mustRunErr(t, Request{Op: "scriptnum_decode", Hex: "g"}, "bad hex")
}

func TestCLI_CompactSize(t *testing.T) {
	r := mustRunOk(t, Request{Op: "compactsize_encode", N: 0x10000})
	if r.Hex != "fe00000100" {
		t.Fatalf("hex=%s", r.Hex)
	}
	d := mustRunOk(t, Request{Op: "compactsize_decode", Hex: "fdfd00ee"})
	if d.N == nil || *d.N != 0xfd || d.Consumed != 3 {
		t.Fatalf("unexpected resp: %+v", d)
	}
	zero := mustRunOk(t, Request{Op: "compactsize_decode", Hex: "00"})
	if zero.N == nil || *zero.N != 0 {
		t.Fatalf("unexpected resp: %+v", zero)
	}
	mustRunErr(t, Request{Op: "compactsize_decode", Hex: "fd0000"}, string(consensus.TX_ERR_NONCANONICAL_SIZE))
	mustRunErr(t, Request{Op: "compactsize_decode", Hex: "fe01"}, string(consensus.TX_ERR_TRUNCATED_INPUT))
}

func TestCLI_Flags(t *testing.T) {
	raw, _ := json.Marshal(Request{Op: "run_script", ScriptAsm: "1 1 ADD"})

	_, stderr := runRawJSON(t, raw, "-trace")
	if !strings.Contains(stderr, "SCRP") || !strings.Contains(stderr, "OP_ADD") {
		t.Fatalf("no trace output: %s", stderr)
	}

	_, stderr = runRawJSON(t, raw, "-log-level", "off")
	if stderr != "" {
		t.Fatalf("unexpected log output: %s", stderr)
	}

	var out, errOut bytes.Buffer
	if code := run([]string{"-bogus"}, bytes.NewReader(raw), &out, &errOut); code != 2 {
		t.Fatalf("bad flag: exit %d", code)
	}
	if code := run([]string{"-log-level", "loud"}, bytes.NewReader(raw), &out, &errOut); code != 2 {
		t.Fatalf("bad level: exit %d", code)
	}
}

func TestCLI_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"max_request_bytes":16}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	raw, _ := json.Marshal(Request{Op: "run_script", ScriptAsm: "1 1 ADD"})
	resp, _ := runRawJSON(t, raw, "-config", path)
	if resp.Ok || resp.Err != "request exceeds 16 bytes" {
		t.Fatalf("unexpected resp: %+v", resp)
	}

	var out, errOut bytes.Buffer
	if code := run([]string{"-config", filepath.Join(dir, "missing.json")}, bytes.NewReader(raw), &out, &errOut); code != 2 {
		t.Fatalf("missing config: exit %d", code)
	}
}
