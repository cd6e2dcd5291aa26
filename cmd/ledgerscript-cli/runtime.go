package main

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"strings"

	"github.com/pkg/errors"

	"ledgerscript.dev/core/consensus"
	"ledgerscript.dev/core/crypto"
	"ledgerscript.dev/core/script"
)

type Request struct {
	Op string `json:"op"`

	ScriptHex string `json:"script_hex,omitempty"`
	ScriptAsm string `json:"script_asm,omitempty"`

	TxHex            string  `json:"tx_hex,omitempty"`
	Tx               *TxJSON `json:"tx,omitempty"`
	InputIndex       int     `json:"input_index,omitempty"`
	LockingScriptHex string  `json:"locking_script_hex,omitempty"`
	HashType         uint32  `json:"hash_type,omitempty"`

	Value int64  `json:"value,omitempty"`
	N     uint64 `json:"n,omitempty"`
	Hex   string `json:"hex,omitempty"`
}

type Response struct {
	Ok     bool   `json:"ok"`
	Err    string `json:"err,omitempty"`
	Detail string `json:"detail,omitempty"`

	Top      string   `json:"top,omitempty"`
	Stack    []string `json:"stack,omitempty"`
	AltStack []string `json:"alt_stack,omitempty"`
	NumOps   int      `json:"num_ops,omitempty"`

	Asm       string  `json:"asm,omitempty"`
	Hex       string  `json:"hex,omitempty"`
	Tx        *TxJSON `json:"tx,omitempty"`
	TxidHex   string  `json:"txid,omitempty"`
	DigestHex string  `json:"digest,omitempty"`
	Consumed  int     `json:"consumed,omitempty"`
	Value     *int64  `json:"value,omitempty"`
	N         *uint64 `json:"n,omitempty"`
}

// TxJSON mirrors consensus.Tx. prev_txid is hex in wire byte order so a
// parse_tx result feeds encode_tx unchanged.
type TxJSON struct {
	Version  int32          `json:"version"`
	Inputs   []TxInputJSON  `json:"inputs"`
	Outputs  []TxOutputJSON `json:"outputs"`
	Locktime uint32         `json:"locktime"`
}

type TxInputJSON struct {
	PrevTxid     string `json:"prev_txid"`
	PrevVout     uint32 `json:"prev_vout"`
	ScriptSigHex string `json:"script_sig_hex"`
	Sequence     uint32 `json:"sequence"`
}

type TxOutputJSON struct {
	Value       int64  `json:"value"`
	PkScriptHex string `json:"pk_script_hex"`
}

func writeResp(w io.Writer, resp Response) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(resp)
}

// errResp reports a typed library error by its code, anything else by
// its message.
func errResp(err error) Response {
	if code, ok := consensus.ErrorCodeOf(err); ok {
		return Response{Ok: false, Err: string(code), Detail: err.Error()}
	}
	if code, ok := script.ErrorCodeOf(err); ok {
		return Response{Ok: false, Err: string(code), Detail: err.Error()}
	}
	return Response{Ok: false, Err: err.Error()}
}

func badField(name string) Response {
	return Response{Ok: false, Err: "bad " + name}
}

func handle(req Request) Response {
	switch req.Op {
	case "run_script":
		s, resp, ok := requestScript(req)
		if !ok {
			return resp
		}
		var e script.Engine
		res, err := e.Execute(s)
		if err != nil {
			return errResp(err)
		}
		if len(res.DataStack) == 0 {
			return errResp(&script.Error{Code: script.SCRIPT_ERR_EMPTY_RESULT, Msg: "data stack empty at end of script"})
		}
		return Response{
			Ok:       true,
			Top:      hex.EncodeToString(res.Top()),
			Stack:    hexList(res.DataStack),
			AltStack: hexList(res.AltStack),
			NumOps:   res.NumOps,
		}

	case "disasm":
		s, resp, ok := requestScript(req)
		if !ok {
			return resp
		}
		asm, err := s.Disassemble()
		if err != nil {
			r := errResp(err)
			r.Asm = asm
			return r
		}
		return Response{Ok: true, Asm: asm, Hex: s.String()}

	case "parse_tx":
		txBytes, err := hex.DecodeString(req.TxHex)
		if err != nil {
			return badField("hex")
		}
		tx, n, err := consensus.ParseTx(txBytes)
		if err != nil {
			return errResp(err)
		}
		txid, err := consensus.TxID(crypto.StdCryptoProvider{}, tx)
		if err != nil {
			return errResp(err)
		}
		return Response{
			Ok:       true,
			Tx:       txToJSON(tx),
			TxidHex:  consensus.TxIDString(txid),
			Consumed: n,
		}

	case "encode_tx":
		if req.Tx == nil {
			return badField("tx")
		}
		tx, err := txFromJSON(req.Tx)
		if err != nil {
			return Response{Ok: false, Err: err.Error()}
		}
		b, err := consensus.MarshalTx(tx)
		if err != nil {
			return errResp(err)
		}
		txid, err := consensus.TxID(crypto.StdCryptoProvider{}, tx)
		if err != nil {
			return errResp(err)
		}
		return Response{Ok: true, Hex: hex.EncodeToString(b), TxidHex: consensus.TxIDString(txid)}

	case "verify_input":
		tx, resp, ok := requestTx(req)
		if !ok {
			return resp
		}
		locking, err := script.NewScriptFromHex(req.LockingScriptHex)
		if err != nil {
			return badField("locking_script_hex")
		}
		if err := consensus.VerifyInput(crypto.StdCryptoProvider{}, tx, req.InputIndex, locking); err != nil {
			return errResp(err)
		}
		return Response{Ok: true}

	case "sighash":
		tx, resp, ok := requestTx(req)
		if !ok {
			return resp
		}
		sub, err := script.NewScriptFromHex(req.ScriptHex)
		if err != nil {
			return badField("script_hex")
		}
		hashType := consensus.SigHashType(req.HashType)
		if hashType == 0 {
			hashType = consensus.SigHashAll
		}
		d, err := consensus.SignatureHash(crypto.StdCryptoProvider{}, tx, req.InputIndex, sub, hashType)
		if err != nil {
			return errResp(err)
		}
		return Response{Ok: true, DigestHex: hex.EncodeToString(d[:])}

	case "scriptnum_encode":
		return Response{Ok: true, Hex: hex.EncodeToString(script.ScriptNum(req.Value).Bytes())}

	case "scriptnum_decode":
		b, err := hex.DecodeString(req.Hex)
		if err != nil {
			return badField("hex")
		}
		n, err := script.MakeScriptNum(b)
		if err != nil {
			return errResp(err)
		}
		v := n.Int64()
		return Response{Ok: true, Value: &v}

	case "compactsize_encode":
		return Response{Ok: true, Hex: hex.EncodeToString(consensus.CompactSize(req.N).Encode())}

	case "compactsize_decode":
		b, err := hex.DecodeString(req.Hex)
		if err != nil {
			return badField("hex")
		}
		n, used, err := consensus.DecodeCompactSize(b)
		if err != nil {
			return errResp(err)
		}
		v := uint64(n)
		return Response{Ok: true, N: &v, Consumed: used}

	default:
		return Response{Ok: false, Err: "unknown op"}
	}
}

// requestScript takes the script from script_hex, or assembles script_asm
// when no hex is given.
func requestScript(req Request) (script.Script, Response, bool) {
	if strings.TrimSpace(req.ScriptHex) != "" {
		s, err := script.NewScriptFromHex(req.ScriptHex)
		if err != nil {
			return nil, badField("script_hex"), false
		}
		return s, Response{}, true
	}
	if strings.TrimSpace(req.ScriptAsm) != "" {
		s, err := script.Assemble(req.ScriptAsm)
		if err != nil {
			return nil, Response{Ok: false, Err: "bad script_asm", Detail: err.Error()}, false
		}
		return s, Response{}, true
	}
	return nil, badField("script"), false
}

func requestTx(req Request) (*consensus.Tx, Response, bool) {
	if req.Tx != nil {
		tx, err := txFromJSON(req.Tx)
		if err != nil {
			return nil, Response{Ok: false, Err: err.Error()}, false
		}
		return tx, Response{}, true
	}
	txBytes, err := hex.DecodeString(req.TxHex)
	if err != nil {
		return nil, badField("hex"), false
	}
	tx, err := consensus.ParseTxBytes(txBytes)
	if err != nil {
		return nil, errResp(err), false
	}
	return tx, Response{}, true
}

func hexList(items [][]byte) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, hex.EncodeToString(it))
	}
	return out
}

func txToJSON(tx *consensus.Tx) *TxJSON {
	out := &TxJSON{
		Version:  tx.Version,
		Inputs:   make([]TxInputJSON, 0, len(tx.Inputs)),
		Outputs:  make([]TxOutputJSON, 0, len(tx.Outputs)),
		Locktime: tx.Locktime,
	}
	for _, in := range tx.Inputs {
		out.Inputs = append(out.Inputs, TxInputJSON{
			PrevTxid:     hex.EncodeToString(in.PrevTxid[:]),
			PrevVout:     in.PrevVout,
			ScriptSigHex: in.ScriptSig.String(),
			Sequence:     in.Sequence,
		})
	}
	for _, o := range tx.Outputs {
		out.Outputs = append(out.Outputs, TxOutputJSON{Value: o.Value, PkScriptHex: o.PkScript.String()})
	}
	return out
}

func txFromJSON(j *TxJSON) (*consensus.Tx, error) {
	tx := &consensus.Tx{
		Version:  j.Version,
		Inputs:   make([]consensus.TxInput, 0, len(j.Inputs)),
		Outputs:  make([]consensus.TxOutput, 0, len(j.Outputs)),
		Locktime: j.Locktime,
	}
	for i, in := range j.Inputs {
		prev, err := hex.DecodeString(in.PrevTxid)
		if err != nil || len(prev) != 32 {
			return nil, errors.Errorf("bad prev_txid in input %d", i)
		}
		sig, err := script.NewScriptFromHex(in.ScriptSigHex)
		if err != nil {
			return nil, errors.Errorf("bad script_sig_hex in input %d", i)
		}
		txIn := consensus.TxInput{PrevVout: in.PrevVout, ScriptSig: sig, Sequence: in.Sequence}
		copy(txIn.PrevTxid[:], prev)
		tx.Inputs = append(tx.Inputs, txIn)
	}
	for i, o := range j.Outputs {
		pk, err := script.NewScriptFromHex(o.PkScriptHex)
		if err != nil {
			return nil, errors.Errorf("bad pk_script_hex in output %d", i)
		}
		tx.Outputs = append(tx.Outputs, consensus.TxOutput{Value: o.Value, PkScript: pk})
	}
	return tx, nil
}
