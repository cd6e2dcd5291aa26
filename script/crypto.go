package script

import "bytes"

func opRipemd160(vm *virtualMachine) error {
	return hashTop(vm, func(b []byte) []byte { h := vm.crypto.RIPEMD160(b); return h[:] })
}

func opSha1(vm *virtualMachine) error {
	return hashTop(vm, func(b []byte) []byte { h := vm.crypto.SHA1(b); return h[:] })
}

func opSha256(vm *virtualMachine) error {
	return hashTop(vm, func(b []byte) []byte { h := vm.crypto.SHA256(b); return h[:] })
}

func opHash160(vm *virtualMachine) error {
	return hashTop(vm, func(b []byte) []byte { h := vm.crypto.Hash160(b); return h[:] })
}

func opHash256(vm *virtualMachine) error {
	return hashTop(vm, func(b []byte) []byte { h := vm.crypto.Hash256(b); return h[:] })
}

func hashTop(vm *virtualMachine, f func([]byte) []byte) error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	vm.push(f(v))
	return nil
}

func opCodeSeparator(vm *virtualMachine) error {
	vm.lastCodeSep = vm.nextPC
	return nil
}

// subscript is the part of the running program a signature commits to,
// with every push of one of sigs removed.
func (vm *virtualMachine) subscript(sigs ...[]byte) Script {
	sub := vm.program[vm.lastCodeSep:]
	for _, sig := range sigs {
		sub = sub.removePush(sig)
	}
	return sub
}

// removePush returns s without any data push carrying exactly data.
func (s Script) removePush(data []byte) Script {
	out := make(Script, 0, len(s))
	for pc := 0; pc < len(s); {
		inst, err := ParseOp(s, pc)
		if err != nil {
			return append(out, s[pc:]...)
		}
		if !inst.Op.isDataPush() || !bytes.Equal(inst.Data, data) {
			out = append(out, s[pc:pc+inst.Len]...)
		}
		pc += inst.Len
	}
	return out
}

// [sig pubkey] -> [ok]
func opCheckSig(vm *virtualMachine) error {
	if err := vm.need(2); err != nil {
		return err
	}
	pubKey, _ := vm.pop()
	sig, _ := vm.pop()

	// An empty signature is a deliberate "no", never an error.
	if len(sig) == 0 {
		vm.pushBool(false)
		return nil
	}
	if vm.sigChecker == nil {
		return scripterr(SCRIPT_ERR_SIG_CHECKER_REQUIRED, "OP_CHECKSIG needs a signature checker")
	}
	ok, err := vm.sigChecker.CheckSig(sig, pubKey, vm.subscript(sig))
	if err != nil {
		return err
	}
	vm.pushBool(ok)
	return nil
}

func opCheckSigVerify(vm *virtualMachine) error {
	if err := opCheckSig(vm); err != nil {
		return err
	}
	return opVerify(vm)
}

// [dummy sig_1 .. sig_m m pubkey_1 .. pubkey_n n] -> [ok]
//
// Signatures must appear in the same order as the keys they match. The
// dummy element is consumed and otherwise ignored.
func opCheckMultiSig(vm *virtualMachine) error {
	n, err := vm.popNum()
	if err != nil {
		return err
	}
	if n < 0 || n > MaxPubKeysPerMultiSig {
		return scripterrf(SCRIPT_ERR_PUBKEY_COUNT, "pubkey count %d outside [0, %d]", n, MaxPubKeysPerMultiSig)
	}
	numPubKeys := int(n)
	vm.numOps += numPubKeys
	if vm.numOps > MaxOpsPerScript {
		return scripterrf(SCRIPT_ERR_TOO_MANY_OPS, "exceeded max operation limit of %d", MaxOpsPerScript)
	}

	pubKeys := make([][]byte, 0, numPubKeys)
	for i := 0; i < numPubKeys; i++ {
		pk, err := vm.pop()
		if err != nil {
			return err
		}
		pubKeys = append(pubKeys, pk)
	}

	m, err := vm.popNum()
	if err != nil {
		return err
	}
	if m < 0 || int(m) > numPubKeys {
		return scripterrf(SCRIPT_ERR_SIG_COUNT, "signature count %d outside [0, %d]", m, numPubKeys)
	}
	numSigs := int(m)
	sigs := make([][]byte, 0, numSigs)
	for i := 0; i < numSigs; i++ {
		sig, err := vm.pop()
		if err != nil {
			return err
		}
		sigs = append(sigs, sig)
	}

	if _, err := vm.pop(); err != nil {
		return err
	}

	if numSigs > 0 && vm.sigChecker == nil {
		return scripterr(SCRIPT_ERR_SIG_CHECKER_REQUIRED, "OP_CHECKMULTISIG needs a signature checker")
	}

	sub := vm.subscript(sigs...)
	success := true
	pkIdx, sigIdx := 0, 0
	for sigIdx < numSigs {
		// more signatures left than keys to match them
		if numSigs-sigIdx > numPubKeys-pkIdx {
			success = false
			break
		}
		sig, pk := sigs[sigIdx], pubKeys[pkIdx]
		pkIdx++
		if len(sig) == 0 {
			continue
		}
		ok, err := vm.sigChecker.CheckSig(sig, pk, sub)
		if err != nil {
			return err
		}
		if ok {
			sigIdx++
		}
	}

	vm.pushBool(success)
	return nil
}

func opCheckMultiSigVerify(vm *virtualMachine) error {
	if err := opCheckMultiSig(vm); err != nil {
		return err
	}
	return opVerify(vm)
}
