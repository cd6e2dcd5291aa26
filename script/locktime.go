package script

const (
	// LockTimeThreshold splits locktimes into block heights (below) and
	// unix timestamps (at or above).
	LockTimeThreshold = 500000000

	// MaxTxInSequenceNum marks an input as final.
	MaxTxInSequenceNum uint32 = 0xffffffff

	SequenceLockTimeDisabled  = 1 << 31
	SequenceLockTimeIsSeconds = 1 << 22
	SequenceLockTimeMask      = 0x0000ffff
)

// peekLockOperand reads the top element as a non-negative integer of up
// to five bytes, leaving it in place.
func peekLockOperand(vm *virtualMachine, name string) (int64, error) {
	if vm.txCtx == nil {
		return 0, scripterrf(SCRIPT_ERR_TX_CONTEXT_REQUIRED, "%s needs a transaction context", name)
	}
	top, err := vm.peek(0)
	if err != nil {
		return 0, err
	}
	n, err := makeScriptNum(top, lockTimeNumLen)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, scripterrf(SCRIPT_ERR_NEGATIVE_LOCKTIME, "%s operand %d is negative", name, n)
	}
	return int64(n), nil
}

// verifyLockTime requires both values to be of the same kind and the
// required value not to exceed the transaction's.
func verifyLockTime(txLockTime, threshold, lockTime int64) error {
	if (txLockTime < threshold) != (lockTime < threshold) {
		return scripterrf(SCRIPT_ERR_UNSATISFIED_LOCKTIME, "mismatched locktime kinds: tx %d, required %d", txLockTime, lockTime)
	}
	if lockTime > txLockTime {
		return scripterrf(SCRIPT_ERR_UNSATISFIED_LOCKTIME, "required locktime %d > tx locktime %d", lockTime, txLockTime)
	}
	return nil
}

func opCheckLockTimeVerify(vm *virtualMachine) error {
	lockTime, err := peekLockOperand(vm, "OP_CHECKLOCKTIMEVERIFY")
	if err != nil {
		return err
	}
	if err := verifyLockTime(int64(vm.txCtx.LockTime()), LockTimeThreshold, lockTime); err != nil {
		return err
	}
	// A final input would let the transaction ignore its locktime.
	if vm.txCtx.Sequence() == MaxTxInSequenceNum {
		return scripterr(SCRIPT_ERR_UNSATISFIED_LOCKTIME, "transaction input is final")
	}
	return nil
}

func opCheckSequenceVerify(vm *virtualMachine) error {
	sequence, err := peekLockOperand(vm, "OP_CHECKSEQUENCEVERIFY")
	if err != nil {
		return err
	}
	if sequence&SequenceLockTimeDisabled != 0 {
		return nil
	}
	if v := vm.txCtx.Version(); uint32(v) < 2 {
		return scripterrf(SCRIPT_ERR_UNSATISFIED_LOCKTIME, "transaction version %d does not enforce sequence locks", v)
	}
	txSequence := int64(vm.txCtx.Sequence())
	if txSequence&SequenceLockTimeDisabled != 0 {
		return scripterrf(SCRIPT_ERR_UNSATISFIED_LOCKTIME, "input sequence 0x%x has the disable flag set", txSequence)
	}
	const mask = SequenceLockTimeIsSeconds | SequenceLockTimeMask
	return verifyLockTime(txSequence&mask, SequenceLockTimeIsSeconds, sequence&mask)
}
