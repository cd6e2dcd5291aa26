package script

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"ledgerscript.dev/core/crypto"
)

// SigChecker decides whether sig is a valid signature by pubKey over the
// spending transaction, committing to subscript. The trailing hash-type
// byte is still attached to sig.
type SigChecker interface {
	CheckSig(sig, pubKey []byte, subscript Script) (bool, error)
}

// TxContext exposes the fields of the spending transaction that the
// locktime opcodes compare against.
type TxContext interface {
	LockTime() uint32
	// Sequence is the sequence number of the input being verified.
	Sequence() uint32
	Version() int32
}

// Engine holds the collaborators an execution may consult. The zero value
// is usable: it hashes with crypto.StdCryptoProvider and fails any
// signature or locktime opcode. An Engine holds no execution state, so
// one value may serve any number of sequential or concurrent runs.
type Engine struct {
	Crypto     crypto.CryptoProvider
	SigChecker SigChecker
	TxContext  TxContext
}

// ExecResult is the final state of a successful execution.
type ExecResult struct {
	DataStack [][]byte
	AltStack  [][]byte
	NumOps    int
}

// Top returns the top data stack element.
func (r *ExecResult) Top() []byte {
	return r.DataStack[len(r.DataStack)-1]
}

type virtualMachine struct {
	crypto     crypto.CryptoProvider
	sigChecker SigChecker
	txCtx      TxContext

	program    Script
	pc, nextPC int

	// data is the payload of the instruction being executed, for
	// data-push forms.
	data []byte

	numOps int

	// lastCodeSep is the offset just past the most recent
	// OP_CODESEPARATOR; signature checks commit to program[lastCodeSep:].
	lastCodeSep int

	// In each of these stacks, stack[len(stack)-1] is the top element.
	dataStack [][]byte
	altStack  [][]byte
	condStack []bool
}

func (e *Engine) newVM(s Script, stack [][]byte) *virtualMachine {
	vm := &virtualMachine{
		crypto:     e.Crypto,
		sigChecker: e.SigChecker,
		txCtx:      e.TxContext,
		program:    s,
		dataStack:  stack,
	}
	if vm.crypto == nil {
		vm.crypto = crypto.StdCryptoProvider{}
	}
	return vm
}

// Execute runs s against fresh stacks and returns the final stacks. A
// failed run returns no state at all.
func (e *Engine) Execute(s Script) (res *ExecResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = scripterrf(SCRIPT_ERR_UNEXPECTED, "panic: %v", r)
		}
	}()

	if len(s) == 0 {
		return nil, scripterr(SCRIPT_ERR_EMPTY_SCRIPT, "nothing to run")
	}
	vm := e.newVM(s, nil)
	if err := vm.run(); err != nil {
		return nil, vm.wrapErr(err)
	}
	return &ExecResult{DataStack: vm.dataStack, AltStack: vm.altStack, NumOps: vm.numOps}, nil
}

// Run executes s and returns the element left on top of the data stack.
func (e *Engine) Run(s Script) ([]byte, error) {
	res, err := e.Execute(s)
	if err != nil {
		return nil, err
	}
	if len(res.DataStack) == 0 {
		return nil, scripterr(SCRIPT_ERR_EMPTY_RESULT, "data stack empty at end of script")
	}
	return res.Top(), nil
}

// Run executes s with a zero Engine.
func (s Script) Run() ([]byte, error) {
	var e Engine
	return e.Run(s)
}

// Verify runs unlocking and then locking over one shared data stack and
// succeeds iff the locking script leaves a true value on top. Each script
// starts with an empty alt stack and a fresh op budget, and must close its
// own conditionals. Either script may be empty.
func (e *Engine) Verify(unlocking, locking Script) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = scripterrf(SCRIPT_ERR_UNEXPECTED, "panic: %v", r)
		}
	}()

	var stack [][]byte
	for i, s := range []Script{unlocking, locking} {
		vm := e.newVM(s, stack)
		if err := vm.run(); err != nil {
			return errors.Wrapf(vm.wrapErr(err), "script %d", i)
		}
		stack = vm.dataStack
	}
	if len(stack) == 0 {
		return scripterr(SCRIPT_ERR_EVAL_FALSE, "data stack empty after locking script")
	}
	if !AsBool(stack[len(stack)-1]) {
		return scripterrf(SCRIPT_ERR_EVAL_FALSE, "top of stack %x is false", stack[len(stack)-1])
	}
	return nil
}

func (vm *virtualMachine) run() error {
	if len(vm.program) > MaxScriptSize {
		return scripterrf(SCRIPT_ERR_SCRIPT_TOO_LARGE, "script is %d bytes, max %d", len(vm.program), MaxScriptSize)
	}

	log.Tracef("%v", newLogClosure(func() string {
		dis, _ := vm.program.Disassemble()
		return "run: " + dis
	}))

	for vm.pc = 0; vm.pc < len(vm.program); { // handle vm.pc updates in step
		if err := vm.step(); err != nil {
			return err
		}
	}

	if len(vm.condStack) > 0 {
		return scripterrf(SCRIPT_ERR_UNTERMINATED_CONDITIONAL, "%d conditional(s) open at end of script", len(vm.condStack))
	}
	if err := vm.checkDepth(); err != nil {
		return err
	}

	log.Tracef("%v", newLogClosure(func() string {
		return "final stack:\n" + dumpStack(vm.dataStack)
	}))
	return nil
}

func (vm *virtualMachine) step() error {
	if err := vm.checkDepth(); err != nil {
		return err
	}

	inst, err := ParseOp(vm.program, vm.pc)
	if err != nil {
		return err
	}
	vm.nextPC = vm.pc + inst.Len

	// Inactive branches are skipped, except that conditionals still nest
	// and always-illegal opcodes still fail.
	if !vm.active() && !inst.Op.isConditional() && !inst.Op.alwaysIllegal() {
		vm.pc = vm.nextPC
		return nil
	}

	if inst.Op.counted() {
		vm.numOps++
		if vm.numOps > MaxOpsPerScript {
			return scripterrf(SCRIPT_ERR_TOO_MANY_OPS, "exceeded max operation limit of %d", MaxOpsPerScript)
		}
	}

	log.Tracef("%v", newLogClosure(func() string {
		s := fmt.Sprintf("pc %d ops %d %s", vm.pc, vm.numOps, inst.Op)
		if len(inst.Data) > 0 {
			s += " " + hex.EncodeToString(inst.Data)
		}
		return s
	}))

	vm.data = inst.Data
	if err := opcodeTable[inst.Op].fn(vm); err != nil {
		return err
	}
	vm.pc = vm.nextPC

	log.Tracef("%v", newLogClosure(func() string {
		return dumpStack(vm.dataStack)
	}))
	return nil
}

func (vm *virtualMachine) checkDepth() error {
	if depth := len(vm.dataStack); depth > MaxStackSize {
		return scripterrf(SCRIPT_ERR_STACK_OVERFLOW, "data stack depth %d exceeds %d", depth, MaxStackSize)
	}
	return nil
}

// active reports whether the current branch executes: no open frame is
// false.
func (vm *virtualMachine) active() bool {
	for _, b := range vm.condStack {
		if !b {
			return false
		}
	}
	return true
}

// skipBranch moves nextPC forward to the ELSE or ENDIF that closes the
// branch just made inactive. Nested conditionals are tracked, push
// lengths are honored, and always-illegal opcodes still fail.
func (vm *virtualMachine) skipBranch() error {
	depth := 0
	for pc := vm.nextPC; pc < len(vm.program); {
		inst, err := ParseOp(vm.program, pc)
		if err != nil {
			return err
		}
		switch {
		case inst.Op.isDisabled():
			return disabledErr(inst.Op, pc)
		case inst.Op.alwaysIllegal():
			return alwaysInvalidErr(inst.Op, pc)
		case inst.Op == OP_IF || inst.Op == OP_NOTIF:
			depth++
		case inst.Op == OP_ELSE && depth == 0,
			inst.Op == OP_ENDIF && depth == 0:
			vm.nextPC = pc
			return nil
		case inst.Op == OP_ENDIF:
			depth--
		}
		pc += inst.Len
	}
	return scripterr(SCRIPT_ERR_UNTERMINATED_CONDITIONAL, "no ELSE or ENDIF before end of script")
}

func (vm *virtualMachine) wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if vm.pc >= len(vm.program) {
		return errors.Wrap(err, "end of script")
	}
	return errors.Wrapf(err, "pc %d (%s)", vm.pc, Op(vm.program[vm.pc]))
}

func dumpStack(stack [][]byte) string {
	var b strings.Builder
	for i := len(stack) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "  stack %d: %x\n", len(stack)-1-i, stack[i])
	}
	return b.String()
}
