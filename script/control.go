package script

func opFalse(vm *virtualMachine) error {
	vm.pushNum(0)
	return nil
}

func op1Negate(vm *virtualMachine) error {
	vm.pushNum(-1)
	return nil
}

func opPushSmallInt(vm *virtualMachine) error {
	vm.pushNum(ScriptNum(vm.program[vm.pc]-byte(OP_1)) + 1)
	return nil
}

func opPushdata(vm *virtualMachine) error {
	vm.push(append([]byte{}, vm.data...))
	return nil
}

func opNop(vm *virtualMachine) error {
	return nil
}

func opReserved(vm *virtualMachine) error {
	return scripterrf(SCRIPT_ERR_INVALID_OPCODE, "attempt to execute reserved opcode %s", Op(vm.program[vm.pc]))
}

func opInvalid(vm *virtualMachine) error {
	return scripterrf(SCRIPT_ERR_INVALID_OPCODE, "attempt to execute invalid opcode %s", Op(vm.program[vm.pc]))
}

func opAlwaysInvalid(vm *virtualMachine) error {
	return alwaysInvalidErr(Op(vm.program[vm.pc]), vm.pc)
}

func opDisabled(vm *virtualMachine) error {
	return disabledErr(Op(vm.program[vm.pc]), vm.pc)
}

// alwaysInvalidErr and disabledErr take the position explicitly because
// skipBranch reports instructions ahead of vm.pc.
func alwaysInvalidErr(op Op, pc int) error {
	return scripterrf(SCRIPT_ERR_INVALID_OPCODE, "%s at pc %d is invalid in any branch", op, pc)
}

func disabledErr(op Op, pc int) error {
	return scripterrf(SCRIPT_ERR_DISABLED_OPCODE, "attempt to execute disabled opcode %s at pc %d", op, pc)
}

func opIf(vm *virtualMachine) error {
	return openConditional(vm, true)
}

func opNotIf(vm *virtualMachine) error {
	return openConditional(vm, false)
}

// openConditional pushes a frame that is active iff the popped condition
// equals want. Inside an inactive branch nothing is popped and the new
// frame is inactive too.
func openConditional(vm *virtualMachine, want bool) error {
	if !vm.active() {
		vm.condStack = append(vm.condStack, false)
		return nil
	}
	v, err := vm.pop()
	if err != nil {
		return err
	}
	frame := AsBool(v) == want
	vm.condStack = append(vm.condStack, frame)
	if !frame {
		return vm.skipBranch()
	}
	return nil
}

func opElse(vm *virtualMachine) error {
	if len(vm.condStack) == 0 {
		return scripterr(SCRIPT_ERR_DANGLING_CONTROL, "OP_ELSE without OP_IF")
	}
	top := len(vm.condStack) - 1
	vm.condStack[top] = !vm.condStack[top]
	if !vm.condStack[top] && vm.activeBelow(top) {
		return vm.skipBranch()
	}
	return nil
}

// activeBelow reports whether every frame below index i is true.
func (vm *virtualMachine) activeBelow(i int) bool {
	for _, b := range vm.condStack[:i] {
		if !b {
			return false
		}
	}
	return true
}

func opEndIf(vm *virtualMachine) error {
	if len(vm.condStack) == 0 {
		return scripterr(SCRIPT_ERR_DANGLING_CONTROL, "OP_ENDIF without OP_IF")
	}
	vm.condStack = vm.condStack[:len(vm.condStack)-1]
	return nil
}

func opVerify(vm *virtualMachine) error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	if !AsBool(v) {
		return scripterr(SCRIPT_ERR_VERIFY, "top of stack is false")
	}
	return nil
}

func opReturn(vm *virtualMachine) error {
	return scripterr(SCRIPT_ERR_RETURN, "OP_RETURN executed")
}
