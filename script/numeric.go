package script

func op1Add(vm *virtualMachine) error {
	return unaryNum(vm, func(n ScriptNum) (ScriptNum, error) { return n.Add(1) })
}

func op1Sub(vm *virtualMachine) error {
	return unaryNum(vm, func(n ScriptNum) (ScriptNum, error) { return n.Sub(1) })
}

func opNegate(vm *virtualMachine) error {
	return unaryNum(vm, ScriptNum.Negate)
}

func opAbs(vm *virtualMachine) error {
	return unaryNum(vm, func(n ScriptNum) (ScriptNum, error) {
		if n < 0 {
			return n.Negate()
		}
		return n, nil
	})
}

func opNot(vm *virtualMachine) error {
	n, err := vm.popNum()
	if err != nil {
		return err
	}
	vm.pushBool(n == 0)
	return nil
}

func op0NotEqual(vm *virtualMachine) error {
	n, err := vm.popNum()
	if err != nil {
		return err
	}
	vm.pushBool(n != 0)
	return nil
}

func unaryNum(vm *virtualMachine, f func(ScriptNum) (ScriptNum, error)) error {
	n, err := vm.popNum()
	if err != nil {
		return err
	}
	res, err := f(n)
	if err != nil {
		return err
	}
	vm.pushNum(res)
	return nil
}

// popPair pops b then a, so that a is the deeper operand.
func popPair(vm *virtualMachine) (a, b ScriptNum, err error) {
	if err = vm.need(2); err != nil {
		return 0, 0, err
	}
	b, err = vm.popNum()
	if err != nil {
		return 0, 0, err
	}
	a, err = vm.popNum()
	return a, b, err
}

func binaryNum(vm *virtualMachine, f func(a, b ScriptNum) (ScriptNum, error)) error {
	a, b, err := popPair(vm)
	if err != nil {
		return err
	}
	res, err := f(a, b)
	if err != nil {
		return err
	}
	vm.pushNum(res)
	return nil
}

func compareNum(vm *virtualMachine, f func(a, b ScriptNum) bool) error {
	a, b, err := popPair(vm)
	if err != nil {
		return err
	}
	vm.pushBool(f(a, b))
	return nil
}

func opAdd(vm *virtualMachine) error {
	return binaryNum(vm, ScriptNum.Add)
}

func opSub(vm *virtualMachine) error {
	return binaryNum(vm, ScriptNum.Sub)
}

func opBoolAnd(vm *virtualMachine) error {
	return compareNum(vm, func(a, b ScriptNum) bool { return a != 0 && b != 0 })
}

func opBoolOr(vm *virtualMachine) error {
	return compareNum(vm, func(a, b ScriptNum) bool { return a != 0 || b != 0 })
}

func opNumEqual(vm *virtualMachine) error {
	return compareNum(vm, func(a, b ScriptNum) bool { return a == b })
}

func opNumEqualVerify(vm *virtualMachine) error {
	if err := opNumEqual(vm); err != nil {
		return err
	}
	return opVerify(vm)
}

func opNumNotEqual(vm *virtualMachine) error {
	return compareNum(vm, func(a, b ScriptNum) bool { return a != b })
}

func opLessThan(vm *virtualMachine) error {
	return compareNum(vm, func(a, b ScriptNum) bool { return a < b })
}

func opGreaterThan(vm *virtualMachine) error {
	return compareNum(vm, func(a, b ScriptNum) bool { return a > b })
}

func opLessThanOrEqual(vm *virtualMachine) error {
	return compareNum(vm, func(a, b ScriptNum) bool { return a <= b })
}

func opGreaterThanOrEqual(vm *virtualMachine) error {
	return compareNum(vm, func(a, b ScriptNum) bool { return a >= b })
}

func opMin(vm *virtualMachine) error {
	return binaryNum(vm, func(a, b ScriptNum) (ScriptNum, error) {
		if a < b {
			return a, nil
		}
		return b, nil
	})
}

func opMax(vm *virtualMachine) error {
	return binaryNum(vm, func(a, b ScriptNum) (ScriptNum, error) {
		if a > b {
			return a, nil
		}
		return b, nil
	})
}

// [x min max] -> [min <= x < max]
func opWithin(vm *virtualMachine) error {
	if err := vm.need(3); err != nil {
		return err
	}
	hi, err := vm.popNum()
	if err != nil {
		return err
	}
	lo, err := vm.popNum()
	if err != nil {
		return err
	}
	x, err := vm.popNum()
	if err != nil {
		return err
	}
	vm.pushBool(lo <= x && x < hi)
	return nil
}
