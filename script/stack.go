package script

func (vm *virtualMachine) push(data []byte) {
	vm.dataStack = append(vm.dataStack, data)
}

func (vm *virtualMachine) pushBool(b bool) {
	vm.push(BoolBytes(b))
}

func (vm *virtualMachine) pushNum(n ScriptNum) {
	vm.push(n.Bytes())
}

// need fails unless the data stack holds at least n elements.
func (vm *virtualMachine) need(n int) error {
	if len(vm.dataStack) < n {
		return scripterrf(SCRIPT_ERR_STACK_UNDERFLOW, "need %d stack element(s), have %d", n, len(vm.dataStack))
	}
	return nil
}

func (vm *virtualMachine) pop() ([]byte, error) {
	if err := vm.need(1); err != nil {
		return nil, err
	}
	res := vm.dataStack[len(vm.dataStack)-1]
	vm.dataStack = vm.dataStack[:len(vm.dataStack)-1]
	return res, nil
}

func (vm *virtualMachine) popNum() (ScriptNum, error) {
	b, err := vm.pop()
	if err != nil {
		return 0, err
	}
	return MakeScriptNum(b)
}

// peek returns the element n below the top; peek(0) is the top.
func (vm *virtualMachine) peek(n int) ([]byte, error) {
	if err := vm.need(n + 1); err != nil {
		return nil, err
	}
	return vm.dataStack[len(vm.dataStack)-1-n], nil
}

func opToAltStack(vm *virtualMachine) error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	vm.altStack = append(vm.altStack, v)
	return nil
}

func opFromAltStack(vm *virtualMachine) error {
	if len(vm.altStack) == 0 {
		return scripterr(SCRIPT_ERR_STACK_UNDERFLOW, "alt stack empty")
	}
	v := vm.altStack[len(vm.altStack)-1]
	vm.altStack = vm.altStack[:len(vm.altStack)-1]
	vm.push(v)
	return nil
}

func op2Drop(vm *virtualMachine) error {
	if err := vm.need(2); err != nil {
		return err
	}
	vm.dataStack = vm.dataStack[:len(vm.dataStack)-2]
	return nil
}

func op2Dup(vm *virtualMachine) error {
	return nDup(vm, 2)
}

func op3Dup(vm *virtualMachine) error {
	return nDup(vm, 3)
}

func nDup(vm *virtualMachine, n int) error {
	if err := vm.need(n); err != nil {
		return err
	}
	vm.dataStack = append(vm.dataStack, vm.dataStack[len(vm.dataStack)-n:]...)
	return nil
}

// [x1 x2 x3 x4] -> [x1 x2 x3 x4 x1 x2]
func op2Over(vm *virtualMachine) error {
	if err := vm.need(4); err != nil {
		return err
	}
	n := len(vm.dataStack)
	vm.dataStack = append(vm.dataStack, vm.dataStack[n-4], vm.dataStack[n-3])
	return nil
}

// [x1 x2 x3 x4 x5 x6] -> [x3 x4 x5 x6 x1 x2]
func op2Rot(vm *virtualMachine) error {
	if err := vm.need(6); err != nil {
		return err
	}
	n := len(vm.dataStack)
	x1, x2 := vm.dataStack[n-6], vm.dataStack[n-5]
	copy(vm.dataStack[n-6:], vm.dataStack[n-4:])
	vm.dataStack[n-2], vm.dataStack[n-1] = x1, x2
	return nil
}

// [x1 x2 x3 x4] -> [x3 x4 x1 x2]
func op2Swap(vm *virtualMachine) error {
	if err := vm.need(4); err != nil {
		return err
	}
	s := vm.dataStack[len(vm.dataStack)-4:]
	s[0], s[1], s[2], s[3] = s[2], s[3], s[0], s[1]
	return nil
}

func opIfDup(vm *virtualMachine) error {
	v, err := vm.peek(0)
	if err != nil {
		return err
	}
	if AsBool(v) {
		vm.push(v)
	}
	return nil
}

func opDepth(vm *virtualMachine) error {
	vm.pushNum(ScriptNum(len(vm.dataStack)))
	return nil
}

func opDrop(vm *virtualMachine) error {
	_, err := vm.pop()
	return err
}

func opDup(vm *virtualMachine) error {
	return nDup(vm, 1)
}

func opNip(vm *virtualMachine) error {
	if err := vm.need(2); err != nil {
		return err
	}
	n := len(vm.dataStack)
	vm.dataStack[n-2] = vm.dataStack[n-1]
	vm.dataStack = vm.dataStack[:n-1]
	return nil
}

func opOver(vm *virtualMachine) error {
	v, err := vm.peek(1)
	if err != nil {
		return err
	}
	vm.push(v)
	return nil
}

// popIndex pops n and checks that n elements remain beneath the element
// PICK or ROLL will address.
func popIndex(vm *virtualMachine) (int, error) {
	n, err := vm.popNum()
	if err != nil {
		return 0, err
	}
	if n < 0 || int64(n) >= int64(len(vm.dataStack)) {
		return 0, scripterrf(SCRIPT_ERR_STACK_UNDERFLOW, "index %d out of range for stack depth %d", n, len(vm.dataStack))
	}
	return int(n), nil
}

func opPick(vm *virtualMachine) error {
	n, err := popIndex(vm)
	if err != nil {
		return err
	}
	vm.push(vm.dataStack[len(vm.dataStack)-1-n])
	return nil
}

func opRoll(vm *virtualMachine) error {
	n, err := popIndex(vm)
	if err != nil {
		return err
	}
	i := len(vm.dataStack) - 1 - n
	v := vm.dataStack[i]
	copy(vm.dataStack[i:], vm.dataStack[i+1:])
	vm.dataStack[len(vm.dataStack)-1] = v
	return nil
}

// [x1 x2 x3] -> [x2 x3 x1]
func opRot(vm *virtualMachine) error {
	if err := vm.need(3); err != nil {
		return err
	}
	s := vm.dataStack[len(vm.dataStack)-3:]
	s[0], s[1], s[2] = s[1], s[2], s[0]
	return nil
}

func opSwap(vm *virtualMachine) error {
	if err := vm.need(2); err != nil {
		return err
	}
	s := vm.dataStack[len(vm.dataStack)-2:]
	s[0], s[1] = s[1], s[0]
	return nil
}

// [x1 x2] -> [x2 x1 x2]
func opTuck(vm *virtualMachine) error {
	if err := vm.need(2); err != nil {
		return err
	}
	n := len(vm.dataStack)
	x1, x2 := vm.dataStack[n-2], vm.dataStack[n-1]
	vm.dataStack[n-2], vm.dataStack[n-1] = x2, x1
	vm.push(x2)
	return nil
}
