package script

import "bytes"

// opSize pushes the length of the top element, which stays in place.
func opSize(vm *virtualMachine) error {
	v, err := vm.peek(0)
	if err != nil {
		return err
	}
	vm.pushNum(ScriptNum(len(v)))
	return nil
}

func opEqual(vm *virtualMachine) error {
	if err := vm.need(2); err != nil {
		return err
	}
	b, _ := vm.pop()
	a, _ := vm.pop()
	vm.pushBool(bytes.Equal(a, b))
	return nil
}

func opEqualVerify(vm *virtualMachine) error {
	if err := opEqual(vm); err != nil {
		return err
	}
	return opVerify(vm)
}
