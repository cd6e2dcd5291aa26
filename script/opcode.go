package script

import (
	"encoding/binary"
	"fmt"
)

type Op uint8

func (op Op) String() string {
	return opcodeTable[op].name
}

// Instruction is one decoded element of the instruction stream.
type Instruction struct {
	Op   Op
	Len  int    // total encoded length, opcode byte included
	Data []byte // pushed bytes, for data-push forms only
}

const (
	OP_0     Op = 0x00
	OP_FALSE Op = 0x00 // synonym

	OP_DATA_1  Op = 0x01
	OP_DATA_20 Op = 0x14
	OP_DATA_32 Op = 0x20
	OP_DATA_33 Op = 0x21
	OP_DATA_75 Op = 0x4b

	OP_PUSHDATA1 Op = 0x4c
	OP_PUSHDATA2 Op = 0x4d
	OP_PUSHDATA4 Op = 0x4e
	OP_1NEGATE   Op = 0x4f
	OP_RESERVED  Op = 0x50

	OP_1    Op = 0x51
	OP_TRUE Op = 0x51 // synonym
	OP_2    Op = 0x52
	OP_3    Op = 0x53
	OP_4    Op = 0x54
	OP_5    Op = 0x55
	OP_6    Op = 0x56
	OP_7    Op = 0x57
	OP_8    Op = 0x58
	OP_9    Op = 0x59
	OP_10   Op = 0x5a
	OP_11   Op = 0x5b
	OP_12   Op = 0x5c
	OP_13   Op = 0x5d
	OP_14   Op = 0x5e
	OP_15   Op = 0x5f
	OP_16   Op = 0x60

	OP_NOP      Op = 0x61
	OP_VER      Op = 0x62
	OP_IF       Op = 0x63
	OP_NOTIF    Op = 0x64
	OP_VERIF    Op = 0x65
	OP_VERNOTIF Op = 0x66
	OP_ELSE     Op = 0x67
	OP_ENDIF    Op = 0x68
	OP_VERIFY   Op = 0x69
	OP_RETURN   Op = 0x6a

	OP_TOALTSTACK   Op = 0x6b
	OP_FROMALTSTACK Op = 0x6c
	OP_2DROP        Op = 0x6d
	OP_2DUP         Op = 0x6e
	OP_3DUP         Op = 0x6f
	OP_2OVER        Op = 0x70
	OP_2ROT         Op = 0x71
	OP_2SWAP        Op = 0x72
	OP_IFDUP        Op = 0x73
	OP_DEPTH        Op = 0x74
	OP_DROP         Op = 0x75
	OP_DUP          Op = 0x76
	OP_NIP          Op = 0x77
	OP_OVER         Op = 0x78
	OP_PICK         Op = 0x79
	OP_ROLL         Op = 0x7a
	OP_ROT          Op = 0x7b
	OP_SWAP         Op = 0x7c
	OP_TUCK         Op = 0x7d

	OP_CAT    Op = 0x7e
	OP_SUBSTR Op = 0x7f
	OP_LEFT   Op = 0x80
	OP_RIGHT  Op = 0x81
	OP_SIZE   Op = 0x82

	OP_INVERT      Op = 0x83
	OP_AND         Op = 0x84
	OP_OR          Op = 0x85
	OP_XOR         Op = 0x86
	OP_EQUAL       Op = 0x87
	OP_EQUALVERIFY Op = 0x88
	OP_RESERVED1   Op = 0x89
	OP_RESERVED2   Op = 0x8a

	OP_1ADD               Op = 0x8b
	OP_1SUB               Op = 0x8c
	OP_2MUL               Op = 0x8d
	OP_2DIV               Op = 0x8e
	OP_NEGATE             Op = 0x8f
	OP_ABS                Op = 0x90
	OP_NOT                Op = 0x91
	OP_0NOTEQUAL          Op = 0x92
	OP_ADD                Op = 0x93
	OP_SUB                Op = 0x94
	OP_MUL                Op = 0x95
	OP_DIV                Op = 0x96
	OP_MOD                Op = 0x97
	OP_LSHIFT             Op = 0x98
	OP_RSHIFT             Op = 0x99
	OP_BOOLAND            Op = 0x9a
	OP_BOOLOR             Op = 0x9b
	OP_NUMEQUAL           Op = 0x9c
	OP_NUMEQUALVERIFY     Op = 0x9d
	OP_NUMNOTEQUAL        Op = 0x9e
	OP_LESSTHAN           Op = 0x9f
	OP_GREATERTHAN        Op = 0xa0
	OP_LESSTHANOREQUAL    Op = 0xa1
	OP_GREATERTHANOREQUAL Op = 0xa2
	OP_MIN                Op = 0xa3
	OP_MAX                Op = 0xa4
	OP_WITHIN             Op = 0xa5

	OP_RIPEMD160           Op = 0xa6
	OP_SHA1                Op = 0xa7
	OP_SHA256              Op = 0xa8
	OP_HASH160             Op = 0xa9
	OP_HASH256             Op = 0xaa
	OP_CODESEPARATOR       Op = 0xab
	OP_CHECKSIG            Op = 0xac
	OP_CHECKSIGVERIFY      Op = 0xad
	OP_CHECKMULTISIG       Op = 0xae
	OP_CHECKMULTISIGVERIFY Op = 0xaf

	OP_NOP1                Op = 0xb0
	OP_CHECKLOCKTIMEVERIFY Op = 0xb1
	OP_NOP2                Op = 0xb1 // synonym
	OP_CHECKSEQUENCEVERIFY Op = 0xb2
	OP_NOP3                Op = 0xb2 // synonym
	OP_NOP4                Op = 0xb3
	OP_NOP5                Op = 0xb4
	OP_NOP6                Op = 0xb5
	OP_NOP7                Op = 0xb6
	OP_NOP8                Op = 0xb7
	OP_NOP9                Op = 0xb8
	OP_NOP10               Op = 0xb9

	OP_PUBKEYHASH    Op = 0xfd
	OP_PUBKEY        Op = 0xfe
	OP_INVALIDOPCODE Op = 0xff
)

type opInfo struct {
	op   Op
	name string
	fn   func(*virtualMachine) error

	// known is false for byte values with no assigned meaning; those are
	// not charged against the op budget.
	known bool
}

var (
	opcodeTable = [256]opInfo{
		OP_0:        {OP_0, "OP_0", opFalse, true},
		OP_1NEGATE:  {OP_1NEGATE, "OP_1NEGATE", op1Negate, true},
		OP_RESERVED: {OP_RESERVED, "OP_RESERVED", opReserved, true},

		// flow control
		OP_NOP:      {OP_NOP, "OP_NOP", opNop, true},
		OP_VER:      {OP_VER, "OP_VER", opReserved, true},
		OP_IF:       {OP_IF, "OP_IF", opIf, true},
		OP_NOTIF:    {OP_NOTIF, "OP_NOTIF", opNotIf, true},
		OP_VERIF:    {OP_VERIF, "OP_VERIF", opAlwaysInvalid, true},
		OP_VERNOTIF: {OP_VERNOTIF, "OP_VERNOTIF", opAlwaysInvalid, true},
		OP_ELSE:     {OP_ELSE, "OP_ELSE", opElse, true},
		OP_ENDIF:    {OP_ENDIF, "OP_ENDIF", opEndIf, true},
		OP_VERIFY:   {OP_VERIFY, "OP_VERIFY", opVerify, true},
		OP_RETURN:   {OP_RETURN, "OP_RETURN", opReturn, true},

		// stack
		OP_TOALTSTACK:   {OP_TOALTSTACK, "OP_TOALTSTACK", opToAltStack, true},
		OP_FROMALTSTACK: {OP_FROMALTSTACK, "OP_FROMALTSTACK", opFromAltStack, true},
		OP_2DROP:        {OP_2DROP, "OP_2DROP", op2Drop, true},
		OP_2DUP:         {OP_2DUP, "OP_2DUP", op2Dup, true},
		OP_3DUP:         {OP_3DUP, "OP_3DUP", op3Dup, true},
		OP_2OVER:        {OP_2OVER, "OP_2OVER", op2Over, true},
		OP_2ROT:         {OP_2ROT, "OP_2ROT", op2Rot, true},
		OP_2SWAP:        {OP_2SWAP, "OP_2SWAP", op2Swap, true},
		OP_IFDUP:        {OP_IFDUP, "OP_IFDUP", opIfDup, true},
		OP_DEPTH:        {OP_DEPTH, "OP_DEPTH", opDepth, true},
		OP_DROP:         {OP_DROP, "OP_DROP", opDrop, true},
		OP_DUP:          {OP_DUP, "OP_DUP", opDup, true},
		OP_NIP:          {OP_NIP, "OP_NIP", opNip, true},
		OP_OVER:         {OP_OVER, "OP_OVER", opOver, true},
		OP_PICK:         {OP_PICK, "OP_PICK", opPick, true},
		OP_ROLL:         {OP_ROLL, "OP_ROLL", opRoll, true},
		OP_ROT:          {OP_ROT, "OP_ROT", opRot, true},
		OP_SWAP:         {OP_SWAP, "OP_SWAP", opSwap, true},
		OP_TUCK:         {OP_TUCK, "OP_TUCK", opTuck, true},

		// splice
		OP_CAT:    {OP_CAT, "OP_CAT", opDisabled, true},
		OP_SUBSTR: {OP_SUBSTR, "OP_SUBSTR", opDisabled, true},
		OP_LEFT:   {OP_LEFT, "OP_LEFT", opDisabled, true},
		OP_RIGHT:  {OP_RIGHT, "OP_RIGHT", opDisabled, true},
		OP_SIZE:   {OP_SIZE, "OP_SIZE", opSize, true},

		// bitwise
		OP_INVERT:      {OP_INVERT, "OP_INVERT", opDisabled, true},
		OP_AND:         {OP_AND, "OP_AND", opDisabled, true},
		OP_OR:          {OP_OR, "OP_OR", opDisabled, true},
		OP_XOR:         {OP_XOR, "OP_XOR", opDisabled, true},
		OP_EQUAL:       {OP_EQUAL, "OP_EQUAL", opEqual, true},
		OP_EQUALVERIFY: {OP_EQUALVERIFY, "OP_EQUALVERIFY", opEqualVerify, true},
		OP_RESERVED1:   {OP_RESERVED1, "OP_RESERVED1", opReserved, true},
		OP_RESERVED2:   {OP_RESERVED2, "OP_RESERVED2", opReserved, true},

		// numeric
		OP_1ADD:               {OP_1ADD, "OP_1ADD", op1Add, true},
		OP_1SUB:               {OP_1SUB, "OP_1SUB", op1Sub, true},
		OP_2MUL:               {OP_2MUL, "OP_2MUL", opDisabled, true},
		OP_2DIV:               {OP_2DIV, "OP_2DIV", opDisabled, true},
		OP_NEGATE:             {OP_NEGATE, "OP_NEGATE", opNegate, true},
		OP_ABS:                {OP_ABS, "OP_ABS", opAbs, true},
		OP_NOT:                {OP_NOT, "OP_NOT", opNot, true},
		OP_0NOTEQUAL:          {OP_0NOTEQUAL, "OP_0NOTEQUAL", op0NotEqual, true},
		OP_ADD:                {OP_ADD, "OP_ADD", opAdd, true},
		OP_SUB:                {OP_SUB, "OP_SUB", opSub, true},
		OP_MUL:                {OP_MUL, "OP_MUL", opDisabled, true},
		OP_DIV:                {OP_DIV, "OP_DIV", opDisabled, true},
		OP_MOD:                {OP_MOD, "OP_MOD", opDisabled, true},
		OP_LSHIFT:             {OP_LSHIFT, "OP_LSHIFT", opDisabled, true},
		OP_RSHIFT:             {OP_RSHIFT, "OP_RSHIFT", opDisabled, true},
		OP_BOOLAND:            {OP_BOOLAND, "OP_BOOLAND", opBoolAnd, true},
		OP_BOOLOR:             {OP_BOOLOR, "OP_BOOLOR", opBoolOr, true},
		OP_NUMEQUAL:           {OP_NUMEQUAL, "OP_NUMEQUAL", opNumEqual, true},
		OP_NUMEQUALVERIFY:     {OP_NUMEQUALVERIFY, "OP_NUMEQUALVERIFY", opNumEqualVerify, true},
		OP_NUMNOTEQUAL:        {OP_NUMNOTEQUAL, "OP_NUMNOTEQUAL", opNumNotEqual, true},
		OP_LESSTHAN:           {OP_LESSTHAN, "OP_LESSTHAN", opLessThan, true},
		OP_GREATERTHAN:        {OP_GREATERTHAN, "OP_GREATERTHAN", opGreaterThan, true},
		OP_LESSTHANOREQUAL:    {OP_LESSTHANOREQUAL, "OP_LESSTHANOREQUAL", opLessThanOrEqual, true},
		OP_GREATERTHANOREQUAL: {OP_GREATERTHANOREQUAL, "OP_GREATERTHANOREQUAL", opGreaterThanOrEqual, true},
		OP_MIN:                {OP_MIN, "OP_MIN", opMin, true},
		OP_MAX:                {OP_MAX, "OP_MAX", opMax, true},
		OP_WITHIN:             {OP_WITHIN, "OP_WITHIN", opWithin, true},

		// crypto
		OP_RIPEMD160:           {OP_RIPEMD160, "OP_RIPEMD160", opRipemd160, true},
		OP_SHA1:                {OP_SHA1, "OP_SHA1", opSha1, true},
		OP_SHA256:              {OP_SHA256, "OP_SHA256", opSha256, true},
		OP_HASH160:             {OP_HASH160, "OP_HASH160", opHash160, true},
		OP_HASH256:             {OP_HASH256, "OP_HASH256", opHash256, true},
		OP_CODESEPARATOR:       {OP_CODESEPARATOR, "OP_CODESEPARATOR", opCodeSeparator, true},
		OP_CHECKSIG:            {OP_CHECKSIG, "OP_CHECKSIG", opCheckSig, true},
		OP_CHECKSIGVERIFY:      {OP_CHECKSIGVERIFY, "OP_CHECKSIGVERIFY", opCheckSigVerify, true},
		OP_CHECKMULTISIG:       {OP_CHECKMULTISIG, "OP_CHECKMULTISIG", opCheckMultiSig, true},
		OP_CHECKMULTISIGVERIFY: {OP_CHECKMULTISIGVERIFY, "OP_CHECKMULTISIGVERIFY", opCheckMultiSigVerify, true},

		// locktime and expansion
		OP_NOP1:                {OP_NOP1, "OP_NOP1", opNop, true},
		OP_CHECKLOCKTIMEVERIFY: {OP_CHECKLOCKTIMEVERIFY, "OP_CHECKLOCKTIMEVERIFY", opCheckLockTimeVerify, true},
		OP_CHECKSEQUENCEVERIFY: {OP_CHECKSEQUENCEVERIFY, "OP_CHECKSEQUENCEVERIFY", opCheckSequenceVerify, true},
		OP_NOP4:                {OP_NOP4, "OP_NOP4", opNop, true},
		OP_NOP5:                {OP_NOP5, "OP_NOP5", opNop, true},
		OP_NOP6:                {OP_NOP6, "OP_NOP6", opNop, true},
		OP_NOP7:                {OP_NOP7, "OP_NOP7", opNop, true},
		OP_NOP8:                {OP_NOP8, "OP_NOP8", opNop, true},
		OP_NOP9:                {OP_NOP9, "OP_NOP9", opNop, true},
		OP_NOP10:               {OP_NOP10, "OP_NOP10", opNop, true},

		// pseudo-words
		OP_PUBKEYHASH:    {OP_PUBKEYHASH, "OP_PUBKEYHASH", opInvalid, true},
		OP_PUBKEY:        {OP_PUBKEY, "OP_PUBKEY", opInvalid, true},
		OP_INVALIDOPCODE: {OP_INVALIDOPCODE, "OP_INVALIDOPCODE", opInvalid, true},
	}

	opsByName map[string]Op
)

func init() {
	for i := int(OP_DATA_1); i <= int(OP_DATA_75); i++ {
		opcodeTable[i] = opInfo{Op(i), fmt.Sprintf("OP_DATA_%d", i), opPushdata, true}
	}
	opcodeTable[OP_PUSHDATA1] = opInfo{OP_PUSHDATA1, "OP_PUSHDATA1", opPushdata, true}
	opcodeTable[OP_PUSHDATA2] = opInfo{OP_PUSHDATA2, "OP_PUSHDATA2", opPushdata, true}
	opcodeTable[OP_PUSHDATA4] = opInfo{OP_PUSHDATA4, "OP_PUSHDATA4", opPushdata, true}
	for i := 0; i < 16; i++ {
		op := OP_1 + Op(i)
		opcodeTable[op] = opInfo{op, fmt.Sprintf("OP_%d", i+1), opPushSmallInt, true}
	}

	// Every remaining byte value fails when executed.
	for i := 0; i < len(opcodeTable); i++ {
		if opcodeTable[i].fn == nil {
			opcodeTable[i] = opInfo{Op(i), fmt.Sprintf("OP_UNKNOWN%d", i), opInvalid, false}
		}
	}

	opsByName = make(map[string]Op, len(opcodeTable)+4)
	for _, info := range opcodeTable {
		if info.known {
			opsByName[info.name] = info.op
		}
	}
	opsByName["OP_FALSE"] = OP_FALSE
	opsByName["OP_TRUE"] = OP_TRUE
	opsByName["OP_NOP2"] = OP_NOP2
	opsByName["OP_NOP3"] = OP_NOP3
}

// isDataPush reports whether op carries inline data. Data pushes bypass
// the op budget and are decoded even inside inactive branches.
func (op Op) isDataPush() bool {
	return op >= OP_DATA_1 && op <= OP_PUSHDATA4
}

// counted reports whether executing op is charged against the op budget.
func (op Op) counted() bool {
	return !op.isDataPush() && opcodeTable[op].known
}

func (op Op) isConditional() bool {
	return op == OP_IF || op == OP_NOTIF || op == OP_ELSE || op == OP_ENDIF
}

// alwaysIllegal reports whether op fails even where it is never executed.
func (op Op) alwaysIllegal() bool {
	switch op {
	case OP_VERIF, OP_VERNOTIF:
		return true
	}
	return op.isDisabled()
}

func (op Op) isDisabled() bool {
	switch op {
	case OP_CAT, OP_SUBSTR, OP_LEFT, OP_RIGHT,
		OP_INVERT, OP_AND, OP_OR, OP_XOR,
		OP_2MUL, OP_2DIV, OP_MUL, OP_DIV, OP_MOD, OP_LSHIFT, OP_RSHIFT:
		return true
	}
	return false
}

// ParseOp decodes the instruction at position pc in prog.
func ParseOp(prog []byte, pc int) (inst Instruction, err error) {
	if pc < 0 || pc >= len(prog) {
		return inst, scripterrf(SCRIPT_ERR_TRUNCATED_PUSH, "pc %d outside program of %d bytes", pc, len(prog))
	}
	op := Op(prog[pc])
	inst.Op = op
	inst.Len = 1
	if !op.isDataPush() {
		return inst, nil
	}

	var n, prefix int
	switch {
	case op <= OP_DATA_75:
		n = int(op)
	case op == OP_PUSHDATA1:
		prefix = 1
	case op == OP_PUSHDATA2:
		prefix = 2
	default:
		prefix = 4
	}
	if prefix > 0 {
		if len(prog)-pc-1 < prefix {
			return inst, scripterrf(SCRIPT_ERR_TRUNCATED_PUSH, "%s at pc %d: missing length", op, pc)
		}
		lenBytes := prog[pc+1 : pc+1+prefix]
		var declared uint64
		switch prefix {
		case 1:
			declared = uint64(lenBytes[0])
		case 2:
			declared = uint64(binary.LittleEndian.Uint16(lenBytes))
		default:
			declared = uint64(binary.LittleEndian.Uint32(lenBytes))
		}
		if declared > MaxScriptElementSize {
			return inst, scripterrf(SCRIPT_ERR_OVERSIZED_ELEMENT, "%s at pc %d declares %d bytes, max %d", op, pc, declared, MaxScriptElementSize)
		}
		n = int(declared)
	}

	start := pc + 1 + prefix
	if len(prog)-start < n {
		return inst, scripterrf(SCRIPT_ERR_TRUNCATED_PUSH, "%s at pc %d: want %d bytes, have %d", op, pc, n, len(prog)-start)
	}
	inst.Len = 1 + prefix + n
	inst.Data = prog[start : start+n]
	return inst, nil
}

// ParseProgram decodes every instruction of prog.
func ParseProgram(prog []byte) ([]Instruction, error) {
	var result []Instruction
	for pc := 0; pc < len(prog); {
		inst, err := ParseOp(prog, pc)
		if err != nil {
			return nil, err
		}
		result = append(result, inst)
		pc += inst.Len
	}
	return result, nil
}
