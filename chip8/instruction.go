package chip8

/// Op identifies a decoded CHIP-8 instruction.
///
type Op uint8

/// All the instructions the interpreter understands. The comment next
/// to each is the opcode pattern it decodes from.
///
const (
	OpNop      Op = iota // 0000
	OpCls                // 00E0
	OpRet                // 00EE
	OpJump               // 1NNN
	OpCall               // 2NNN
	OpSkipEqN            // 3XNN
	OpSkipNeN            // 4XNN
	OpSkipEqY            // 5XY0
	OpLoadN              // 6XNN
	OpAddN               // 7XNN
	OpLoadY              // 8XY0
	OpOr                 // 8XY1
	OpAnd                // 8XY2
	OpXor                // 8XY3
	OpAddY               // 8XY4
	OpSubY               // 8XY5
	OpShr                // 8XY6
	OpSubN               // 8XY7
	OpShl                // 8XYE
	OpSkipNeY            // 9XY0
	OpLoadI              // ANNN
	OpJumpV0             // BNNN
	OpRnd                // CXNN
	OpDraw               // DXYN
	OpSkipKey            // EX9E
	OpSkipNotKey         // EXA1
	OpLoadDT             // FX07
	OpWaitKey            // FX0A
	OpSetDT              // FX15
	OpSetST              // FX18
	OpAddI               // FX1E
	OpFont               // FX29
	OpBCD                // FX33
	OpStore              // FX55
	OpRestore            // FX65
)

/// Instruction is a single decoded opcode with all of its operands
/// already extracted.
///
type Instruction struct {
	Op Op

	/// Opcode is the raw 16-bit word the instruction was decoded from.
	///
	Opcode uint16

	/// X and Y are register operands, N is the low nibble.
	///
	X, Y, N uint8

	/// NN is the low byte.
	///
	NN byte

	/// NNN is the 12-bit address operand.
	///
	NNN uint16
}

/// Decode an opcode into an Instruction. Opcodes that match no known
/// pattern return an *OpcodeError.
///
func Decode(opcode uint16) (Instruction, error) {
	inst := Instruction{
		Opcode: opcode,
		X:      uint8(opcode >> 8 & 0xF),
		Y:      uint8(opcode >> 4 & 0xF),
		N:      uint8(opcode & 0xF),
		NN:     byte(opcode & 0xFF),
		NNN:    opcode & 0xFFF,
	}

	op, ok := decodeOp(opcode>>12, inst.X, inst.Y, inst.N)
	if !ok {
		return Instruction{}, &OpcodeError{Opcode: opcode}
	}

	inst.Op = op
	return inst, nil
}

func decodeOp(d1 uint16, d2, d3, d4 uint8) (Op, bool) {
	switch d1 {
	case 0x0:
		switch {
		case d2 == 0 && d3 == 0x0 && d4 == 0x0:
			return OpNop, true
		case d2 == 0 && d3 == 0xE && d4 == 0x0:
			return OpCls, true
		case d2 == 0 && d3 == 0xE && d4 == 0xE:
			return OpRet, true
		}
	case 0x1:
		return OpJump, true
	case 0x2:
		return OpCall, true
	case 0x3:
		return OpSkipEqN, true
	case 0x4:
		return OpSkipNeN, true
	case 0x5:
		if d4 == 0 {
			return OpSkipEqY, true
		}
	case 0x6:
		return OpLoadN, true
	case 0x7:
		return OpAddN, true
	case 0x8:
		if op, ok := aluOps[d4]; ok {
			return op, true
		}
	case 0x9:
		if d4 == 0 {
			return OpSkipNeY, true
		}
	case 0xA:
		return OpLoadI, true
	case 0xB:
		return OpJumpV0, true
	case 0xC:
		return OpRnd, true
	case 0xD:
		return OpDraw, true
	case 0xE:
		switch d3<<4 | d4 {
		case 0x9E:
			return OpSkipKey, true
		case 0xA1:
			return OpSkipNotKey, true
		}
	case 0xF:
		if op, ok := miscOps[d3<<4|d4]; ok {
			return op, true
		}
	}

	return 0, false
}

/// aluOps maps the low nibble of an 8XYN opcode.
///
var aluOps = map[uint8]Op{
	0x0: OpLoadY,
	0x1: OpOr,
	0x2: OpAnd,
	0x3: OpXor,
	0x4: OpAddY,
	0x5: OpSubY,
	0x6: OpShr,
	0x7: OpSubN,
	0xE: OpShl,
}

/// miscOps maps the low byte of an FXNN opcode.
///
var miscOps = map[uint8]Op{
	0x07: OpLoadDT,
	0x0A: OpWaitKey,
	0x15: OpSetDT,
	0x18: OpSetST,
	0x1E: OpAddI,
	0x29: OpFont,
	0x33: OpBCD,
	0x55: OpStore,
	0x65: OpRestore,
}
