package chip8

import "fmt"

/// String returns the assembly mnemonic and operands of an instruction.
///
func (inst Instruction) String() string {
	x, y := inst.X, inst.Y

	switch inst.Op {
	case OpNop:
		return "-"
	case OpCls:
		return "CLS"
	case OpRet:
		return "RET"
	case OpJump:
		return fmt.Sprintf("JP     #%04X", inst.NNN)
	case OpCall:
		return fmt.Sprintf("CALL   #%04X", inst.NNN)
	case OpSkipEqN:
		return fmt.Sprintf("SE     V%X, #%02X", x, inst.NN)
	case OpSkipNeN:
		return fmt.Sprintf("SNE    V%X, #%02X", x, inst.NN)
	case OpSkipEqY:
		return fmt.Sprintf("SE     V%X, V%X", x, y)
	case OpLoadN:
		return fmt.Sprintf("LD     V%X, #%02X", x, inst.NN)
	case OpAddN:
		return fmt.Sprintf("ADD    V%X, #%02X", x, inst.NN)
	case OpLoadY:
		return fmt.Sprintf("LD     V%X, V%X", x, y)
	case OpOr:
		return fmt.Sprintf("OR     V%X, V%X", x, y)
	case OpAnd:
		return fmt.Sprintf("AND    V%X, V%X", x, y)
	case OpXor:
		return fmt.Sprintf("XOR    V%X, V%X", x, y)
	case OpAddY:
		return fmt.Sprintf("ADD    V%X, V%X", x, y)
	case OpSubY:
		return fmt.Sprintf("SUB    V%X, V%X", x, y)
	case OpShr:
		return fmt.Sprintf("SHR    V%X", x)
	case OpSubN:
		return fmt.Sprintf("SUBN   V%X, V%X", x, y)
	case OpShl:
		return fmt.Sprintf("SHL    V%X", x)
	case OpSkipNeY:
		return fmt.Sprintf("SNE    V%X, V%X", x, y)
	case OpLoadI:
		return fmt.Sprintf("LD     I, #%04X", inst.NNN)
	case OpJumpV0:
		return fmt.Sprintf("JP     V0, #%04X", inst.NNN)
	case OpRnd:
		return fmt.Sprintf("RND    V%X, #%02X", x, inst.NN)
	case OpDraw:
		return fmt.Sprintf("DRW    V%X, V%X, %d", x, y, inst.N)
	case OpSkipKey:
		return fmt.Sprintf("SKP    V%X", x)
	case OpSkipNotKey:
		return fmt.Sprintf("SKNP   V%X", x)
	case OpLoadDT:
		return fmt.Sprintf("LD     V%X, DT", x)
	case OpWaitKey:
		return fmt.Sprintf("LD     V%X, K", x)
	case OpSetDT:
		return fmt.Sprintf("LD     DT, V%X", x)
	case OpSetST:
		return fmt.Sprintf("LD     ST, V%X", x)
	case OpAddI:
		return fmt.Sprintf("ADD    I, V%X", x)
	case OpFont:
		return fmt.Sprintf("LD     F, V%X", x)
	case OpBCD:
		return fmt.Sprintf("LD     B, V%X", x)
	case OpStore:
		return fmt.Sprintf("LD     [I], V%X", x)
	case OpRestore:
		return fmt.Sprintf("LD     V%X, [I]", x)
	}

	// unknown instruction
	return "??"
}

/// Disassemble the instruction at address i.
///
func (vm *Machine) Disassemble(i uint16) string {
	if int(i) >= len(vm.memory)-1 {
		return ""
	}

	// fetch the instruction at this location
	opcode := uint16(vm.memory[i])<<8 | uint16(vm.memory[i+1])

	inst, err := Decode(opcode)
	if err != nil {
		return fmt.Sprintf("%04X - ??     #%04X", i, opcode)
	}

	return fmt.Sprintf("%04X - %s", i, inst)
}
