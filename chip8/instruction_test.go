package chip8

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		opcode uint16
		op     Op
	}{
		{0x0000, OpNop},
		{0x00E0, OpCls},
		{0x00EE, OpRet},
		{0x1234, OpJump},
		{0x2345, OpCall},
		{0x3A12, OpSkipEqN},
		{0x4A12, OpSkipNeN},
		{0x5AB0, OpSkipEqY},
		{0x6A12, OpLoadN},
		{0x7A12, OpAddN},
		{0x8AB0, OpLoadY},
		{0x8AB1, OpOr},
		{0x8AB2, OpAnd},
		{0x8AB3, OpXor},
		{0x8AB4, OpAddY},
		{0x8AB5, OpSubY},
		{0x8AB6, OpShr},
		{0x8AB7, OpSubN},
		{0x8ABE, OpShl},
		{0x9AB0, OpSkipNeY},
		{0xA123, OpLoadI},
		{0xB123, OpJumpV0},
		{0xCA12, OpRnd},
		{0xDAB5, OpDraw},
		{0xEA9E, OpSkipKey},
		{0xEAA1, OpSkipNotKey},
		{0xFA07, OpLoadDT},
		{0xFA0A, OpWaitKey},
		{0xFA15, OpSetDT},
		{0xFA18, OpSetST},
		{0xFA1E, OpAddI},
		{0xFA29, OpFont},
		{0xFA33, OpBCD},
		{0xFA55, OpStore},
		{0xFA65, OpRestore},
	}

	for _, tt := range tests {
		inst, err := Decode(tt.opcode)
		assert.NoError(t, err)
		assert.Equal(t, tt.op, inst.Op)
		assert.Equal(t, tt.opcode, inst.Opcode)
	}
}

func TestDecodeOperands(t *testing.T) {
	inst, err := Decode(0xDAB5)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0xA), inst.X)
	assert.Equal(t, uint8(0xB), inst.Y)
	assert.Equal(t, uint8(0x5), inst.N)
	assert.Equal(t, byte(0xB5), inst.NN)
	assert.Equal(t, uint16(0xAB5), inst.NNN)
}

func TestDecodeInvalid(t *testing.T) {
	for _, opcode := range []uint16{
		0x0123, 0x00E1, 0x00FF, 0x01E0,
		0x5121, 0x800F, 0x8008, 0x9001,
		0xE000, 0xE19F, 0xF000, 0xF0FF, 0xF156,
	} {
		_, err := Decode(opcode)

		var opErr *OpcodeError
		assert.True(t, errors.As(err, &opErr))
		assert.Equal(t, opcode, opErr.Opcode)
		assert.True(t, errors.Is(err, ErrInvalidOpcode))
	}
}
