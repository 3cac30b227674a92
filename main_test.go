package main

import (
	"errors"
	"testing"

	"github.com/massung/chip8vm/chip8"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestParseFlags(t *testing.T) {
	opts, err := ParseFlags([]string{"-scale", "8", "-steps", "20", "-debug", "games/PONG"})
	assert.NoError(t, err)
	assert.Equal(t, "games/PONG", opts.ROM)
	assert.Equal(t, 8, opts.Scale)
	assert.Equal(t, 20, opts.Steps)
	assert.True(t, opts.Debug)
	assert.False(t, opts.Quiet)
	assert.False(t, opts.Paused)
}

func TestParseFlagsDefaults(t *testing.T) {
	opts, err := ParseFlags(nil)
	assert.NoError(t, err)
	assert.Equal(t, "", opts.ROM)
	assert.Equal(t, 15, opts.Scale)
	assert.Equal(t, 10, opts.Steps)
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		usage bool
	}{
		{"unknown flag", []string{"-nope"}, true},
		{"help", []string{"-h"}, true},
		{"two roms", []string{"a.ch8", "b.ch8"}, true},
		{"zero scale", []string{"-scale", "0"}, false},
		{"zero steps", []string{"-steps", "0"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlags(tt.args)
			assert.True(t, err != nil)

			var usageErr *UsageError
			assert.Equal(t, tt.usage, errors.As(err, &usageErr))
		})
	}
}

func newTestVM(t *testing.T, program ...byte) *chip8.Machine {
	t.Helper()

	vm := chip8.New(chip8.WithLogger(log.NewTestLogger(t)))
	assert.NoError(t, vm.Load(program))
	return vm
}

func TestEmulate(t *testing.T) {
	vm := newTestVM(t,
		0x61, 0x05, // LD V1, #05
		0xF1, 0x15, // LD DT, V1
		0x12, 0x04, // JP #204
	)

	hit, err := Emulate(vm, 10, nil)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, byte(4), vm.DelayTimer())
	assert.Equal(t, uint16(0x204), vm.PC())

	_, err = Emulate(vm, 10, nil)
	assert.NoError(t, err)
	assert.Equal(t, byte(3), vm.DelayTimer())
}

func TestEmulateHaltsOnError(t *testing.T) {
	vm := newTestVM(t,
		0x61, 0x05, // LD V1, #05
		0xF1, 0x15, // LD DT, V1
		0x51, 0x21, // invalid
	)

	_, err := Emulate(vm, 10, nil)
	assert.True(t, errors.Is(err, chip8.ErrInvalidOpcode))
	assert.Equal(t, uint16(0x204), vm.PC())

	// the frame was abandoned before the timers ticked
	assert.Equal(t, byte(5), vm.DelayTimer())
}

func TestEmulateBreakpoint(t *testing.T) {
	vm := newTestVM(t,
		0x61, 0x01, // 200: LD V1, #01
		0x62, 0x02, // 202: LD V2, #02
		0x63, 0x03, // 204: LD V3, #03
		0xF1, 0x15, // 206: LD DT, V1
		0x12, 0x06, // 208: JP #206
	)
	breaks := NewBreakpoints()
	assert.True(t, breaks.Toggle(0x204))

	hit, err := Emulate(vm, 10, breaks)
	assert.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, uint16(0x204), vm.PC())
	assert.Equal(t, byte(2), vm.V(2))
	assert.Equal(t, byte(0), vm.V(3))

	// resuming executes the instruction under the breakpoint
	hit, err = Emulate(vm, 10, breaks)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, byte(3), vm.V(3))
	assert.Equal(t, byte(0), vm.DelayTimer())

	// a removed breakpoint no longer stops anything
	vm.Reset()
	assert.NoError(t, vm.Load([]byte{0x61, 0x01, 0x62, 0x02, 0x12, 0x04}))
	assert.False(t, breaks.Toggle(0x204))
	hit, err = Emulate(vm, 10, breaks)
	assert.NoError(t, err)
	assert.False(t, hit)
}

func TestEmulateBreakpointWhileWaiting(t *testing.T) {
	vm := newTestVM(t,
		0xF3, 0x0A, // 200: LD V3, K
		0x12, 0x02, // 202: JP #202
	)
	breaks := NewBreakpoints()
	breaks.Toggle(0x202)

	// spinning on the key wait doesn't trigger the breakpoint
	hit, err := Emulate(vm, 10, breaks)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.True(t, vm.Waiting())

	assert.NoError(t, vm.SetKey(6, true))
	hit, err = Emulate(vm, 10, breaks)
	assert.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, byte(6), vm.V(3))
}

func TestStepOver(t *testing.T) {
	Logger = log.NewTestLogger(t)
	Breaks = NewBreakpoints()
	VM = newTestVM(t,
		0x22, 0x06, // 200: CALL #206
		0x00, 0x00, // 202
		0x12, 0x02, // 204: JP #202
		0x61, 0x05, // 206: LD V1, #05
		0x00, 0xEE, // 208: RET
	)
	Paused = true

	// a CALL resumes until the return address
	StepOver()
	assert.False(t, Paused)

	hit, err := Emulate(VM, 10, Breaks)
	assert.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, uint16(0x202), VM.PC())
	assert.Equal(t, byte(5), VM.V(1))

	// the one-shot breakpoint is gone
	hit, err = Emulate(VM, 10, Breaks)
	assert.NoError(t, err)
	assert.False(t, hit)

	// anything else is a single step
	VM.Reset()
	assert.NoError(t, VM.Load([]byte{0x61, 0x07, 0x62, 0x08}))
	Paused = true
	StepOver()
	assert.True(t, Paused)
	assert.Equal(t, uint16(0x202), VM.PC())
	assert.Equal(t, byte(7), VM.V(1))
}

func TestPixelRects(t *testing.T) {
	vm := newTestVM(t,
		0xA0, 0x00, // LD I, #000 (the "0" glyph)
		0x61, 0x3E, // LD V1, #3E
		0xD1, 0x01, // DRW V1, V0, 1
	)
	_, err := Emulate(vm, 3, nil)
	assert.NoError(t, err)

	frame := vm.Framebuffer()
	rects := PixelRects(&frame, 10)

	// 0xF0 drawn at x=62 wraps to the left edge
	assert.Equal(t, 4, len(rects))
	assert.Equal(t, int32(0), rects[0].X)
	assert.Equal(t, int32(10), rects[1].X)
	assert.Equal(t, int32(620), rects[2].X)
	assert.Equal(t, int32(630), rects[3].X)
	for _, r := range rects {
		assert.Equal(t, int32(0), r.Y)
		assert.Equal(t, int32(10), r.W)
		assert.Equal(t, int32(10), r.H)
	}
}

func TestDisassembly(t *testing.T) {
	VM = newTestVM(t, 0x00, 0xE0, 0x12, 0x00)

	lines := Disassembly(0x200, 2)
	assert.Equal(t, []string{"0200 - CLS", "0202 - JP     #0200"}, lines)

	// stops at the end of memory
	assert.Equal(t, 1, len(Disassembly(chip8.MemorySize-2, 4)))
}

func TestHexDump(t *testing.T) {
	VM = newTestVM(t)

	lines := HexDump(0x000, 12)
	assert.Equal(t, []string{
		"0000 - F0 90 90 90 F0 20 60 20",
		"0008 - 20 70 F0 10",
	}, lines)
}
