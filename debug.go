package main

import (
	"fmt"
	"strings"

	"github.com/massung/chip8vm/chip8"
	"github.com/retroenv/retrogolib/log"
)

var (
	/// True if pausing emulation (single stepping).
	///
	Paused bool

	/// Breaks are the breakpoints set in the running program.
	///
	Breaks = NewBreakpoints()
)

/// Breakpoints are addresses where emulation pauses before executing
/// the instruction there.
///
type Breakpoints struct {
	addrs map[uint16]bool

	/// over is a one-shot breakpoint placed after a CALL being
	/// stepped over. It is removed once hit.
	///
	over    uint16
	overSet bool
}

/// NewBreakpoints returns an empty breakpoint set.
///
func NewBreakpoints() *Breakpoints {
	return &Breakpoints{
		addrs: make(map[uint16]bool),
	}
}

/// Toggle the breakpoint at address. Returns true if it is now set.
///
func (b *Breakpoints) Toggle(address uint16) bool {
	if b.addrs[address] {
		delete(b.addrs, address)
		return false
	}

	b.addrs[address] = true
	return true
}

/// SetOver places the one-shot step over breakpoint.
///
func (b *Breakpoints) SetOver(address uint16) {
	b.over = address
	b.overSet = true
}

/// Hit returns true if execution should stop at address.
///
func (b *Breakpoints) Hit(address uint16) bool {
	if b.overSet && b.over == address {
		b.overSet = false
		return true
	}

	return b.addrs[address]
}

/// Clear removes all breakpoints.
///
func (b *Breakpoints) Clear() {
	b.addrs = make(map[uint16]bool)
	b.overSet = false
}

/// Break pauses emulation after a breakpoint was reached.
///
func Break() {
	Paused = true

	Logger.Info("Breakpoint", log.String("instruction", VM.Disassemble(VM.PC())))

	SetTitle()
}

/// ToggleBreakpoint at the program counter.
///
func ToggleBreakpoint() {
	pc := VM.PC()

	if Breaks.Toggle(pc) {
		Logger.Info("Breakpoint set", log.String("address", hex16(pc)))
	} else {
		Logger.Info("Breakpoint cleared", log.String("address", hex16(pc)))
	}
}

/// StepOver steps a single instruction, unless it is a CALL. Then
/// emulation resumes until the subroutine returns.
///
func StepOver() {
	pc := VM.PC()
	opcode := uint16(VM.Memory(pc))<<8 | uint16(VM.Memory(pc+1))

	if inst, err := chip8.Decode(opcode); err == nil && inst.Op == chip8.OpCall {
		Breaks.SetOver(pc + 2)
		Paused = false
		return
	}

	DebugStep()
}

/// Show the HELP text in the log.
///
func DebugHelp() {
	for _, line := range []string{
		"Virtual keys:",
		"  1-2-3-4",
		"  Q-W-E-R",
		"  A-S-D-F",
		"  Z-X-C-V",
		"Emulation keys:",
		"  ESC       - Quit",
		"  BS        - Reboot (+CTRL paused)",
		"  F1/H      - Help",
		"  F3        - Load ROM",
		"  [ ]       - Speed down/up",
		"  F5/SPACE  - Pause",
		"  F6/F10    - Step",
		"  F7/F11    - Step over",
		"  F2        - Registers and disassembly",
		"  F8        - Dump memory at I",
		"  F9        - Toggle breakpoint",
	} {
		Logger.Info(line)
	}
}

/// SetSpeed changes the number of instructions run per frame.
///
func SetSpeed(steps int) {
	if steps < 1 {
		steps = 1
	}

	Steps = steps

	Logger.Info("Speed changed", log.Int("steps_per_frame", Steps))
}

/// DebugStep executes a single instruction while paused.
///
func DebugStep() {
	inst := VM.Disassemble(VM.PC())

	if err := VM.Step(); err != nil {
		Logger.Error("Step failed", log.Err(err))
		return
	}

	Logger.Info("Step", log.String("instruction", inst), log.String("pc", hex16(VM.PC())))
}

/// DebugRegisters logs the value of all the CHIP-8 registers.
///
func DebugRegisters() {
	regs := VM.Registers()

	var sb strings.Builder
	for i, v := range regs {
		fmt.Fprintf(&sb, "V%X=%02X ", i, v)
	}

	Logger.Info("Registers",
		log.String("v", strings.TrimSpace(sb.String())),
		log.String("pc", hex16(VM.PC())),
		log.String("i", hex16(VM.I())),
		log.Int("sp", VM.SP()),
		log.Int("dt", int(VM.DelayTimer())),
		log.Int("st", int(VM.SoundTimer())))

	if VM.Waiting() {
		Logger.Info("Waiting for key")
	}
}

/// DebugAssembly logs the disassembled instructions following the
/// program counter.
///
func DebugAssembly() {
	for _, line := range Disassembly(VM.PC(), 8) {
		Logger.Info(line)
	}
}

/// Disassembly returns n disassembled instructions from address on,
/// stopping at the end of memory.
///
func Disassembly(address uint16, n int) []string {
	lines := make([]string, 0, n)

	for i := 0; i < n; i++ {
		line := VM.Disassemble(address)
		if line == "" {
			break
		}

		lines = append(lines, line)
		address += 2
	}

	return lines
}

/// DebugMemory logs a hex dump of the 32 bytes at I.
///
func DebugMemory() {
	for _, line := range HexDump(VM.I(), 32) {
		Logger.Info(line)
	}
}

/// HexDump formats n bytes of memory from address, 8 bytes per line.
///
func HexDump(address uint16, n int) []string {
	var lines []string

	for row := 0; row < n; row += 8 {
		start := address + uint16(row)

		var sb strings.Builder
		fmt.Fprintf(&sb, "%04X -", start&0xFFF)

		for col := uint16(0); col < 8 && row+int(col) < n; col++ {
			fmt.Fprintf(&sb, " %02X", VM.Memory(start+col))
		}

		lines = append(lines, sb.String())
	}

	return lines
}

func hex16(v uint16) string {
	return fmt.Sprintf("#%04X", v)
}
