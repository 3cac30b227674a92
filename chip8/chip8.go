package chip8

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/retroenv/retrogolib/log"
)

const (
	/// MemorySize is the total addressable memory.
	///
	MemorySize = 0x1000

	/// ProgramStart is where programs are loaded and execution begins.
	///
	ProgramStart = 0x200

	/// MaxProgramSize is the largest image Load will accept.
	///
	MaxProgramSize = MemorySize - ProgramStart

	/// Width and Height of the display in pixels.
	///
	Width  = 64
	Height = 32

	/// StackDepth is the number of return addresses the stack can hold.
	///
	StackDepth = 16

	/// NumKeys on the hexadecimal keypad.
	///
	NumKeys = 16

	/// GlyphSize is the number of bytes (rows) in each font sprite.
	///
	GlyphSize = 5

	/// FontSize is the size of the whole font table.
	///
	FontSize = 16 * GlyphSize
)

/// Frame is a copy of the display, one bool per pixel, row-major.
///
type Frame [Width * Height]bool

/// Pixel returns true if the pixel at x, y is set.
///
func (f *Frame) Pixel(x, y int) bool {
	return f[x+Width*y]
}

/// Machine is a CHIP-8 virtual machine.
///
type Machine struct {
	/// memory holds the font table at 0x000 and the program at 0x200.
	///
	memory [MemorySize]byte

	/// video is the display, see Frame.
	///
	video Frame

	/// pc is the program counter.
	///
	pc uint16

	/// sp is the number of return addresses on the stack.
	///
	sp uint8

	stack [StackDepth]uint16

	/// i is the address register.
	///
	i uint16

	/// v are the 16 virtual registers. VF doubles as the flag register.
	///
	v [16]byte

	/// dt and st are the delay and sound timers. They count down once
	/// per call to TickTimers.
	///
	dt byte
	st byte

	/// keys hold the current state of the 16-key pad.
	///
	keys [NumKeys]bool

	/// waiting is true while an FX0A is blocked; the pressed key will
	/// be stored in v[waitReg].
	///
	waiting bool
	waitReg uint8

	rng    *rand.Rand
	logger *log.Logger
}

/// Option configures a Machine created with New.
///
type Option func(*Machine)

/// WithRand sets the random source used by RND.
///
func WithRand(r *rand.Rand) Option {
	return func(vm *Machine) {
		vm.rng = r
	}
}

/// WithLogger attaches a logger. Every executed instruction is traced
/// at debug level.
///
func WithLogger(logger *log.Logger) Option {
	return func(vm *Machine) {
		vm.logger = logger
	}
}

/// New returns a reset CHIP-8 virtual machine with no program loaded.
///
func New(opts ...Option) *Machine {
	vm := &Machine{}

	for _, opt := range opts {
		opt(vm)
	}

	if vm.rng == nil {
		vm.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	vm.Reset()

	return vm
}

/// LoadFile reads a ROM file and returns a new virtual machine with
/// it loaded.
///
func LoadFile(file string, opts ...Option) (*Machine, error) {
	program, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading rom: %w", err)
	}

	vm := New(opts...)
	if err := vm.Load(program); err != nil {
		return nil, err
	}

	return vm, nil
}

/// Reset the virtual machine back to its initial state. Any loaded
/// program is erased.
///
func (vm *Machine) Reset() {
	*vm = Machine{
		rng:    vm.rng,
		logger: vm.logger,
	}

	// install the font sprites
	copy(vm.memory[:], fontSet[:])

	// all programs begin at 0x200
	vm.pc = ProgramStart
}

/// Load a program into memory at ProgramStart. Registers are left
/// alone, so Reset first when reusing a machine.
///
func (vm *Machine) Load(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%d bytes, %d available: %w", len(program), MaxProgramSize, ErrProgramTooLarge)
	}

	copy(vm.memory[ProgramStart:], program)

	if vm.logger != nil {
		vm.logger.Info("Program loaded", log.Int("size", len(program)))
	}

	return nil
}

/// SetKey updates the state of a single keypad key.
///
func (vm *Machine) SetKey(key int, pressed bool) error {
	if key < 0 || key >= NumKeys {
		return fmt.Errorf("key %d: %w", key, ErrKeyOutOfRange)
	}

	vm.keys[key] = pressed

	return nil
}

/// Key returns true if the key is currently pressed.
///
func (vm *Machine) Key(key int) bool {
	return key >= 0 && key < NumKeys && vm.keys[key]
}

/// Framebuffer returns a copy of the display.
///
func (vm *Machine) Framebuffer() Frame {
	return vm.video
}

/// TickTimers counts the delay and sound timers down by one, stopping
/// at zero. Call it at a fixed rate (60 Hz), independent of Step.
///
func (vm *Machine) TickTimers() {
	if vm.dt > 0 {
		vm.dt--
	}

	if vm.st > 0 {
		vm.st--
	}
}

/// Beeping is true while the sound timer is running. It goes false on
/// the tick that takes the sound timer from 1 to 0.
///
func (vm *Machine) Beeping() bool {
	return vm.st > 0
}

/// DelayTimer returns the current value of the delay timer.
///
func (vm *Machine) DelayTimer() byte {
	return vm.dt
}

/// SoundTimer returns the current value of the sound timer.
///
func (vm *Machine) SoundTimer() byte {
	return vm.st
}

/// PC returns the program counter.
///
func (vm *Machine) PC() uint16 {
	return vm.pc
}

/// I returns the address register.
///
func (vm *Machine) I() uint16 {
	return vm.i
}

/// SP returns the number of return addresses on the stack.
///
func (vm *Machine) SP() int {
	return int(vm.sp)
}

/// V returns the value of register Vx.
///
func (vm *Machine) V(x int) byte {
	return vm.v[x&0xF]
}

/// Registers returns a copy of V0-VF.
///
func (vm *Machine) Registers() [16]byte {
	return vm.v
}

/// Memory returns the byte at address, wrapped to 12 bits.
///
func (vm *Machine) Memory(address uint16) byte {
	return vm.memory[address&0xFFF]
}

/// Waiting is true while an FX0A instruction is waiting for a key.
///
func (vm *Machine) Waiting() bool {
	return vm.waiting
}

/// Step the virtual machine a single instruction. An error means the
/// program can't continue; the machine is left as it was before the
/// instruction was fetched.
///
func (vm *Machine) Step() error {
	if vm.waiting {
		vm.pollKey()
		return nil
	}

	address := vm.pc

	// fetch the next instruction
	opcode, err := vm.fetch()
	if err != nil {
		return err
	}

	inst, err := Decode(opcode)
	if err != nil {
		vm.pc = address
		return &OpcodeError{Opcode: opcode, Address: address}
	}

	if vm.logger != nil {
		vm.logger.Debug("Step",
			log.String("pc", fmt.Sprintf("%04X", address)),
			log.String("opcode", fmt.Sprintf("%04X", opcode)),
			log.String("instruction", inst.String()))
	}

	if err := vm.Execute(inst); err != nil {
		vm.pc = address
		return fmt.Errorf("%04X %s: %w", address, inst, err)
	}

	return nil
}

/// Fetch the next 16-bit instruction to execute.
///
func (vm *Machine) fetch() (uint16, error) {
	if vm.pc > MemorySize-2 {
		return 0, fmt.Errorf("fetch at %04X: %w", vm.pc, ErrAddressOutOfRange)
	}

	i := vm.pc

	// advance the program counter
	vm.pc += 2

	return uint16(vm.memory[i])<<8 | uint16(vm.memory[i+1]), nil
}

/// Execute a decoded instruction. The program counter is expected to
/// already point past it.
///
func (vm *Machine) Execute(inst Instruction) error {
	x, y, n := inst.X&0xF, inst.Y&0xF, inst.N&0xF

	switch inst.Op {
	case OpNop:
	case OpCls:
		vm.cls()
	case OpRet:
		return vm.ret()
	case OpJump:
		vm.jump(inst.NNN)
	case OpCall:
		return vm.call(inst.NNN)
	case OpSkipEqN:
		vm.skipWhen(vm.v[x] == inst.NN)
	case OpSkipNeN:
		vm.skipWhen(vm.v[x] != inst.NN)
	case OpSkipEqY:
		vm.skipWhen(vm.v[x] == vm.v[y])
	case OpSkipNeY:
		vm.skipWhen(vm.v[x] != vm.v[y])
	case OpLoadN:
		vm.v[x] = inst.NN
	case OpAddN:
		vm.v[x] += inst.NN
	case OpLoadY:
		vm.v[x] = vm.v[y]
	case OpOr:
		vm.v[x] |= vm.v[y]
	case OpAnd:
		vm.v[x] &= vm.v[y]
	case OpXor:
		vm.v[x] ^= vm.v[y]
	case OpAddY:
		vm.addXY(x, y)
	case OpSubY:
		vm.subXY(x, y)
	case OpShr:
		vm.shr(x)
	case OpSubN:
		vm.subYX(x, y)
	case OpShl:
		vm.shl(x)
	case OpLoadI:
		vm.i = inst.NNN
	case OpJumpV0:
		vm.jump(inst.NNN + uint16(vm.v[0]))
	case OpRnd:
		vm.v[x] = byte(vm.rng.Intn(256)) & inst.NN
	case OpDraw:
		return vm.drw(x, y, n)
	case OpSkipKey:
		vm.skipWhen(vm.keys[vm.v[x]&0xF])
	case OpSkipNotKey:
		vm.skipWhen(!vm.keys[vm.v[x]&0xF])
	case OpLoadDT:
		vm.v[x] = vm.dt
	case OpWaitKey:
		vm.loadXK(x)
	case OpSetDT:
		vm.dt = vm.v[x]
	case OpSetST:
		vm.st = vm.v[x]
	case OpAddI:
		vm.i += uint16(vm.v[x])
	case OpFont:
		vm.i = uint16(vm.v[x]) * GlyphSize
	case OpBCD:
		return vm.loadB(x)
	case OpStore:
		return vm.saveRegs(x)
	case OpRestore:
		return vm.loadRegs(x)
	default:
		return &OpcodeError{Opcode: inst.Opcode, Address: vm.pc - 2}
	}

	return nil
}

/// Clear the video display memory.
///
func (vm *Machine) cls() {
	vm.video = Frame{}
}

/// call a subroutine at address.
///
func (vm *Machine) call(address uint16) error {
	if vm.sp == StackDepth {
		return ErrStackOverflow
	}

	vm.stack[vm.sp] = vm.pc
	vm.sp++

	vm.pc = address

	return nil
}

/// return from subroutine.
///
func (vm *Machine) ret() error {
	if vm.sp == 0 {
		return ErrStackUnderflow
	}

	vm.sp--
	vm.pc = vm.stack[vm.sp]

	return nil
}

/// jump to address.
///
func (vm *Machine) jump(address uint16) {
	vm.pc = address
}

/// skip the next instruction if cond holds.
///
func (vm *Machine) skipWhen(cond bool) {
	if cond {
		vm.pc += 2
	}
}

/// add vy to vx and set carry.
///
func (vm *Machine) addXY(x, y uint8) {
	sum := uint16(vm.v[x]) + uint16(vm.v[y])

	vm.v[x] = byte(sum)
	vm.v[0xF] = byte(sum >> 8)
}

/// subtract vy from vx, set carry if no borrow.
///
func (vm *Machine) subXY(x, y uint8) {
	noBorrow := vm.v[x] >= vm.v[y]

	vm.v[x] -= vm.v[y]
	vm.v[0xF] = flag(noBorrow)
}

/// subtract vx from vy and store in vx, set carry if no borrow.
///
func (vm *Machine) subYX(x, y uint8) {
	noBorrow := vm.v[y] >= vm.v[x]

	vm.v[x] = vm.v[y] - vm.v[x]
	vm.v[0xF] = flag(noBorrow)
}

/// shr vx 1 bit, set carry to LSB of vx before shift.
///
func (vm *Machine) shr(x uint8) {
	lsb := vm.v[x] & 1

	vm.v[x] >>= 1
	vm.v[0xF] = lsb
}

/// shl vx 1 bit, set carry to MSB of vx before shift.
///
func (vm *Machine) shl(x uint8) {
	msb := vm.v[x] >> 7

	vm.v[x] <<= 1
	vm.v[0xF] = msb
}

/// draw an n-row sprite at I to video memory at vx, vy. Pixels that
/// fall off an edge wrap around to the other side.
///
func (vm *Machine) drw(x, y, n uint8) error {
	if err := vm.checkRange(uint16(n)); err != nil {
		return err
	}

	ox := int(vm.v[x])
	oy := int(vm.v[y])

	// were any pixels turned off?
	c := false

	for row, s := range vm.memory[vm.i : vm.i+uint16(n)] {
		py := (oy + row) % Height

		for col := 0; col < 8; col++ {
			if s&(0x80>>col) == 0 {
				continue
			}

			p := (ox+col)%Width + Width*py

			c = c || vm.video[p]
			vm.video[p] = !vm.video[p]
		}
	}

	vm.v[0xF] = flag(c)

	return nil
}

/// load vx with next key hit (blocking).
///
func (vm *Machine) loadXK(x uint8) {
	vm.waiting = true
	vm.waitReg = x

	// a key that's already down satisfies the wait immediately
	vm.pollKey()
}

/// pollKey ends a key wait if any key is down, lowest index first.
///
func (vm *Machine) pollKey() {
	for k, pressed := range vm.keys {
		if pressed {
			vm.v[vm.waitReg] = byte(k)
			vm.waiting = false
			return
		}
	}
}

/// load address with BCD of vx.
///
func (vm *Machine) loadB(x uint8) error {
	if err := vm.checkRange(3); err != nil {
		return err
	}

	n := vm.v[x]

	vm.memory[vm.i+0] = n / 100
	vm.memory[vm.i+1] = n / 10 % 10
	vm.memory[vm.i+2] = n % 10

	return nil
}

/// save registers v0..vx to I.
///
func (vm *Machine) saveRegs(x uint8) error {
	if err := vm.checkRange(uint16(x) + 1); err != nil {
		return err
	}

	copy(vm.memory[vm.i:], vm.v[:x+1])

	return nil
}

/// load registers v0..vx from I.
///
func (vm *Machine) loadRegs(x uint8) error {
	if err := vm.checkRange(uint16(x) + 1); err != nil {
		return err
	}

	copy(vm.v[:x+1], vm.memory[vm.i:])

	return nil
}

/// checkRange verifies that n bytes starting at I are all in memory.
///
func (vm *Machine) checkRange(n uint16) error {
	if uint32(vm.i)+uint32(n) > MemorySize {
		return fmt.Errorf("%d bytes at I=%04X: %w", n, vm.i, ErrAddressOutOfRange)
	}

	return nil
}

func flag(b bool) byte {
	if b {
		return 1
	}

	return 0
}
