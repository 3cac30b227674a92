package chip8

import (
	"errors"
	"fmt"
)

var (
	/// ErrProgramTooLarge is returned by Load when a program does not fit
	/// between ProgramStart and the end of memory.
	///
	ErrProgramTooLarge = errors.New("program too large to fit in memory")

	/// ErrInvalidOpcode is wrapped by every OpcodeError.
	///
	ErrInvalidOpcode = errors.New("invalid opcode")

	/// ErrKeyOutOfRange is returned by SetKey for an index outside 0x0-0xF.
	///
	ErrKeyOutOfRange = errors.New("key index out of range")

	/// ErrStackOverflow is returned when a CALL would exceed the stack depth.
	///
	ErrStackOverflow = errors.New("stack overflow")

	/// ErrStackUnderflow is returned when a RET is executed on an empty stack.
	///
	ErrStackUnderflow = errors.New("stack underflow")

	/// ErrAddressOutOfRange is returned when a fetch or an I-relative access
	/// would read or write outside of memory.
	///
	ErrAddressOutOfRange = errors.New("address out of range")
)

/// OpcodeError is returned when a fetched word does not decode to any
/// known instruction.
///
type OpcodeError struct {
	Opcode  uint16
	Address uint16
}

/// Error describes the opcode and where it was fetched from.
///
func (e *OpcodeError) Error() string {
	return fmt.Sprintf("invalid opcode %04X at %04X", e.Opcode, e.Address)
}

/// Unwrap lets errors.Is match ErrInvalidOpcode.
///
func (e *OpcodeError) Unwrap() error {
	return ErrInvalidOpcode
}
