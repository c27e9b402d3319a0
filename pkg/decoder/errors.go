package decoder

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOpcode classifies a leading byte that matches none of the known forms.
	ErrUnknownOpcode = errors.New("byte matched no known opcodes")
	// ErrTruncated classifies a stream that ended in the middle of an instruction.
	ErrTruncated = errors.New("unexpected end of the instruction stream")
)

// DecodeError is the only failure the decoder produces. Opcode is the leading byte
// of the instruction that could not be decoded.
type DecodeError struct {
	Opcode  byte
	Message string

	kind error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed decode starting from byte %X: %s", e.Opcode, e.Message)
}

// Is reports whether the error belongs to the class of target
// (ErrUnknownOpcode or ErrTruncated).
func (e *DecodeError) Is(target error) bool {
	return e.kind != nil && e.kind == target
}

func unknownOpcode(opcode byte) *DecodeError {
	return &DecodeError{
		Opcode:  opcode,
		Message: ErrUnknownOpcode.Error(),
		kind:    ErrUnknownOpcode,
	}
}

func truncated(opcode byte, message string) *DecodeError {
	return &DecodeError{
		Opcode:  opcode,
		Message: message,
		kind:    ErrTruncated,
	}
}
