package decoder

import (
	"fmt"
	"strconv"
	"strings"
)

// Operation tags an Instruction. Only OpMove is decoded today.
type Operation uint8

const (
	OpMove Operation = iota
)

// Mnemonic is the assembler keyword of the operation.
func (o Operation) Mnemonic() string {
	switch o {
	case OpMove:
		return "mov"
	default:
		return fmt.Sprintf("op%d", uint8(o))
	}
}

func (o Operation) String() string {
	return o.Mnemonic()
}

// Reference is an instruction operand: a Register, a Memory expression or an Immediate.
type Reference interface {
	fmt.Stringer
	reference()
}

// Memory is [base + base + offset]. Bases holds zero, one or two distinct registers
// drawn from bx, bp, si and di. Offset is sign extended or not by the decoder,
// depending on where it came from.
type Memory struct {
	Bases  []Register
	Offset int32
}

func (Memory) reference() {}

func (m Memory) String() string {
	var builder strings.Builder
	builder.WriteString("[")
	for _, base := range m.Bases {
		builder.WriteString(base.String())
		builder.WriteString(" + ")
	}
	builder.WriteString(strconv.Itoa(int(m.Offset)))
	builder.WriteString("]")
	return builder.String()
}

// Immediate is a constant operand. Explicit is set when the destination is memory,
// where nothing else tells the assembler the operand width.
type Immediate struct {
	Value    uint16
	IsWord   bool
	Explicit bool
}

func (Immediate) reference() {}

func (i Immediate) String() string {
	return strconv.Itoa(int(i.Value))
}

// SizeKeyword returns "byte" or "word" for explicitly sized immediates, "" otherwise.
func (i Immediate) SizeKeyword() string {
	if !i.Explicit {
		return ""
	}
	if i.IsWord {
		return "word"
	}
	return "byte"
}

// Instruction is a decoded instruction. The direction bit has already been applied:
// Source and Destination are final.
type Instruction struct {
	Operation   Operation
	Source      Reference
	Destination Reference
}

// String renders the instruction in NASM syntax, destination first.
func (i Instruction) String() string {
	switch i.Operation {
	case OpMove:
		return formatBinary(i.Operation.Mnemonic(), i.Destination, i.Source)
	default:
		return fmt.Sprintf("; unsupported operation %s", i.Operation)
	}
}

// formatBinary renders "<mnemonic> [size ]<dest>, <src>".
// mov byte [bp + 75], 12
// mov word [bp + 75], 512
func formatBinary(mnemonic string, dest Reference, src Reference) string {
	var builder strings.Builder
	builder.WriteString(mnemonic)
	builder.WriteString(" ")

	if imm, ok := src.(Immediate); ok {
		if size := imm.SizeKeyword(); size != "" {
			builder.WriteString(size + " ")
		}
	}

	builder.WriteString(formatReference(dest))
	builder.WriteString(", ")
	builder.WriteString(formatReference(src))
	return builder.String()
}

func formatReference(ref Reference) string {
	switch r := ref.(type) {
	case Register:
		return r.String()
	case Memory:
		return r.String()
	case Immediate:
		return r.String()
	default:
		panic(fmt.Sprintf("AssertionError: unexpected reference %T", ref))
	}
}
