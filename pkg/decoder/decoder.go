package decoder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Instruction reference for 8086 CPU (https://edge.edx.org/c4x/BITSPilani/EEE231/asset/8086_family_Users_Manual_1_.pdf | page 161(pdf))
// The "Instruction reference"👆
// [opcode|d|w] [mod|reg|r/m] [displacement-low] [displacement-high] [data-low] [data-high]
//    6    1 1    2   3   3
// The intel x86 processors use Little Endian, so the low byte comes first
// Disp-lo (Displacement low) - Low-order byte of optional 8- or 16-bit displacement; MOD indicates if present.
// Disp-hi (Displacement High) - High-order byte of optional 16-bit displacement; MOD indicates if present.
// Data-lo (Data low) - Low-order byte of 16-bit immediate constant.
// Data-hi (Data high) - High-order byte of 16-bit immediate constant.

// Header is the first line of every translation.
const Header = "bits 16"

// Form is the machine encoding an instruction was decoded from.
type Form uint8

const (
	FormRegMemToFromReg Form = iota + 1
	FormImmToRegMem
	FormImmToReg
	FormAccumulatorMemory
)

func (f Form) String() string {
	switch f {
	case FormRegMemToFromReg:
		return "register/memory to/from register"
	case FormImmToRegMem:
		return "immediate to register/memory"
	case FormImmToReg:
		return "immediate to register"
	case FormAccumulatorMemory:
		return "accumulator to/from memory"
	default:
		return "unknown"
	}
}

type extractor func(operation byte, d *Decoder) (Instruction, error)

type opcodePattern struct {
	mask    byte
	value   byte
	form    Form
	extract extractor
}

// Checked in order, first match wins.
var opcodePatterns = [...]opcodePattern{
	// MOV: Register/memory to/from register
	{mask: 0xFC, value: 0x88, form: FormRegMemToFromReg, extract: moveRegMemToReg},
	// MOV: immediate to register/memory
	{mask: 0xFE, value: 0xC6, form: FormImmToRegMem, extract: moveImmediateToRegOrMem},
	// MOV: immediate to register
	{mask: 0xF0, value: 0xB0, form: FormImmToReg, extract: moveImmediateToReg},
	// MOV: memory to accumulator / accumulator to memory
	{mask: 0xFC, value: 0xA0, form: FormAccumulatorMemory, extract: moveAccumulatorMemory},
}

func matchOpcode(operation byte) (opcodePattern, bool) {
	for _, p := range opcodePatterns {
		if operation&p.mask == p.value {
			return p, true
		}
	}
	return opcodePattern{}, false
}

// Decoded is an instruction together with where it came from.
type Decoded struct {
	Instruction

	Offset int
	Bytes  []byte
	Form   Form
}

// Decoder translates a buffer of machine code one instruction at a time.
// A Decoder owns its input and is not safe for concurrent use.
type Decoder struct {
	cursor  *cursor
	decoded []Decoded
	logger  *slog.Logger
	err     error
}

func NewDecoder(bytes []byte) *Decoder {
	return &Decoder{
		cursor:  newCursor(bytes),
		decoded: make([]Decoded, 0),
		logger:  slog.Default(),
	}
}

// WithLogger sets the logger decoding progress is reported to.
func (d *Decoder) WithLogger(logger *slog.Logger) *Decoder {
	if logger != nil {
		d.logger = logger
	}
	return d
}

// Next decodes the following instruction. It returns false with a nil error once
// the input is exhausted. After an error no further bytes are consumed and every
// later call returns that same error.
func (d *Decoder) Next() (Decoded, bool, error) {
	if d.err != nil {
		return Decoded{}, false, d.err
	}

	start := d.cursor.offset()

	operation, ok := d.cursor.next()
	if ok == false {
		return Decoded{}, false, nil
	}

	pattern, ok := matchOpcode(operation)
	if !ok {
		return Decoded{}, false, d.fail(start, unknownOpcode(operation))
	}

	instruction, err := pattern.extract(operation, d)
	if err != nil {
		return Decoded{}, false, d.fail(start, err)
	}

	decoded := Decoded{
		Instruction: instruction,
		Offset:      start,
		Bytes:       d.cursor.span(start),
		Form:        pattern.form,
	}
	d.decoded = append(d.decoded, decoded)

	d.logger.Log(context.Background(), LevelTrace, "decoded",
		"offset", decoded.Offset,
		"bytes", fmt.Sprintf("% X", decoded.Bytes),
		"form", decoded.Form.String(),
		"text", decoded.String(),
	)

	return decoded, true, nil
}

// Decode writes the header and then one line per instruction to sink until the
// input is exhausted. Lines written before a failure stay written.
func (d *Decoder) Decode(sink LineSink) error {
	if err := sink.WriteLine(Header); err != nil {
		return fmt.Errorf("failed to write the header: %w", err)
	}

	for {
		decoded, ok, err := d.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		if err := sink.WriteLine(decoded.String()); err != nil {
			return fmt.Errorf("failed to write the instruction at offset %d: %w", decoded.Offset, err)
		}
	}
}

// GetDecoded returns every instruction decoded so far.
func (d *Decoder) GetDecoded() []Decoded {
	return d.decoded
}

// fail makes err sticky so later calls to Next return it without reading.
func (d *Decoder) fail(offset int, err error) error {
	d.err = err
	d.logger.Debug("decode failed", "offset", offset, "err", err)
	return err
}

// Disassemble decodes the whole buffer. On failure it returns the instructions
// decoded before the failing one along with the error.
func Disassemble(source []byte) ([]Decoded, error) {
	d := NewDecoder(source)
	for {
		_, ok, err := d.Next()
		if err != nil {
			return d.GetDecoded(), err
		}
		if !ok {
			return d.GetDecoded(), nil
		}
	}
}

// Translate writes the assembly text for source to w.
func Translate(source []byte, w io.Writer) error {
	return NewDecoder(source).Decode(NewWriterSink(w))
}
