package decoder

// D bit - Direction of the operation
const (
	RegIsSource      = 0
	RegIsDestination = 1
)

// W bit
const (
	ByteOperation = byte(0)
	WordOperation = byte(1)
)

// [100010|d|w] [mod|reg|r/m] [disp-lo] [disp-hi]
func moveRegMemToReg(operation byte, d *Decoder) (Instruction, error) {
	dir := (operation >> 1) & 0b00000001
	isWord := operation&0b00000001 == WordOperation

	operand, err := d.cursor.takeByte(operation, "missing second byte for the 'register/memory to/from register' instruction")
	if err != nil {
		return Instruction{}, err
	}

	mod, reg, rm := parseOperand(operand)

	regOrMem, err := d.decodeRegOrMem(operation, mod, rm, isWord)
	if err != nil {
		return Instruction{}, err
	}
	register := registerFor(reg, isWord)

	if dir == RegIsSource {
		return Instruction{Operation: OpMove, Source: register, Destination: regOrMem}, nil
	}
	return Instruction{Operation: OpMove, Source: regOrMem, Destination: register}, nil
}

// [1100011|w] [mod|000|r/m] [disp-lo] [disp-hi] [data] [data if w=1]
//
// The reg field is reserved and is not checked.
// With mod = 11 the text carries no size keyword, so an assembler picks the
// shorter [1011|w|reg] encoding for it and the bytes do not round trip.
func moveImmediateToRegOrMem(operation byte, d *Decoder) (Instruction, error) {
	isWord := operation&0b00000001 == WordOperation

	operand, err := d.cursor.takeByte(operation, "missing second byte for the 'immediate to register/memory' instruction")
	if err != nil {
		return Instruction{}, err
	}

	mod, _, rm := parseOperand(operand)

	dest, err := d.decodeRegOrMem(operation, mod, rm, isWord)
	if err != nil {
		return Instruction{}, err
	}

	immediate, err := d.decodeImmediate(operation, isWord)
	if err != nil {
		return Instruction{}, err
	}
	// the width of a memory destination is otherwise unknown to the assembler
	_, immediate.Explicit = dest.(Memory)

	return Instruction{Operation: OpMove, Source: immediate, Destination: dest}, nil
}

// [1011|w|reg] [data] [data if w = 1]
func moveImmediateToReg(operation byte, d *Decoder) (Instruction, error) {
	isWord := (operation>>3)&0b00000001 == WordOperation
	reg := operation & 0b00000111

	immediate, err := d.decodeImmediate(operation, isWord)
	if err != nil {
		return Instruction{}, err
	}

	return Instruction{Operation: OpMove, Source: immediate, Destination: registerFor(reg, isWord)}, nil
}

// [1010000|w] [addr-lo] [addr-hi] memory to accumulator
// [1010001|w] [addr-lo] [addr-hi] accumulator to memory
func moveAccumulatorMemory(operation byte, d *Decoder) (Instruction, error) {
	w := operation & 0b00000001
	toMemory := (operation>>1)&0b00000001 == 1

	address, err := d.cursor.takeWord(operation, "missing bytes for direct address")
	if err != nil {
		return Instruction{}, err
	}
	memory := directAddress(address)

	accumulator := AX
	if w == ByteOperation {
		accumulator = AL
	}

	if toMemory {
		return Instruction{Operation: OpMove, Source: accumulator, Destination: memory}, nil
	}
	return Instruction{Operation: OpMove, Source: memory, Destination: accumulator}, nil
}

// [xxx|w] [data-lo] [data-hi]
func (d *Decoder) decodeImmediate(operation byte, isWord bool) (Immediate, error) {
	if isWord {
		value, err := d.cursor.takeWord(operation, "missing bytes for 16-bit immediate")
		if err != nil {
			return Immediate{}, err
		}
		return Immediate{Value: value, IsWord: true}, nil
	}

	value, err := d.cursor.takeByte(operation, "missing byte for 8-bit immediate")
	if err != nil {
		return Immediate{}, err
	}
	return Immediate{Value: uint16(value)}, nil
}
