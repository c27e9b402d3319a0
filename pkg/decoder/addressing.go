package decoder

// MOD field
//
// The MOD field indicates how many displacement bytes are present.
// Following Intel convention, if the displacement is two bytes,
// the most-significant byte is stored second in the instruction. (Little Endian)
// If the displacement is only a single byte, the 8086 or 8088 __automatically sign-extends__ (section 2.8, page 2-68)
// this quantity to 16-bits before using the information in further address calculations.
// Immediate values __always__ follow any displacement values that __may__ be present. (data-low, data-high)
const (
	MemoryModeNoDisplacementFieldEncoding = 0b00
	MemoryMode8DisplacementFieldEncoding  = 0b01
	MemoryMode16DisplacementFieldEncoding = 0b10
	RegisterModeFieldEncoding             = 0b11
)

// directAddressRM is the r/m value that means "direct address" when MOD = 00.
const directAddressRM = 0b110

// [mod|reg|r/m]
//
//	2   3   3
func parseOperand(operand byte) (mod byte, reg byte, rm byte) {
	mod = operand >> 6
	reg = (operand >> 3) & 0b00000111
	rm = operand & 0b00000111
	return mod, reg, rm
}

// decodeRegOrMem resolves the r/m side of a [mod|reg|r/m] byte, reading whatever
// displacement the mode calls for.
func (d *Decoder) decodeRegOrMem(opcode byte, mod byte, rm byte, isWord bool) (Reference, error) {
	switch mod {
	case RegisterModeFieldEncoding:
		return registerFor(rm, isWord), nil

	case MemoryModeNoDisplacementFieldEncoding:
		// the exception for the direct address - 16-bit displacement for the direct address
		if rm == directAddressRM {
			address, err := d.cursor.takeWord(opcode, "missing bytes for direct address")
			if err != nil {
				return nil, err
			}
			return directAddress(address), nil
		}
		return effectiveAddress(rm, 0), nil

	case MemoryMode8DisplacementFieldEncoding:
		displacement, err := d.cursor.takeByte(opcode, "missing byte for 8-bit displacement")
		if err != nil {
			return nil, err
		}
		return effectiveAddress(rm, int32(int8(displacement))), nil

	case MemoryMode16DisplacementFieldEncoding:
		displacement, err := d.cursor.takeWord(opcode, "missing bytes for 16-bit displacement")
		if err != nil {
			return nil, err
		}
		return effectiveAddress(rm, int32(int16(displacement))), nil

	default:
		panic("The mod field should only be 2 bits")
	}
}

func effectiveAddress(rm byte, offset int32) Memory {
	bases := effectiveAddressBases[rm&0b111]
	return Memory{
		Bases:  append([]Register(nil), bases...),
		Offset: offset,
	}
}

// directAddress is a bare, unsigned 16-bit address.
func directAddress(address uint16) Memory {
	return Memory{Offset: int32(address)}
}
