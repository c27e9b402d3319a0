package decoder

// Register is one of the sixteen general purpose register names.
type Register uint8

const (
	AL Register = iota
	CL
	DL
	BL
	AH
	CH
	DH
	BH
	AX
	CX
	DX
	BX
	SP
	BP
	SI
	DI
)

var registerNames = [...]string{
	AL: "al", CL: "cl", DL: "dl", BL: "bl",
	AH: "ah", CH: "ch", DH: "dh", BH: "bh",
	AX: "ax", CX: "cx", DX: "dx", BX: "bx",
	SP: "sp", BP: "bp", SI: "si", DI: "di",
}

func (r Register) String() string {
	if int(r) < len(registerNames) {
		return registerNames[r]
	}
	return "?"
}

func (Register) reference() {}

// REG (Register) field encoding
// | REG | W = 0 | W = 1|
// ---------------------
// | 000 | AL    | AX   |
// | 001 | CL    | CX   |
// | 010 | DL    | DX   |
// | 011 | BL    | BX   |
// | 100 | AH    | SP   |
// | 101 | CH    | BP   |
// | 110 | DH    | SI   |
// | 111 | BH    | DI   |
var (
	byteOperationRegisters = [8]Register{AL, CL, DL, BL, AH, CH, DH, BH}
	wordOperationRegisters = [8]Register{AX, CX, DX, BX, SP, BP, SI, DI}
)

// registerFor resolves a 3-bit register field. Only the low three bits of field are used.
func registerFor(field byte, isWord bool) Register {
	if isWord {
		return wordOperationRegisters[field&0b111]
	}
	return byteOperationRegisters[field&0b111]
}

// effectiveAddressBases is Table 4-10 of the 8086 manual, r/m: base registers.
// For MOD = 00 the r/m value 110 is a direct address instead of [bp].
var effectiveAddressBases = [8][]Register{
	0b000: {BX, SI},
	0b001: {BX, DI},
	0b010: {BP, SI},
	0b011: {BP, DI},
	0b100: {SI},
	0b101: {DI},
	0b110: {BP},
	0b111: {BX},
}
