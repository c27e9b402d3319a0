package decoder

import "encoding/binary"

// cursor is a forward-only reader over the instruction stream.
// The position only ever grows.
type cursor struct {
	bytes []byte
	pos   int
}

func newCursor(bytes []byte) *cursor {
	return &cursor{bytes: bytes}
}

// next returns the following byte, or false once the stream is exhausted.
func (c *cursor) next() (byte, bool) {
	if len(c.bytes) > c.pos {
		b := c.bytes[c.pos]
		c.pos += 1
		return b, true
	} else {
		return 0, false
	}
}

// takeByte is next for callers that are in the middle of an instruction:
// running out of bytes there is a decode failure attributed to opcode.
func (c *cursor) takeByte(opcode byte, message string) (byte, error) {
	b, ok := c.next()
	if ok == false {
		return 0, truncated(opcode, message)
	}

	return b, nil
}

// takeWord reads two bytes, low byte first (the 8086 is little endian).
func (c *cursor) takeWord(opcode byte, message string) (uint16, error) {
	low, err := c.takeByte(opcode, message)
	if err != nil {
		return 0, err
	}
	high, err := c.takeByte(opcode, message)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16([]byte{low, high}), nil
}

func (c *cursor) offset() int {
	return c.pos
}

// span returns the bytes consumed between from and the current position.
func (c *cursor) span(from int) []byte {
	out := make([]byte, c.pos-from)
	copy(out, c.bytes[from:c.pos])
	return out
}
