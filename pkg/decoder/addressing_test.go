package decoder

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Addressing modes", func() {
	It("should split the mod, reg and r/m fields", func() {
		mod, reg, rm := parseOperand(0xD9) // 11 011 001
		Expect(mod).To(Equal(byte(0b11)))
		Expect(reg).To(Equal(byte(0b011)))
		Expect(rm).To(Equal(byte(0b001)))
	})

	It("should resolve register mode through the register table", func() {
		d := NewDecoder(nil)

		ref, err := d.decodeRegOrMem(0x88, RegisterModeFieldEncoding, 0b100, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(ref).To(Equal(AH))

		ref, err = d.decodeRegOrMem(0x89, RegisterModeFieldEncoding, 0b100, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(ref).To(Equal(SP))
	})

	It("should read a bare direct address for mod 00 r/m 110", func() {
		d := NewDecoder([]byte{0x82, 0x0D})

		ref, err := d.decodeRegOrMem(0x8B, MemoryModeNoDisplacementFieldEncoding, 0b110, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(ref).To(Equal(Memory{Offset: 3458}))
		Expect(ref.(Memory).Bases).To(BeEmpty())
	})

	It("should keep direct addresses unsigned", func() {
		d := NewDecoder([]byte{0x40, 0x9C})

		ref, err := d.decodeRegOrMem(0x8B, MemoryModeNoDisplacementFieldEncoding, 0b110, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(ref.String()).To(Equal("[40000]"))
	})

	It("should not read displacement bytes for other mod 00 values", func() {
		for rm := byte(0); rm < 8; rm++ {
			if rm == directAddressRM {
				continue
			}
			d := NewDecoder([]byte{0xFF})

			ref, err := d.decodeRegOrMem(0x8B, MemoryModeNoDisplacementFieldEncoding, rm, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(ref.(Memory).Offset).To(BeZero())
			Expect(ref.(Memory).Bases).NotTo(BeEmpty())
			Expect(d.cursor.offset()).To(Equal(0))
		}
	})

	It("should sign extend an 8-bit displacement", func() {
		d := NewDecoder([]byte{0xDB})

		ref, err := d.decodeRegOrMem(0x89, MemoryMode8DisplacementFieldEncoding, 0b110, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(ref).To(Equal(Memory{Bases: []Register{BP}, Offset: -37}))
	})

	It("should read a 16-bit displacement", func() {
		d := NewDecoder([]byte{0x10, 0x27})

		ref, err := d.decodeRegOrMem(0x8B, MemoryMode16DisplacementFieldEncoding, 0b000, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(ref).To(Equal(Memory{Bases: []Register{BX, SI}, Offset: 10000}))
	})

	It("should fail when the displacement is missing", func() {
		d := NewDecoder([]byte{0x10})

		_, err := d.decodeRegOrMem(0x8B, MemoryMode16DisplacementFieldEncoding, 0b000, true)
		Expect(err).To(MatchError(ErrTruncated))
	})

	It("should not share the expression table with decoded references", func() {
		mem := effectiveAddress(0b000, 0)
		mem.Bases[0] = DI
		Expect(effectiveAddressBases[0]).To(Equal([]Register{BX, SI}))
	})
})
