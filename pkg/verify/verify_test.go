package verify_test

import (
	"bytes"
	"context"
	"os/exec"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/doichev-kostia/computer-enhance/sim8086/pkg/decoder"
	"github.com/doichev-kostia/computer-enhance/sim8086/pkg/verify"
)

// Every form and addressing mode, written the way the assembler encodes it back.
const movListing = `bits 16

mov cx, bx
mov ch, ah
mov dx, bx
mov si, bx
mov bx, di
mov al, cl
mov bp, sp
mov cl, 12
mov ch, -12
mov cx, 12
mov cx, -12
mov dx, 3948
mov dx, -3948
mov al, [bx + si]
mov bx, [bp + di]
mov dx, [bp]
mov ah, [bx + si + 4]
mov al, [bx + si + 4999]
mov [bx + di], cx
mov [bp + si], cl
mov [bp], ch
mov ax, [bx + di - 37]
mov [si - 300], cx
mov dx, [bx - 32]
mov [bp + di], byte 7
mov [di + 901], word 347
mov bp, [5]
mov bx, [3458]
mov ax, [2555]
mov ax, [16]
mov [2554], ax
mov [15], ax
mov al, [9]
mov [7], al
`

var canonical = [][]byte{
	{0x89, 0xD9},
	{0xB0, 0x05},
	{0xB9, 0xF4, 0xFF},
	{0xC6, 0x06, 0x00, 0x00, 0x07},
	{0xC7, 0x85, 0x85, 0x03, 0x5B, 0x01},
	{0x8B, 0x00},
	{0x89, 0x4E, 0xDB},
	{0x8B, 0x87, 0x10, 0x27},
	{0x8B, 0x1E, 0x82, 0x0D},
	{0xA0, 0x10, 0x00},
	{0xA3, 0xFA, 0x09},
}

func requireTool(name string) string {
	path, err := exec.LookPath(name)
	if err != nil {
		Skip(name + " is not installed")
	}
	return path
}

var _ = Describe("CrossCheck", func() {
	It("should agree with the reference decoder on every form", func() {
		records, err := decoder.Disassemble(bytes.Join(canonical, nil))
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(len(canonical)))

		Expect(verify.CrossCheck(records)).To(BeEmpty())
	})

	It("should report a length disagreement", func() {
		record := decoder.Decoded{
			Instruction: decoder.Instruction{Operation: decoder.OpMove, Source: decoder.BX, Destination: decoder.CX},
			Offset:      6,
			Bytes:       []byte{0x89, 0xD9, 0x90},
		}

		mismatches := verify.CrossCheck([]decoder.Decoded{record})
		Expect(mismatches).To(HaveLen(1))
		Expect(mismatches[0].Offset).To(Equal(6))
		Expect(mismatches[0].Reason).To(Equal("decoded 3 bytes, reference decoder reads 2"))
		Expect(mismatches[0].String()).To(HavePrefix("0006 [89 D9 90] mov cx, bx: "))
	})

	It("should report an operation disagreement", func() {
		record := decoder.Decoded{
			Instruction: decoder.Instruction{Operation: decoder.OpMove, Source: decoder.AX, Destination: decoder.AX},
			Bytes:       []byte{0x90},
		}

		mismatches := verify.CrossCheck([]decoder.Decoded{record})
		Expect(mismatches).To(HaveLen(1))
		Expect(mismatches[0].Reason).To(HavePrefix("reference decoder sees"))
	})
})

var _ = Describe("Compare", func() {
	It("should accept identical bytes", func() {
		Expect(verify.Compare([]byte{1, 2, 3}, []byte{1, 2, 3})).To(Succeed())
	})

	It("should point at the first differing byte", func() {
		err := verify.Compare([]byte{1, 2, 3}, []byte{1, 5, 3})
		Expect(err).To(MatchError(verify.ErrMismatch))
		Expect(err.Error()).To(ContainSubstring("byte 1 doesn't match, expected 02, got 05"))
	})

	It("should report a length mismatch", func() {
		err := verify.Compare([]byte{1, 2}, []byte{1, 2, 3})
		Expect(err).To(MatchError(verify.ErrMismatch))
		Expect(err.Error()).To(ContainSubstring("expected 2 bytes, got 3"))
	})
})

var _ = Describe("RoundTrip", func() {
	It("should reproduce the canonical encodings", func() {
		nasm := requireTool("nasm")
		source := bytes.Join(canonical, nil)

		var asm bytes.Buffer
		Expect(decoder.Translate(source, &asm)).To(Succeed())

		Expect(verify.RoundTrip(context.Background(), nasm, asm.Bytes(), source)).To(Succeed())
	})

	It("should reproduce an assembled listing", func() {
		nasm := requireTool("nasm")

		source, err := verify.Assemble(context.Background(), nasm, []byte(movListing))
		Expect(err).NotTo(HaveOccurred())

		records, err := decoder.Disassemble(source)
		Expect(err).NotTo(HaveOccurred())
		Expect(verify.CrossCheck(records)).To(BeEmpty())

		var asm bytes.Buffer
		Expect(decoder.Translate(source, &asm)).To(Succeed())

		Expect(verify.RoundTrip(context.Background(), nasm, asm.Bytes(), source)).To(Succeed())
	})

	It("should surface assembler failures", func() {
		failing := requireTool("false")

		_, err := verify.Assemble(context.Background(), failing, []byte("bits 16\n"))
		Expect(err).To(HaveOccurred())
	})
})
