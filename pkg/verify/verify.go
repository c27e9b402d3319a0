// Package verify checks decoded output against independent tools: a reference
// x86 decoder and an assembler that turns the text back into machine code.
package verify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"golang.org/x/arch/x86/x86asm"

	"github.com/doichev-kostia/computer-enhance/sim8086/pkg/decoder"
)

// ErrMismatch is returned when reassembled bytes differ from the source.
var ErrMismatch = errors.New("reassembled bytes differ from the source")

// Mismatch is a decoded instruction the reference decoder disagrees with.
type Mismatch struct {
	Offset int
	Bytes  []byte
	Text   string
	Reason string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%04X [% X] %s: %s", m.Offset, m.Bytes, m.Text, m.Reason)
}

// CrossCheck decodes the bytes of every record again in 16-bit mode with x86asm.
// The reference decoder has to read exactly the same bytes and see a MOV.
func CrossCheck(records []decoder.Decoded) []Mismatch {
	var mismatches []Mismatch

	for _, record := range records {
		reason := ""

		inst, err := x86asm.Decode(record.Bytes, 16)
		switch {
		case err != nil:
			reason = fmt.Sprintf("reference decoder failed: %v", err)
		case inst.Len != len(record.Bytes):
			reason = fmt.Sprintf("decoded %d bytes, reference decoder reads %d", len(record.Bytes), inst.Len)
		case inst.Op != x86asm.MOV:
			reason = fmt.Sprintf("reference decoder sees %s", inst.Op)
		}

		if reason != "" {
			mismatches = append(mismatches, Mismatch{
				Offset: record.Offset,
				Bytes:  record.Bytes,
				Text:   record.String(),
				Reason: reason,
			})
		}
	}

	return mismatches
}

// Assemble runs a NASM compatible assembler on asm and returns the bytes it produced.
func Assemble(ctx context.Context, assembler string, asm []byte) ([]byte, error) {
	dir, err := os.MkdirTemp("", "sim8086-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create a scratch directory: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "decoded.asm")
	out := filepath.Join(dir, "decoded")

	if err := os.WriteFile(in, asm, 0o644); err != nil {
		return nil, fmt.Errorf("failed to flush the decoded asm: %w", err)
	}

	cmd := exec.CommandContext(ctx, assembler, "-o", out, in)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s err: %w: %s", assembler, err, bytes.TrimSpace(output))
	}

	return os.ReadFile(out)
}

// Compare reports the first difference between the source and the reassembled bytes.
func Compare(source []byte, assembled []byte) error {
	for idx := 0; idx < len(source) && idx < len(assembled); idx++ {
		if source[idx] != assembled[idx] {
			return fmt.Errorf("%w: byte %d doesn't match, expected %02X, got %02X", ErrMismatch, idx, source[idx], assembled[idx])
		}
	}

	if len(source) != len(assembled) {
		return fmt.Errorf("%w: length mismatch, expected %d bytes, got %d", ErrMismatch, len(source), len(assembled))
	}

	return nil
}

// RoundTrip assembles asm and checks that it reproduces source exactly.
func RoundTrip(ctx context.Context, assembler string, asm []byte, source []byte) error {
	assembled, err := Assemble(ctx, assembler, asm)
	if err != nil {
		return err
	}
	return Compare(source, assembled)
}
