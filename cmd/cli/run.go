package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/k0kubun/pp/v3"

	"github.com/doichev-kostia/computer-enhance/sim8086/pkg/config"
	"github.com/doichev-kostia/computer-enhance/sim8086/pkg/decoder"
	"github.com/doichev-kostia/computer-enhance/sim8086/pkg/listing"
	"github.com/doichev-kostia/computer-enhance/sim8086/pkg/verify"
)

// run translates source into out. Diagnostics (listing, dumps) go to diag.
// Lines already written to out stay there when decoding fails halfway.
func run(ctx context.Context, cfg config.Config, source []byte, out io.Writer, diag io.Writer, logger *slog.Logger) error {
	var asm bytes.Buffer

	d := decoder.NewDecoder(source).WithLogger(logger)
	decodeErr := d.Decode(decoder.NewWriterSink(io.MultiWriter(out, &asm)))
	records := d.GetDecoded()

	if cfg.Debug {
		printer := pp.New()
		printer.SetOutput(diag)
		printer.SetColoringEnabled(false)
		for _, record := range records {
			printer.Println(record)
		}
	}

	if cfg.Listing {
		if err := listing.Render(diag, records); err != nil {
			return fmt.Errorf("failed to write the listing: %w", err)
		}
	}

	if decodeErr != nil {
		if len(records) > 0 {
			logger.Warn("partial output written", "instructions", len(records))
		}
		return decodeErr
	}

	if cfg.Verify.CrossCheck {
		mismatches := verify.CrossCheck(records)
		for _, m := range mismatches {
			logger.Error("reference decoder disagrees", "instruction", m.String())
		}
		if len(mismatches) > 0 {
			return fmt.Errorf("%d of %d instructions disagree with the reference decoder", len(mismatches), len(records))
		}
		logger.Info("cross-check passed", "instructions", len(records))
	}

	if cfg.Verify.Assembler != "" {
		if err := verify.RoundTrip(ctx, cfg.Verify.Assembler, asm.Bytes(), source); err != nil {
			return fmt.Errorf("round trip through %s failed: %w", cfg.Verify.Assembler, err)
		}
		logger.Info("round trip passed", "bytes", len(source))
	}

	return nil
}
