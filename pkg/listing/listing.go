// Package listing renders decoded instructions as a table next to their bytes.
package listing

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/doichev-kostia/computer-enhance/sim8086/pkg/decoder"
)

// Render writes one row per record: offset, raw bytes, encoding form and text.
func Render(w io.Writer, records []decoder.Decoded) error {
	t := table.NewWriter()
	t.SetTitle("Decoded instructions")
	t.AppendHeader(table.Row{"Offset", "Bytes", "Form", "Instruction"})

	size := 0
	for _, record := range records {
		t.AppendRow(table.Row{
			fmt.Sprintf("%04X", record.Offset),
			fmt.Sprintf("% X", record.Bytes),
			record.Form.String(),
			record.String(),
		})
		size += len(record.Bytes)
	}

	t.AppendFooter(table.Row{"", fmt.Sprintf("%d bytes", size), "", fmt.Sprintf("%d instructions", len(records))})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
