package decoder

import (
	"fmt"
	"io"
)

// LineSink receives the translated text one line at a time.
type LineSink interface {
	WriteLine(line string) error
}

type writerSink struct {
	w io.Writer
}

// NewWriterSink writes every line to w as soon as it is produced, followed by a newline.
func NewWriterSink(w io.Writer) LineSink {
	return writerSink{w: w}
}

func (s writerSink) WriteLine(line string) error {
	_, err := fmt.Fprintln(s.w, line)
	return err
}
