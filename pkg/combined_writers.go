package pkg

import (
	"io"

	"go.uber.org/multierr"
)

var _ io.Writer = (*CombinedWriter)(nil)

// CombinedWriter fans out every write to all of its writers.
// A failing writer does not stop the others; all failures are returned combined.
type CombinedWriter struct {
	writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	cw := &CombinedWriter{}
	for _, w := range writers {
		if w != nil {
			cw.writers = append(cw.writers, w)
		}
	}
	return cw
}

func (cw *CombinedWriter) Len() int {
	return len(cw.writers)
}

// Write returns the number of bytes written by the first successful writer,
// so that the log package does not treat partial fan-out as a short write.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var (
		errs    error
		written = -1
	)
	for _, w := range cw.writers {
		n, err := w.Write(p)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if written < 0 {
			written = n
		}
	}
	if written < 0 {
		written = 0
	}
	return written, errs
}
