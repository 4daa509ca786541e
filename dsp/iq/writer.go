package iq

import (
	"fmt"
	"io"
)

// Writer encodes complex samples to an io.Writer. Integer formats round to
// the nearest code and saturate at full scale.
type Writer struct {
	w      io.Writer
	format Format
	buf    []byte
}

// NewWriter returns a Writer encoding f to w.
func NewWriter(w io.Writer, f Format) *Writer {
	return &Writer{w: w, format: f}
}

// Write encodes all of src.
func (w *Writer) Write(src []complex128) error {
	size := w.format.SampleSize()
	if size == 0 {
		return fmt.Errorf("%w: %v", ErrUnknownFormat, w.format)
	}
	need := len(src) * size
	if cap(w.buf) < need {
		w.buf = make([]byte, need)
	}
	w.buf = w.buf[:need]
	w.format.encode(w.buf, src)

	_, err := w.w.Write(w.buf)
	return err
}
