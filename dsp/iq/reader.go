package iq

import (
	"errors"
	"fmt"
	"io"
)

// Reader decodes complex samples from an io.Reader.
type Reader struct {
	r      io.Reader
	format Format
	buf    []byte
	// partial holds bytes of an incomplete sample carried between reads.
	partial int
}

// NewReader returns a Reader decoding f from r.
func NewReader(r io.Reader, f Format) *Reader {
	return &Reader{r: r, format: f}
}

// Format returns the sample encoding.
func (r *Reader) Format() Format { return r.format }

// Read decodes up to len(dst) samples into dst. It returns io.EOF once the
// stream is exhausted on a sample boundary and ErrShortSample if it ends
// inside a sample.
func (r *Reader) Read(dst []complex128) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	size := r.format.SampleSize()
	if size == 0 {
		return 0, fmt.Errorf("%w: %v", ErrUnknownFormat, r.format)
	}

	need := len(dst) * size
	if cap(r.buf) < need {
		grown := make([]byte, need)
		copy(grown, r.buf[:r.partial])
		r.buf = grown
	}
	r.buf = r.buf[:need]

	n, err := io.ReadAtLeast(r.r, r.buf[r.partial:], size-r.partial)
	total := r.partial + n
	samples := total / size
	r.format.decode(dst[:samples], r.buf[:samples*size])

	r.partial = copy(r.buf, r.buf[samples*size:total])

	switch {
	case errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF):
		if samples > 0 {
			return samples, nil
		}
		if r.partial > 0 {
			return 0, ErrShortSample
		}
		return 0, io.EOF
	case err != nil:
		return samples, err
	}
	return samples, nil
}

// ReadAll decodes every sample in r.
func ReadAll(r io.Reader, f Format) ([]complex128, error) {
	rd := NewReader(r, f)
	var out []complex128
	chunk := make([]complex128, 4096)
	for {
		n, err := rd.Read(chunk)
		out = append(out, chunk[:n]...)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
}
