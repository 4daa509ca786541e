// Package iq reads and writes interleaved complex baseband sample files.
//
// Supported encodings are the raw formats produced by common SDR tools:
// little-endian float32 pairs (GNU Radio gr_complex), int16 pairs, int8 pairs
// and the offset-binary unsigned bytes of RTL-SDR dongles.
package iq

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Format identifies a sample encoding.
type Format int

const (
	// CF32 is interleaved little-endian float32 I/Q.
	CF32 Format = iota
	// CS16 is interleaved little-endian int16 I/Q, full scale 32768.
	CS16
	// CS8 is interleaved int8 I/Q, full scale 128.
	CS8
	// CU8 is interleaved offset-binary uint8 I/Q centred on 127.5.
	CU8
)

var (
	// ErrUnknownFormat is returned by ParseFormat for unrecognised names.
	ErrUnknownFormat = errors.New("iq: unknown sample format")
	// ErrShortSample is returned when a stream ends inside a sample.
	ErrShortSample = errors.New("iq: stream ends inside a sample")
)

var formatNames = map[Format]string{
	CF32: "cf32",
	CS16: "cs16",
	CS8:  "cs8",
	CU8:  "cu8",
}

// ParseFormat converts a name such as "cf32" or "cu8" to a Format.
// "fc32" and "gr_complex" are accepted as aliases for cf32.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cf32", "fc32", "gr_complex":
		return CF32, nil
	case "cs16", "sc16":
		return CS16, nil
	case "cs8", "sc8":
		return CS8, nil
	case "cu8", "uc8":
		return CU8, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// SampleSize returns the number of bytes per complex sample.
func (f Format) SampleSize() int {
	switch f {
	case CF32:
		return 8
	case CS16:
		return 4
	case CS8, CU8:
		return 2
	default:
		return 0
	}
}

func (f Format) decode(dst []complex128, src []byte) {
	switch f {
	case CF32:
		for i := range dst {
			b := src[8*i:]
			re := math.Float32frombits(binary.LittleEndian.Uint32(b))
			im := math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
			dst[i] = complex(float64(re), float64(im))
		}
	case CS16:
		for i := range dst {
			b := src[4*i:]
			re := int16(binary.LittleEndian.Uint16(b))
			im := int16(binary.LittleEndian.Uint16(b[2:]))
			dst[i] = complex(float64(re)/32768, float64(im)/32768)
		}
	case CS8:
		for i := range dst {
			dst[i] = complex(float64(int8(src[2*i]))/128, float64(int8(src[2*i+1]))/128)
		}
	case CU8:
		for i := range dst {
			dst[i] = complex((float64(src[2*i])-127.5)/127.5, (float64(src[2*i+1])-127.5)/127.5)
		}
	}
}

func (f Format) encode(dst []byte, src []complex128) {
	switch f {
	case CF32:
		for i, c := range src {
			b := dst[8*i:]
			binary.LittleEndian.PutUint32(b, math.Float32bits(float32(real(c))))
			binary.LittleEndian.PutUint32(b[4:], math.Float32bits(float32(imag(c))))
		}
	case CS16:
		for i, c := range src {
			b := dst[4*i:]
			binary.LittleEndian.PutUint16(b, uint16(quantize(real(c)*32768, math.MinInt16, math.MaxInt16)))
			binary.LittleEndian.PutUint16(b[2:], uint16(quantize(imag(c)*32768, math.MinInt16, math.MaxInt16)))
		}
	case CS8:
		for i, c := range src {
			dst[2*i] = byte(int8(quantize(real(c)*128, math.MinInt8, math.MaxInt8)))
			dst[2*i+1] = byte(int8(quantize(imag(c)*128, math.MinInt8, math.MaxInt8)))
		}
	case CU8:
		for i, c := range src {
			dst[2*i] = byte(quantize(real(c)*127.5+127.5, 0, math.MaxUint8))
			dst[2*i+1] = byte(quantize(imag(c)*127.5+127.5, 0, math.MaxUint8))
		}
	}
}

// quantize rounds v to the nearest integer in [lo, hi]. NaN maps to 0
// clamped into range.
func quantize(v float64, lo, hi int) int {
	if math.IsNaN(v) {
		v = 0
	}
	r := math.Round(v)
	if r < float64(lo) {
		return lo
	}
	if r > float64(hi) {
		return hi
	}
	return int(r)
}
