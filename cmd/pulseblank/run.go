package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-blanking/dsp/blanking"
	"github.com/cwbudde/algo-blanking/dsp/iq"
)

// result summarises one pass over a stream.
type result struct {
	Read    int // samples decoded from the input
	Written int // samples written to the output
	Dropped int // unconsumed tail discarded at end of input

	// In and Out hold the consumed input and the filter output when the
	// stream is captured for a suppression report.
	In, Out []complex128
}

// stream moves samples from r through f into w. The filter is only touched
// while mu is held so that a metrics scrape can read it concurrently.
//
// At end of input the filter still holds back up to two segments it needs
// as lookahead. Those samples are dropped and logged.
func stream(ctx context.Context, r io.Reader, w io.Writer, f *blanking.Filter, mu sync.Locker,
	format iq.Format, chunk int, capture bool, logger *zap.Logger,
) (result, error) {
	rd := iq.NewReader(r, format)
	wr := iq.NewWriter(w, format)

	buf := make([]complex128, chunk)
	pending := make([]complex128, 0, chunk+2*f.SegmentLength())
	var out []complex128

	var res result
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		n, rerr := rd.Read(buf)
		res.Read += n
		pending = append(pending, buf[:n]...)

		if cap(out) < len(pending) {
			out = make([]complex128, len(pending), cap(pending))
		}
		out = out[:len(pending)]

		mu.Lock()
		consumed := f.Process(out, pending)
		mu.Unlock()

		if consumed > 0 {
			if err := wr.Write(out[:consumed]); err != nil {
				return res, fmt.Errorf("write output: %w", err)
			}
			res.Written += consumed
			if capture {
				res.In = append(res.In, pending[:consumed]...)
				res.Out = append(res.Out, out[:consumed]...)
			}
			pending = append(pending[:0], pending[consumed:]...)
		}

		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return res, fmt.Errorf("read input: %w", rerr)
		}
	}

	res.Dropped = len(pending)
	if res.Dropped > 0 {
		logger.Info("dropped unconsumed tail",
			zap.Int("samples", res.Dropped),
			zap.Int("segment_length", f.SegmentLength()),
		)
	}
	return res, nil
}
