package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/segmentio/parquet-go"

	"github.com/cwbudde/algo-blanking/dsp/blanking"
)

const traceBatch = 4096

// traceRow is one segment decision in the parquet trace.
type traceRow struct {
	Segment      int64   `parquet:"segment"`
	Phase        string  `parquet:"phase,dict"`
	Action       string  `parquet:"action,dict"`
	Energy       float64 `parquet:"energy"`
	Statistic    float64 `parquet:"statistic"`
	NoisePower   float64 `parquet:"noise_power"`
	SegmentCount int64   `parquet:"segment_count"`
	Reset        bool    `parquet:"reset"`
	Degenerate   bool    `parquet:"degenerate"`
}

// traceWriter records every decision as a parquet row. It implements
// blanking.Observer; write errors are kept and reported by Close.
type traceWriter struct {
	w    *parquet.GenericWriter[traceRow]
	rows []traceRow
	err  error
}

func newTraceWriter(w io.Writer, cfg blanking.Config) (*traceWriter, error) {
	meta, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode trace metadata: %w", err)
	}
	return &traceWriter{
		w: parquet.NewGenericWriter[traceRow](w,
			parquet.KeyValueMetadata("blanking_config", string(meta)),
		),
		rows: make([]traceRow, 0, traceBatch),
	}, nil
}

func (t *traceWriter) ObserveSegment(index uint64, e float64, d blanking.Decision, s blanking.EstimatorState) {
	t.rows = append(t.rows, traceRow{
		Segment:      int64(index),
		Phase:        d.Phase.String(),
		Action:       d.Action.String(),
		Energy:       e,
		Statistic:    d.Statistic,
		NoisePower:   s.NoisePower,
		SegmentCount: int64(s.SegmentCount),
		Reset:        d.Reset,
		Degenerate:   d.Degenerate,
	})
	if len(t.rows) >= traceBatch {
		t.flush()
	}
}

func (t *traceWriter) flush() {
	if len(t.rows) == 0 || t.err != nil {
		t.rows = t.rows[:0]
		return
	}
	if _, err := t.w.Write(t.rows); err != nil {
		t.err = fmt.Errorf("write trace: %w", err)
	}
	t.rows = t.rows[:0]
}

// Close flushes buffered rows and the parquet footer.
func (t *traceWriter) Close() error {
	t.flush()
	if err := t.w.Close(); err != nil && t.err == nil {
		t.err = fmt.Errorf("close trace: %w", err)
	}
	return t.err
}
