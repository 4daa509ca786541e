package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-blanking/dsp/blanking"
	"github.com/cwbudde/algo-blanking/dsp/iq"
)

const (
	defaultChunk   = 1 << 16
	defaultFFTSize = 1024
)

// fileConfig mirrors the YAML configuration file. Pointer fields distinguish
// "absent" from zero.
type fileConfig struct {
	PFA           *float64 `yaml:"pfa"`
	SegmentLength *int     `yaml:"segment_length"`
	SegmentsEst   *int     `yaml:"segments_est"`
	SegmentsReset *int     `yaml:"segments_reset"`
	Format        string   `yaml:"format"`
	Chunk         int      `yaml:"chunk"`
	FFTSize       int      `yaml:"fft_size"`
}

// options is the fully resolved command configuration.
type options struct {
	In          string
	Out         string
	Filter      blanking.Config
	Format      iq.Format
	Chunk       int
	Trace       string
	MetricsAddr string
	Report      bool
	FFTSize     int
	Verbose     bool
}

func loadFileConfig(r io.Reader) (fileConfig, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fileConfig{}, fmt.Errorf("decode config: %w", err)
	}
	return fc, nil
}

func (fc fileConfig) apply(o *options) error {
	if fc.PFA != nil {
		o.Filter.PFA = *fc.PFA
	}
	if fc.SegmentLength != nil {
		o.Filter.SegmentLength = *fc.SegmentLength
	}
	if fc.SegmentsEst != nil {
		o.Filter.SegmentsEst = *fc.SegmentsEst
	}
	if fc.SegmentsReset != nil {
		o.Filter.SegmentsReset = *fc.SegmentsReset
	}
	if fc.Format != "" {
		f, err := iq.ParseFormat(fc.Format)
		if err != nil {
			return err
		}
		o.Format = f
	}
	if fc.Chunk != 0 {
		o.Chunk = fc.Chunk
	}
	if fc.FFTSize != 0 {
		o.FFTSize = fc.FFTSize
	}
	return nil
}

// parseOptions resolves defaults, then the optional -config file, then any
// flags given explicitly on the command line.
func parseOptions(fs *flag.FlagSet, args []string) (options, error) {
	def := blanking.DefaultConfig()

	in := fs.String("in", "-", "input sample file (- for stdin)")
	out := fs.String("out", "-", "output sample file (- for stdout)")
	format := fs.String("format", "cf32", "sample format: cf32, cs16, cs8, cu8")
	configPath := fs.String("config", "", "YAML configuration file")
	pfa := fs.Float64("pfa", def.PFA, "probability of false alarm per segment")
	length := fs.Int("length", def.SegmentLength, "samples per segment")
	est := fs.Int("est", def.SegmentsEst, "segments in the noise learning window")
	reset := fs.Int("reset", def.SegmentsReset, "segments before the learning window re-opens")
	chunk := fs.Int("chunk", defaultChunk, "samples read per iteration")
	trace := fs.String("trace", "", "write per-segment decisions to this parquet file")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address while running")
	report := fs.Bool("report", false, "print a suppression report when done (buffers the whole stream)")
	fftSize := fs.Int("fft", defaultFFTSize, "FFT size for the suppression report")
	verbose := fs.Bool("v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	o := options{
		Filter:  def,
		Format:  iq.CF32,
		Chunk:   defaultChunk,
		FFTSize: defaultFFTSize,
	}

	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			return options{}, err
		}
		fc, err := loadFileConfig(f)
		_ = f.Close()
		if err != nil {
			return options{}, fmt.Errorf("%s: %w", *configPath, err)
		}
		if err := fc.apply(&o); err != nil {
			return options{}, fmt.Errorf("%s: %w", *configPath, err)
		}
	}

	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			v, err := iq.ParseFormat(*format)
			if err != nil {
				flagErr = err
			}
			o.Format = v
		case "pfa":
			o.Filter.PFA = *pfa
		case "length":
			o.Filter.SegmentLength = *length
		case "est":
			o.Filter.SegmentsEst = *est
		case "reset":
			o.Filter.SegmentsReset = *reset
		case "chunk":
			o.Chunk = *chunk
		case "fft":
			o.FFTSize = *fftSize
		}
	})
	if flagErr != nil {
		return options{}, flagErr
	}

	o.In = *in
	o.Out = *out
	o.Trace = *trace
	o.MetricsAddr = *metricsAddr
	o.Report = *report
	o.Verbose = *verbose

	if o.Chunk <= 0 {
		return options{}, fmt.Errorf("chunk must be > 0: %d", o.Chunk)
	}
	if err := o.Filter.Validate(); err != nil {
		return options{}, err
	}
	return o, nil
}
