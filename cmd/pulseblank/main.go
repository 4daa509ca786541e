// Command pulseblank removes pulsed interference from a complex baseband
// sample file.
//
// Usage:
//
//	pulseblank [flags]
//
// Samples are read from -in, blanked segment by segment and written to -out
// in the same format. The last one or two segments of the input are held
// back as lookahead and do not appear in the output.
//
// Examples:
//
//	pulseblank -in capture.cf32 -out clean.cf32
//	pulseblank -format cu8 -pfa 0.001 -length 64 < rtl.bin > clean.bin
//	pulseblank -config blank.yaml -trace decisions.parquet -report -in capture.cf32 -out clean.cf32
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-blanking/dsp/blanking"
	"github.com/cwbudde/algo-blanking/dsp/blanking/metrics"
	"github.com/cwbudde/algo-blanking/measure/suppression"
)

func main() {
	fs := flag.NewFlagSet("pulseblank", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pulseblank [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Blanks pulsed interference in complex baseband samples.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pulseblank -in capture.cf32 -out clean.cf32\n")
		fmt.Fprintf(os.Stderr, "  pulseblank -format cu8 -pfa 0.001 -length 64 < rtl.bin > clean.bin\n")
	}

	opts, err := parseOptions(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	logger, err := newLogger(opts.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		logger.Error("pulseblank failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(ctx context.Context, opts options, logger *zap.Logger) (err error) {
	if verr := opts.Filter.Validate(); verr != nil {
		return verr
	}

	in, closeIn, err := openInput(opts.In)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(opts.Out)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	filterOpts := []blanking.Option{blanking.WithLogger(logger)}

	var trace *traceWriter
	if opts.Trace != "" {
		tf, terr := os.Create(opts.Trace)
		if terr != nil {
			return terr
		}
		trace, terr = newTraceWriter(tf, opts.Filter)
		if terr != nil {
			_ = tf.Close()
			return terr
		}
		filterOpts = append(filterOpts, blanking.WithObserver(trace))
		defer func() {
			if cerr := trace.Close(); cerr != nil && err == nil {
				err = cerr
			}
			if cerr := tf.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
	}

	f, err := blanking.NewFromConfig(opts.Filter, filterOpts...)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	if opts.MetricsAddr != "" {
		srv := metricsServer(opts.MetricsAddr, metrics.Locked(&mu, f), opts.In)
		go func() {
			if serr := srv.ListenAndServe(); serr != nil && !errors.Is(serr, http.ErrServerClosed) {
				logger.Error("metrics server", zap.Error(serr))
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
		logger.Info("serving metrics", zap.String("addr", opts.MetricsAddr))
	}

	start := time.Now()
	res, err := stream(ctx, in, out, f, &mu, opts.Format, opts.Chunk, opts.Report, logger)
	if err != nil {
		return err
	}

	mu.Lock()
	st := f.Stats()
	mu.Unlock()
	logger.Info("done",
		zap.Int("read", res.Read),
		zap.Int("written", res.Written),
		zap.Uint64("segments", st.Segments),
		zap.Uint64("blanked", st.Blanked),
		zap.Uint64("resets", st.Resets),
		zap.Float64("blanking_rate", st.BlankingRate()),
		zap.Duration("elapsed", time.Since(start)),
	)

	if opts.Report {
		rep, rerr := suppression.Measure(res.In, res.Out, suppression.Config{FFTSize: opts.FFTSize})
		if rerr != nil {
			return fmt.Errorf("report: %w", rerr)
		}
		return printReport(os.Stderr, rep)
	}
	return nil
}

func metricsServer(addr string, src metrics.Source, input string) *http.Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(metrics.NewCollector(src, prometheus.Labels{"input": input}))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func printReport(w io.Writer, r suppression.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Samples\t%d\n", r.Samples)
	fmt.Fprintf(tw, "Blanked\t%d (%.2f%%)\n", r.BlankedSamples, 100*r.BlankedFraction)
	fmt.Fprintf(tw, "Power in/out [dB]\t%.2f / %.2f\n", r.InputPower_dB, r.OutputPower_dB)
	fmt.Fprintf(tw, "Peak frequency [cycles/sample]\t%+.5f\n", r.PeakFreq)
	fmt.Fprintf(tw, "Peak in/out [dB]\t%.2f / %.2f\n", r.InputPeak_dB, r.OutputPeak_dB)
	fmt.Fprintf(tw, "Peak reduction [dB]\t%.2f\n", r.PeakReduction)
	fmt.Fprintf(tw, "Frames\t%d\n", r.Frames)
	return tw.Flush()
}
