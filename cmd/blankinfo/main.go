// Command blankinfo prints pulse blanking detection thresholds.
//
// Usage:
//
//	blankinfo [flags] [segment-length ...]
//
// Without arguments it prints a table for common segment lengths.
//
// Examples:
//
//	blankinfo 32
//	blankinfo -pfa 0.001,0.0001 64 1000
//	blankinfo -pfa 0.04 -margin
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-blanking/dsp/blanking"
	"github.com/cwbudde/algo-blanking/dsp/core"
)

var defaultLengths = []int{8, 16, 32, 64, 128, 256, 512, 1000, 1024}

func main() {
	pfaList := flag.String("pfa", "0.04", "comma-separated false-alarm probabilities")
	margin := flag.Bool("margin", false, "also print the threshold margin over the noise mean in dB")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: blankinfo [flags] [segment-length ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints chi-squared energy detection thresholds used by the pulse blanker.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  blankinfo 32\n")
		fmt.Fprintf(os.Stderr, "  blankinfo -pfa 0.001,0.0001 64 1000\n")
	}
	flag.Parse()

	pfas, err := parseFloats(*pfaList)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: -pfa: %v\n", err)
		os.Exit(2)
	}

	lengths := defaultLengths
	if flag.NArg() > 0 {
		lengths, err = parseInts(flag.Args())
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
	}

	if err := printThresholds(os.Stdout, lengths, pfas, *margin); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no values in %q", s)
	}
	return out, nil
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, 0, len(args))
	for _, a := range args {
		v, err := strconv.Atoi(strings.TrimSpace(a))
		if err != nil {
			return nil, fmt.Errorf("segment length %q: %w", a, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func printThresholds(w io.Writer, lengths []int, pfas []float64, margin bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := "Length\tDoF\tPFA\tThreshold\tThreshold/DoF"
	rule := "------\t---\t---\t---------\t-------------"
	if margin {
		header += "\tMargin [dB]"
		rule += "\t-----------"
	}
	if _, err := fmt.Fprintln(tw, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := fmt.Fprintln(tw, rule); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, length := range lengths {
		for _, pfa := range pfas {
			m, err := blanking.NewNoiseModel(pfa, length)
			if err != nil {
				return err
			}
			dof := float64(m.DegreesOfFreedom())
			row := fmt.Sprintf("%d\t%d\t%g\t%.4f\t%.6f", length, m.DegreesOfFreedom(), pfa,
				m.Threshold(), m.Threshold()/dof)
			if margin {
				row += fmt.Sprintf("\t%.3f", core.LinearPowerToDB(m.Threshold()/dof))
			}
			if _, err := fmt.Fprintln(tw, row); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
	}
	return tw.Flush()
}
