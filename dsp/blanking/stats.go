package blanking

// Stats counts decisions since construction or the last Reset.
type Stats struct {
	Segments   uint64 // segments processed
	Learning   uint64 // segments used to update the noise estimate
	Blanked    uint64 // segments replaced by zeros
	Resets     uint64 // re-openings of the learning window
	Degenerate uint64 // detecting segments skipped for lack of a usable estimate
	Samples    uint64 // samples consumed
}

func (s *Stats) record(d Decision) {
	s.Segments++
	if d.Phase == PhaseLearning {
		s.Learning++
	}
	if d.Action == Blank {
		s.Blanked++
	}
	if d.Reset {
		s.Resets++
	}
	if d.Degenerate {
		s.Degenerate++
	}
}

// Detecting returns the number of segments decided in the detecting phase.
func (s Stats) Detecting() uint64 {
	return s.Segments - s.Learning
}

// BlankingRate returns the fraction of detecting segments that were blanked,
// or 0 before any detection.
func (s Stats) BlankingRate() float64 {
	n := s.Detecting()
	if n == 0 {
		return 0
	}
	return float64(s.Blanked) / float64(n)
}
